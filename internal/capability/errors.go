package capability

import "errors"

// CauseClassifier allows query errors to declare their failure class.
// driver.QueryError implements this; sources built outside this module can
// do the same to influence how their failures surface in results.
type CauseClassifier interface {
	// CauseKind returns one of "query_unavailable", "query_denied",
	// "no_driver_present", or "malformed_version".
	CauseKind() string
}

// ClassifyError maps a source error to the undetermined-cause taxonomy.
// Errors that do not classify themselves default to CauseQueryUnavailable,
// the broadest "could not complete the query" bucket.
func ClassifyError(err error) Cause {
	var classifier CauseClassifier
	if errors.As(err, &classifier) {
		switch classifier.CauseKind() {
		case "query_denied":
			return CauseQueryDenied
		case "no_driver_present":
			return CauseNoDriverPresent
		case "malformed_version":
			return CauseMalformedVersion
		}
	}
	return CauseQueryUnavailable
}
