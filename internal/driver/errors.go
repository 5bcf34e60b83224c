package driver

import "fmt"

// Kind classifies a query failure. The values match the
// capability.CauseClassifier contract.
type Kind string

const (
	KindQueryUnavailable Kind = "query_unavailable"
	KindQueryDenied      Kind = "query_denied"
	KindNoDriverPresent  Kind = "no_driver_present"
	KindMalformedVersion Kind = "malformed_version"
)

// QueryError wraps a source failure with its classification so the checker
// can map it onto the undetermined-cause taxonomy.
type QueryError struct {
	Kind   Kind
	Source string
	Msg    string
	Err    error
}

func (e *QueryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Source, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Msg)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// CauseKind implements capability.CauseClassifier.
func (e *QueryError) CauseKind() string {
	return string(e.Kind)
}

func newQueryError(kind Kind, source, msg string, err error) *QueryError {
	return &QueryError{Kind: kind, Source: source, Msg: msg, Err: err}
}
