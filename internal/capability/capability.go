package capability

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"nvcheck/internal/version"
)

// Requirement names a feature and the minimum driver or API version that
// unlocks it. It is a value created from caller input and never mutated.
type Requirement struct {
	Feature string
	Minimum version.Version
}

// Status is the tri-state outcome of a capability check.
type Status int

const (
	// StatusUndetermined means the installed version could not be established.
	// This is not the same as failing the check.
	StatusUndetermined Status = iota
	// StatusSatisfied means the detected version meets or exceeds the minimum.
	StatusSatisfied
	// StatusInsufficient means a version was detected but falls short.
	StatusInsufficient
)

// String returns the lowercase label used in CLI output and the history store.
func (s Status) String() string {
	switch s {
	case StatusSatisfied:
		return "satisfied"
	case StatusInsufficient:
		return "insufficient"
	default:
		return "undetermined"
	}
}

// ParseStatus converts a stored label back into a Status.
func ParseStatus(raw string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "satisfied":
		return StatusSatisfied, nil
	case "insufficient":
		return StatusInsufficient, nil
	case "undetermined":
		return StatusUndetermined, nil
	}
	return StatusUndetermined, fmt.Errorf("unknown status %q", raw)
}

// Cause classifies why a check came back undetermined.
type Cause int

const (
	// CauseNone applies to satisfied and insufficient results.
	CauseNone Cause = iota
	// CauseQueryUnavailable means no query mechanism could run at all
	// (binary missing, procfs not mounted, unsupported platform).
	CauseQueryUnavailable
	// CauseQueryDenied means the query mechanism exists but refused access.
	CauseQueryDenied
	// CauseNoDriverPresent means the query ran and positively established
	// that no driver is installed.
	CauseNoDriverPresent
	// CauseMalformedVersion means the query produced output that does not
	// parse as a version.
	CauseMalformedVersion
)

func (c Cause) String() string {
	switch c {
	case CauseQueryUnavailable:
		return "query_unavailable"
	case CauseQueryDenied:
		return "query_denied"
	case CauseNoDriverPresent:
		return "no_driver_present"
	case CauseMalformedVersion:
		return "malformed_version"
	default:
		return "none"
	}
}

// ParseCause converts a stored label back into a Cause.
func ParseCause(raw string) (Cause, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "none":
		return CauseNone, nil
	case "query_unavailable":
		return CauseQueryUnavailable, nil
	case "query_denied":
		return CauseQueryDenied, nil
	case "no_driver_present":
		return CauseNoDriverPresent, nil
	case "malformed_version":
		return CauseMalformedVersion, nil
	}
	return CauseNone, fmt.Errorf("unknown cause %q", raw)
}

// Result reports the outcome of a single check. Detected is nil when the
// installed version could not be established. A Result is built once per
// call and not mutated afterwards.
type Result struct {
	Requirement Requirement
	Status      Status
	Detected    *version.Version
	Gap         version.Version
	Cause       Cause
	Detail      string
}

// Satisfied reports whether the check passed outright.
func (r Result) Satisfied() bool {
	return r.Status == StatusSatisfied
}

// VersionSource supplies the installed driver or API version. Implementations
// must classify environment failures by returning an error that matches
// ClassifyError; they must not panic for "not installed".
type VersionSource interface {
	// Name identifies the source in diagnostics ("nvidia-smi", "procfs").
	Name() string
	// Query returns the installed version, or a classified error when the
	// version cannot be established.
	Query(ctx context.Context) (version.Version, error)
}

// ErrInvalidRequirement flags a programmer error: a requirement with no
// minimum version. It is returned from Check instead of an environmental
// undetermined result.
var ErrInvalidRequirement = errors.New("capability: requirement has no minimum version")

// Checker evaluates requirements against a VersionSource. It holds no
// mutable state and is safe for concurrent use.
type Checker struct {
	source VersionSource
}

// NewChecker builds a Checker over the given source.
func NewChecker(source VersionSource) *Checker {
	return &Checker{source: source}
}

// Check queries the source exactly once and compares the detected version
// against the requirement. Environment failures are absorbed into an
// undetermined Result; the error return is reserved for invalid input.
func (c *Checker) Check(ctx context.Context, req Requirement) (Result, error) {
	if req.Minimum.IsZero() {
		return Result{}, ErrInvalidRequirement
	}
	if c == nil || c.source == nil {
		return Result{
			Requirement: req,
			Status:      StatusUndetermined,
			Cause:       CauseQueryUnavailable,
			Detail:      "no version source configured",
		}, nil
	}

	detected, err := c.source.Query(ctx)
	if err != nil {
		return Result{
			Requirement: req,
			Status:      StatusUndetermined,
			Cause:       ClassifyError(err),
			Detail:      fmt.Sprintf("%s: %v", c.source.Name(), err),
		}, nil
	}

	if detected.AtLeast(req.Minimum) {
		return Result{
			Requirement: req,
			Status:      StatusSatisfied,
			Detected:    &detected,
			Detail:      fmt.Sprintf("installed %s satisfies minimum %s", detected, req.Minimum),
		}, nil
	}

	gap := version.Gap(req.Minimum, detected)
	return Result{
		Requirement: req,
		Status:      StatusInsufficient,
		Detected:    &detected,
		Gap:         gap,
		Detail:      fmt.Sprintf("installed %s is below minimum %s (short by %s)", detected, req.Minimum, gap),
	}, nil
}
