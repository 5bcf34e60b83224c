// Package capability decides whether the installed GPU driver satisfies a
// version requirement.
//
// The checker is deliberately small: a Requirement (feature name plus minimum
// version) goes in, a Result comes out. Environment failures -- no driver,
// no query tooling, permission problems, garbage output -- are absorbed into
// an undetermined Result carrying a Cause, never raised as faults. The only
// error Check can return is ErrInvalidRequirement for a zero-value minimum,
// which is a bug in the caller rather than a property of the machine.
//
// The installed version arrives through the VersionSource interface so tests
// and embedders can substitute their own query mechanism; package driver
// provides the real ones.
package capability
