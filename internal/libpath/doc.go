// Package libpath resolves candidate NVIDIA library directories as explicit
// data instead of import-time environment mutation.
//
// Resolve is a pure function of an Env snapshot plus configured extras; the
// embedding application calls it once at startup, then uses Locate,
// VerifyPreload, and SearchPath to decide what to do with the result.
package libpath
