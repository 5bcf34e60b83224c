// Package preflight provides readiness checks for the environment nvcheck
// inspects and writes to.
//
// These checks run in two contexts:
//   - The CLI "nvcheck status" command renders every check for a human.
//   - "nvcheck watch" runs them once at startup so a misconfigured host is
//     reported before the monitor starts waiting for events.
//
// Each check returns a Result value; nothing here panics or exits.
package preflight
