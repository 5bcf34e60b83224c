// Package history persists check outcomes in a SQLite journal so operators
// can see when a host last satisfied its requirements and when it stopped.
//
// The store is opened per CLI invocation; a lock file next to the database
// keeps concurrent invocations from interleaving writes. Retention is
// enforced by Prune, which the CLI calls with the configured window.
package history
