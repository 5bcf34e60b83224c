// Package config loads, normalizes, and validates nvcheck's TOML
// configuration.
//
// Load resolves the file (explicit flag, ~/.config/nvcheck/config.toml, or a
// project-local nvcheck.toml), decodes it over the defaults, expands ~ in
// every path field, and rejects configurations whose requirement minimums do
// not parse as versions. Missing files are not an error; defaults apply.
package config
