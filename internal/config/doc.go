// Package config loads, normalizes, and validates StreamScribe's TOML
// configuration. Defaults live in defaults.go; path expansion and zero-value
// filling happen in normalize.go before Validate runs.
package config
