// Package config loads, normalizes, and validates sessionscribe
// configuration from TOML with documented defaults.
package config
