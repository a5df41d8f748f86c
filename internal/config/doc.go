// Package config loads, normalizes, and validates mediasort configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the MEDIASORT_EXIFTOOL environment
// override. The Config type centralizes the per-profile directories (pictures,
// videos), the tagging tool settings, and the row-failure policy so the CLI
// and the row pipeline discover them in one pass.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, normalized extensions, and clear validation errors.
package config
