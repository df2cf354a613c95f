// Package config loads, normalizes, and validates lightdance configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, loads an optional .env file, and honours
// environment fallbacks such as LIGHTDANCE_VARIANT. The Config type names the
// three input documents, the two artifacts, the output variant and the merge
// policies in one place.
//
// Always obtain settings through this package so the CLI and the converter
// receive absolute paths, canonical policy names and clear validation errors.
package config
