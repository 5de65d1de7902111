// Package config loads, normalizes, and validates synopsis configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// PLEX_URL, PLEX_TOKEN, and TMDB_API_KEY. The Config type centralizes every
// knob the sync run needs, so credentials, worker counts, and output
// destinations are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
