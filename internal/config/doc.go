// Package config loads, normalizes, and validates kitcrate configuration.
//
// Configuration lives in a TOML file with one table per subsystem. Load
// applies repository defaults first, then overlays the file when present,
// expands ~ in path fields, and validates the result so downstream packages
// can assume a usable configuration.
package config
