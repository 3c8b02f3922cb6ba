// Package config loads, normalizes, and validates shelf configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts),
// reads TOML files, and honours the SHELF_DATA_DIR environment override.
// Downstream code receives absolute paths and thumbnail options that have
// already been checked.
package config
