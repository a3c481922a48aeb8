// Package config loads, validates, and defaults loom's TOML configuration.
//
// Configuration lives at ~/.config/loom/config.toml by default, with a
// project-local loom.toml honored when present. All path fields are expanded
// (~ resolution) and normalized before the config is handed to the rest of
// the application.
package config
