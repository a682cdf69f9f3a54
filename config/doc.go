// Package config loads engine settings for statebind hosts.
//
// Settings cover the small configuration surface the binding engine exposes
// (async dispatch resolution and reload behavior) and can be read from TOML,
// YAML, or JSON files. Watch provides live reload: the settings file is
// monitored and a debounced callback receives each newly parsed Settings,
// letting the host flip the async flag or re-provide a store without a
// restart.
package config
