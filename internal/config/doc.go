// Package config holds the application configuration.
//
// Configuration is loaded from a TOML file and normalized rather than
// rejected: out-of-range values are clamped and missing values fall back to
// defaults, so a half-written config file still yields a runnable app.
//
// A Registry wraps the live configuration behind a mutex and notifies
// subscribed observers on every update. It also serves parsed shortcut
// bindings, re-reading the current descriptors on each call so the key
// listener always sees the latest configuration.
package config
