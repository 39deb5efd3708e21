// Package config loads, normalizes, and validates narrasync configuration.
//
// Configuration lives in TOML at ~/.config/narrasync/config.toml, falling back
// to ./narrasync.toml. Load applies repository defaults, expands tilde paths,
// honours NARRASYNC_VOICE, and rejects segmentation parameters the chunker
// cannot use. CreateSample writes the embedded sample for `narrasync config init`.
package config
