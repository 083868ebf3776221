// Package config loads and persists castfetch settings.
//
// Settings live in an optional YAML file; a missing file yields the
// defaults and fields absent from the file keep their default values,
// so a settings file only needs the fields it changes. CLI flags are
// merged on top by the commands, file values never override an
// explicitly set flag.
package config
