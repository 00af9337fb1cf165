// Package presets embeds the built-in language preset tables for
// compile-time inclusion. Each YAML file defines one preset: the file
// extensions it claims, optional block role remapping and detector tables,
// and a list of option applications over the engine defaults.
//
// Usage:
//
//	config.LoadPresets(presets.FS, "v1")
package presets

import "embed"

//go:embed v1/*.yaml
var FS embed.FS
