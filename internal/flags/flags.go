// Package flags provides feature flags read from the flags section of the
// config file. Flags are read-only after initialization.
package flags

import (
	"maps"
	"slices"

	"github.com/zjrosen/thingdock/internal/log"
)

const (
	// FlagPropertyGridFollow retargets the property grid whenever a browser
	// panel's selection changes.
	FlagPropertyGridFollow = "property-grid-follow"

	// FlagNestedInspect lets thing dialogs open a nested inspect dialog for
	// their container.
	FlagNestedInspect = "nested-inspect"

	// FlagWatchDB reloads views when the database file changes on disk.
	FlagWatchDB = "watch-db"
)

var defaults = map[string]bool{
	FlagPropertyGridFollow: false,
	FlagNestedInspect:      true,
	FlagWatchDB:            true,
}

// Registry holds the configured flag values.
type Registry struct {
	flags map[string]bool
}

// New creates a Registry from a config map. Flags missing from configured
// keep their defaults.
func New(configured map[string]bool) *Registry {
	r := &Registry{flags: maps.Clone(defaults)}
	maps.Copy(r.flags, configured)
	for name := range configured {
		if _, known := defaults[name]; !known {
			log.Warn(log.CatConfig, "Unknown feature flag in config", "flag", name)
		}
	}
	log.Debug(log.CatConfig, "Feature flags initialized", "flags", r.All())
	return r
}

// Enabled reports whether name is on. Unknown flags and a nil registry
// report false.
func (r *Registry) Enabled(name string) bool {
	if r == nil {
		return false
	}
	return r.flags[name]
}

// All returns a copy of every flag value.
func (r *Registry) All() map[string]bool {
	if r == nil {
		return map[string]bool{}
	}
	return maps.Clone(r.flags)
}

// Known returns the names of the flags thingdock understands, sorted.
func Known() []string {
	return slices.Sorted(maps.Keys(defaults))
}

// Default returns the built-in value of name. Unknown flags are off.
func Default(name string) bool {
	return defaults[name]
}
