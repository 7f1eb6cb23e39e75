// Package catalog assembles the navigation registry from the compiled-in view
// providers, optionally narrowed by a YAML manifest.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/thingdock/internal/log"
	"github.com/zjrosen/thingdock/internal/navigation"
	"github.com/zjrosen/thingdock/internal/views/browser"
	"github.com/zjrosen/thingdock/internal/views/confirm"
	"github.com/zjrosen/thingdock/internal/views/details"
	"github.com/zjrosen/thingdock/internal/views/editor"
	"github.com/zjrosen/thingdock/internal/views/propertygrid"
	"github.com/zjrosen/thingdock/internal/views/thingdialog"
	"github.com/zjrosen/thingdock/internal/views/viewkit"
)

// AliasProvider is the provider key recorded on alias descriptors.
const AliasProvider = "alias"

// Required providers cannot be disabled.
var Required = []string{"confirm"}

// Manifest selects which providers load.
type Manifest struct {
	// Disabled lists provider keys to skip.
	Disabled []string `yaml:"disabled"`
	// Aliases registers extra names for name-keyed descriptors, alias to
	// registered name.
	Aliases map[string]string `yaml:"aliases"`
}

// Load reads a manifest. An empty path yields the empty manifest.
func Load(path string) (Manifest, error) {
	var m Manifest
	if path == "" {
		return m, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("reading catalog manifest: %w", err)
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("parsing catalog manifest %s: %w", path, err)
	}
	return m, nil
}

// Providers returns every compiled-in provider in registration order.
func Providers(env viewkit.Env) []navigation.Provider {
	return []navigation.Provider{
		confirm.Provider(env),
		thingdialog.Provider(env),
		details.Provider(env),
		browser.Provider(env),
		propertygrid.Provider(env),
		editor.Provider(env),
	}
}

// Keys lists the compiled-in provider keys.
func Keys() []string {
	var keys []string
	for _, p := range Providers(viewkit.Env{}) {
		keys = append(keys, p.Key)
	}
	return keys
}

// Build registers the providers m leaves enabled, then m's aliases.
func Build(env viewkit.Env, m Manifest) (*navigation.Registry, error) {
	all := Providers(env)
	known := make(map[string]bool, len(all))
	for _, p := range all {
		known[p.Key] = true
	}
	for _, key := range m.Disabled {
		if !known[key] {
			return nil, fmt.Errorf("catalog: unknown provider %q", key)
		}
		if slices.Contains(Required, key) {
			return nil, fmt.Errorf("catalog: provider %q is required", key)
		}
	}

	enabled := make([]navigation.Provider, 0, len(all))
	for _, p := range all {
		if slices.Contains(m.Disabled, p.Key) {
			log.Info(log.CatRegistry, "provider disabled", "provider", p.Key)
			continue
		}
		enabled = append(enabled, p)
	}

	reg, err := navigation.NewRegistry(enabled...)
	if err != nil {
		return nil, err
	}
	if err := registerAliases(reg, m.Aliases); err != nil {
		return nil, err
	}
	return reg, nil
}

func registerAliases(reg *navigation.Registry, aliases map[string]string) error {
	names := make([]string, 0, len(aliases))
	for alias := range aliases {
		names = append(names, alias)
	}
	sort.Strings(names)

	for _, alias := range names {
		target := aliases[alias]
		desc, err := reg.Resolve(navigation.ForName(target))
		if err != nil {
			if errors.Is(err, navigation.ErrUnregistered) {
				return fmt.Errorf("catalog: alias %q targets unknown name %q", alias, target)
			}
			return err
		}
		desc.Name = alias
		desc.Provider = AliasProvider
		if err := reg.Register(navigation.ForName(alias), desc); err != nil {
			return fmt.Errorf("catalog: alias %q: %w", alias, err)
		}
	}
	return nil
}
