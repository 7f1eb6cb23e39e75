package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/thingdock/internal/navigation"
	"github.com/zjrosen/thingdock/internal/thing"
	"github.com/zjrosen/thingdock/internal/views/browser"
	"github.com/zjrosen/thingdock/internal/views/editor"
	"github.com/zjrosen/thingdock/internal/views/viewkit"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestBuild_EverythingByDefault(t *testing.T) {
	reg, err := Build(viewkit.Env{}, Manifest{})
	require.NoError(t, err)

	for _, k := range thing.AllKinds() {
		require.True(t, reg.Has(navigation.ForKind(k)), k.String())
	}
	for _, name := range []string{
		navigation.ConfirmationName,
		navigation.PropertyGridName,
		browser.Elements.Name,
		browser.Requirements.Name,
		editor.Name,
	} {
		require.True(t, reg.Has(navigation.ForName(name)), name)
	}
}

// Every logic a descriptor builds must find its surface by naming
// convention, or Bind would fail for it.
func TestBuild_EveryLogicHasConventionSurface(t *testing.T) {
	reg, err := Build(viewkit.Env{}, Manifest{})
	require.NoError(t, err)
	for _, d := range reg.List() {
		if d.LogicIdentity == "" {
			continue
		}
		identity, err := navigation.ResolveSurfaceIdentity(d.LogicIdentity)
		require.NoError(t, err, d.LogicIdentity)
		require.Equal(t, d.SurfaceIdentity, identity)
		require.True(t, reg.Has(navigation.ForSurface(identity)), identity)
	}
}

func TestBuild_Disabled(t *testing.T) {
	reg, err := Build(viewkit.Env{}, Manifest{Disabled: []string{"editor", "browser"}})
	require.NoError(t, err)
	require.False(t, reg.Has(navigation.ForName(editor.Name)))
	require.False(t, reg.Has(navigation.ForName(browser.Elements.Name)))
	require.True(t, reg.Has(navigation.ForName(navigation.PropertyGridName)))
}

func TestBuild_RejectsUnknownAndRequired(t *testing.T) {
	_, err := Build(viewkit.Env{}, Manifest{Disabled: []string{"nope"}})
	require.ErrorContains(t, err, `unknown provider "nope"`)

	_, err = Build(viewkit.Env{}, Manifest{Disabled: []string{"confirm"}})
	require.ErrorContains(t, err, "required")
}

func TestBuild_Aliases(t *testing.T) {
	reg, err := Build(viewkit.Env{}, Manifest{Aliases: map[string]string{
		"Elements": browser.Elements.Name,
		"Props":    navigation.PropertyGridName,
	}})
	require.NoError(t, err)

	desc, err := reg.Resolve(navigation.ForName("Elements"))
	require.NoError(t, err)
	require.Equal(t, AliasProvider, desc.Provider)
	require.Equal(t, "Elements", desc.Name)
	require.Equal(t, browser.LogicIdentity, desc.LogicIdentity)
}

func TestBuild_AliasErrors(t *testing.T) {
	_, err := Build(viewkit.Env{}, Manifest{Aliases: map[string]string{"X": "Missing"}})
	require.ErrorContains(t, err, `unknown name "Missing"`)

	_, err = Build(viewkit.Env{}, Manifest{Aliases: map[string]string{
		navigation.PropertyGridName: editor.Name,
	}})
	require.ErrorIs(t, err, navigation.ErrDuplicateRegistration)
}

func TestLoad(t *testing.T) {
	m, err := Load("")
	require.NoError(t, err)
	require.Empty(t, m.Disabled)

	path := writeManifest(t, `
disabled:
  - editor
aliases:
  Elements: Element Browser
`)
	m, err = Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"editor"}, m.Disabled)
	require.Equal(t, map[string]string{"Elements": "Element Browser"}, m.Aliases)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = Load(writeManifest(t, "disabled: [unterminated"))
	require.ErrorContains(t, err, "parsing catalog manifest")
}

func TestKeys(t *testing.T) {
	require.Equal(t, []string{"confirm", "thingdialog", "details", "browser", "propertygrid", "editor"}, Keys())
}
