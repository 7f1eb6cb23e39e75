package navigation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/thingdock/internal/thing"
)

func surfaceOnly(identity string) Descriptor {
	return Descriptor{
		Discriminator:   ForSurface(identity),
		SurfaceIdentity: identity,
		NewSurface:      func(Args) (Surface, error) { return &fakeSurface{identity: identity}, nil },
	}
}

func TestRegistry_RegisterAndResolve(t *testing.T) {
	r, err := NewRegistry(Provider{Key: "core", Descriptors: []Descriptor{surfaceOnly("A.Views.One")}})
	require.NoError(t, err)

	desc, err := r.ResolveSurface("A.Views.One")
	require.NoError(t, err)
	require.Equal(t, "core", desc.Provider)
	require.Equal(t, ForSurface("A.Views.One"), desc.Discriminator)
	require.True(t, r.Has(ForSurface("A.Views.One")))
	require.Equal(t, 1, r.Len())
}

func TestRegistry_Unregistered(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	_, err = r.Resolve(ForKind(thing.KindRequirement))
	require.ErrorIs(t, err, ErrUnregistered)
	var uerr *UnregisteredCapabilityError
	require.ErrorAs(t, err, &uerr)
	require.Equal(t, ForKind(thing.KindRequirement), uerr.Discriminator)
	require.Contains(t, err.Error(), "kind::Requirement")
}

func TestRegistry_DuplicateRejected(t *testing.T) {
	_, err := NewRegistry(
		Provider{Key: "first", Descriptors: []Descriptor{surfaceOnly("A.Views.One")}},
		Provider{Key: "second", Descriptors: []Descriptor{surfaceOnly("A.Views.One")}},
	)
	require.ErrorIs(t, err, ErrDuplicateRegistration)
	var derr *DuplicateRegistrationError
	require.ErrorAs(t, err, &derr)
	require.Equal(t, "first", derr.Existing)
	require.Equal(t, "second", derr.Rejected)
}

func TestRegistry_NamespacesAreSeparate(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	byName := surfaceOnly("Shared")
	require.NoError(t, r.Register(ForName("Shared"), byName))
	require.NoError(t, r.Register(ForSurface("Shared"), byName))

	require.Len(t, r.ByNamespace(NamespaceName), 1)
	require.Len(t, r.ByNamespace(NamespaceSurface), 1)
	require.Empty(t, r.ByNamespace(NamespaceKind))
}

func TestRegistry_RejectsEmpty(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	require.ErrorIs(t, r.Register(ForName(""), surfaceOnly("x")), ErrInvalidRequest)
	require.ErrorIs(t, r.Register(ForName("x"), Descriptor{}), ErrInvalidRequest)
}

func TestRegistry_ListSorted(t *testing.T) {
	r, err := NewRegistry(Provider{Descriptors: []Descriptor{
		surfaceOnly("B.Views.Two"),
		surfaceOnly("A.Views.One"),
	}})
	require.NoError(t, err)
	require.NoError(t, r.Register(ForName("Zed"), surfaceOnly("Zed")))

	list := r.List()
	require.Len(t, list, 3)
	require.Equal(t, NamespaceName, list[0].Discriminator.Namespace)
	require.Equal(t, "A.Views.One", list[1].Discriminator.Key)
	require.Equal(t, "B.Views.Two", list[2].Discriminator.Key)
}
