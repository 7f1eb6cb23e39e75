package navigation

import "github.com/zjrosen/thingdock/internal/thing"

// Namespace separates discriminators: the same key may be registered once in
// each namespace.
type Namespace string

const (
	NamespaceKind    Namespace = "kind"
	NamespaceName    Namespace = "name"
	NamespaceSurface Namespace = "surface"
)

// Discriminator is the registry lookup key.
type Discriminator struct {
	Namespace Namespace
	Key       string
}

// ForKind keys a descriptor by entity kind.
func ForKind(k thing.ClassKind) Discriminator {
	return Discriminator{Namespace: NamespaceKind, Key: k.String()}
}

// ForName keys a descriptor by its human-readable name.
func ForName(name string) Discriminator {
	return Discriminator{Namespace: NamespaceName, Key: name}
}

// ForSurface keys a surface-only descriptor by surface identity.
func ForSurface(identity string) Discriminator {
	return Discriminator{Namespace: NamespaceSurface, Key: identity}
}

// String formats as namespace::key.
func (d Discriminator) String() string {
	return string(d.Namespace) + "::" + d.Key
}
