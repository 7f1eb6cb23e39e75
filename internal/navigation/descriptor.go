package navigation

import "github.com/zjrosen/thingdock/internal/thing"

// LogicFactory constructs a logic instance.
type LogicFactory func(Args) (Logic, error)

// SurfaceFactory constructs a surface.
type SurfaceFactory func(Args) (Surface, error)

// Descriptor is one registered capability: a surface factory, a logic
// factory, or both. Descriptors are stored by value and never change after
// registration.
type Descriptor struct {
	Discriminator   Discriminator
	Name            string
	Provider        string
	LogicIdentity   string
	SurfaceIdentity string
	NewLogic        LogicFactory
	NewSurface      SurfaceFactory
}

// HasLogic reports whether the descriptor can build a logic instance.
func (d Descriptor) HasLogic() bool {
	return d.NewLogic != nil
}

// HasSurface reports whether the descriptor can build a surface.
func (d Descriptor) HasSurface() bool {
	return d.NewSurface != nil
}

// Args are the construction arguments passed through to factories. Each
// factory reads the fields it needs and ignores the rest.
type Args struct {
	Thing       *thing.Thing
	Transaction *thing.Transaction
	Session     *thing.Session
	IsRoot      bool
	DialogKind  thing.DialogKind
	Container   *thing.Thing
	Chain       []*thing.Thing

	Title   string
	Message string

	// Navigation handles for logic instances that open further sessions.
	Modal    *ModalController
	Floating *FloatingRegistry
	Dock     *Dock
}

// Provider is one discovered plugin: a key (used by the catalog manifest to
// enable or disable it) and the descriptors it contributes.
type Provider struct {
	Key         string
	Descriptors []Descriptor
}
