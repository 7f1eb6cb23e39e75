package navigation

import (
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/thingdock/internal/pubsub"
)

// Navigator wires the registry, the factory and the three session
// controllers together. It is the single entry point the shell and the views
// use to open sessions.
type Navigator struct {
	registry  *Registry
	factory   *Factory
	bus       *pubsub.Bus[LifecycleEvent]
	filter    FilterService
	confirmer Confirmer

	confirmDirty bool
	tracing      trace.TracerProvider

	modal    *ModalController
	floating *FloatingRegistry
	dock     *Dock
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithFilterService registers opened panels with fs.
func WithFilterService(fs FilterService) Option {
	return func(n *Navigator) {
		n.filter = fs
	}
}

// WithConfirmer replaces the modal confirmation dialog used before closing a
// dirty panel.
func WithConfirmer(c Confirmer) Option {
	return func(n *Navigator) {
		n.confirmer = c
	}
}

// WithEventBus publishes lifecycle events on bus instead of a private one.
func WithEventBus(bus *pubsub.Bus[LifecycleEvent]) Option {
	return func(n *Navigator) {
		n.bus = bus
	}
}

// WithDirtyConfirmation toggles the confirmation asked before a dirty panel
// is closed. It is on by default.
func WithDirtyConfirmation(enabled bool) Option {
	return func(n *Navigator) {
		n.confirmDirty = enabled
	}
}

// WithTracerProvider reports session spans to tp instead of the global
// provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(n *Navigator) {
		n.tracing = tp
	}
}

// New creates a navigator over registry.
func New(registry *Registry, opts ...Option) *Navigator {
	n := &Navigator{
		registry:     registry,
		factory:      NewFactory(registry),
		confirmDirty: true,
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.tracing != nil {
		n.factory.tracer = n.tracing.Tracer(instrumentationName)
	}
	if n.bus == nil {
		n.bus = NewEventBus()
	}
	if n.filter == nil {
		n.filter = noopFilter{}
	}
	n.modal = &ModalController{nav: n}
	n.floating = &FloatingRegistry{nav: n, entries: make(map[uuid.UUID]*Session)}
	n.dock = newDock(n)
	if n.confirmer == nil {
		n.confirmer = n.modal
	}
	return n
}

func (n *Navigator) Registry() *Registry                 { return n.registry }
func (n *Navigator) Factory() *Factory                   { return n.factory }
func (n *Navigator) Events() *pubsub.Bus[LifecycleEvent] { return n.bus }
func (n *Navigator) Modal() *ModalController             { return n.modal }
func (n *Navigator) Floating() *FloatingRegistry         { return n.floating }
func (n *Navigator) Dock() *Dock                         { return n.dock }

// Shutdown closes every floating session and every docked panel without
// asking for confirmation. Open modal dialogs are unwound by their callers.
func (n *Navigator) Shutdown() {
	n.floating.CloseAll()
	n.dock.CloseAll()
}

// handles fills in the navigation handles factories may use.
func (n *Navigator) handles(args Args) Args {
	if args.Modal == nil {
		args.Modal = n.modal
	}
	if args.Floating == nil {
		args.Floating = n.floating
	}
	if args.Dock == nil {
		args.Dock = n.dock
	}
	return args
}

type noopFilter struct{}

func (noopFilter) RegisterForService(PanelLogic)    {}
func (noopFilter) UnregisterFromService(PanelLogic) {}
