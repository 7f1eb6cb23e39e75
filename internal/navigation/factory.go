package navigation

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/thingdock/internal/log"
)

var errNilInstance = errors.New("factory returned nil")

// Factory builds sessions from registry descriptors.
type Factory struct {
	registry *Registry
	tracer   trace.Tracer
}

// NewFactory creates a factory resolving surfaces against r.
func NewFactory(r *Registry) *Factory {
	return &Factory{registry: r, tracer: tracer()}
}

// Build constructs the logic from desc and binds a surface to it. The surface
// comes from desc when it has a surface factory, otherwise from the registry
// by naming convention. On error nothing survives: a logic that was built is
// disposed before returning.
func (f *Factory) Build(ctx context.Context, kind Kind, desc Descriptor, args Args) (*Session, error) {
	ctx, span := f.tracer.Start(ctx, "navigation.build",
		trace.WithAttributes(
			attribute.String("navigation.kind", kind.String()),
			attribute.String("navigation.discriminator", desc.Discriminator.String()),
		))
	defer span.End()

	s, err := f.build(ctx, kind, desc, args)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.String("navigation.session", s.ID().String()))
	return s, nil
}

func (f *Factory) build(ctx context.Context, kind Kind, desc Descriptor, args Args) (*Session, error) {
	if !desc.HasLogic() {
		return nil, &ConstructionError{
			Identity: desc.Discriminator.String(),
			Part:     PartLogic,
			Err:      errors.New("descriptor has no logic factory"),
		}
	}
	logic, err := construct(func() (Logic, error) { return desc.NewLogic(args) })
	if err != nil {
		return nil, &ConstructionError{Identity: desc.LogicIdentity, Part: PartLogic, Err: err}
	}

	var s *Session
	if desc.HasSurface() {
		s, err = f.attach(kind, desc, logic, args)
	} else {
		s, err = f.bind(ctx, kind, logic, args)
	}
	if err != nil {
		disposeQuietly(logic)
		return nil, err
	}
	return s, nil
}

// Bind builds a surface for a caller-supplied logic instance, resolving it by
// naming convention. On error the logic is left untouched and still owned by
// the caller.
func (f *Factory) Bind(ctx context.Context, kind Kind, logic Logic, args Args) (*Session, error) {
	ctx, span := f.tracer.Start(ctx, "navigation.bind",
		trace.WithAttributes(
			attribute.String("navigation.kind", kind.String()),
			attribute.String("navigation.logic", logic.Identity()),
		))
	defer span.End()

	s, err := f.bind(ctx, kind, logic, args)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return s, nil
}

func (f *Factory) bind(_ context.Context, kind Kind, logic Logic, args Args) (*Session, error) {
	identity, err := ResolveSurfaceIdentity(logic.Identity())
	if err != nil {
		return nil, err
	}
	desc, err := f.registry.ResolveSurface(identity)
	if err != nil {
		return nil, err
	}
	if !desc.HasSurface() {
		return nil, &ConstructionError{
			Identity: identity,
			Part:     PartSurface,
			Err:      errors.New("descriptor has no surface factory"),
		}
	}
	return f.attach(kind, desc, logic, args)
}

func (f *Factory) attach(kind Kind, desc Descriptor, logic Logic, args Args) (*Session, error) {
	surface, err := construct(func() (Surface, error) { return desc.NewSurface(args) })
	if err != nil {
		return nil, &ConstructionError{Identity: desc.SurfaceIdentity, Part: PartSurface, Err: err}
	}
	surface.SetDataContext(logic)
	s := newSession(kind, surface, logic)
	log.Debug(log.CatNav, "session built",
		"id", s.ID(), "kind", kind, "logic", logic.Identity(), "surface", surface.Identity())
	return s, nil
}

// construct runs fn, turning a panic or a nil result into an error.
func construct[T comparable](fn func() (T, error)) (v T, err error) {
	var zero T
	defer func() {
		if r := recover(); r != nil {
			v, err = zero, fmt.Errorf("factory panicked: %v", r)
		}
	}()
	v, err = fn()
	if err != nil {
		return zero, err
	}
	if v == zero {
		return zero, errNilInstance
	}
	return v, nil
}

func disposeQuietly(l Logic) {
	defer func() {
		if r := recover(); r != nil {
			log.Error(log.CatNav, "dispose panicked", "logic", l.Identity(), "panic", r)
		}
	}()
	l.Dispose()
}
