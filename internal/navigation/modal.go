package navigation

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/thingdock/internal/log"
	"github.com/zjrosen/thingdock/internal/thing"
)

// ConfirmationName is the registered name of the yes/no dialog used by
// ModalController.Confirm.
const ConfirmationName = "Confirmation"

var (
	errNotModal  = errors.New("surface cannot be shown modally")
	errNotDialog = errors.New("logic does not produce a dialog result")
)

// ThingRequest asks for the dialog registered for a thing's kind.
type ThingRequest struct {
	Thing       *thing.Thing
	Transaction *thing.Transaction
	Session     *thing.Session
	IsRoot      bool
	Kind        thing.DialogKind
	Container   *thing.Thing
	Chain       []*thing.Thing
}

// Validate checks the request before anything is constructed. Only an
// inspect dialog may run without a transaction.
func (r ThingRequest) Validate() error {
	if r.Thing == nil {
		return invalidRequest("thing is required")
	}
	if r.Session == nil {
		return invalidRequest("session is required")
	}
	if r.Transaction == nil && !r.Kind.ReadOnly() {
		return invalidRequest("%s dialog requires a transaction", r.Kind)
	}
	return nil
}

// DialogTitle is the title shown on a thing dialog, e.g. "Edit Element
// Definition".
func DialogTitle(kind thing.DialogKind, class thing.ClassKind) string {
	return kind.Verb() + " " + class.Words()
}

// ModalController runs blocking dialogs. Each Navigate call blocks its
// goroutine until the dialog is dismissed; a dialog opened from inside
// another dialog is stacked on top and unwinds first.
type ModalController struct {
	nav *Navigator

	mu    sync.Mutex
	stack []uuid.UUID
}

// NavigateThing shows the dialog registered for req.Thing's kind.
func (c *ModalController) NavigateThing(ctx context.Context, req ThingRequest) (DialogResult, error) {
	if err := req.Validate(); err != nil {
		return DialogResult{}, err
	}
	desc, err := c.nav.registry.Resolve(ForKind(req.Thing.Kind))
	if err != nil {
		return DialogResult{}, err
	}
	args := Args{
		Thing:       req.Thing,
		Transaction: req.Transaction,
		Session:     req.Session,
		IsRoot:      req.IsRoot,
		DialogKind:  req.Kind,
		Container:   req.Container,
		Chain:       req.Chain,
		Title:       DialogTitle(req.Kind, req.Thing.Kind),
	}
	return c.buildAndRun(ctx, desc, args)
}

// NavigateNamed shows the dialog registered under name.
func (c *ModalController) NavigateNamed(ctx context.Context, name string, args Args) (DialogResult, error) {
	desc, err := c.nav.registry.Resolve(ForName(name))
	if err != nil {
		return DialogResult{}, err
	}
	return c.buildAndRun(ctx, desc, args)
}

// Navigate shows the surface paired with logic by naming convention. The
// controller takes ownership of logic and disposes it, even on error.
func (c *ModalController) Navigate(ctx context.Context, logic DialogLogic) (DialogResult, error) {
	s, err := c.nav.factory.Bind(ctx, KindModal, logic, c.nav.handles(Args{}))
	if err != nil {
		disposeQuietly(logic)
		return DialogResult{}, err
	}
	return c.run(ctx, s)
}

// Confirm asks a yes/no question through the dialog registered as
// ConfirmationName.
func (c *ModalController) Confirm(ctx context.Context, title, message string) (bool, error) {
	res, err := c.NavigateNamed(ctx, ConfirmationName, Args{Title: title, Message: message})
	if err != nil {
		return false, err
	}
	return res.Confirmed(), nil
}

// Depth returns the number of dialogs currently shown.
func (c *ModalController) Depth() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.stack)
}

func (c *ModalController) buildAndRun(ctx context.Context, desc Descriptor, args Args) (DialogResult, error) {
	s, err := c.nav.factory.Build(ctx, KindModal, desc, c.nav.handles(args))
	if err != nil {
		return DialogResult{}, err
	}
	return c.run(ctx, s)
}

// run shows s and tears it down once dismissed: read the result, detach the
// surface, dispose the logic, then return.
func (c *ModalController) run(ctx context.Context, s *Session) (DialogResult, error) {
	surface, ok := s.Surface().(ModalSurface)
	if !ok {
		s.Close()
		return DialogResult{}, &ConstructionError{Identity: s.Surface().Identity(), Part: PartSurface, Err: errNotModal}
	}
	dialog, ok := s.Logic().(DialogLogic)
	if !ok {
		s.Close()
		return DialogResult{}, &ConstructionError{Identity: s.Logic().Identity(), Part: PartLogic, Err: errNotDialog}
	}

	ctx, span := c.nav.factory.tracer.Start(ctx, "navigation.modal",
		trace.WithAttributes(
			attribute.String("navigation.session", s.ID().String()),
			attribute.String("navigation.logic", dialog.Identity()),
		))
	defer span.End()

	depth := c.push(s.ID())
	defer c.pop(s.ID())
	s.markOpen()
	log.Debug(log.CatModal, "dialog shown", "id", s.ID(), "logic", dialog.Identity(), "depth", depth)

	showErr := surface.ShowModal(ctx)
	result := dialog.Result()
	if showErr != nil || result.Outcome == OutcomePending {
		result = CancelledResult()
	}
	s.Close()

	span.SetAttributes(attribute.String("navigation.outcome", result.Outcome.String()))
	if showErr != nil {
		span.RecordError(showErr)
		span.SetStatus(codes.Error, showErr.Error())
		return result, fmt.Errorf("showing %s: %w", surface.Identity(), showErr)
	}
	log.Debug(log.CatModal, "dialog dismissed", "id", s.ID(), "outcome", result.Outcome)
	return result, nil
}

func (c *ModalController) push(id uuid.UUID) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stack = append(c.stack, id)
	return len(c.stack)
}

func (c *ModalController) pop(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := slices.Index(c.stack, id)
	if i < 0 {
		return
	}
	if i != len(c.stack)-1 {
		log.Warn(log.CatModal, "dialog dismissed out of order", "id", id, "position", i, "depth", len(c.stack))
	}
	c.stack = slices.Delete(c.stack, i, i+1)
}
