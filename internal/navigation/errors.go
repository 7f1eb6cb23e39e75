package navigation

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by the typed errors below through errors.Is.
var (
	ErrUnregistered          = errors.New("capability not registered")
	ErrNamingConvention      = errors.New("naming convention violated")
	ErrConstruction          = errors.New("session construction failed")
	ErrDuplicateRegistration = errors.New("duplicate capability registration")
	ErrInvalidRequest        = errors.New("invalid navigation request")
)

// UnregisteredCapabilityError reports a discriminator with no registered
// descriptor. It indicates an incomplete plugin set, not a transient failure.
type UnregisteredCapabilityError struct {
	Discriminator Discriminator
}

func (e *UnregisteredCapabilityError) Error() string {
	return fmt.Sprintf("no capability registered for %s", e.Discriminator)
}

func (e *UnregisteredCapabilityError) Is(target error) bool {
	return target == ErrUnregistered
}

// NamingConventionViolationError reports a logic identity that cannot be
// paired with a surface by name.
type NamingConventionViolationError struct {
	Identity string
}

func (e *NamingConventionViolationError) Error() string {
	return fmt.Sprintf("logic identity %q does not contain %q", e.Identity, logicSegment)
}

func (e *NamingConventionViolationError) Is(target error) bool {
	return target == ErrNamingConvention
}

// Part names which half of a session failed to construct.
type Part string

const (
	PartLogic   Part = "logic"
	PartSurface Part = "surface"
)

// ConstructionError wraps a failing (or panicking) factory. No half of the
// session survives it.
type ConstructionError struct {
	Identity string
	Part     Part
	Err      error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("constructing %s %s: %v", e.Part, e.Identity, e.Err)
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}

func (e *ConstructionError) Is(target error) bool {
	return target == ErrConstruction
}

// DuplicateRegistrationError is raised at start-up when two providers claim
// the same discriminator.
type DuplicateRegistrationError struct {
	Discriminator Discriminator
	Existing      string
	Rejected      string
}

func (e *DuplicateRegistrationError) Error() string {
	return fmt.Sprintf("%s already registered by %s, rejecting %s", e.Discriminator, e.Existing, e.Rejected)
}

func (e *DuplicateRegistrationError) Is(target error) bool {
	return target == ErrDuplicateRegistration
}

func invalidRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}
