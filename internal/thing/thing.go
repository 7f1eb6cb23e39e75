package thing

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by stores when a Thing does not exist.
var ErrNotFound = errors.New("thing not found")

// Thing is a single engineering item.
type Thing struct {
	ID          uuid.UUID
	Kind        ClassKind
	Name        string
	ShortName   string
	Description string
	Container   *uuid.UUID
	DataSource  string
	Revision    int
	UpdatedAt   time.Time
}

// New creates a Thing of the given kind with a fresh identifier.
func New(kind ClassKind, name, shortName string) *Thing {
	return &Thing{
		ID:        uuid.New(),
		Kind:      kind,
		Name:      name,
		ShortName: shortName,
	}
}

// Clone returns a deep copy, so dialogs can edit without touching the cached
// original.
func (t *Thing) Clone() *Thing {
	if t == nil {
		return nil
	}
	c := *t
	if t.Container != nil {
		id := *t.Container
		c.Container = &id
	}
	return &c
}

// Label is the display text used in lists and tab captions.
func (t *Thing) Label() string {
	if t.ShortName == "" {
		return t.Name
	}
	return t.ShortName + " " + t.Name
}

// ContainedBy sets the container reference.
func (t *Thing) ContainedBy(parent *Thing) *Thing {
	if parent == nil {
		t.Container = nil
		return t
	}
	id := parent.ID
	t.Container = &id
	return t
}
