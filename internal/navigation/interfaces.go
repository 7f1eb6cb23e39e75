package navigation

import (
	"context"

	"github.com/google/uuid"
)

// Logic is the behaviour half of a session.
type Logic interface {
	// Identity is the logic's stable type identity,
	// "<Root>.ViewModels.<Name>ViewModel".
	Identity() string
	Dispose()
}

// Surface is the presentation half of a session. Implementations must be
// pointer types: controllers compare surfaces by identity.
type Surface interface {
	Identity() string
	DataContext() Logic
	SetDataContext(Logic)
}

// DialogLogic is a logic instance that produces a result when its modal
// surface is dismissed.
type DialogLogic interface {
	Logic
	Result() DialogResult
}

// ModalSurface can be shown as a blocking dialog. ShowModal returns once the
// user dismissed the surface or ctx is done.
type ModalSurface interface {
	Surface
	ShowModal(ctx context.Context) error
}

// FloatingLogic is keyed by the identifier of the thing it shows.
type FloatingLogic interface {
	Logic
	Key() uuid.UUID
}

// FloatingSurface is shown non-blocking and can be brought to front.
type FloatingSurface interface {
	Surface
	Show()
	Activate()
}

// PanelLogic is a logic instance hosted in the dock.
type PanelLogic interface {
	Logic
	Identifier() uuid.UUID
	Caption() string
	DataSource() string
	IsDirty() bool
}

// Retargetable panels can switch to another thing without being rebuilt.
type Retargetable interface {
	PanelLogic
	Retarget(args Args) error
}

// DirtyDescriber optionally explains what unsaved changes a panel holds.
type DirtyDescriber interface {
	DirtyMessage() string
}

// FilterService tracks open panels for the global filter.
type FilterService interface {
	RegisterForService(p PanelLogic)
	UnregisterFromService(p PanelLogic)
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, title, message string) (bool, error)
}
