package presentation

import (
	"time"

	"github.com/zjrosen/thingdock/internal/navigation"
	"github.com/zjrosen/thingdock/internal/thing"
)

// DescriptorDTO represents a registered capability for presentation
type DescriptorDTO struct {
	Namespace       string `json:"namespace"`
	Key             string `json:"key"`
	Name            string `json:"name,omitempty"`
	Provider        string `json:"provider"`
	LogicIdentity   string `json:"logic_identity,omitempty"`
	SurfaceIdentity string `json:"surface_identity,omitempty"`
	HasLogic        bool   `json:"has_logic"`
	HasSurface      bool   `json:"has_surface"`
}

// FromDescriptor converts a registry descriptor to a DTO.
func FromDescriptor(d navigation.Descriptor) DescriptorDTO {
	return DescriptorDTO{
		Namespace:       string(d.Discriminator.Namespace),
		Key:             d.Discriminator.Key,
		Name:            d.Name,
		Provider:        d.Provider,
		LogicIdentity:   d.LogicIdentity,
		SurfaceIdentity: d.SurfaceIdentity,
		HasLogic:        d.HasLogic(),
		HasSurface:      d.HasSurface(),
	}
}

// FromDescriptors converts descriptors, keeping their order.
func FromDescriptors(ds []navigation.Descriptor) []DescriptorDTO {
	out := make([]DescriptorDTO, 0, len(ds))
	for _, d := range ds {
		out = append(out, FromDescriptor(d))
	}
	return out
}

// ThingDTO represents a stored thing for presentation
type ThingDTO struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	ShortName   string    `json:"short_name"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Container   string    `json:"container,omitempty"`
	Revision    int       `json:"revision"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FromThing converts a thing to a DTO.
func FromThing(t *thing.Thing) ThingDTO {
	dto := ThingDTO{
		ID:          t.ID.String(),
		Kind:        t.Kind.String(),
		ShortName:   t.ShortName,
		Name:        t.Name,
		Description: t.Description,
		Revision:    t.Revision,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.Container != nil {
		dto.Container = t.Container.String()
	}
	return dto
}
