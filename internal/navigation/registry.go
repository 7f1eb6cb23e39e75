package navigation

import (
	"sort"
	"sync"

	"github.com/zjrosen/thingdock/internal/log"
)

// Registry is the read-mostly discriminator to descriptor table. It is
// populated at start-up from providers and read concurrently afterwards.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[Discriminator]Descriptor
}

// NewRegistry registers every descriptor of every provider. The first
// duplicate discriminator aborts construction.
func NewRegistry(providers ...Provider) (*Registry, error) {
	r := &Registry{descriptors: make(map[Discriminator]Descriptor)}
	for _, p := range providers {
		for _, d := range p.Descriptors {
			if d.Provider == "" {
				d.Provider = p.Key
			}
			if err := r.Register(d.Discriminator, d); err != nil {
				return nil, err
			}
		}
	}
	log.Debug(log.CatRegistry, "registry built", "providers", len(providers), "descriptors", r.Len())
	return r, nil
}

// Register adds desc under d. Registering a discriminator twice is an error
// and leaves the first registration in place.
func (r *Registry) Register(d Discriminator, desc Descriptor) error {
	if d.Key == "" {
		return invalidRequest("empty %s discriminator", d.Namespace)
	}
	if !desc.HasLogic() && !desc.HasSurface() {
		return invalidRequest("descriptor %s has no factories", d)
	}
	desc.Discriminator = d

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.descriptors[d]; ok {
		return &DuplicateRegistrationError{
			Discriminator: d,
			Existing:      existing.Provider,
			Rejected:      desc.Provider,
		}
	}
	r.descriptors[d] = desc
	return nil
}

// Resolve looks up the descriptor registered for d.
func (r *Registry) Resolve(d Discriminator) (Descriptor, error) {
	r.mu.RLock()
	desc, ok := r.descriptors[d]
	r.mu.RUnlock()
	if !ok {
		return Descriptor{}, &UnregisteredCapabilityError{Discriminator: d}
	}
	return desc, nil
}

// ResolveSurface looks up a surface by identity in the surface namespace.
func (r *Registry) ResolveSurface(identity string) (Descriptor, error) {
	return r.Resolve(ForSurface(identity))
}

// Has reports whether d is registered.
func (r *Registry) Has(d Discriminator) bool {
	_, err := r.Resolve(d)
	return err == nil
}

// Len returns the number of registered descriptors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.descriptors)
}

// List returns all descriptors sorted by namespace then key.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	out := make([]Descriptor, 0, len(r.descriptors))
	for _, d := range r.descriptors {
		out = append(out, d)
	}
	r.mu.RUnlock()
	sortDescriptors(out)
	return out
}

// ByNamespace returns the descriptors of one namespace sorted by key.
func (r *Registry) ByNamespace(ns Namespace) []Descriptor {
	var out []Descriptor
	for _, d := range r.List() {
		if d.Discriminator.Namespace == ns {
			out = append(out, d)
		}
	}
	return out
}

func sortDescriptors(ds []Descriptor) {
	sort.Slice(ds, func(i, j int) bool {
		a, b := ds[i].Discriminator, ds[j].Discriminator
		if a.Namespace != b.Namespace {
			return a.Namespace < b.Namespace
		}
		return a.Key < b.Key
	})
}
