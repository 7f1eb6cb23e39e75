package thingdialog

import (
	"github.com/zjrosen/thingdock/internal/flags"
	"github.com/zjrosen/thingdock/internal/navigation"
	"github.com/zjrosen/thingdock/internal/thing"
	"github.com/zjrosen/thingdock/internal/views/viewkit"
)

// Provider registers the dialog for every thing kind, plus its surface for
// binding by naming convention.
func Provider(env viewkit.Env) navigation.Provider {
	newLogic := func(a navigation.Args) (navigation.Logic, error) {
		vm, err := NewViewModel(a)
		if err != nil {
			return nil, err
		}
		return vm, nil
	}
	newSurface := func(navigation.Args) (navigation.Surface, error) {
		v := NewView(env.Host, env.Markdown)
		v.nested = env.Enabled(flags.FlagNestedInspect)
		return v, nil
	}

	descriptors := make([]navigation.Descriptor, 0, len(thing.AllKinds())+1)
	for _, k := range thing.AllKinds() {
		descriptors = append(descriptors, navigation.Descriptor{
			Discriminator:   navigation.ForKind(k),
			Name:            k.Words() + " Dialog",
			LogicIdentity:   LogicIdentity,
			SurfaceIdentity: SurfaceIdentity,
			NewLogic:        newLogic,
			NewSurface:      newSurface,
		})
	}
	descriptors = append(descriptors, navigation.Descriptor{
		Discriminator:   navigation.ForSurface(SurfaceIdentity),
		Name:            Name,
		SurfaceIdentity: SurfaceIdentity,
		NewSurface:      newSurface,
	})
	return navigation.Provider{Key: "thingdialog", Descriptors: descriptors}
}
