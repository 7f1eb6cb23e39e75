package testutil

import "github.com/zjrosen/thingdock/internal/thing"

// thingData holds the fields of a thing to be stored.
type thingData struct {
	key         string
	kind        thing.ClassKind
	name        string
	shortName   string
	description string
	container   string
}

func defaultThing(key string, kind thing.ClassKind) thingData {
	return thingData{
		key:       key,
		kind:      kind,
		name:      key, // Default name is the key
		shortName: key,
	}
}

// ThingOption configures a thing during builder setup.
type ThingOption func(*thingData)

// Name sets the thing's name.
func Name(name string) ThingOption {
	return func(d *thingData) { d.name = name }
}

// ShortName sets the thing's short name.
func ShortName(s string) ThingOption {
	return func(d *thingData) { d.shortName = s }
}

// Description sets the thing's description.
func Description(desc string) ThingOption {
	return func(d *thingData) { d.description = desc }
}

// In places the thing inside the thing added under parentKey. The parent
// must be added first.
func In(parentKey string) ThingOption {
	return func(d *thingData) { d.container = parentKey }
}
