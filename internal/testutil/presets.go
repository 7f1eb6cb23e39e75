package testutil

import "github.com/zjrosen/thingdock/internal/thing"

// WithStandardModel adds the standard test data set: a spacecraft with a
// power subsystem and a requirements specification.
func (b *Builder) WithStandardModel() *Builder {
	return b.
		WithThing("sc", thing.KindElementDefinition,
			Name("Spacecraft"), ShortName("SC"), Description("Top level **element**.")).
		WithThing("pwr", thing.KindElementDefinition,
			Name("Power Subsystem"), ShortName("PWR"), In("sc")).
		WithThing("bat", thing.KindElementUsage,
			Name("Battery Pack"), ShortName("BAT"), In("pwr")).
		WithThing("cap", thing.KindParameter,
			Name("Battery Capacity"), ShortName("cap"), In("bat")).
		WithThing("mr", thing.KindRequirementsSpecification,
			Name("Mission Requirements"), ShortName("MR")).
		WithThing("r1", thing.KindRequirement,
			Name("Eclipse Survival"), ShortName("MR-001"), In("mr"),
			Description("Survive a 70 minute eclipse.")).
		WithThing("r2", thing.KindRequirement,
			Name("Downlink Rate"), ShortName("MR-002"), In("mr"))
}
