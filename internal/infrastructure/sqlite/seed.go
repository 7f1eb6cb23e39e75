package sqlite

import (
	"context"
	"fmt"

	"github.com/zjrosen/thingdock/internal/thing"
)

// Seed writes a small demo model into store: a spacecraft with a few
// subsystems, a requirements specification and the people who own them.
func Seed(ctx context.Context, store thing.Store, source string) ([]*thing.Thing, error) {
	craft := thing.New(thing.KindElementDefinition, "Spacecraft", "SC")
	craft.Description = "Top level element of the demo model."

	power := thing.New(thing.KindElementDefinition, "Power Subsystem", "PWR").ContainedBy(craft)
	battery := thing.New(thing.KindElementUsage, "Battery Pack", "BAT").ContainedBy(power)
	solar := thing.New(thing.KindElementUsage, "Solar Array", "SA").ContainedBy(power)
	capacity := thing.New(thing.KindParameter, "Battery Capacity", "cap").ContainedBy(battery)
	capacity.Description = "Usable capacity in Wh."

	comms := thing.New(thing.KindElementDefinition, "Communications", "COM").ContainedBy(craft)
	antenna := thing.New(thing.KindElementUsage, "High Gain Antenna", "HGA").ContainedBy(comms)

	spec := thing.New(thing.KindRequirementsSpecification, "Mission Requirements", "MR")
	req1 := thing.New(thing.KindRequirement, "Eclipse Survival", "MR-001").ContainedBy(spec)
	req1.Description = "The spacecraft shall survive a 70 minute eclipse."
	req2 := thing.New(thing.KindRequirement, "Downlink Rate", "MR-002").ContainedBy(spec)
	req2.Description = "The spacecraft shall downlink at least 2 Mbit/s."

	owner := thing.New(thing.KindPerson, "Ada Systems", "ASY")
	iteration := thing.New(thing.KindIteration, "Iteration 1", "IT1")

	things := []*thing.Thing{
		craft, power, battery, solar, capacity, comms, antenna,
		spec, req1, req2, owner, iteration,
	}

	saved := make([]*thing.Thing, 0, len(things))
	for _, t := range things {
		t.DataSource = source
		s, err := store.Save(ctx, t)
		if err != nil {
			return saved, fmt.Errorf("seed %s: %w", t.Label(), err)
		}
		saved = append(saved, s)
	}
	return saved, nil
}
