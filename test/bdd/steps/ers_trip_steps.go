package steps

import (
	"context"
	"time"

	"github.com/cucumber/godog"

	"github.com/orcalabs/kyogre/internal/application/tripassembler/ers"
	"github.com/orcalabs/kyogre/internal/domain/vessel"
	"github.com/orcalabs/kyogre/internal/domain/vesselevent"
)

func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

type ersTripContext struct {
	events []vesselevent.VesselEvent
	seq    int32
}

func (c *ersTripContext) reset() {
	c.events = nil
	c.seq = 0
	resetSharedTripState()
}

func (c *ersTripContext) vesselLogsADepAt(vesselID int, at string) error {
	t, err := parseTimestamp(at)
	if err != nil {
		return err
	}
	c.seq++
	c.events = append(c.events, vesselevent.VesselEvent{
		Kind:           vesselevent.KindErsDep,
		Timestamp:      t,
		SequenceNumber: c.seq,
		ErsMessage:     &vesselevent.ErsMessage{EstimatedTimestamp: t},
	})
	return nil
}

func (c *ersTripContext) vesselLogsAPorAt(vesselID int, at string) error {
	t, err := parseTimestamp(at)
	if err != nil {
		return err
	}
	c.seq++
	c.events = append(c.events, vesselevent.VesselEvent{
		Kind:           vesselevent.KindErsPor,
		Timestamp:      t,
		SequenceNumber: c.seq,
		ErsMessage:     &vesselevent.ErsMessage{EstimatedTimestamp: t},
	})
	return nil
}

func (c *ersTripContext) theErsAssemblerRunsForVessel(vesselID int) error {
	a := ers.New()
	state, err := a.Assemble(context.Background(), vessel.Vessel{ID: vessel.FiskeridirVesselId(vesselID)}, c.events)
	sharedTripState = state
	sharedTripErr = err
	return nil
}

// InitializeErsTripScenario registers the ERS trip formation step
// definitions.
func InitializeErsTripScenario(sc *godog.ScenarioContext) {
	c := &ersTripContext{}
	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		c.reset()
		return ctx, nil
	})

	sc.Step(`^vessel (\d+) logs a DEP at "([^"]*)"$`, c.vesselLogsADepAt)
	sc.Step(`^vessel (\d+) logs a POR at "([^"]*)"$`, c.vesselLogsAPorAt)
	sc.Step(`^the ERS assembler runs for vessel (\d+)$`, c.theErsAssemblerRunsForVessel)
}
