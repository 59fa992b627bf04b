package steps

import (
	"context"

	"github.com/cucumber/godog"

	"github.com/orcalabs/kyogre/internal/application/tripassembler/landings"
	"github.com/orcalabs/kyogre/internal/domain/vessel"
	"github.com/orcalabs/kyogre/internal/domain/vesselevent"
)

type landingsTripContext struct {
	events []vesselevent.VesselEvent
}

func (c *landingsTripContext) reset() {
	c.events = nil
	resetSharedTripState()
}

func (c *landingsTripContext) aLandingAt(at string) error {
	t, err := parseTimestamp(at)
	if err != nil {
		return err
	}
	c.events = append(c.events, vesselevent.VesselEvent{Kind: vesselevent.KindLanding, Timestamp: t})
	return nil
}

func (c *landingsTripContext) theLandingsAssemblerRuns() error {
	a := landings.New()
	state, err := a.Assemble(context.Background(), vessel.Vessel{}, c.events)
	sharedTripState = state
	sharedTripErr = err
	return nil
}

// InitializeLandingsTripScenario registers the landings trip assembly step
// definitions.
func InitializeLandingsTripScenario(sc *godog.ScenarioContext) {
	c := &landingsTripContext{}
	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		c.reset()
		return ctx, nil
	})

	sc.Step(`^a landing at "([^"]*)"$`, c.aLandingAt)
	sc.Step(`^the landings assembler runs$`, c.theLandingsAssemblerRuns)
}
