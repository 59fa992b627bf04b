// Package landings implements the landings-based trip assembly strategy
// used for vessels without ERS coverage: trips are synthesized purely from
// consecutive landing timestamps.
package landings

import (
	"context"
	"time"

	"github.com/orcalabs/kyogre/internal/domain/geo"
	"github.com/orcalabs/kyogre/internal/domain/trip"
	"github.com/orcalabs/kyogre/internal/domain/vessel"
	"github.com/orcalabs/kyogre/internal/domain/vesselevent"
)

const firstTripLookback = 24 * time.Hour

// Assembler implements trip.Assembler for vessels without ERS coverage.
type Assembler struct{}

// New returns the landings assembler.
func New() *Assembler { return &Assembler{} }

func (a *Assembler) ID() trip.AssemblerID { return trip.AssemblerLandings }

// Assemble synthesizes one trip per consecutive pair of landing events:
// [previous_landing_ts, next_landing_ts), with the very first trip
// starting 24h before the first landing. LandingCoverage equals Period.
func (a *Assembler) Assemble(ctx context.Context, v vessel.Vessel, events []vesselevent.VesselEvent) (*trip.AssemblerState, error) {
	landingEvents := filterLandings(events)
	if len(landingEvents) == 0 {
		return nil, nil
	}

	newTrips := make([]trip.NewTrip, 0, len(landingEvents))
	prev := landingEvents[0].Timestamp.Add(-firstTripLookback)
	for _, ev := range landingEvents {
		period := geo.NewInterval(prev, ev.Timestamp)
		newTrips = append(newTrips, trip.NewTrip{
			Period:          period,
			PeriodExtended:  period,
			LandingCoverage: period,
		})
		prev = ev.Timestamp
	}

	last := landingEvents[len(landingEvents)-1]
	return &trip.AssemblerState{
		NewTrips:         newTrips,
		CalculationTimer: last.Timestamp,
		// A landing arriving between two existing trips splits the
		// containing trip at the new timestamp; re-running assembly from
		// the conflicting point and replacing is equivalent to an
		// explicit split since trip boundaries are fully determined by
		// landing timestamps here.
		ConflictStrategy: trip.ConflictReplace,
	}, nil
}

func filterLandings(events []vesselevent.VesselEvent) []vesselevent.VesselEvent {
	out := make([]vesselevent.VesselEvent, 0, len(events))
	for _, e := range events {
		if e.Kind == vesselevent.KindLanding {
			out = append(out, e)
		}
	}
	return out
}
