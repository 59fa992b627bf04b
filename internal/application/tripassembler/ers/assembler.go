// Package ers implements the ERS-message-based trip assembly strategy:
// trips run from the earliest successive DEP to the latest successive
// POR, with landing-coverage windows derived from surrounding POR
// timestamps.
package ers

import (
	"context"
	"time"

	"github.com/orcalabs/kyogre/internal/domain/geo"
	"github.com/orcalabs/kyogre/internal/domain/shared"
	"github.com/orcalabs/kyogre/internal/domain/trip"
	"github.com/orcalabs/kyogre/internal/domain/vessel"
	"github.com/orcalabs/kyogre/internal/domain/vesselevent"
)

const landingCoverageShift = 6 * time.Hour
const tailCoverageExtension = 3 * 24 * time.Hour

// Assembler implements trip.Assembler for vessels with ERS coverage.
type Assembler struct{}

// New returns the ERS assembler.
func New() *Assembler { return &Assembler{} }

func (a *Assembler) ID() trip.AssemblerID { return trip.AssemblerErs }

// runState carries the in-progress (current_departure, current_arrival)
// pair as events are processed in order.
type runState struct {
	departure *vesselevent.VesselEvent
	arrival   *vesselevent.VesselEvent
}

type rawTrip struct {
	departure, arrival vesselevent.VesselEvent
}

// Assemble walks the ordered event stream and emits one NewTrip per
// completed DEP→POR pair, with landing coverage computed once all trip
// boundaries are known (coverage for trip i depends on trip i+1's POR).
func (a *Assembler) Assemble(ctx context.Context, v vessel.Vessel, events []vesselevent.VesselEvent) (*trip.AssemblerState, error) {
	ersEvents := filterErs(events)
	if len(ersEvents) == 0 {
		return nil, nil
	}

	// Discard leading PORs: a vessel's first-ever event being a POR with
	// no prior DEP is discarded until the first DEP.
	start := 0
	for start < len(ersEvents) && ersEvents[start].Kind == vesselevent.KindErsPor {
		start++
	}
	ersEvents = ersEvents[start:]
	if len(ersEvents) == 0 {
		return nil, nil
	}

	var raws []rawTrip
	var st runState
	for _, ev := range ersEvents {
		ev := ev
		switch ev.Kind {
		case vesselevent.KindErsDep:
			if st.arrival != nil {
				// A completed DEP->POR pair ends the trip; this DEP
				// starts the next one.
				raws = append(raws, rawTrip{departure: *st.departure, arrival: *st.arrival})
				st.departure = &ev
				st.arrival = nil
			} else if st.departure == nil {
				// Multiple consecutive DEPs collapse to the first: a
				// DEP with a departure already in hand is dropped.
				st.departure = &ev
			}
		case vesselevent.KindErsPor:
			// Multiple consecutive PORs collapse to the last: always
			// overwrite.
			st.arrival = &ev
		}
	}
	if st.departure != nil && st.arrival != nil {
		raws = append(raws, rawTrip{departure: *st.departure, arrival: *st.arrival})
	}
	if len(raws) == 0 {
		return nil, nil
	}

	newTrips := make([]trip.NewTrip, 0, len(raws))
	for i, rt := range raws {
		depTs := rt.departure.OrderingTimestamp()
		porTs := rt.arrival.OrderingTimestamp()
		if porTs.Before(depTs) {
			return nil, shared.NewTripAssemblerError(shared.NewInvariantError("ers.Assemble", "arrival precedes departure"))
		}
		period := geo.NewInterval(depTs, porTs)

		coverage := landingCoverage(raws, i)
		newTrips = append(newTrips, trip.NewTrip{
			Period:          period,
			PeriodExtended:  period,
			LandingCoverage: coverage,
		})
	}

	last := ersEvents[len(ersEvents)-1]
	return &trip.AssemblerState{
		NewTrips:         newTrips,
		CalculationTimer: last.OrderingTimestamp(),
		ConflictStrategy: trip.ConflictReplace,
	}, nil
}

// landingCoverage computes trip i's coverage window:
// [POR-6h, POR(next)-6h), collapsing to POR itself when the current trip
// is shorter than 6h, to POR(next) itself when the next trip is shorter
// than 6h, and extending the final trip's end to POR+3days when there is
// no successor.
func landingCoverage(raws []rawTrip, i int) geo.Interval {
	cur := raws[i]
	curPor := cur.arrival.OrderingTimestamp()
	curDep := cur.departure.OrderingTimestamp()

	start := curPor.Add(-landingCoverageShift)
	if curPor.Sub(curDep) < landingCoverageShift {
		start = curPor
	}

	var end time.Time
	if i+1 < len(raws) {
		next := raws[i+1]
		nextPor := next.arrival.OrderingTimestamp()
		nextDep := next.departure.OrderingTimestamp()
		end = nextPor.Add(-landingCoverageShift)
		if nextPor.Sub(nextDep) < landingCoverageShift {
			end = nextPor
		}
	} else {
		end = curPor.Add(tailCoverageExtension)
	}

	if !end.After(start) {
		return geo.NewDegenerateInterval(start)
	}
	return geo.NewInterval(start, end)
}

func filterErs(events []vesselevent.VesselEvent) []vesselevent.VesselEvent {
	out := make([]vesselevent.VesselEvent, 0, len(events))
	for _, e := range events {
		if e.Kind == vesselevent.KindErsDep || e.Kind == vesselevent.KindErsPor {
			out = append(out, e)
		}
	}
	return out
}
