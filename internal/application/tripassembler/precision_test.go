package tripassembler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orcalabs/kyogre/internal/application/tripassembler/precision"
	"github.com/orcalabs/kyogre/internal/domain/geo"
	"github.com/orcalabs/kyogre/internal/domain/trip"
	"github.com/orcalabs/kyogre/internal/domain/vessel"
	"github.com/orcalabs/kyogre/internal/domain/vesselevent"
)

// positionOutbound extends fakeOutbound with a fixed set of position
// candidates, so PrecisionRunner tests can control exactly what the stage
// sees without a database.
type positionOutbound struct {
	fakeOutbound
	candidates []trip.PositionCandidate
}

func (f *positionOutbound) PositionCandidates(ctx context.Context, vesselID vessel.FiskeridirVesselId, window geo.Interval) ([]trip.PositionCandidate, error) {
	return f.candidates, nil
}

func movedStage() *precision.Stage {
	return precision.NewStage(trip.PrecisionConfig{
		ID:                 trip.AnchorFirstMovedPoint,
		Direction:          trip.DirectionStart,
		DistanceThresholdM: 500,
	}, nil)
}

// TestPrecisionRunner_Refine_ShrinksPeriodExtendedOnSuccess exercises the
// movement-based anchor end to end: a vessel idling at the dock for the
// first two position reports then moving more than the distance threshold
// should have its PeriodExtended start shifted to the first moved point.
func TestPrecisionRunner_Refine_ShrinksPeriodExtendedOnSuccess(t *testing.T) {
	base := time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC)
	outbound := &positionOutbound{
		candidates: []trip.PositionCandidate{
			{TimestampUnix: base.Unix(), Lat: 60.0, Lon: 5.0},
			{TimestampUnix: base.Add(10 * time.Minute).Unix(), Lat: 60.0, Lon: 5.0},
			{TimestampUnix: base.Add(20 * time.Minute).Unix(), Lat: 60.5, Lon: 5.5},
		},
	}
	runner := NewPrecisionRunner(movedStage(), outbound)

	period := geo.NewInterval(base, base.Add(6*time.Hour))
	nt := trip.NewTrip{Period: period, PeriodExtended: period}

	refined := runner.Refine(context.Background(), vessel.FiskeridirVesselId(1), nt)

	require.NotNil(t, refined.Precision)
	assert.Equal(t, trip.PrecisionSuccess, refined.Precision.Outcome)
	assert.True(t, refined.PeriodExtended.Start.Equal(base.Add(20*time.Minute)))
	assert.True(t, refined.PeriodExtended.End.Equal(period.End), "only the start edge is refined")
}

// TestPrecisionRunner_Refine_NoCandidatesLeavesTripUnchanged confirms a
// vessel with no position reports in the search window keeps its original
// PeriodExtended rather than failing the whole assembly run.
func TestPrecisionRunner_Refine_NoCandidatesLeavesTripUnchanged(t *testing.T) {
	outbound := &positionOutbound{candidates: nil}
	runner := NewPrecisionRunner(movedStage(), outbound)

	base := time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC)
	period := geo.NewInterval(base, base.Add(6*time.Hour))
	nt := trip.NewTrip{Period: period, PeriodExtended: period}

	refined := runner.Refine(context.Background(), vessel.FiskeridirVesselId(1), nt)

	assert.Nil(t, refined.Precision)
	assert.Equal(t, period, refined.PeriodExtended)
}

// TestService_RunAssembly_AppliesPrecisionToCommittedTrips confirms
// Service actually invokes the configured PrecisionRunner on every
// assembled trip before committing, rather than precision being wired but
// never called.
func TestService_RunAssembly_AppliesPrecisionToCommittedTrips(t *testing.T) {
	vesselID := vessel.FiskeridirVesselId(7)
	v := vessel.Vessel{ID: vesselID}
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	period := geo.NewInterval(base, base.Add(4*time.Hour))
	strategy := &fixedTripStrategy{
		state: &trip.AssemblerState{
			NewTrips:         []trip.NewTrip{{Period: period, PeriodExtended: period}},
			ConflictStrategy: trip.ConflictReplace,
		},
	}

	outbound := &positionOutbound{
		fakeOutbound: fakeOutbound{
			vessels: []vessel.Vessel{v},
			events: map[vessel.FiskeridirVesselId][]vesselevent.VesselEvent{
				vesselID: {landingEvent(vesselID, "2024-05-01T00:00:00Z")},
			},
		},
		candidates: []trip.PositionCandidate{
			{TimestampUnix: base.Unix(), Lat: 60.0, Lon: 5.0},
			{TimestampUnix: base.Add(time.Hour).Unix(), Lat: 61.0, Lon: 6.0},
		},
	}
	runner := NewPrecisionRunner(movedStage(), outbound)
	svc := New(outbound, strategy, strategy, runner)

	_, err := svc.RunAssembly(context.Background())
	require.NoError(t, err)

	require.Len(t, outbound.commits, 1)
	require.Len(t, outbound.commits[0].NewTrips, 1)
	assert.NotNil(t, outbound.commits[0].NewTrips[0].Precision, "committed trip must carry the precision result computed during assembly")
}

type fixedTripStrategy struct {
	state *trip.AssemblerState
}

func (s *fixedTripStrategy) ID() trip.AssemblerID { return trip.AssemblerLandings }

func (s *fixedTripStrategy) Assemble(ctx context.Context, v vessel.Vessel, events []vesselevent.VesselEvent) (*trip.AssemblerState, error) {
	return s.state, nil
}
