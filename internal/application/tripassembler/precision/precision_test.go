package precision

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orcalabs/kyogre/internal/domain/geo"
	"github.com/orcalabs/kyogre/internal/domain/trip"
)

type fixedAnchor struct {
	point geo.Point
	ok    bool
}

func (f fixedAnchor) Resolve(ctx context.Context, t trip.Trip) (geo.Point, bool, error) {
	return f.point, f.ok, nil
}

func candidate(t time.Time, lat, lon float64) trip.PositionCandidate {
	return trip.PositionCandidate{TimestampUnix: t.Unix(), Lat: lat, Lon: lon}
}

func baseTrip() trip.Trip {
	start := time.Date(2023, 1, 1, 8, 0, 0, 0, time.UTC)
	end := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	return trip.Trip{Period: geo.NewInterval(start, end)}
}

func TestRefine_ShrinkStart_MatchesAnchor_PreferFirstInChunk(t *testing.T) {
	anchorPoint := geo.Point{Lat: 60.0, Lon: 5.0}
	stg := NewStage(trip.PrecisionConfig{
		ID:         trip.AnchorPortCoordinate,
		Direction:  trip.DirectionStart,
		Preference: trip.PreferFirstInChunk,
	}, fixedAnchor{point: anchorPoint, ok: true})

	tr := baseTrip()
	base := tr.Period.Start
	candidates := []trip.PositionCandidate{
		candidate(base, 60.0001, 5.0001),
		candidate(base.Add(time.Minute), 60.0002, 5.0002),
	}

	res, err := stg.Refine(context.Background(), tr, candidates)
	require.NoError(t, err)
	assert.Equal(t, trip.PrecisionSuccess, res.Outcome)
	assert.True(t, res.Period.Start.Equal(base))
	assert.True(t, res.Period.End.Equal(tr.Period.End))
}

func TestRefine_NoMatchingCluster_Fails(t *testing.T) {
	anchorPoint := geo.Point{Lat: 60.0, Lon: 5.0}
	stg := NewStage(trip.PrecisionConfig{
		ID:        trip.AnchorPortCoordinate,
		Direction: trip.DirectionStart,
	}, fixedAnchor{point: anchorPoint, ok: true})

	tr := baseTrip()
	candidates := []trip.PositionCandidate{
		candidate(tr.Period.Start, 10.0, 10.0), // far from anchor
	}

	res, err := stg.Refine(context.Background(), tr, candidates)
	require.NoError(t, err)
	assert.Equal(t, trip.PrecisionFailed, res.Outcome)
}

func TestRefine_AnchorUnresolved_Fails(t *testing.T) {
	stg := NewStage(trip.PrecisionConfig{ID: trip.AnchorDeliveryPointCoordinate, Direction: trip.DirectionEnd},
		fixedAnchor{ok: false})

	tr := baseTrip()
	res, err := stg.Refine(context.Background(), tr, []trip.PositionCandidate{candidate(tr.Period.End, 1, 1)})
	require.NoError(t, err)
	assert.Equal(t, trip.PrecisionFailed, res.Outcome)
}

func TestRefine_StartExceedsEnd_Fails(t *testing.T) {
	anchorPoint := geo.Point{Lat: 60.0, Lon: 5.0}
	stg := NewStage(trip.PrecisionConfig{
		ID:        trip.AnchorPortCoordinate,
		Direction: trip.DirectionStart,
	}, fixedAnchor{point: anchorPoint, ok: true})

	tr := baseTrip()
	// Candidate timestamped after trip end: shrinking start to it would
	// make start >= end.
	afterEnd := tr.Period.End.Add(time.Hour)
	candidates := []trip.PositionCandidate{candidate(afterEnd, 60.0001, 5.0001)}

	res, err := stg.Refine(context.Background(), tr, candidates)
	require.NoError(t, err)
	assert.Equal(t, trip.PrecisionFailed, res.Outcome)
}

// Scenario-style test for the AnchorFirstMovedPoint implementation: shrinks
// trip start to the first position showing meaningful movement.
func TestRefine_FirstMovedPoint(t *testing.T) {
	stg := NewStage(trip.PrecisionConfig{
		ID:                 trip.AnchorFirstMovedPoint,
		Direction:          trip.DirectionStart,
		DistanceThresholdM: 500,
	}, fixedAnchor{})

	tr := baseTrip()
	base := tr.Period.Start
	candidates := []trip.PositionCandidate{
		candidate(base, 60.0, 5.0),
		candidate(base.Add(time.Minute), 60.0, 5.0),          // no movement
		candidate(base.Add(2*time.Minute), 61.0, 6.0),        // large jump
	}

	res, err := stg.Refine(context.Background(), tr, candidates)
	require.NoError(t, err)
	assert.Equal(t, trip.PrecisionSuccess, res.Outcome)
	assert.True(t, res.Period.Start.Equal(base.Add(2*time.Minute)))
}

func TestRefine_FirstMovedPoint_TooFewCandidates(t *testing.T) {
	stg := NewStage(trip.PrecisionConfig{ID: trip.AnchorFirstMovedPoint, Direction: trip.DirectionStart}, fixedAnchor{})
	tr := baseTrip()
	res, err := stg.Refine(context.Background(), tr, []trip.PositionCandidate{candidate(tr.Period.Start, 1, 1)})
	require.NoError(t, err)
	assert.Equal(t, trip.PrecisionFailed, res.Outcome)
}
