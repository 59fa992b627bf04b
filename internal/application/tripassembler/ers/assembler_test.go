package ers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orcalabs/kyogre/internal/domain/vessel"
	"github.com/orcalabs/kyogre/internal/domain/vesselevent"
)

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func dep(estimated string, seq int32) vesselevent.VesselEvent {
	t := ts(estimated)
	return vesselevent.VesselEvent{
		Kind:           vesselevent.KindErsDep,
		Timestamp:      t,
		SequenceNumber: seq,
		ErsMessage:     &vesselevent.ErsMessage{EstimatedTimestamp: t},
	}
}

func por(estimated string, seq int32) vesselevent.VesselEvent {
	t := ts(estimated)
	return vesselevent.VesselEvent{
		Kind:           vesselevent.KindErsPor,
		Timestamp:      t,
		SequenceNumber: seq,
		ErsMessage:     &vesselevent.ErsMessage{EstimatedTimestamp: t},
	}
}

// A single DEP/POR pair produces one trip with
// the 6h-shifted, no-successor +3day landing coverage extension.
func TestAssemble_SingleDepPorPair(t *testing.T) {
	events := []vesselevent.VesselEvent{
		dep("2023-01-01T08:00:00Z", 1),
		por("2023-01-02T10:00:00Z", 2),
	}

	a := New()
	state, err := a.Assemble(context.Background(), vessel.Vessel{}, events)
	require.NoError(t, err)
	require.NotNil(t, state)
	require.Len(t, state.NewTrips, 1)

	trip := state.NewTrips[0]
	assert.True(t, trip.Period.Start.Equal(ts("2023-01-01T08:00:00Z")))
	assert.True(t, trip.Period.End.Equal(ts("2023-01-02T10:00:00Z")))

	assert.True(t, trip.LandingCoverage.Start.Equal(ts("2023-01-02T04:00:00Z")))
	assert.True(t, trip.LandingCoverage.End.Equal(ts("2023-01-05T10:00:00Z")))
}

// Two complete DEP/POR pairs produce two trips, and the second trip
// starts at its own DEP rather than reusing the first one.
func TestAssemble_BackToBackTrips_SecondStartsAtOwnDep(t *testing.T) {
	events := []vesselevent.VesselEvent{
		dep("2023-01-01T08:00:00Z", 1),
		por("2023-01-02T10:00:00Z", 2),
		dep("2023-01-05T07:00:00Z", 3),
		por("2023-01-06T09:00:00Z", 4),
	}

	a := New()
	state, err := a.Assemble(context.Background(), vessel.Vessel{}, events)
	require.NoError(t, err)
	require.NotNil(t, state)
	require.Len(t, state.NewTrips, 2)

	first, second := state.NewTrips[0], state.NewTrips[1]
	assert.True(t, first.Period.Start.Equal(ts("2023-01-01T08:00:00Z")))
	assert.True(t, first.Period.End.Equal(ts("2023-01-02T10:00:00Z")))
	assert.True(t, second.Period.Start.Equal(ts("2023-01-05T07:00:00Z")))
	assert.True(t, second.Period.End.Equal(ts("2023-01-06T09:00:00Z")))
}

func TestAssemble_DiscardsLeadingPOR(t *testing.T) {
	events := []vesselevent.VesselEvent{
		por("2023-01-01T00:00:00Z", 1),
		dep("2023-01-02T08:00:00Z", 2),
		por("2023-01-03T10:00:00Z", 3),
	}

	a := New()
	state, err := a.Assemble(context.Background(), vessel.Vessel{}, events)
	require.NoError(t, err)
	require.Len(t, state.NewTrips, 1)
	assert.True(t, state.NewTrips[0].Period.Start.Equal(ts("2023-01-02T08:00:00Z")))
}

func TestAssemble_CollapsesConsecutiveDepsAndPors(t *testing.T) {
	events := []vesselevent.VesselEvent{
		dep("2023-01-01T08:00:00Z", 1),
		dep("2023-01-01T09:00:00Z", 2),
		por("2023-01-02T10:00:00Z", 3),
		por("2023-01-02T11:00:00Z", 4),
	}

	a := New()
	state, err := a.Assemble(context.Background(), vessel.Vessel{}, events)
	require.NoError(t, err)
	require.Len(t, state.NewTrips, 1)
	assert.True(t, state.NewTrips[0].Period.Start.Equal(ts("2023-01-01T08:00:00Z")))
	assert.True(t, state.NewTrips[0].Period.End.Equal(ts("2023-01-02T11:00:00Z")))
}

// A short (<6h) trip uses POR itself as coverage start, and a short
// successor trip uses its POR as coverage end.
func TestAssemble_ShortTripCoverageCollapse(t *testing.T) {
	events := []vesselevent.VesselEvent{
		dep("2023-01-01T08:00:00Z", 1),
		por("2023-01-01T10:00:00Z", 2), // 2h trip, shorter than 6h
		dep("2023-01-01T11:00:00Z", 3),
		por("2023-01-01T13:00:00Z", 4), // also shorter than 6h
	}

	a := New()
	state, err := a.Assemble(context.Background(), vessel.Vessel{}, events)
	require.NoError(t, err)
	require.Len(t, state.NewTrips, 2)

	first := state.NewTrips[0]
	assert.True(t, first.LandingCoverage.Start.Equal(ts("2023-01-01T10:00:00Z")))
	assert.True(t, first.LandingCoverage.End.Equal(ts("2023-01-01T13:00:00Z")))
}

func TestAssemble_NoErsEvents(t *testing.T) {
	a := New()
	state, err := a.Assemble(context.Background(), vessel.Vessel{}, nil)
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestAssemble_PorPrecedesDepIsInvariantError(t *testing.T) {
	events := []vesselevent.VesselEvent{
		dep("2023-01-02T08:00:00Z", 1),
		por("2023-01-01T10:00:00Z", 2),
	}
	a := New()
	_, err := a.Assemble(context.Background(), vessel.Vessel{}, events)
	assert.Error(t, err)
}
