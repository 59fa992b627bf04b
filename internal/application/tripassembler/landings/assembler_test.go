package landings

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

func landing(at string) vesselevent.VesselEvent {
	return vesselevent.VesselEvent{Kind: vesselevent.KindLanding, Timestamp: ts(at)}
}

func TestAssemble_FirstTripLooksBack24h(t *testing.T) {
	events := []vesselevent.VesselEvent{landing("2023-01-10T00:00:00Z")}

	a := New()
	state, err := a.Assemble(context.Background(), vessel.Vessel{}, events)
	require.NoError(t, err)
	require.Len(t, state.NewTrips, 1)

	trip := state.NewTrips[0]
	assert.True(t, trip.Period.Start.Equal(ts("2023-01-09T00:00:00Z")))
	assert.True(t, trip.Period.End.Equal(ts("2023-01-10T00:00:00Z")))
	assert.Equal(t, trip.Period, trip.LandingCoverage)
}

// Landings at t1 and t3, then a conflicting
// landing inserted at t2 splits the t1-t3 trip into t1-t2, t2-t3.
func TestAssemble_ConflictingLandingSplitsTrip(t *testing.T) {
	events := []vesselevent.VesselEvent{
		landing("2023-01-10T00:00:00Z"),
		landing("2023-01-20T00:00:00Z"),
		landing("2023-01-30T00:00:00Z"),
	}

	a := New()
	state, err := a.Assemble(context.Background(), vessel.Vessel{}, events)
	require.NoError(t, err)
	require.Len(t, state.NewTrips, 3)

	expected := [][2]string{
		{"2023-01-09T00:00:00Z", "2023-01-10T00:00:00Z"},
		{"2023-01-10T00:00:00Z", "2023-01-20T00:00:00Z"},
		{"2023-01-20T00:00:00Z", "2023-01-30T00:00:00Z"},
	}
	for i, exp := range expected {
		assert.True(t, state.NewTrips[i].Period.Start.Equal(ts(exp[0])), "trip %d start", i)
		assert.True(t, state.NewTrips[i].Period.End.Equal(ts(exp[1])), "trip %d end", i)
		assert.Equal(t, state.NewTrips[i].Period, state.NewTrips[i].LandingCoverage)
	}
}

func TestAssemble_NoLandingEvents(t *testing.T) {
	a := New()
	state, err := a.Assemble(context.Background(), vessel.Vessel{}, nil)
	require.NoError(t, err)
	assert.Nil(t, state)
}
