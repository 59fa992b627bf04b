package tripassembler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orcalabs/kyogre/internal/domain/geo"
	"github.com/orcalabs/kyogre/internal/domain/trip"
	"github.com/orcalabs/kyogre/internal/domain/vessel"
	"github.com/orcalabs/kyogre/internal/domain/vesselevent"
)

// fakeOutbound is an in-memory trip.Outbound that records every "since"
// value EventStream was called with, so tests can assert on what window
// of history the service asked for.
type fakeOutbound struct {
	vessels    []vessel.Vessel
	events     map[vessel.FiskeridirVesselId][]vesselevent.VesselEvent
	sinceCalls []int64
	commits    []trip.AssemblerState
}

func (f *fakeOutbound) VesselsToProcess(ctx context.Context) ([]vessel.Vessel, error) {
	return f.vessels, nil
}

func (f *fakeOutbound) EventStream(ctx context.Context, vesselID vessel.FiskeridirVesselId, since int64) ([]vesselevent.VesselEvent, error) {
	f.sinceCalls = append(f.sinceCalls, since)
	return f.events[vesselID], nil
}

func (f *fakeOutbound) CommitAssemblerState(ctx context.Context, vesselID vessel.FiskeridirVesselId, assembler trip.AssemblerID, state trip.AssemblerState) error {
	f.commits = append(f.commits, state)
	return nil
}

func (f *fakeOutbound) PositionCandidates(ctx context.Context, vesselID vessel.FiskeridirVesselId, window geo.Interval) ([]trip.PositionCandidate, error) {
	return nil, nil
}

// fakeStrategy returns a fixed AssemblerState built from however many
// events it was handed, so tests can tell whether a retroactively added
// event reached the assembler at all.
type fakeStrategy struct {
	id trip.AssemblerID
}

func (s *fakeStrategy) ID() trip.AssemblerID { return s.id }

func (s *fakeStrategy) Assemble(ctx context.Context, v vessel.Vessel, events []vesselevent.VesselEvent) (*trip.AssemblerState, error) {
	return &trip.AssemblerState{
		NewTrips:         make([]trip.NewTrip, len(events)),
		ConflictStrategy: trip.ConflictReplace,
	}, nil
}

func landingEvent(vesselID vessel.FiskeridirVesselId, at string) vesselevent.VesselEvent {
	t, err := time.Parse(time.RFC3339, at)
	if err != nil {
		panic(err)
	}
	return vesselevent.VesselEvent{VesselID: vesselID, Kind: vesselevent.KindLanding, Timestamp: t}
}

// TestRunAssembly_ReprocessesFullHistoryEveryCycle locks in the fix for
// the retroactive-event gap: a late-arriving event whose own timestamp
// predates events already assembled in a prior run (a late DCA
// correction) must still be visible on the next RunAssembly call. An
// incremental "since" watermark derived from the prior run's last event
// would exclude it; EventStream must always be asked for full history.
func TestRunAssembly_ReprocessesFullHistoryEveryCycle(t *testing.T) {
	vesselID := vessel.FiskeridirVesselId(1)
	v := vessel.Vessel{ID: vesselID}
	strategy := &fakeStrategy{id: trip.AssemblerLandings}
	outbound := &fakeOutbound{
		vessels: []vessel.Vessel{v},
		events: map[vessel.FiskeridirVesselId][]vesselevent.VesselEvent{
			vesselID: {landingEvent(vesselID, "2024-01-10T00:00:00Z")},
		},
	}
	svc := New(outbound, strategy, strategy, nil)

	_, err := svc.RunAssembly(context.Background())
	require.NoError(t, err)

	// A retroactive event arrives with a timestamp earlier than the one
	// already processed above.
	outbound.events[vesselID] = append(outbound.events[vesselID], landingEvent(vesselID, "2024-01-01T00:00:00Z"))

	processed, err := svc.RunAssembly(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int64{fullHistory, fullHistory}, outbound.sinceCalls)
	require.Len(t, outbound.commits, 2)
	assert.Len(t, outbound.commits[1].NewTrips, 2, "retroactive event must reach the assembler on the next run")
	assert.Equal(t, 2, processed)
}

// TestRunAssembly_NoEventsSkipsCommit confirms a vessel with no recorded
// events yet never reaches CommitAssemblerState.
func TestRunAssembly_NoEventsSkipsCommit(t *testing.T) {
	vesselID := vessel.FiskeridirVesselId(2)
	strategy := &fakeStrategy{id: trip.AssemblerLandings}
	outbound := &fakeOutbound{
		vessels: []vessel.Vessel{{ID: vesselID}},
		events:  map[vessel.FiskeridirVesselId][]vesselevent.VesselEvent{},
	}
	svc := New(outbound, strategy, strategy, nil)

	processed, err := svc.RunAssembly(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, processed)
	assert.Empty(t, outbound.commits)
}
