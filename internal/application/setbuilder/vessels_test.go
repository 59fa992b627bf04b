package setbuilder

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orcalabs/kyogre/internal/domain/vessel"
)

type fakeStore struct {
	upserted  []VesselSighting
	conflicts []vessel.MappingConflict
	upsertErr error
}

func (s *fakeStore) UpsertVesselIdentities(ctx context.Context, sightings []VesselSighting) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.upserted = append(s.upserted, sightings...)
	return nil
}

func (s *fakeStore) RecordMappingConflict(ctx context.Context, conflict vessel.MappingConflict, detectedAt time.Time) error {
	s.conflicts = append(s.conflicts, conflict)
	return nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func mmsi(v int) *int { return &v }

func TestVesselSetBuilder_AddDeduplicatesSameKeySameVessel(t *testing.T) {
	b := NewVesselSetBuilder()
	b.Add(VesselSighting{VesselID: 1, CallSign: "LK1", Mmsi: mmsi(100)})
	b.Add(VesselSighting{VesselID: 1, CallSign: "LK1", Mmsi: mmsi(100)})

	assert.Len(t, b.Sightings(), 1)
	assert.Empty(t, b.Conflicts())
}

func TestVesselSetBuilder_AddDetectsConflictFirstWriteWins(t *testing.T) {
	b := NewVesselSetBuilder()
	b.Add(VesselSighting{VesselID: 1, CallSign: "LK1", Mmsi: mmsi(100)})
	b.Add(VesselSighting{VesselID: 2, CallSign: "LK1", Mmsi: mmsi(100)})

	require.Len(t, b.Sightings(), 1)
	assert.Equal(t, vessel.FiskeridirVesselId(1), b.Sightings()[0].VesselID)

	require.Len(t, b.Conflicts(), 1)
	assert.Equal(t, "LK1", b.Conflicts()[0].CallSign)
	assert.Equal(t, []vessel.FiskeridirVesselId{1, 2}, b.Conflicts()[0].VesselIDs)
}

func TestVesselSetBuilder_DistinctMmsiNilIsDistinctKey(t *testing.T) {
	b := NewVesselSetBuilder()
	b.Add(VesselSighting{VesselID: 1, CallSign: "LK1", Mmsi: nil})
	b.Add(VesselSighting{VesselID: 2, CallSign: "LK1", Mmsi: mmsi(200)})

	assert.Len(t, b.Sightings(), 2)
	assert.Empty(t, b.Conflicts())
}

func TestVesselSetBuilder_Commit(t *testing.T) {
	b := NewVesselSetBuilder()
	b.Add(VesselSighting{VesselID: 1, CallSign: "LK1", Mmsi: mmsi(100)})
	b.Add(VesselSighting{VesselID: 2, CallSign: "LK1", Mmsi: mmsi(100)})

	store := &fakeStore{}
	clock := fixedClock{t: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}

	n, err := b.Commit(context.Background(), store, clock)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, store.upserted, 1)
	require.Len(t, store.conflicts, 1)
}

func TestVesselSetBuilder_CommitEmptyBatchSkipsUpsert(t *testing.T) {
	b := NewVesselSetBuilder()
	store := &fakeStore{}
	clock := fixedClock{t: time.Now()}

	n, err := b.Commit(context.Background(), store, clock)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Nil(t, store.upserted)
}

type fakeBatchSource struct {
	batches [][]VesselSighting
	idx     int
	err     error
}

func (s *fakeBatchSource) NextBatch(ctx context.Context) ([]VesselSighting, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.idx >= len(s.batches) {
		return nil, nil
	}
	batch := s.batches[s.idx]
	s.idx++
	return batch, nil
}

func TestService_RunScrape_CommitsNormalizedBatch(t *testing.T) {
	source := &fakeBatchSource{batches: [][]VesselSighting{
		{
			{VesselID: 1, CallSign: "LK1", Mmsi: mmsi(100)},
			{VesselID: 1, CallSign: "LK1", Mmsi: mmsi(100)},
			{VesselID: 2, CallSign: "LK2", Mmsi: mmsi(200)},
		},
	}}
	store := &fakeStore{}
	clock := fixedClock{t: time.Now()}

	svc := NewService(source, store, clock)
	n, err := svc.RunScrape(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, store.upserted, 2)
}

func TestService_RunScrape_EmptyBatchIsNoOp(t *testing.T) {
	source := &fakeBatchSource{}
	store := &fakeStore{}
	clock := fixedClock{t: time.Now()}

	svc := NewService(source, store, clock)
	n, err := svc.RunScrape(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Nil(t, store.upserted)
}
