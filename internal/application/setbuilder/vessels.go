// Package setbuilder normalizes incoming vessel-sighting batches into the
// vessel upserts and mapping-conflict records the row store commits
// transactionally.
package setbuilder

import (
	"context"
	"fmt"
	"time"

	"github.com/orcalabs/kyogre/internal/domain/setbuilder"
	"github.com/orcalabs/kyogre/internal/domain/shared"
	"github.com/orcalabs/kyogre/internal/domain/vessel"
)

// VesselSighting is one raw (call_sign, mmsi) -> vessel id observation drawn
// from an upstream batch (vessel registry scrape, AIS/VMS feed, ERS
// message). The set-builder does not care which upstream source produced
// it; normalization is identical either way.
type VesselSighting struct {
	VesselID vessel.FiskeridirVesselId
	CallSign string
	Mmsi     *int
}

// naturalKey is the (call_sign, mmsi) pair the vessel invariant is keyed on.
type naturalKey struct {
	callSign string
	mmsi     int
}

func keyFor(s VesselSighting) naturalKey {
	mmsi := -1
	if s.Mmsi != nil {
		mmsi = *s.Mmsi
	}
	return naturalKey{callSign: s.CallSign, mmsi: mmsi}
}

// Store is the transactional commit port: upsert the deduplicated vessel
// identities and persist any mapping conflicts detected while building the
// batch.
type Store interface {
	UpsertVesselIdentities(ctx context.Context, sightings []VesselSighting) error
	RecordMappingConflict(ctx context.Context, conflict vessel.MappingConflict, detectedAt time.Time) error
}

// Clock abstracts the conflict-detection timestamp for testability.
type Clock interface {
	Now() time.Time
}

// VesselSetBuilder stages a batch of vessel sightings, deduplicates by
// natural key, and detects mapping conflicts: each active (call_sign,
// mmsi) pair must map to at most one vessel, and a conflict is recorded
// rather than silently overwritten.
type VesselSetBuilder struct {
	buf       *setbuilder.Buffer[naturalKey, VesselSighting]
	conflicts []vessel.MappingConflict
}

// NewVesselSetBuilder returns an empty builder.
func NewVesselSetBuilder() *VesselSetBuilder {
	return &VesselSetBuilder{buf: setbuilder.NewBuffer[naturalKey, VesselSighting]()}
}

// Add stages one sighting. If a different vessel id was already staged
// under the same (call_sign, mmsi) key in this batch, the conflict is
// recorded and the first-seen mapping is kept (first-write-wins for
// conflicting identities, unlike the buffer's usual last-write-wins, since
// silently overwriting a vessel mapping would violate the invariant).
func (b *VesselSetBuilder) Add(s VesselSighting) {
	key := keyFor(s)
	if existing, ok := b.buf.Get(key); ok && existing.VesselID != s.VesselID {
		b.conflicts = append(b.conflicts, vessel.MappingConflict{
			CallSign:  s.CallSign,
			Mmsi:      s.Mmsi,
			VesselIDs: []vessel.FiskeridirVesselId{existing.VesselID, s.VesselID},
		})
		return
	}
	b.buf.Add(key, s)
}

// Sightings returns the deduplicated, conflict-free vessel identities ready
// to upsert.
func (b *VesselSetBuilder) Sightings() []VesselSighting {
	return b.buf.Values()
}

// Conflicts returns every mapping conflict detected while staging this
// batch.
func (b *VesselSetBuilder) Conflicts() []vessel.MappingConflict {
	return b.conflicts
}

// Commit performs the single transactional commit: upsert the
// deduplicated vessel set, then persist every detected conflict. This is
// the only place a batch's normalized output is written; the row store
// never sees individual raw sightings.
func (b *VesselSetBuilder) Commit(ctx context.Context, store Store, clock Clock) (int, error) {
	sightings := b.Sightings()
	if len(sightings) > 0 {
		if err := store.UpsertVesselIdentities(ctx, sightings); err != nil {
			return 0, shared.NewTimeoutError("setbuilder.Commit", fmt.Sprintf("upserting %d vessels: %v", len(sightings), err))
		}
	}
	now := clock.Now()
	for _, c := range b.conflicts {
		if err := store.RecordMappingConflict(ctx, c, now); err != nil {
			return len(sightings), fmt.Errorf("recording mapping conflict for %s: %w", c.CallSign, err)
		}
	}
	return len(sightings), nil
}
