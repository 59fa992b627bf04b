package setbuilder

import (
	"context"
	"fmt"

	"github.com/orcalabs/kyogre/internal/domain/landing"
	"github.com/orcalabs/kyogre/internal/domain/setbuilder"
	"github.com/orcalabs/kyogre/internal/domain/shared"
)

// LandingStore is the transactional commit port for the landings
// set-builder: upsert the deduplicated landing facts, bumping the matrix
// cache's authoritative version in the same transaction since a new or
// replaced landing changes the catch aggregate the matrix derives from.
type LandingStore interface {
	UpsertLandings(ctx context.Context, landings []landing.Landing) error
}

// LandingSetBuilder stages a batch of landing facts, deduplicating by
// landing id. Later occurrences of the same id within a batch are
// corrections and replace the earlier value; upstream landings are
// append/correct-in-place, never mutated in place.
type LandingSetBuilder struct {
	buf *setbuilder.Buffer[landing.ID, landing.Landing]
}

// NewLandingSetBuilder returns an empty builder.
func NewLandingSetBuilder() *LandingSetBuilder {
	return &LandingSetBuilder{buf: setbuilder.NewBuffer[landing.ID, landing.Landing]()}
}

// Add stages one landing, overwriting any prior staging of the same id in
// this batch.
func (b *LandingSetBuilder) Add(l landing.Landing) {
	b.buf.Add(l.ID, l)
}

// Landings returns the deduplicated landings ready to upsert.
func (b *LandingSetBuilder) Landings() []landing.Landing {
	return b.buf.Values()
}

// Commit performs the single transactional upsert of this batch's
// deduplicated landing set; it is the only place a batch's normalized
// output is written.
func (b *LandingSetBuilder) Commit(ctx context.Context, store LandingStore) (int, error) {
	landings := b.Landings()
	if len(landings) == 0 {
		return 0, nil
	}
	if err := store.UpsertLandings(ctx, landings); err != nil {
		return 0, shared.NewTimeoutError("setbuilder.Commit", fmt.Sprintf("upserting %d landings: %v", len(landings), err))
	}
	return len(landings), nil
}
