// Package matrixcache implements the shadow-swap refresh protocol for the
// 5-axis matrix cache; query compilation is matrix.Query.Compile.
package matrixcache

import (
	"context"

	"github.com/orcalabs/kyogre/internal/domain/matrix"
)

// Refresher rebuilds the matrix cache whenever its recorded version falls
// behind the authoritative store's version.
type Refresher struct {
	store matrix.Store
}

// New builds a Refresher.
func New(store matrix.Store) *Refresher {
	return &Refresher{store: store}
}

// RefreshIfStale compares versions and, if stale, rebuilds the full
// aggregate into a shadow slice and atomically swaps it in. Readers
// querying during a refresh continue to see the prior consistent
// snapshot until the swap completes.
func (r *Refresher) RefreshIfStale(ctx context.Context) (refreshed bool, err error) {
	state, err := r.store.Version(ctx)
	if err != nil {
		return false, err
	}
	if !state.Stale() {
		return false, nil
	}

	cells, err := r.store.Aggregate(ctx)
	if err != nil {
		return false, err
	}
	if err := r.store.SwapShadow(ctx, cells, state.Authoritative); err != nil {
		return false, err
	}
	return true, nil
}

// Query resolves a compiled query against the reader's current snapshot.
func Query(ctx context.Context, reader matrix.Reader, q matrix.Query) ([]matrix.Cell, error) {
	return reader.Query(ctx, q)
}
