package matrix

import "context"

// VersionState tracks the authoritative and cache-recorded matrix_cache_version
// so the refresher can detect which slices are stale.
type VersionState struct {
	Authoritative int64
	Cached        int64
}

// Stale reports whether the cache has fallen behind the authoritative
// version and needs a refresh.
func (v VersionState) Stale() bool {
	return v.Cached < v.Authoritative
}

// Store is the port the matrix cache refresher uses to read authoritative
// aggregates and swap in a freshly built shadow slice atomically.
type Store interface {
	Version(ctx context.Context) (VersionState, error)
	Aggregate(ctx context.Context) (map[Key]float64, error)
	SwapShadow(ctx context.Context, cells map[Key]float64, version int64) error
}

// Reader is the query-side port: resolve a compiled query against the
// current (post-swap) snapshot.
type Reader interface {
	Query(ctx context.Context, q Query) ([]Cell, error)
}
