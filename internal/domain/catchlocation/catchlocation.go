// Package catchlocation holds the fixed grid of catch-location cells used
// to bucket hauls and landings by area for the matrix cache.
package catchlocation

import "github.com/orcalabs/kyogre/internal/domain/geo"

// ID is the Norwegian "hovedområde/lokasjon" code, e.g. "09-10".
type ID string

// CatchLocation is one cell of the fixed catch-location grid. The grid is
// loaded once at startup from a reference table and never mutated by the
// pipeline; only the lookup below is exercised at runtime.
type CatchLocation struct {
	ID      ID
	Polygon geo.Polygon
}

// Lookup resolves points to catch locations by polygon containment. Built
// once from the full grid and reused across a run since the grid never
// changes between stages.
type Lookup struct {
	locations []CatchLocation
}

// NewLookup builds a Lookup from the full set of catch locations.
func NewLookup(locations []CatchLocation) *Lookup {
	return &Lookup{locations: locations}
}

// Resolve returns the catch location containing p, or ok=false if p falls
// outside every known cell (open ocean gaps in the grid are expected).
func (l *Lookup) Resolve(p geo.Point) (ID, bool) {
	for _, loc := range l.locations {
		if loc.Polygon.Contains(p) {
			return loc.ID, true
		}
	}
	return "", false
}
