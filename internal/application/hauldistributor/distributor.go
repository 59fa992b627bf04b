// Package hauldistributor wires haul.Distribute against position and
// catch-location lookups to produce persisted HaulDistribution rows
//.
package hauldistributor

import (
	"context"

	"github.com/orcalabs/kyogre/internal/domain/catchlocation"
	"github.com/orcalabs/kyogre/internal/domain/geo"
	"github.com/orcalabs/kyogre/internal/domain/haul"
)

// Source loads the inputs the distributor needs and persists its output.
type Source interface {
	HaulsNeedingDistribution(ctx context.Context) ([]haul.Haul, error)
	PositionPointsDuring(ctx context.Context, h haul.Haul) ([]geo.Point, error)
	SaveDistributions(ctx context.Context, dists []haul.Distribution) error
}

// Distributor drives the haul-distribution stage.
type Distributor struct {
	source Source
	lookup *catchlocation.Lookup
}

// New builds a Distributor.
func New(source Source, lookup *catchlocation.Lookup) *Distributor {
	return &Distributor{source: source, lookup: lookup}
}

// Run distributes every haul currently lacking a catch-location
// assignment and persists the result.
func (d *Distributor) Run(ctx context.Context) (int, error) {
	hauls, err := d.source.HaulsNeedingDistribution(ctx)
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, h := range hauls {
		points, err := d.source.PositionPointsDuring(ctx, h)
		if err != nil {
			return processed, err
		}

		counts := d.countByLocation(h, points)
		dists := haul.Distribute(h, counts)
		if len(dists) == 0 {
			continue
		}
		if err := d.source.SaveDistributions(ctx, dists); err != nil {
			return processed, err
		}
		processed++
	}
	return processed, nil
}

// countByLocation resolves each position to its catch location and tallies
// occurrences. Whenever at least one position resolves, positions alone
// determine the distribution. Only when none resolves (or there are no
// positions) does the haul's own StartLatitude/Longitude decide, counted
// once.
func (d *Distributor) countByLocation(h haul.Haul, points []geo.Point) map[catchlocation.ID]int {
	counts := make(map[catchlocation.ID]int)
	for _, p := range points {
		if id, ok := d.lookup.Resolve(p); ok {
			counts[id]++
		}
	}
	if len(counts) == 0 {
		if id, ok := d.lookup.Resolve(geo.Point{Lat: h.StartLatitude, Lon: h.StartLongitude}); ok {
			counts[id] = 1
		}
	}
	return counts
}
