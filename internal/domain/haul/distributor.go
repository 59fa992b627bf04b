package haul

import (
	"math"
	"sort"

	"github.com/orcalabs/kyogre/internal/domain/catchlocation"
)

// Distribute spreads a haul's total living
// weight (in whole kg) across the catch locations its positions fell in,
// proportional to position count, with the integer-rounding remainder
// going to the first bucket in a stable (lexicographic catch-location id)
// order.
func Distribute(h Haul, positionCounts map[catchlocation.ID]int) []Distribution {
	if len(positionCounts) == 0 {
		return nil
	}

	ids := make([]catchlocation.ID, 0, len(positionCounts))
	total := 0
	for id, count := range positionCounts {
		ids = append(ids, id)
		total += count
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	if total == 0 {
		return nil
	}

	totalWeightKg := int64(math.Round(h.TotalLivingWeightKg()))
	dists := make([]Distribution, 0, len(ids))
	assignedKg := int64(0)
	for _, id := range ids {
		count := positionCounts[id]
		ratio := float64(count) / float64(total)
		weightKg := int64(math.Floor(float64(totalWeightKg) * ratio))
		assignedKg += weightKg
		dists = append(dists, Distribution{
			HaulID:         h.ID,
			CatchLocation:  id,
			WeightRatio:    ratio,
			LivingWeightKg: float64(weightKg),
		})
	}
	if remainder := totalWeightKg - assignedKg; remainder != 0 && len(dists) > 0 {
		dists[0].LivingWeightKg += float64(remainder)
	}
	return dists
}
