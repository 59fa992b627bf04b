package haul_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/orcalabs/kyogre/internal/domain/catchlocation"
	"github.com/orcalabs/kyogre/internal/domain/haul"
)

func TestDistribute_NoPositions(t *testing.T) {
	h := haul.Haul{ID: 1, Catches: []haul.Catch{{LivingWeightKg: 100}}}
	assert.Nil(t, haul.Distribute(h, nil))
	assert.Nil(t, haul.Distribute(h, map[catchlocation.ID]int{}))
}

func TestDistribute_SingleLocationGetsEverything(t *testing.T) {
	h := haul.Haul{ID: 1, Catches: []haul.Catch{{LivingWeightKg: 100}}}
	dists := haul.Distribute(h, map[catchlocation.ID]int{"09-12": 4})

	assert.Len(t, dists, 1)
	assert.Equal(t, "09-12", string(dists[0].CatchLocation))
	assert.Equal(t, 1.0, dists[0].WeightRatio)
	assert.Equal(t, 100.0, dists[0].LivingWeightKg)
}

func TestDistribute_ProportionalSplitWithRemainderToFirstBucket(t *testing.T) {
	h := haul.Haul{ID: 1, Catches: []haul.Catch{{LivingWeightKg: 100}}}
	positionCounts := map[catchlocation.ID]int{
		"09-12": 1,
		"09-13": 2,
		"09-14": 3, // lexicographically last but largest share
	}

	dists := haul.Distribute(h, positionCounts)
	assert.Len(t, dists, 3)

	var total float64
	for _, d := range dists {
		total += d.LivingWeightKg
	}
	// Every integer kg must be accounted for exactly, remainder included.
	assert.Equal(t, 100.0, total)

	// Lexicographically first id ("09-12") absorbs the rounding remainder.
	assert.Equal(t, "09-12", string(dists[0].CatchLocation))
}

func TestDistribute_RatiosSumToOne(t *testing.T) {
	h := haul.Haul{ID: 2, Catches: []haul.Catch{{LivingWeightKg: 333}}}
	positionCounts := map[catchlocation.ID]int{"a": 1, "b": 1, "c": 1}

	dists := haul.Distribute(h, positionCounts)
	var ratioSum float64
	for _, d := range dists {
		ratioSum += d.WeightRatio
	}
	assert.InDelta(t, 1.0, ratioSum, 1e-9)
}

func TestTotalLivingWeightKg(t *testing.T) {
	h := haul.Haul{Catches: []haul.Catch{
		{LivingWeightKg: 10},
		{LivingWeightKg: 15.5},
	}}
	assert.Equal(t, 25.5, h.TotalLivingWeightKg())
}
