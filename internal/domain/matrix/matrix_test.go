package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/orcalabs/kyogre/internal/domain/catchlocation"
	"github.com/orcalabs/kyogre/internal/domain/haul"
	"github.com/orcalabs/kyogre/internal/domain/matrix"
)

func TestNewMonthBucket(t *testing.T) {
	assert.Equal(t, matrix.MonthBucket(0), matrix.NewMonthBucket(1970, 1))
	assert.Equal(t, matrix.MonthBucket(12), matrix.NewMonthBucket(1971, 1))
	assert.Equal(t, matrix.MonthBucket(11), matrix.NewMonthBucket(1970, 12))
}

func TestVersionState_Stale(t *testing.T) {
	assert.True(t, matrix.VersionState{Authoritative: 5, Cached: 4}.Stale())
	assert.False(t, matrix.VersionState{Authoritative: 5, Cached: 5}.Stale())
}

func TestQuery_Compile_SkipsPivotAxes(t *testing.T) {
	q := matrix.Query{
		XAxis:          matrix.AxisMonthBucket,
		YAxis:          matrix.AxisCatchLocation,
		MonthBuckets:   []matrix.MonthBucket{1, 2},
		CatchLocations: []catchlocation.ID{"09-12"},
		GearGroups:     []haul.GearGroup{"trawl"},
	}

	filters := q.Compile()
	assert.Len(t, filters, 1)
	assert.Equal(t, matrix.AxisGearGroup, filters[0].Axis)
	assert.Equal(t, []string{"trawl"}, filters[0].Values)
}

func TestQuery_Compile_OmitsEmptyFilters(t *testing.T) {
	q := matrix.Query{XAxis: matrix.AxisMonthBucket, YAxis: matrix.AxisGearGroup}
	assert.Empty(t, q.Compile())
}

func TestQuery_Compile_MultipleNonPivotAxes(t *testing.T) {
	q := matrix.Query{
		XAxis:              matrix.AxisMonthBucket,
		YAxis:              matrix.AxisGearGroup,
		CatchLocations:     []catchlocation.ID{"09-12", "09-13"},
		SpeciesGroups:      []haul.SpeciesGroup{"cod"},
		VesselLengthGroups: nil,
	}

	filters := q.Compile()
	assert.Len(t, filters, 2)
}
