// Package matrix holds the 5-axis dense MatrixCell aggregate and the
// query/refresh types that drive the matrix cache.
package matrix

import (
	"github.com/orcalabs/kyogre/internal/domain/catchlocation"
	"github.com/orcalabs/kyogre/internal/domain/haul"
	"github.com/orcalabs/kyogre/internal/domain/vessel"
)

// EpochYear anchors MonthBucket arithmetic.
const EpochYear = 1970

// MonthBucket linearizes (year, month) as months-since-EpochYear so axis
// filters and bucketing reduce to integer comparisons.
type MonthBucket int32

// NewMonthBucket computes the bucket for a calendar year/month (month is
// 1-indexed).
func NewMonthBucket(year int, month int) MonthBucket {
	return MonthBucket((year-EpochYear)*12 + (month - 1))
}

// Axis names one of the five dimensions a MatrixCell is keyed by.
type Axis int

const (
	AxisMonthBucket Axis = iota
	AxisCatchLocation
	AxisGearGroup
	AxisSpeciesGroup
	AxisVesselLengthGroup
)

// Cell is one aggregated living-weight bucket.
type Cell struct {
	MonthBucket       MonthBucket
	CatchLocation     catchlocation.ID
	GearGroup         haul.GearGroup
	SpeciesGroup      haul.SpeciesGroup
	VesselLengthGroup vessel.LengthGroup
	LivingWeightKg    float64
}

// Key is the 5-tuple identifying one cell, usable as a map key for
// in-memory aggregation during a refresh.
type Key struct {
	MonthBucket       MonthBucket
	CatchLocation     catchlocation.ID
	GearGroup         haul.GearGroup
	SpeciesGroup      haul.SpeciesGroup
	VesselLengthGroup vessel.LengthGroup
}

// Query describes one matrix read: a pivot (X/Y axes) plus optional
// array-membership filters on the remaining axes. Filters on the pivot
// axes are ignored by the compiler (the pivot is never filtered, to avoid
// collapsing the very axis being projected).
type Query struct {
	XAxis                    Axis
	YAxis                    Axis

	MonthBuckets             []MonthBucket
	CatchLocations           []catchlocation.ID
	GearGroups               []haul.GearGroup
	SpeciesGroups            []haul.SpeciesGroup
	VesselLengthGroups       []vessel.LengthGroup
	VesselIDs                []vessel.FiskeridirVesselId

	// Haul-only refinements.
	MinBycatchPercentage     *float64
	MajorityOnlySpeciesGroup *haul.SpeciesGroup
}

// CompiledFilter is one non-projected axis's array-membership predicate.
type CompiledFilter struct {
	Axis   Axis
	Values []string
}

// Compile builds the per-axis membership filters for a query, skipping
// axes that are the pivot (XAxis/YAxis) so the projection is never
// filtered against itself.
func (q Query) Compile() []CompiledFilter {
	var filters []CompiledFilter
	add := func(axis Axis, values []string) {
		if axis == q.XAxis || axis == q.YAxis || len(values) == 0 {
			return
		}
		filters = append(filters, CompiledFilter{Axis: axis, Values: values})
	}

	add(AxisMonthBucket, monthBucketsToStrings(q.MonthBuckets))
	add(AxisCatchLocation, catchLocationsToStrings(q.CatchLocations))
	add(AxisGearGroup, gearGroupsToStrings(q.GearGroups))
	add(AxisSpeciesGroup, speciesGroupsToStrings(q.SpeciesGroups))
	add(AxisVesselLengthGroup, lengthGroupsToStrings(q.VesselLengthGroups))
	return filters
}
