// Package haul holds the Haul fishing-operation entity and its distributed
// catch-location weight breakdown.
package haul

import (
	"time"

	"github.com/orcalabs/kyogre/internal/domain/catchlocation"
	"github.com/orcalabs/kyogre/internal/domain/vessel"
)

// ID uniquely identifies a haul.
type ID int64

// GearGroup is the coarse gear classification used for matrix bucketing.
type GearGroup string

// SpeciesGroup is the coarse species classification used for matrix
// bucketing.
type SpeciesGroup string

// Catch is one species' contribution to a haul's total catch.
type Catch struct {
	SpeciesFiskeridirID int32
	SpeciesGroup        SpeciesGroup
	LivingWeightKg      float64
}

// Haul is a single fishing operation: a gear deployment between a start and
// stop timestamp, with its observed catch.
type Haul struct {
	ID             ID
	VesselID       vessel.FiskeridirVesselId
	TripID         *int64                    // the trip whose Period contains Start, or nil
	GearGroup      GearGroup
	Start          time.Time
	Stop           time.Time
	StartLatitude  float64
	StartLongitude float64
	CatchLocation  catchlocation.ID
	Catches        []Catch
}

// TotalLivingWeightKg sums living weight across every species caught.
func (h Haul) TotalLivingWeightKg() float64 {
	total := 0.0
	for _, c := range h.Catches {
		total += c.LivingWeightKg
	}
	return total
}

// Distribution is one (haul, catch_location) weight-share row, persisted
// by the haul distributor.
type Distribution struct {
	HaulID         ID
	CatchLocation  catchlocation.ID
	WeightRatio    float64          // share of TotalLivingWeightKg attributed to CatchLocation
	LivingWeightKg float64
}
