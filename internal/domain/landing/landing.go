// Package landing holds the Landing delivery record and its product
// entries.
package landing

import (
	"time"

	"github.com/orcalabs/kyogre/internal/domain/deliverypoint"
	"github.com/orcalabs/kyogre/internal/domain/haul"
	"github.com/orcalabs/kyogre/internal/domain/vessel"
)

// ID uniquely identifies a landing.
type ID int64

// Product is one species' contribution to a landing.
type Product struct {
	SpeciesFiskeridirID int32
	SpeciesGroup        haul.SpeciesGroup
	GrossWeightKg       float64
	ProductWeightKg     float64
	LivingWeightKg      float64
	PriceNok            float64
}

// Landing is a single delivery of catch to a buyer.
type Landing struct {
	ID            ID
	VesselID      vessel.FiskeridirVesselId
	DeliveryPoint deliverypoint.Code
	Timestamp     time.Time
	TripID        *int64                    // the trip whose LandingCoverage contains Timestamp, or nil
	Products      []Product
}

// TotalLivingWeightKg sums living weight across every product in the
// landing.
func (l Landing) TotalLivingWeightKg() float64 {
	total := 0.0
	for _, p := range l.Products {
		total += p.LivingWeightKg
	}
	return total
}
