package fuelestimator

import (
	"time"

	"github.com/orcalabs/kyogre/internal/domain/fuel"
)

const minOverlapRatio = 0.5

// Reconcile blends a day's raw estimate with any overlapping user-submitted
// measurement spans: a measurement covering less than
// 50% of the day is ignored; the overlapped portion reports the
// measurement's pro-rated liters, and the remainder uses the estimate
// weighted by the non-overlapped fraction.
func Reconcile(day time.Time, estimate fuel.Estimate, measurements []fuel.Measurement) fuel.Estimate {
	dayStart := day
	dayEnd := day.Add(24 * time.Hour)
	dayLenSeconds := dayEnd.Sub(dayStart).Seconds()
	if dayLenSeconds <= 0 {
		return estimate
	}

	totalOverlapRatio := 0.0
	measuredLiters := 0.0

	for _, m := range measurements {
		overlapSeconds := m.OverlapSeconds(dayStart, dayEnd)
		if overlapSeconds <= 0 {
			continue
		}
		overlapRatio := overlapSeconds / dayLenSeconds
		if overlapRatio < minOverlapRatio {
			continue
		}
		spanLen := m.LengthSeconds()
		if spanLen <= 0 {
			continue
		}
		measuredLiters += m.FuelUsedLiter * overlapSeconds / spanLen
		totalOverlapRatio += overlapRatio
	}

	if totalOverlapRatio > 1 {
		totalOverlapRatio = 1
	}

	blended := measuredLiters + estimate.Liters*(1-totalOverlapRatio)
	estimate.Liters = blended
	return estimate
}
