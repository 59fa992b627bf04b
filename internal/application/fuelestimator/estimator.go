// Package fuelestimator computes per-vessel-per-day fuel liter estimates
// from engine-power-weighted position folds, reconciled against
// user-submitted fuel measurement spans.
package fuelestimator

import (
	"context"
	"math"
	"time"

	"github.com/orcalabs/kyogre/internal/application/positionlayers"
	"github.com/orcalabs/kyogre/internal/domain/fuel"
	"github.com/orcalabs/kyogre/internal/domain/position"
	"github.com/orcalabs/kyogre/internal/domain/vessel"
)

const gearActiveMultiplier = 1.75
const loadFactorDivisorKnots = 12.0
const loadFactorExponent = 3.0
const loadFactorScale = 0.85
const loadFactorMax = 0.98

// EstimateDay folds one vessel's already-pruned, haul-tagged positions for
// a single day into a kWh total, then converts to liters via specific
// fuel consumption.
func EstimateDay(v vessel.Vessel, day time.Time, positions []position.Position) fuel.Estimate {
	kWh := 0.0
	for i := 0; i+1 < len(positions); i++ {
		a, b := positions[i], positions[i+1]
		speed := meanSpeed(a, b)
		loadFactor := clamp(math.Pow(speed/loadFactorDivisorKnots, loadFactorExponent)*loadFactorScale, 0, loadFactorMax)

		multiplier := 1.0
		if a.InsideHaul && a.ActiveGear {
			multiplier = gearActiveMultiplier
		}

		enginePowerKW := 0.0
		if v.EnginePowerKW != nil {
			enginePowerKW = *v.EnginePowerKW
		}

		deltaHours := b.Timestamp.Sub(a.Timestamp).Hours()
		kWh += loadFactor * enginePowerKW * multiplier * deltaHours
	}

	sfc := 0.0
	if v.SpecificFuelConsumption != nil {
		sfc = *v.SpecificFuelConsumption
	}
	liters := sfc * kWh / 1_000_000

	return fuel.Estimate{
		VesselID: v.ID,
		Day:      day,
		Liters:   liters,
	}
}

// meanSpeed averages two positions' reported speed, falling back to
// whichever one is present when the other is nil.
func meanSpeed(a, b position.Position) float64 {
	switch {
	case a.SpeedKnots != nil && b.SpeedKnots != nil:
		return (*a.SpeedKnots + *b.SpeedKnots) / 2
	case a.SpeedKnots != nil:
		return *a.SpeedKnots
	case b.SpeedKnots != nil:
		return *b.SpeedKnots
	default:
		return 0
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Pipeline runs the position layer pipeline then folds the accepted
// positions into an estimate for one vessel/day.
func Pipeline(ctx context.Context, v vessel.Vessel, day time.Time, rawPositions []position.Position, layers *positionlayers.Pipeline) (fuel.Estimate, positionlayers.Output, error) {
	unit := &positionlayers.Unit{Positions: rawPositions}
	if err := layers.Run(ctx, unit); err != nil {
		return fuel.Estimate{}, positionlayers.Output{}, err
	}
	return EstimateDay(v, day, unit.Positions), unit.Output, nil
}
