package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/cucumber/godog"

	"github.com/orcalabs/kyogre/internal/application/fuelestimator"
	"github.com/orcalabs/kyogre/internal/domain/fuel"
)

type fuelReconcileContext struct {
	day          time.Time
	estimate     fuel.Estimate
	measurements []fuel.Measurement
	reconciled   fuel.Estimate
}

func (c *fuelReconcileContext) reset() {
	c.day = time.Time{}
	c.estimate = fuel.Estimate{}
	c.measurements = nil
	c.reconciled = fuel.Estimate{}
}

func (c *fuelReconcileContext) dayHasAnEstimatedFuelOfLiters(day string, liters int) error {
	d, err := time.Parse("2006-01-02", day)
	if err != nil {
		return err
	}
	c.day = d
	c.estimate = fuel.Estimate{Day: d, Liters: float64(liters)}
	return nil
}

func (c *fuelReconcileContext) aFuelMeasurementFromToReportingLiters(from, to string, liters int) error {
	start, err := parseTimestamp(from)
	if err != nil {
		return err
	}
	end, err := parseTimestamp(to)
	if err != nil {
		return err
	}
	c.measurements = append(c.measurements, fuel.Measurement{
		StartTime:     start,
		EndTime:       end,
		FuelUsedLiter: float64(liters),
	})
	return nil
}

func (c *fuelReconcileContext) theFuelEstimateIsReconciled() error {
	c.reconciled = fuelestimator.Reconcile(c.day, c.estimate, c.measurements)
	return nil
}

func (c *fuelReconcileContext) theReconciledFuelIsLiters(liters int) error {
	if c.reconciled.Liters != float64(liters) {
		return fmt.Errorf("expected reconciled fuel %d, got %v", liters, c.reconciled.Liters)
	}
	return nil
}

// InitializeFuelReconcileScenario registers the fuel measurement
// reconciliation step definitions.
func InitializeFuelReconcileScenario(sc *godog.ScenarioContext) {
	c := &fuelReconcileContext{}
	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		c.reset()
		return ctx, nil
	})

	sc.Step(`^day "([^"]*)" has an estimated fuel of (\d+) liters$`, c.dayHasAnEstimatedFuelOfLiters)
	sc.Step(`^a fuel measurement from "([^"]*)" to "([^"]*)" reporting (\d+) liters$`, c.aFuelMeasurementFromToReportingLiters)
	sc.Step(`^the fuel estimate is reconciled$`, c.theFuelEstimateIsReconciled)
	sc.Step(`^the reconciled fuel is (\d+) liters$`, c.theReconciledFuelIsLiters)
}
