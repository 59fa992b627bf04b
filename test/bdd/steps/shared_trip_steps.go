package steps

import (
	"fmt"

	"github.com/cucumber/godog"

	"github.com/orcalabs/kyogre/internal/domain/trip"
)

// sharedTripState holds whichever assembler's last result is under test;
// both the ERS and landings scenario contexts populate it so the trip
// assertion steps below can be registered once and shared, the way the
// value-object scenarios share assertion wording across features.
var sharedTripState *trip.AssemblerState
var sharedTripErr error

func resetSharedTripState() {
	sharedTripState = nil
	sharedTripErr = nil
}

func exactlyTripsAreProduced(n int) error {
	if sharedTripErr != nil {
		return sharedTripErr
	}
	if sharedTripState == nil {
		if n == 0 {
			return nil
		}
		return fmt.Errorf("expected %d trips but assembler produced no state", n)
	}
	if len(sharedTripState.NewTrips) != n {
		return fmt.Errorf("expected %d trips, got %d", n, len(sharedTripState.NewTrips))
	}
	return nil
}

func tripRunsFromTo(tripNum int, from, to string) error {
	fromT, err := parseTimestamp(from)
	if err != nil {
		return err
	}
	toT, err := parseTimestamp(to)
	if err != nil {
		return err
	}
	t := sharedTripState.NewTrips[tripNum-1]
	if !t.Period.Start.Equal(fromT) || !t.Period.End.Equal(toT) {
		return fmt.Errorf("trip %d period = [%s, %s), want [%s, %s)", tripNum, t.Period.Start, t.Period.End, fromT, toT)
	}
	return nil
}

func tripsLandingCoverageRunsFromTo(tripNum int, from, to string) error {
	fromT, err := parseTimestamp(from)
	if err != nil {
		return err
	}
	toT, err := parseTimestamp(to)
	if err != nil {
		return err
	}
	t := sharedTripState.NewTrips[tripNum-1]
	if !t.LandingCoverage.Start.Equal(fromT) || !t.LandingCoverage.End.Equal(toT) {
		return fmt.Errorf("trip %d landing coverage = [%s, %s), want [%s, %s)", tripNum, t.LandingCoverage.Start, t.LandingCoverage.End, fromT, toT)
	}
	return nil
}

// InitializeSharedTripScenario registers the trip-outcome assertion steps
// shared by every trip-assembler feature.
func InitializeSharedTripScenario(sc *godog.ScenarioContext) {
	sc.Step(`^exactly (\d+) trip is produced$`, exactlyTripsAreProduced)
	sc.Step(`^exactly (\d+) trips are produced$`, exactlyTripsAreProduced)
	sc.Step(`^trip (\d+) runs from "([^"]*)" to "([^"]*)"$`, tripRunsFromTo)
	sc.Step(`^trip (\d+)'s landing coverage runs from "([^"]*)" to "([^"]*)"$`, tripsLandingCoverageRunsFromTo)
}
