package orchestrator

import (
	"context"

	domorch "github.com/orcalabs/kyogre/internal/domain/orchestrator"
)

// Each stage below is a thin Runnable wrapping the matching SharedState
// port. They are intentionally uniform — the orchestrator's job is
// sequencing and logging, not per-stage business logic, which lives in
// the tripassembler/hauldistributor/fuelestimator/mlpredictor/verification
// packages reached through these ports.

type scrapeStage struct{}

func NewScrapeStage() domorch.Runnable { return scrapeStage{} }
func (scrapeStage) State() domorch.State { return domorch.StateScrape }
func (scrapeStage) Run(ctx context.Context, shared domorch.SharedState) (domorch.SharedState, error) {
	if shared.ScrapeOutbound == nil {
		return shared, nil
	}
	_, err := shared.ScrapeOutbound.RunScrape(ctx)
	return shared, err
}

type catchLocationWeatherStage struct{}

func NewCatchLocationWeatherStage() domorch.Runnable { return catchLocationWeatherStage{} }
func (catchLocationWeatherStage) State() domorch.State { return domorch.StateCatchLocationWeather }
func (catchLocationWeatherStage) Run(ctx context.Context, shared domorch.SharedState) (domorch.SharedState, error) {
	if shared.WeatherOutbound == nil {
		return shared, nil
	}
	_, err := shared.WeatherOutbound.AttachCatchLocationWeather(ctx)
	return shared, err
}

type tripsStage struct{}

func NewTripsStage() domorch.Runnable { return tripsStage{} }
func (tripsStage) State() domorch.State { return domorch.StateTrips }
func (tripsStage) Run(ctx context.Context, shared domorch.SharedState) (domorch.SharedState, error) {
	if shared.TripAssemblerOutbound == nil {
		return shared, nil
	}
	_, err := shared.TripAssemblerOutbound.RunAssembly(ctx)
	return shared, err
}

type benchmarkStage struct{}

func NewBenchmarkStage() domorch.Runnable { return benchmarkStage{} }
func (benchmarkStage) State() domorch.State { return domorch.StateBenchmark }
func (benchmarkStage) Run(ctx context.Context, shared domorch.SharedState) (domorch.SharedState, error) {
	if shared.BenchmarkOutbound == nil {
		return shared, nil
	}
	_, err := shared.BenchmarkOutbound.RunBenchmark(ctx)
	return shared, err
}

type haulDistributionStage struct{}

func NewHaulDistributionStage() domorch.Runnable { return haulDistributionStage{} }
func (haulDistributionStage) State() domorch.State { return domorch.StateHaulDistribution }
func (haulDistributionStage) Run(ctx context.Context, shared domorch.SharedState) (domorch.SharedState, error) {
	if shared.HaulDistributorOutbound == nil {
		return shared, nil
	}
	_, err := shared.HaulDistributorOutbound.RunDistribution(ctx)
	return shared, err
}

type haulWeatherStage struct{}

func NewHaulWeatherStage() domorch.Runnable { return haulWeatherStage{} }
func (haulWeatherStage) State() domorch.State { return domorch.StateHaulWeather }
func (haulWeatherStage) Run(ctx context.Context, shared domorch.SharedState) (domorch.SharedState, error) {
	if shared.WeatherOutbound == nil {
		return shared, nil
	}
	_, err := shared.WeatherOutbound.AttachHaulWeather(ctx)
	return shared, err
}

type mlModelsStage struct{}

func NewMLModelsStage() domorch.Runnable { return mlModelsStage{} }
func (mlModelsStage) State() domorch.State { return domorch.StateMLModels }
func (mlModelsStage) Run(ctx context.Context, shared domorch.SharedState) (domorch.SharedState, error) {
	if shared.MLModelsOutbound == nil {
		return shared, nil
	}
	if _, err := shared.MLModelsOutbound.RunTraining(ctx); err != nil {
		return shared, err
	}
	_, err := shared.MLModelsOutbound.RunPrediction(ctx)
	return shared, err
}

type verifyDatabaseStage struct{}

func NewVerifyDatabaseStage() domorch.Runnable { return verifyDatabaseStage{} }
func (verifyDatabaseStage) State() domorch.State { return domorch.StateVerifyDatabase }
func (verifyDatabaseStage) Run(ctx context.Context, shared domorch.SharedState) (domorch.SharedState, error) {
	if shared.VerifyDatabase == nil {
		return shared, nil
	}
	return shared, shared.VerifyDatabase.Verify(ctx)
}

// sleepStage returns at once without waiting. Nothing in this package
// sleeps between cycles, so RunContinuous begins the next cycle at
// StatePending right after it.
type sleepStage struct{}

func NewSleepStage() domorch.Runnable { return sleepStage{} }
func (sleepStage) State() domorch.State { return domorch.StateSleep }
func (sleepStage) Run(ctx context.Context, shared domorch.SharedState) (domorch.SharedState, error) {
	return shared, nil
}

// AllStages returns every stage in pipeline order, ready to register with
// a Runner.
func AllStages() []domorch.Runnable {
	return []domorch.Runnable{
		NewScrapeStage(),
		NewCatchLocationWeatherStage(),
		NewTripsStage(),
		NewBenchmarkStage(),
		NewHaulDistributionStage(),
		NewHaulWeatherStage(),
		NewMLModelsStage(),
		NewVerifyDatabaseStage(),
		NewSleepStage(),
	}
}
