package orchestrator

import (
	"context"
	"time"
)

// Runnable is one state's executable contract. Implementations must be
// idempotent under retry: rerunning after a crash must not duplicate
// outputs. Run receives the shared state by value and returns the
// (possibly updated) shared state for the next stage — states never keep
// a pointer into a previous stage's working set.
type Runnable interface {
	State() State
	Run(ctx context.Context, shared SharedState) (SharedState, error)
}

// SharedState is the bundle of abstract ports and configuration threaded
// through every state. Concrete port values are supplied by the adapters
// layer at startup; domain code only ever sees the interfaces below.
type SharedState struct {
	ScrapeOutbound          ScrapeOutbound
	WeatherOutbound         WeatherOutbound
	BenchmarkOutbound       BenchmarkOutbound
	TripAssemblerOutbound   TripAssemblerOutbound
	HaulDistributorOutbound HaulDistributorOutbound
	FuelEstimation          FuelEstimation
	MLModelsOutbound        MLModelsOutbound
	VerifyDatabase          VerifyDatabaseOutbound
	WorkerPoolSize          int
}

// ScrapeOutbound pulls fresh upstream data (vessel registries, AIS/VMS
// streams, ERS messages, landings) into the row store. The scraping
// mechanics themselves (HTTP, vendor file parsing, OAuth) are external
// collaborators; this port is only the boundary the orchestrator calls.
type ScrapeOutbound interface {
	RunScrape(ctx context.Context) (ingested int, err error)
}

// WeatherOutbound attaches weather-zone data to catch locations (the
// CatchLocationWeather state) or to hauls (the HaulWeather state).
type WeatherOutbound interface {
	AttachCatchLocationWeather(ctx context.Context) (updated int, err error)
	AttachHaulWeather(ctx context.Context) (updated int, err error)
}

// BenchmarkOutbound recomputes vessel/trip benchmark statistics.
type BenchmarkOutbound interface {
	RunBenchmark(ctx context.Context) (updated int, err error)
}

// HaulDistributorOutbound drives the haul-distribution stage.
type HaulDistributorOutbound interface {
	RunDistribution(ctx context.Context) (distributed int, err error)
}

// TripAssemblerOutbound is the narrow view the orchestrator needs onto
// trip assembly, independent of the trip package's richer Outbound so the
// orchestrator doesn't import strategy-level detail.
type TripAssemblerOutbound interface {
	RunAssembly(ctx context.Context) (processed int, err error)
}

// FuelEstimation drives the fuel estimator for the vessels with pending
// days.
type FuelEstimation interface {
	RunEstimation(ctx context.Context) (processed int, err error)
}

// MLModelsOutbound drives training and prediction for all registered
// models.
type MLModelsOutbound interface {
	RunTraining(ctx context.Context) (trained int, err error)
	RunPrediction(ctx context.Context) (predicted int, err error)
}

// VerifyDatabaseOutbound runs the end-of-cycle consistency checks.
type VerifyDatabaseOutbound interface {
	Verify(ctx context.Context) error
}

// TransitionLog is the persistence port for the transition log table.
type TransitionLog interface {
	Append(ctx context.Context, entry TransitionLogEntry) error
	Last(ctx context.Context) (*TransitionLogEntry, error)
}

// Clock abstracts wall-clock reads so the runner's Sleep-state timing is
// testable.
type Clock interface {
	Now() time.Time
}
