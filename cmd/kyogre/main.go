package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/orcalabs/kyogre/internal/adapters/cache"
	"github.com/orcalabs/kyogre/internal/adapters/cli"
	"github.com/orcalabs/kyogre/internal/adapters/meilisearch"
	"github.com/orcalabs/kyogre/internal/adapters/metrics"
	"github.com/orcalabs/kyogre/internal/adapters/mlgrpc"
	"github.com/orcalabs/kyogre/internal/adapters/persistence"
	"github.com/orcalabs/kyogre/internal/application/fuelestimator"
	"github.com/orcalabs/kyogre/internal/application/hauldistributor"
	"github.com/orcalabs/kyogre/internal/application/matrixcache"
	"github.com/orcalabs/kyogre/internal/application/mlpredictor"
	orchestratorapp "github.com/orcalabs/kyogre/internal/application/orchestrator"
	"github.com/orcalabs/kyogre/internal/application/positionlayers"
	"github.com/orcalabs/kyogre/internal/application/searchindex"
	"github.com/orcalabs/kyogre/internal/application/tripassembler"
	"github.com/orcalabs/kyogre/internal/application/tripassembler/ers"
	"github.com/orcalabs/kyogre/internal/application/tripassembler/landings"
	"github.com/orcalabs/kyogre/internal/application/tripassembler/precision"
	"github.com/orcalabs/kyogre/internal/application/verification"
	domorch "github.com/orcalabs/kyogre/internal/domain/orchestrator"
	"github.com/orcalabs/kyogre/internal/domain/mlmodel"
	"github.com/orcalabs/kyogre/internal/domain/shared"
	"github.com/orcalabs/kyogre/internal/domain/trip"
	"github.com/orcalabs/kyogre/internal/domain/vessel"
	"github.com/orcalabs/kyogre/internal/infrastructure/config"
	"github.com/orcalabs/kyogre/internal/infrastructure/database"
	"github.com/orcalabs/kyogre/internal/infrastructure/pidfile"
)

// registeredModels is the static set of ML specs trained and scored every
// cycle. No config-driven registry exists yet (see DESIGN.md), so the set
// is fixed here: one baseline weight predictor and one weather-augmented
// variant, both gradient-boosted models reached through mlgrpc.Client.
var registeredModels = []mlmodel.ModelSpec{
	{ID: "weight_baseline", RequiresWeather: false, Rounds: 200, UseGPU: false},
	{ID: "weight_with_weather", RequiresWeather: true, Rounds: 200, UseGPU: false},
}

func main() {
	cli.Execute(bootstrap)
}

// bootstrap wires the whole application graph and returns the orchestrator
// runner plus its shared state, keeping cli argument handling separate
// from dependency construction.
func bootstrap(configPath string) (*orchestratorapp.Runner, domorch.SharedState, func(), error) {
	cfg := config.MustLoadConfig(configPath)

	pf := pidfile.New(cfg.Orchestrator.PIDFile)
	if err := pf.Acquire(); err != nil {
		return nil, domorch.SharedState{}, nil, fmt.Errorf("failed to acquire pid file: %w", err)
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		_ = pf.Release()
		return nil, domorch.SharedState{}, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		_ = pf.Release()
		return nil, domorch.SharedState{}, nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	// Repositories.
	vesselRepo := persistence.NewGormVesselRepository(db)
	positionRepo := persistence.NewGormPositionRepository(db)
	vesselEventRepo := persistence.NewGormVesselEventRepository(db)
	matrixRepo := persistence.NewGormMatrixRepository(db)
	landingRepo := persistence.NewGormLandingRepository(db, matrixRepo)
	tripRepo := persistence.NewGormTripRepository(db, vesselRepo, vesselEventRepo, landingRepo, positionRepo)
	haulRepo := persistence.NewGormHaulRepository(db, positionRepo, matrixRepo)
	catchLocationRepo := persistence.NewGormCatchLocationRepository(db)
	deliveryPointRepo := persistence.NewGormDeliveryPointRepository(db)
	fuelRepo := persistence.NewGormFuelRepository(db, vesselRepo, positionRepo)
	mlRepo := persistence.NewGormMLRepository(db, haulRepo)
	transitionLog := persistence.NewGormTransitionLogRepository(db)
	tripSearchSource := persistence.NewGormTripSearchSource(db)
	haulSearchSource := persistence.NewGormHaulSearchSource(db)

	lookup, err := catchLocationRepo.LoadLookup(context.Background())
	if err != nil {
		_ = pf.Release()
		return nil, domorch.SharedState{}, nil, fmt.Errorf("failed to load catch location lookup: %w", err)
	}
	_ = deliveryPointRepo

	// Metrics registry, exposed on its own HTTP listener when enabled.
	reg := prometheus.NewRegistry()
	metricsRegistry := metrics.New(reg)
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		addr := fmt.Sprintf("%s:%d", cfg.Metrics.Host, cfg.Metrics.Port)
		go func() {
			_ = http.ListenAndServe(addr, mux)
		}()
	}
	_ = metricsRegistry

	// Position pruning pipeline shared by fuel estimation.
	layers := positionlayers.NewPipeline(positionlayers.NewUnrealisticSpeed())

	// Trip assembly. Edge refinement only wires the movement-based anchor:
	// the port/dock/delivery-point anchors need coordinate data this
	// deployment's domain model does not carry (see DESIGN.md).
	precisionStage := precision.NewStage(trip.PrecisionConfig{
		ID:        trip.AnchorFirstMovedPoint,
		Direction: trip.DirectionStart,
	}, nil)
	precisionRunner := tripassembler.NewPrecisionRunner(precisionStage, tripRepo)
	tripAssembler := tripassembler.New(tripRepo, ers.New(), landings.New(), precisionRunner)

	// Haul distribution.
	distributor := hauldistributor.New(haulRepo, lookup)

	// Fuel estimation.
	fuelScheduler := fuelestimator.NewScheduler(fuelRepo, layers, cfg.Orchestrator.WorkerPoolSize)

	// ML predictor orchestration: one Predictor per registered spec, all
	// sharing the same row store and gRPC training/scoring port.
	var mlPort mlpredictor.TrainPredictPort
	var mlClient *mlgrpc.Client
	if cfg.ML.Address != "" {
		mlClient, err = mlgrpc.NewClient(context.Background(), &cfg.ML)
		if err != nil {
			_ = pf.Release()
			return nil, domorch.SharedState{}, nil, fmt.Errorf("failed to connect to ml service: %w", err)
		}
		mlPort = mlClient
	}
	predictors := make(map[mlmodel.ID]*mlpredictor.Predictor, len(registeredModels))
	if mlPort != nil {
		for _, spec := range registeredModels {
			predictors[spec.ID] = mlpredictor.New(mlRepo, mlPort, false)
		}
	}

	// Matrix cache refresh and the optional Redis-backed read cache.
	refresher := matrixcache.New(matrixRepo)
	var queryCache *cache.QueryCache
	if len(cfg.Cache.Addresses) > 0 {
		nodes := make(map[string]cache.RedisCmdable, len(cfg.Cache.Addresses))
		for _, addr := range cfg.Cache.Addresses {
			nodes[addr] = redis.NewClient(&redis.Options{Addr: addr, DialTimeout: cfg.Cache.DialTimeout})
		}
		ring := cache.NewRing(nodes)
		queryCache = cache.New(ring, matrixRepo, &cfg.Cache)
	}
	_ = queryCache // exposed to API-layer callers outside the orchestrator's scope

	// Search-index mirrors and reconcilers.
	var tripsReconciler, haulsReconciler *searchindex.Reconciler
	if cfg.SearchIndex.Host != "" {
		tripsMirror := meilisearch.NewTripsMirror(&cfg.SearchIndex)
		haulsMirror := meilisearch.NewHaulsMirror(&cfg.SearchIndex)
		tripsReconciler = searchindex.New(tripsMirror, tripSearchSource)
		haulsReconciler = searchindex.New(haulsMirror, haulSearchSource)
	}

	// Verification: one composite store over the five repositories each
	// check reads from.
	verifyStore := verificationStore{
		events: vesselEventRepo,
		hauls:  haulRepo,
		matrix: matrixRepo,
		trips:  tripRepo,
		vessel: vesselRepo,
	}
	verifier := verification.New(
		verification.NewDanglingVesselEventCheck(verifyStore),
		verification.NewIncorrectHaulCatchCheck(verifyStore),
		verification.NewMatrixWeightDiscrepancyCheck(verifyStore),
		verification.NewLandingWithoutTripCheck(verifyStore),
		verification.NewConflictingVesselMappingCheck(verifyStore),
	)

	sharedState := domorch.SharedState{
		TripAssemblerOutbound:   tripAssembler,
		HaulDistributorOutbound: haulDistributorAdapter{distributor},
		FuelEstimation:          fuelEstimationAdapter{scheduler: fuelScheduler, source: fuelRepo},
		MLModelsOutbound: mlModelsAdapter{
			predictors:      predictors,
			specs:           registeredModels,
			tripsReconciler: tripsReconciler,
			haulsReconciler: haulsReconciler,
			refresher:       refresher,
		},
		VerifyDatabase: verifyDatabaseAdapter{verifier},
		WorkerPoolSize: cfg.Orchestrator.WorkerPoolSize,
	}

	runner := orchestratorapp.New(transitionLog, &shared.RealClock{}, orchestratorapp.AllStages()...)
	runner.Configure(domorch.StateSleep, orchestratorapp.StageConfig{Mode: domorch.ModeEnabled, Trigger: cfg.Orchestrator.SleepInterval.String()})
	if cfg.Orchestrator.RestartPolicy.Enabled {
		runner.ConfigureRetry(orchestratorapp.RetryPolicy{
			MaxAttempts:       cfg.Orchestrator.RestartPolicy.MaxAttempts,
			Delay:             cfg.Orchestrator.RestartPolicy.Delay,
			BackoffMultiplier: cfg.Orchestrator.RestartPolicy.BackoffMultiplier,
		})
	}

	cleanup := func() {
		if mlClient != nil {
			_ = mlClient.Close()
		}
		_ = database.Close(db)
		_ = pf.Release()
	}

	return runner, sharedState, cleanup, nil
}

// haulDistributorAdapter renames Distributor.Run to the
// domorch.HaulDistributorOutbound port's RunDistribution.
type haulDistributorAdapter struct {
	dist *hauldistributor.Distributor
}

func (a haulDistributorAdapter) RunDistribution(ctx context.Context) (int, error) {
	return a.dist.Run(ctx)
}

// fuelEstimationAdapter discovers pending vessel/day work before handing
// it to the scheduler, bridging domorch.FuelEstimation's ctx-only
// RunEstimation to fuelestimator.Scheduler.Run's explicit work list.
type fuelEstimationAdapter struct {
	scheduler *fuelestimator.Scheduler
	source    *persistence.GormFuelRepository
}

func (a fuelEstimationAdapter) RunEstimation(ctx context.Context) (int, error) {
	work, err := a.source.PendingWork(ctx, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return a.scheduler.Run(ctx, work)
}

// mlModelsAdapter drives training/prediction across every registered
// model spec and, as a byproduct of training producing fresh trips/hauls,
// also triggers the matrix cache refresh and search-index reconciliation
// that depend on the same cycle's freshly committed rows.
type mlModelsAdapter struct {
	predictors      map[mlmodel.ID]*mlpredictor.Predictor
	specs           []mlmodel.ModelSpec
	tripsReconciler *searchindex.Reconciler
	haulsReconciler *searchindex.Reconciler
	refresher       *matrixcache.Refresher
}

func (a mlModelsAdapter) RunTraining(ctx context.Context) (int, error) {
	trained := 0
	for _, spec := range a.specs {
		p, ok := a.predictors[spec.ID]
		if !ok {
			continue
		}
		if err := p.Train(ctx, spec); err != nil {
			return trained, err
		}
		trained++
	}
	if _, err := a.refresher.RefreshIfStale(ctx); err != nil {
		return trained, err
	}
	if a.tripsReconciler != nil {
		if err := a.tripsReconciler.Run(ctx); err != nil {
			return trained, err
		}
	}
	if a.haulsReconciler != nil {
		if err := a.haulsReconciler.Run(ctx); err != nil {
			return trained, err
		}
	}
	return trained, nil
}

func (a mlModelsAdapter) RunPrediction(ctx context.Context) (int, error) {
	predicted := 0
	now := time.Now().UTC()
	for _, spec := range a.specs {
		p, ok := a.predictors[spec.ID]
		if !ok {
			continue
		}
		n, err := p.Predict(ctx, spec, now)
		if err != nil {
			return predicted, err
		}
		predicted += n
	}
	return predicted, nil
}

// verifyDatabaseAdapter renames Verifier.Run to the
// domorch.VerifyDatabaseOutbound port's Verify.
type verifyDatabaseAdapter struct {
	verifier *verification.Verifier
}

func (a verifyDatabaseAdapter) Verify(ctx context.Context) error {
	return a.verifier.Run(ctx)
}

// verificationStore implements verification.Store by delegating each
// check's narrow read to the repository that actually owns that table.
type verificationStore struct {
	events *persistence.GormVesselEventRepository
	hauls  *persistence.GormHaulRepository
	matrix *persistence.GormMatrixRepository
	trips  *persistence.GormTripRepository
	vessel *persistence.GormVesselRepository
}

func (s verificationStore) DanglingVesselEventIDs(ctx context.Context) ([]int64, error) {
	return s.events.DanglingVesselEventIDs(ctx)
}

func (s verificationStore) HaulsWithIncorrectCatchTotal(ctx context.Context) ([]int64, error) {
	return s.hauls.HaulsWithIncorrectCatchTotal(ctx)
}

func (s verificationStore) MatrixWeightDiscrepancies(ctx context.Context) (map[string]float64, error) {
	return s.matrix.MatrixWeightDiscrepancies(ctx)
}

func (s verificationStore) LandingsWithoutTrip(ctx context.Context) ([]int64, error) {
	return s.trips.LandingsWithoutTrip(ctx)
}

func (s verificationStore) ConflictingVesselMappings(ctx context.Context) ([]vessel.MappingConflict, error) {
	return s.vessel.ConflictingVesselMappings(ctx)
}
