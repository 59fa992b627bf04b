// Package mlpredictor builds the training/prediction row sets the ML
// predictor orchestration glue feeds to the opaque train/predict
// functions, and dedupes/commits their results.
package mlpredictor

import (
	"context"
	"time"

	"github.com/orcalabs/kyogre/internal/domain/catchlocation"
	"github.com/orcalabs/kyogre/internal/domain/haul"
	"github.com/orcalabs/kyogre/internal/domain/mlmodel"
)

const minTrainingDistanceToShoreM = 2000.0
const relaxedTrainingDistanceToShoreM = 0.0

// TrainPredictPort is the opaque external boundary: a trained-model-bytes
// round trip and a scoring round trip, both reached through an adapter
// (e.g. the gRPC client) rather than called directly.
type TrainPredictPort interface {
	Train(ctx context.Context, modelBytes []byte, rows []mlmodel.TrainingRow, rounds int, useGPU bool) ([]byte, error)
	Predict(ctx context.Context, modelBytes []byte, rows []mlmodel.PredictionRow) ([]float64, error)
}

// Store is the row-store port for pulling candidate rows and committing
// results.
type Store interface {
	TrainingRows(ctx context.Context, spec mlmodel.ModelSpec) ([]mlmodel.TrainingRow, []int64, error)
	ActiveWeeks(ctx context.Context, year int) ([]int, error)
	ActiveSpeciesGroups(ctx context.Context) ([]haul.SpeciesGroup, error)
	ActiveCatchLocations(ctx context.Context) ([]catchlocation.ID, error)
	ExistingPredictionKeys(ctx context.Context, year int, fromWeek int) (map[string]bool, error)
	SavePredictions(ctx context.Context, preds []mlmodel.Prediction) error
	MarkHaulsUsed(ctx context.Context, haulIDs []int64) error
	ModelBytes(ctx context.Context, id mlmodel.ID) ([]byte, error)
	SaveModelBytes(ctx context.Context, id mlmodel.ID, bytes []byte) error
}

// Predictor drives training and prediction for one registered model.
type Predictor struct {
	store    Store
	port     TrainPredictPort
	testMode bool
}

// New builds a Predictor. testMode relaxes the training distance-to-shore
// filter so small fixture datasets still produce rows.
func New(store Store, port TrainPredictPort, testMode bool) *Predictor {
	return &Predictor{store: store, port: port, testMode: testMode}
}

// Train filters candidate rows (distance-to-shore + weather completeness)
// and retrains the model, then commits the used haul ids.
func (p *Predictor) Train(ctx context.Context, spec mlmodel.ModelSpec) error {
	rows, haulIDs, err := p.store.TrainingRows(ctx, spec)
	if err != nil {
		return err
	}

	threshold := minTrainingDistanceToShoreM
	if p.testMode {
		threshold = relaxedTrainingDistanceToShoreM
	}
	filtered, usedHaulIDs := p.filterTrainingRows(rows, haulIDs, spec, threshold)
	if len(filtered) == 0 {
		return nil
	}

	existing, err := p.store.ModelBytes(ctx, spec.ID)
	if err != nil {
		return err
	}
	trained, err := p.port.Train(ctx, existing, filtered, spec.Rounds, spec.UseGPU)
	if err != nil {
		return err
	}
	if err := p.store.SaveModelBytes(ctx, spec.ID, trained); err != nil {
		return err
	}
	return p.store.MarkHaulsUsed(ctx, usedHaulIDs)
}

func (p *Predictor) filterTrainingRows(rows []mlmodel.TrainingRow, haulIDs []int64, spec mlmodel.ModelSpec, threshold float64) ([]mlmodel.TrainingRow, []int64) {
	filtered := make([]mlmodel.TrainingRow, 0, len(rows))
	usedIDs := make([]int64, 0, len(rows))
	for i, r := range rows {
		tooClose := r.DistanceToShoreM <= threshold
		if p.testMode {
			tooClose = r.DistanceToShoreM < threshold
		}
		if tooClose {
			continue
		}
		if spec.RequiresWeather && !hasCompleteWeather(r.WeatherFeatures) {
			continue
		}
		filtered = append(filtered, r)
		if i < len(haulIDs) {
			usedIDs = append(usedIDs, haulIDs[i])
		}
	}
	return filtered, usedIDs
}

func hasCompleteWeather(features map[string]float64) bool {
	return len(features) > 0
}

// Predict builds the Cartesian product of active weeks × species groups ×
// catch locations for the current year, skips rows whose prediction
// already exists at or after the current ISO week, extends into next
// year's week 1 at the year-end boundary, scores the remaining rows, and
// persists the new predictions (deduplicated by key).
func (p *Predictor) Predict(ctx context.Context, spec mlmodel.ModelSpec, now time.Time) (int, error) {
	year, week := now.ISOWeek()

	weeks, err := p.store.ActiveWeeks(ctx, year)
	if err != nil {
		return 0, err
	}
	speciesGroups, err := p.store.ActiveSpeciesGroups(ctx)
	if err != nil {
		return 0, err
	}
	locations, err := p.store.ActiveCatchLocations(ctx)
	if err != nil {
		return 0, err
	}

	candidates := cartesianProduct(year, weeks, speciesGroups, locations)
	if lastWeekOfYear(year) == week {
		nextYearWeeks, err := p.store.ActiveWeeks(ctx, year+1)
		if err == nil {
			candidates = append(candidates, cartesianProduct(year+1, []int{1}, speciesGroups, locations)...)
			_ = nextYearWeeks
		}
	}

	existing, err := p.store.ExistingPredictionKeys(ctx, year, week)
	if err != nil {
		return 0, err
	}

	rows := make([]mlmodel.PredictionRow, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		key := c.Key()
		if existing[key] || seen[key] {
			continue
		}
		seen[key] = true
		rows = append(rows, c)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	modelBytes, err := p.store.ModelBytes(ctx, spec.ID)
	if err != nil {
		return 0, err
	}
	scores, err := p.port.Predict(ctx, modelBytes, rows)
	if err != nil {
		return 0, err
	}

	preds := make([]mlmodel.Prediction, 0, len(rows))
	for i, row := range rows {
		if i >= len(scores) {
			break
		}
		preds = append(preds, mlmodel.Prediction{
			Row:         row,
			Score:       scores[i],
			ModelID:     spec.ID,
			GeneratedAt: now,
		})
	}
	if err := p.store.SavePredictions(ctx, preds); err != nil {
		return 0, err
	}
	return len(preds), nil
}

func cartesianProduct(year int, weeks []int, speciesGroups []haul.SpeciesGroup, locations []catchlocation.ID) []mlmodel.PredictionRow {
	rows := make([]mlmodel.PredictionRow, 0, len(weeks)*len(speciesGroups)*len(locations))
	for _, w := range weeks {
		for _, sg := range speciesGroups {
			for _, loc := range locations {
				rows = append(rows, mlmodel.PredictionRow{
					CatchLocation: loc,
					SpeciesGroup:  sg,
					Week:          w,
					Year:          year,
				})
			}
		}
	}
	return rows
}

// lastWeekOfYear returns 52 or 53 depending on whether the ISO year has a
// 53rd week (Dec 28 always falls in the year's last ISO week).
func lastWeekOfYear(year int) int {
	_, week := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return week
}
