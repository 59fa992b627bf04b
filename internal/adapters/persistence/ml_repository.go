package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/orcalabs/kyogre/internal/domain/catchlocation"
	"github.com/orcalabs/kyogre/internal/domain/haul"
	"github.com/orcalabs/kyogre/internal/domain/mlmodel"
	"github.com/orcalabs/kyogre/internal/domain/vessel"
)

// GormMLRepository implements mlpredictor.Store using GORM.
type GormMLRepository struct {
	db    *gorm.DB
	hauls *GormHaulRepository
}

// NewGormMLRepository creates a new GORM ML repository.
func NewGormMLRepository(db *gorm.DB, hauls *GormHaulRepository) *GormMLRepository {
	return &GormMLRepository{db: db, hauls: hauls}
}

// TrainedHaulModel records that a haul has already been folded into some
// model's training set, so later Train calls don't reprocess it.
type TrainedHaulModel struct {
	HaulID int64 `gorm:"column:haul_id;primaryKey"`
}

func (TrainedHaulModel) TableName() string { return "ml_trained_hauls" }

// TrainingRows builds one labeled example per haul catch not yet marked
// used, joining the vessel's earliest known position distance-to-shore for
// that haul's call sign and (when the model requires it) a weather
// feature stub based on HaulModel.WeatherAttached.
func (r *GormMLRepository) TrainingRows(ctx context.Context, spec mlmodel.ModelSpec) ([]mlmodel.TrainingRow, []int64, error) {
	var hauls []HaulModel
	result := r.db.WithContext(ctx).
		Where("catch_location IS NOT NULL AND id NOT IN (?)",
			r.db.Model(&TrainedHaulModel{}).Select("haul_id")).
		Find(&hauls)
	if result.Error != nil {
		return nil, nil, fmt.Errorf("failed to list training hauls: %w", result.Error)
	}

	rows := make([]mlmodel.TrainingRow, 0, len(hauls))
	haulIDs := make([]int64, 0, len(hauls))
	for _, h := range hauls {
		catches, err := r.hauls.catchesForHaul(ctx, h.ID)
		if err != nil {
			return nil, nil, err
		}

		var vesselModel VesselModel
		if err := r.db.WithContext(ctx).Select("call_sign").Where("id = ?", h.VesselID).First(&vesselModel).Error; err != nil {
			return nil, nil, fmt.Errorf("failed to load vessel for training row: %w", err)
		}
		distance := r.distanceToShore(ctx, vesselModel.CallSign)

		var weather map[string]float64
		if h.WeatherAttached {
			weather = map[string]float64{"attached": 1}
		}

		year, week := h.Start.ISOWeek()
		for _, c := range catches {
			rows = append(rows, mlmodel.TrainingRow{
				HaulID:              h.ID,
				VesselID:            vessel.FiskeridirVesselId(h.VesselID),
				CatchLocation:       catchlocation.ID(*h.CatchLocation),
				Week:                week,
				Year:                year,
				SpeciesGroup:        haul.SpeciesGroup(c.SpeciesGroup),
				DistanceToShoreM:    distance,
				WeatherFeatures:     weather,
				LabelLivingWeightKg: c.LivingWeightKg,
			})
			haulIDs = append(haulIDs, h.ID)
		}
	}
	return rows, haulIDs, nil
}

// distanceToShore uses the vessel's earliest recorded position as a stand
// in for the haul's location; HaulModel carries no distance-to-shore
// column of its own.
func (r *GormMLRepository) distanceToShore(ctx context.Context, callSign string) float64 {
	var m PositionModel
	result := r.db.WithContext(ctx).
		Where("vessel_call_sign = ?", callSign).
		Order("timestamp ASC").
		Limit(1).
		Find(&m)
	if result.Error != nil || result.RowsAffected == 0 {
		return 0
	}
	return m.DistanceToShoreM
}

// ActiveWeeks returns every ISO week observed among the year's hauls.
func (r *GormMLRepository) ActiveWeeks(ctx context.Context, year int) ([]int, error) {
	var starts []time.Time
	result := r.db.WithContext(ctx).Model(&HaulModel{}).
		Where("strftime('%Y', start) = ?", fmt.Sprintf("%04d", year)).
		Pluck("start", &starts)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list active weeks: %w", result.Error)
	}
	var weeks []int
	seen := make(map[int]bool)
	for _, s := range starts {
		_, week := s.ISOWeek()
		if !seen[week] {
			seen[week] = true
			weeks = append(weeks, week)
		}
	}
	return weeks, nil
}

// ActiveSpeciesGroups returns every species group observed in any haul
// catch.
func (r *GormMLRepository) ActiveSpeciesGroups(ctx context.Context) ([]haul.SpeciesGroup, error) {
	var groups []string
	result := r.db.WithContext(ctx).Model(&HaulCatchModel{}).Distinct().Pluck("species_group", &groups)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list active species groups: %w", result.Error)
	}
	out := make([]haul.SpeciesGroup, len(groups))
	for i, g := range groups {
		out[i] = haul.SpeciesGroup(g)
	}
	return out, nil
}

// ActiveCatchLocations returns every catch location referenced by a haul.
func (r *GormMLRepository) ActiveCatchLocations(ctx context.Context) ([]catchlocation.ID, error) {
	var ids []string
	result := r.db.WithContext(ctx).Model(&HaulModel{}).
		Where("catch_location IS NOT NULL").
		Distinct().
		Pluck("catch_location", &ids)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list active catch locations: %w", result.Error)
	}
	out := make([]catchlocation.ID, len(ids))
	for i, id := range ids {
		out[i] = catchlocation.ID(id)
	}
	return out, nil
}

// ExistingPredictionKeys returns the set of (location, species, week,
// year) keys already predicted at or after fromWeek in year.
func (r *GormMLRepository) ExistingPredictionKeys(ctx context.Context, year int, fromWeek int) (map[string]bool, error) {
	var models []MLPredictionModel
	result := r.db.WithContext(ctx).
		Where("year = ? AND week >= ?", year, fromWeek).
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list existing predictions: %w", result.Error)
	}
	keys := make(map[string]bool, len(models))
	for _, m := range models {
		row := mlmodel.PredictionRow{
			CatchLocation: catchlocation.ID(m.CatchLocation),
			SpeciesGroup:  haul.SpeciesGroup(m.SpeciesGroup),
			Week:          m.Week,
			Year:          m.Year,
		}
		keys[row.Key()] = true
	}
	return keys, nil
}

// SavePredictions persists newly scored prediction rows.
func (r *GormMLRepository) SavePredictions(ctx context.Context, preds []mlmodel.Prediction) error {
	if len(preds) == 0 {
		return nil
	}
	models := make([]MLPredictionModel, len(preds))
	for i, p := range preds {
		models[i] = MLPredictionModel{
			CatchLocation: string(p.Row.CatchLocation),
			SpeciesGroup:  string(p.Row.SpeciesGroup),
			Week:          p.Row.Week,
			Year:          p.Row.Year,
			ModelID:       string(p.ModelID),
			Score:         p.Score,
			GeneratedAt:   p.GeneratedAt,
		}
	}
	if result := r.db.WithContext(ctx).Create(&models); result.Error != nil {
		return fmt.Errorf("failed to save predictions: %w", result.Error)
	}
	return nil
}

// MarkHaulsUsed records that the given hauls have been folded into
// training, so subsequent TrainingRows calls skip them.
func (r *GormMLRepository) MarkHaulsUsed(ctx context.Context, haulIDs []int64) error {
	if len(haulIDs) == 0 {
		return nil
	}
	models := make([]TrainedHaulModel, len(haulIDs))
	for i, id := range haulIDs {
		models[i] = TrainedHaulModel{HaulID: id}
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&models)
	if result.Error != nil {
		return fmt.Errorf("failed to mark hauls used: %w", result.Error)
	}
	return nil
}

// ModelBytes loads a registered model's serialized bytes, or nil if it has
// never been trained.
func (r *GormMLRepository) ModelBytes(ctx context.Context, id mlmodel.ID) ([]byte, error) {
	var m MLModelModel
	result := r.db.WithContext(ctx).Where("id = ?", string(id)).First(&m)
	if result.Error == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to load model bytes: %w", result.Error)
	}
	return m.Bytes, nil
}

// SaveModelBytes persists a retrained model's serialized bytes.
func (r *GormMLRepository) SaveModelBytes(ctx context.Context, id mlmodel.ID, bytes []byte) error {
	model := MLModelModel{ID: string(id), Bytes: bytes}
	result := r.db.WithContext(ctx).
		Where("id = ?", model.ID).
		Assign(MLModelModel{Bytes: bytes}).
		FirstOrCreate(&model)
	if result.Error != nil {
		return fmt.Errorf("failed to save model bytes: %w", result.Error)
	}
	return nil
}
