package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/orcalabs/kyogre/internal/domain/catchlocation"
	"github.com/orcalabs/kyogre/internal/domain/haul"
	"github.com/orcalabs/kyogre/internal/domain/matrix"
	"github.com/orcalabs/kyogre/internal/domain/vessel"
)

// GormMatrixRepository implements matrix.Store and matrix.Reader using
// GORM. The authoritative aggregate lives in the hauls/haul_distributions
// join; MatrixCellModel is the shadow cache the refresher swaps in.
type GormMatrixRepository struct {
	db *gorm.DB
}

// NewGormMatrixRepository creates a new GORM matrix repository.
func NewGormMatrixRepository(db *gorm.DB) *GormMatrixRepository {
	return &GormMatrixRepository{db: db}
}

// Version reads the single-row authoritative/cached version counters.
func (r *GormMatrixRepository) Version(ctx context.Context) (matrix.VersionState, error) {
	var model MatrixVersionModel
	result := r.db.WithContext(ctx).Where("id = ?", 1).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return matrix.VersionState{}, nil
		}
		return matrix.VersionState{}, fmt.Errorf("failed to read matrix version: %w", result.Error)
	}
	return matrix.VersionState{Authoritative: model.Authoritative, Cached: model.Cached}, nil
}

// Aggregate recomputes the full 5-axis living-weight aggregate from
// hauls/haul_distributions/vessels, the authoritative source the refresher
// hashes against the shadow cache.
func (r *GormMatrixRepository) Aggregate(ctx context.Context) (map[matrix.Key]float64, error) {
	type row struct {
		MonthBucket       int32
		CatchLocation     string
		GearGroup         string
		SpeciesGroup      string
		VesselLengthGroup string
		LivingWeightKg    float64
	}
	var rows []row
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			(EXTRACT(YEAR FROM h.start) - 1970) * 12 + (EXTRACT(MONTH FROM h.start) - 1) AS month_bucket,
			hd.catch_location AS catch_location,
			h.gear_group AS gear_group,
			hc.species_group AS species_group,
			v.length_group AS vessel_length_group,
			SUM(hd.weight_ratio * hc.living_weight_kg) AS living_weight_kg
		FROM haul_distributions hd
		JOIN hauls h ON h.id = hd.haul_id
		JOIN haul_catches hc ON hc.haul_id = h.id
		JOIN vessels v ON v.id = h.vessel_id
		GROUP BY month_bucket, hd.catch_location, h.gear_group, hc.species_group, v.length_group
	`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate matrix cells: %w", err)
	}

	agg := make(map[matrix.Key]float64, len(rows))
	for _, rr := range rows {
		key := matrix.Key{
			MonthBucket:       matrix.MonthBucket(rr.MonthBucket),
			CatchLocation:     catchlocation.ID(rr.CatchLocation),
			GearGroup:         haul.GearGroup(rr.GearGroup),
			SpeciesGroup:      haul.SpeciesGroup(rr.SpeciesGroup),
			VesselLengthGroup: vessel.LengthGroup(rr.VesselLengthGroup),
		}
		agg[key] += rr.LivingWeightKg
	}
	return agg, nil
}

// SwapShadow replaces the matrix_cells table contents with a freshly
// aggregated slice and advances the cached version counter, all inside one
// transaction so readers never observe a half-swapped cache.
func (r *GormMatrixRepository) SwapShadow(ctx context.Context, cells map[matrix.Key]float64, version int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM matrix_cells").Error; err != nil {
			return fmt.Errorf("failed to clear matrix cells: %w", err)
		}

		models := make([]MatrixCellModel, 0, len(cells))
		for key, weight := range cells {
			models = append(models, MatrixCellModel{
				MonthBucket:       int32(key.MonthBucket),
				CatchLocation:     string(key.CatchLocation),
				GearGroup:         string(key.GearGroup),
				SpeciesGroup:      string(key.SpeciesGroup),
				VesselLengthGroup: string(key.VesselLengthGroup),
				LivingWeightKg:    weight,
			})
		}
		if len(models) > 0 {
			if err := tx.CreateInBatches(&models, 500).Error; err != nil {
				return fmt.Errorf("failed to insert matrix cells: %w", err)
			}
		}

		result := tx.Model(&MatrixVersionModel{}).Where("id = ?", 1).Update("cached", version)
		if result.Error != nil {
			return fmt.Errorf("failed to advance matrix cache version: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			if err := tx.Create(&MatrixVersionModel{ID: 1, Authoritative: version, Cached: version}).Error; err != nil {
				return fmt.Errorf("failed to initialize matrix version: %w", err)
			}
		}
		return nil
	})
}

// BumpAuthoritative advances the authoritative version counter by one,
// creating the single-row tracker if it does not exist yet. Callers wrap
// this in the same transaction as the haul/landing write that changed the
// matrix's contributing aggregate.
func (r *GormMatrixRepository) BumpAuthoritative(ctx context.Context, tx *gorm.DB) error {
	if tx == nil {
		tx = r.db.WithContext(ctx)
	}
	result := tx.Model(&MatrixVersionModel{}).Where("id = ?", 1).Update("authoritative", gorm.Expr("authoritative + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to bump matrix authoritative version: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		if err := tx.Create(&MatrixVersionModel{ID: 1, Authoritative: 1, Cached: 0}).Error; err != nil {
			return fmt.Errorf("failed to initialize matrix authoritative version: %w", err)
		}
	}
	return nil
}

// Query resolves a compiled matrix query against the cached slice.
func (r *GormMatrixRepository) Query(ctx context.Context, q matrix.Query) ([]matrix.Cell, error) {
	db := r.db.WithContext(ctx).Model(&MatrixCellModel{})
	for _, f := range q.Compile() {
		switch f.Axis {
		case matrix.AxisMonthBucket:
			db = db.Where("month_bucket IN ?", f.Values)
		case matrix.AxisCatchLocation:
			db = db.Where("catch_location IN ?", f.Values)
		case matrix.AxisGearGroup:
			db = db.Where("gear_group IN ?", f.Values)
		case matrix.AxisSpeciesGroup:
			db = db.Where("species_group IN ?", f.Values)
		case matrix.AxisVesselLengthGroup:
			db = db.Where("vessel_length_group IN ?", f.Values)
		}
	}

	var models []MatrixCellModel
	if result := db.Find(&models); result.Error != nil {
		return nil, fmt.Errorf("failed to query matrix cells: %w", result.Error)
	}
	cells := make([]matrix.Cell, len(models))
	for i, m := range models {
		cells[i] = matrix.Cell{
			MonthBucket:       matrix.MonthBucket(m.MonthBucket),
			CatchLocation:     catchlocation.ID(m.CatchLocation),
			GearGroup:         haul.GearGroup(m.GearGroup),
			SpeciesGroup:      haul.SpeciesGroup(m.SpeciesGroup),
			VesselLengthGroup: vessel.LengthGroup(m.VesselLengthGroup),
			LivingWeightKg:    m.LivingWeightKg,
		}
	}
	return cells, nil
}

// MatrixWeightDiscrepancies compares the cached matrix_cells total against
// the authoritative aggregate total, for the VerifyDatabase check.
func (r *GormMatrixRepository) MatrixWeightDiscrepancies(ctx context.Context) (map[string]float64, error) {
	authoritative, err := r.Aggregate(ctx)
	if err != nil {
		return nil, err
	}
	var authTotal float64
	for _, w := range authoritative {
		authTotal += w
	}

	var cachedTotal float64
	if err := r.db.WithContext(ctx).Model(&MatrixCellModel{}).Select("COALESCE(SUM(living_weight_kg), 0)").Scan(&cachedTotal).Error; err != nil {
		return nil, fmt.Errorf("failed to sum cached matrix weight: %w", err)
	}

	delta := authTotal - cachedTotal
	if delta < 0 {
		delta = -delta
	}
	if delta <= 0.01 {
		return nil, nil
	}
	return map[string]float64{"matrix_cache": delta}, nil
}
