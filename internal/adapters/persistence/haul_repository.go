package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/orcalabs/kyogre/internal/domain/catchlocation"
	"github.com/orcalabs/kyogre/internal/domain/geo"
	"github.com/orcalabs/kyogre/internal/domain/haul"
	"github.com/orcalabs/kyogre/internal/domain/vessel"
)

// GormHaulRepository implements hauldistributor.Source using GORM.
type GormHaulRepository struct {
	db        *gorm.DB
	positions *GormPositionRepository
	matrix    *GormMatrixRepository
}

// NewGormHaulRepository creates a new GORM haul repository.
func NewGormHaulRepository(db *gorm.DB, positions *GormPositionRepository, matrix *GormMatrixRepository) *GormHaulRepository {
	return &GormHaulRepository{db: db, positions: positions, matrix: matrix}
}

// HaulsNeedingDistribution returns hauls that have not yet had their catch
// distributed across catch locations.
func (r *GormHaulRepository) HaulsNeedingDistribution(ctx context.Context) ([]haul.Haul, error) {
	var models []HaulModel
	result := r.db.WithContext(ctx).
		Joins("LEFT JOIN haul_distributions ON haul_distributions.haul_id = hauls.id").
		Where("haul_distributions.id IS NULL").
		Group("hauls.id").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list hauls needing distribution: %w", result.Error)
	}

	hauls := make([]haul.Haul, len(models))
	for i, m := range models {
		catches, err := r.catchesForHaul(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		hauls[i] = modelToHaul(&m, catches)
	}
	return hauls, nil
}

// PositionPointsDuring returns position points for a haul's vessel between
// its start and stop, used to weight the catch-location split by where the
// gear was actually deployed.
func (r *GormHaulRepository) PositionPointsDuring(ctx context.Context, h haul.Haul) ([]geo.Point, error) {
	var vesselModel VesselModel
	if err := r.db.WithContext(ctx).Select("call_sign").Where("id = ?", int64(h.VesselID)).First(&vesselModel).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve vessel call sign: %w", err)
	}

	positions, err := r.positions.ForCallSignBetween(ctx, vesselModel.CallSign, h.Start, h.Stop)
	if err != nil {
		return nil, err
	}
	points := make([]geo.Point, len(positions))
	for i, p := range positions {
		points[i] = p.Point
	}
	return points, nil
}

// SaveDistributions persists the computed catch-location weight shares and
// bumps the matrix cache's authoritative version in the same transaction,
// since a new distribution changes the hauls/haul_distributions aggregate
// the matrix cache derives from.
func (r *GormHaulRepository) SaveDistributions(ctx context.Context, dists []haul.Distribution) error {
	if len(dists) == 0 {
		return nil
	}
	models := make([]HaulDistributionModel, len(dists))
	for i, d := range dists {
		models[i] = HaulDistributionModel{
			HaulID:         int64(d.HaulID),
			CatchLocation:  string(d.CatchLocation),
			WeightRatio:    d.WeightRatio,
			LivingWeightKg: d.LivingWeightKg,
		}
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models).Error; err != nil {
			return fmt.Errorf("failed to save haul distributions: %w", err)
		}
		if r.matrix != nil {
			if err := r.matrix.BumpAuthoritative(ctx, tx); err != nil {
				return err
			}
		}
		return nil
	})
}

// HaulsWithIncorrectCatchTotal returns haul ids whose distributed weights
// do not sum to the haul's total living weight, for the VerifyDatabase
// check.
func (r *GormHaulRepository) HaulsWithIncorrectCatchTotal(ctx context.Context) ([]int64, error) {
	type row struct {
		HaulID int64
		Total  float64
	}
	var rows []row
	err := r.db.WithContext(ctx).Raw(`
		SELECT hauls.id AS haul_id,
		       COALESCE(SUM(haul_distributions.living_weight_kg), 0) AS total
		FROM hauls
		LEFT JOIN haul_distributions ON haul_distributions.haul_id = hauls.id
		GROUP BY hauls.id
	`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check haul catch totals: %w", err)
	}

	var bad []int64
	for _, rr := range rows {
		catches, err := r.catchesForHaul(ctx, rr.HaulID)
		if err != nil {
			return nil, err
		}
		var want float64
		for _, c := range catches {
			want += c.LivingWeightKg
		}
		if abs(want-rr.Total) > 0.01 {
			bad = append(bad, rr.HaulID)
		}
	}
	return bad, nil
}

func (r *GormHaulRepository) catchesForHaul(ctx context.Context, haulID int64) ([]haul.Catch, error) {
	var models []HaulCatchModel
	if err := r.db.WithContext(ctx).Where("haul_id = ?", haulID).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list haul catches: %w", err)
	}
	catches := make([]haul.Catch, len(models))
	for i, m := range models {
		catches[i] = haul.Catch{
			SpeciesFiskeridirID: int32(m.SpeciesFiskeridirID),
			SpeciesGroup:        haul.SpeciesGroup(m.SpeciesGroup),
			LivingWeightKg:      m.LivingWeightKg,
		}
	}
	return catches, nil
}

func modelToHaul(m *HaulModel, catches []haul.Catch) haul.Haul {
	h := haul.Haul{
		ID:             haul.ID(m.ID),
		VesselID:       vessel.FiskeridirVesselId(m.VesselID),
		TripID:         m.TripID,
		GearGroup:      haul.GearGroup(m.GearGroup),
		Start:          m.Start,
		Stop:           m.Stop,
		StartLatitude:  m.StartLatitude,
		StartLongitude: m.StartLongitude,
		Catches:        catches,
	}
	if m.CatchLocation != nil {
		h.CatchLocation = catchlocation.ID(*m.CatchLocation)
	}
	return h
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
