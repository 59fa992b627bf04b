package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/orcalabs/kyogre/internal/domain/deliverypoint"
	"github.com/orcalabs/kyogre/internal/domain/haul"
	"github.com/orcalabs/kyogre/internal/domain/landing"
	"github.com/orcalabs/kyogre/internal/domain/vessel"
)

// GormLandingRepository implements landing storage using GORM.
type GormLandingRepository struct {
	db     *gorm.DB
	matrix *GormMatrixRepository
}

// NewGormLandingRepository creates a new GORM landing repository. matrix
// may be nil (e.g. in tests that do not exercise the matrix cache).
func NewGormLandingRepository(db *gorm.DB, matrix *GormMatrixRepository) *GormLandingRepository {
	return &GormLandingRepository{db: db, matrix: matrix}
}

// UpsertLandings commits a set-builder batch's deduplicated landing facts:
// one upsert of the landing row plus a full replace of its product rows,
// then bumps the matrix cache's authoritative version in the same
// transaction, since a new or replaced landing changes the catch aggregate
// the matrix derives from.
func (r *GormLandingRepository) UpsertLandings(ctx context.Context, landings []landing.Landing) error {
	if len(landings) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, l := range landings {
			model := LandingModel{
				ID:            int64(l.ID),
				VesselID:      int64(l.VesselID),
				DeliveryPoint: string(l.DeliveryPoint),
				Timestamp:     l.Timestamp,
				TripID:        l.TripID,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"vessel_id", "delivery_point", "timestamp"}),
			}).Create(&model).Error; err != nil {
				return fmt.Errorf("failed to upsert landing %d: %w", l.ID, err)
			}

			if err := tx.Where("landing_id = ?", model.ID).Delete(&LandingProductModel{}).Error; err != nil {
				return fmt.Errorf("failed to clear landing products for landing %d: %w", l.ID, err)
			}
			if len(l.Products) > 0 {
				products := make([]LandingProductModel, len(l.Products))
				for i, p := range l.Products {
					products[i] = LandingProductModel{
						LandingID:           model.ID,
						SpeciesFiskeridirID: int(p.SpeciesFiskeridirID),
						SpeciesGroup:        string(p.SpeciesGroup),
						GrossWeightKg:       p.GrossWeightKg,
						ProductWeightKg:     p.ProductWeightKg,
						LivingWeightKg:      p.LivingWeightKg,
						PriceNok:            p.PriceNok,
					}
				}
				if err := tx.Create(&products).Error; err != nil {
					return fmt.Errorf("failed to insert landing products for landing %d: %w", l.ID, err)
				}
			}
		}
		if r.matrix != nil {
			if err := r.matrix.BumpAuthoritative(ctx, tx); err != nil {
				return err
			}
		}
		return nil
	})
}

// ForVessel returns every landing for one vessel ordered by timestamp, the
// shape the landings-based trip assembler consumes.
func (r *GormLandingRepository) ForVessel(ctx context.Context, vesselID vessel.FiskeridirVesselId) ([]landing.Landing, error) {
	var models []LandingModel
	result := r.db.WithContext(ctx).Where("vessel_id = ?", int64(vesselID)).Order("timestamp ASC").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list landings: %w", result.Error)
	}
	landings := make([]landing.Landing, len(models))
	for i, m := range models {
		products, err := r.productsForLanding(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		landings[i] = modelToLanding(&m, products)
	}
	return landings, nil
}

// LinkToTrip sets TripID on every landing within the given trip's
// landing-coverage interval, committed as part of trip-assembly
// persistence.
func (r *GormLandingRepository) LinkToTrip(ctx context.Context, vesselID vessel.FiskeridirVesselId, tripID int64, start, end time.Time) error {
	result := r.db.WithContext(ctx).Model(&LandingModel{}).
		Where("vessel_id = ? AND timestamp >= ? AND timestamp < ?", int64(vesselID), start, end).
		Update("trip_id", tripID)
	if result.Error != nil {
		return fmt.Errorf("failed to link landings to trip: %w", result.Error)
	}
	return nil
}

func (r *GormLandingRepository) productsForLanding(ctx context.Context, landingID int64) ([]landing.Product, error) {
	var models []LandingProductModel
	if err := r.db.WithContext(ctx).Where("landing_id = ?", landingID).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list landing products: %w", err)
	}
	products := make([]landing.Product, len(models))
	for i, m := range models {
		products[i] = landing.Product{
			SpeciesFiskeridirID: int32(m.SpeciesFiskeridirID),
			SpeciesGroup:        haul.SpeciesGroup(m.SpeciesGroup),
			GrossWeightKg:       m.GrossWeightKg,
			ProductWeightKg:     m.ProductWeightKg,
			LivingWeightKg:      m.LivingWeightKg,
			PriceNok:            m.PriceNok,
		}
	}
	return products, nil
}

func modelToLanding(m *LandingModel, products []landing.Product) landing.Landing {
	return landing.Landing{
		ID:            landing.ID(m.ID),
		VesselID:      vessel.FiskeridirVesselId(m.VesselID),
		DeliveryPoint: deliverypoint.Code(m.DeliveryPoint),
		Timestamp:     m.Timestamp,
		TripID:        m.TripID,
		Products:      products,
	}
}
