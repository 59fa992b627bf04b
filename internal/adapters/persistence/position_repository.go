package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/orcalabs/kyogre/internal/domain/geo"
	"github.com/orcalabs/kyogre/internal/domain/position"
)

// GormPositionRepository implements position storage using GORM.
type GormPositionRepository struct {
	db *gorm.DB
}

// NewGormPositionRepository creates a new GORM position repository.
func NewGormPositionRepository(db *gorm.DB) *GormPositionRepository {
	return &GormPositionRepository{db: db}
}

// ForCallSignBetween returns every position for one vessel ordered by
// timestamp within [start, end), merging AIS and VMS rows.
func (r *GormPositionRepository) ForCallSignBetween(ctx context.Context, callSign string, start, end time.Time) ([]position.Position, error) {
	var models []PositionModel
	result := r.db.WithContext(ctx).
		Where("vessel_call_sign = ? AND timestamp >= ? AND timestamp < ?", callSign, start, end).
		Order("timestamp ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list positions: %w", result.Error)
	}
	positions := make([]position.Position, len(models))
	for i, m := range models {
		positions[i] = modelToPosition(&m)
	}
	return positions, nil
}

// SaveBatch inserts a batch of freshly-scraped positions.
func (r *GormPositionRepository) SaveBatch(ctx context.Context, positions []position.Position) error {
	if len(positions) == 0 {
		return nil
	}
	models := make([]PositionModel, len(positions))
	for i, p := range positions {
		models[i] = positionToModel(p)
	}
	if result := r.db.WithContext(ctx).Create(&models); result.Error != nil {
		return fmt.Errorf("failed to save positions: %w", result.Error)
	}
	return nil
}

// UpdatePruneTags persists the position-layers pipeline's pruning/tagging
// decisions back onto the already-stored rows.
func (r *GormPositionRepository) UpdatePruneTags(ctx context.Context, positions []position.Position) error {
	for _, p := range positions {
		result := r.db.WithContext(ctx).Model(&PositionModel{}).
			Where("vessel_call_sign = ? AND timestamp = ?", p.VesselCallSign, p.Timestamp).
			Updates(map[string]interface{}{
				"pruned_by":         p.PrunedBy,
				"pruned_audit_json": p.PrunedAuditJSON,
				"inside_haul":       p.InsideHaul,
				"active_gear":       p.ActiveGear,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update position tags: %w", result.Error)
		}
	}
	return nil
}

func modelToPosition(m *PositionModel) position.Position {
	return position.Position{
		VesselCallSign:     m.VesselCallSign,
		Timestamp:          m.Timestamp,
		Source:             position.Source(m.Source),
		Point:              geo.Point{Lat: m.Lat, Lon: m.Lon},
		SpeedKnots:         m.SpeedKnots,
		CourseDegrees:      m.CourseDegrees,
		NavigationalStatus: m.NavigationalStatus,
		DistanceToShoreM:   m.DistanceToShoreM,
		PrunedBy:           m.PrunedBy,
		PrunedAuditJSON:    m.PrunedAuditJSON,
		InsideHaul:         m.InsideHaul,
		ActiveGear:         m.ActiveGear,
	}
}

func positionToModel(p position.Position) PositionModel {
	return PositionModel{
		VesselCallSign:     p.VesselCallSign,
		Timestamp:          p.Timestamp,
		Source:             string(p.Source),
		Lat:                p.Point.Lat,
		Lon:                p.Point.Lon,
		SpeedKnots:         p.SpeedKnots,
		CourseDegrees:      p.CourseDegrees,
		NavigationalStatus: p.NavigationalStatus,
		DistanceToShoreM:   p.DistanceToShoreM,
		PrunedBy:           p.PrunedBy,
		PrunedAuditJSON:    p.PrunedAuditJSON,
		InsideHaul:         p.InsideHaul,
		ActiveGear:         p.ActiveGear,
	}
}
