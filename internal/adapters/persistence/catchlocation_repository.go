package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/orcalabs/kyogre/internal/domain/catchlocation"
	"github.com/orcalabs/kyogre/internal/domain/geo"
)

// GormCatchLocationRepository loads the fixed catch-location grid from
// storage.
type GormCatchLocationRepository struct {
	db *gorm.DB
}

// NewGormCatchLocationRepository creates a new GORM catch-location
// repository.
func NewGormCatchLocationRepository(db *gorm.DB) *GormCatchLocationRepository {
	return &GormCatchLocationRepository{db: db}
}

// LoadLookup builds a catchlocation.Lookup from every stored grid cell.
// Called once at startup since the grid never changes between stages.
func (r *GormCatchLocationRepository) LoadLookup(ctx context.Context) (*catchlocation.Lookup, error) {
	var models []CatchLocationModel
	if result := r.db.WithContext(ctx).Find(&models); result.Error != nil {
		return nil, fmt.Errorf("failed to load catch locations: %w", result.Error)
	}

	locations := make([]catchlocation.CatchLocation, 0, len(models))
	for _, m := range models {
		var points []geo.Point
		if err := json.Unmarshal([]byte(m.PolygonJSON), &points); err != nil {
			return nil, fmt.Errorf("failed to unmarshal catch location %s polygon: %w", m.ID, err)
		}
		locations = append(locations, catchlocation.CatchLocation{
			ID:      catchlocation.ID(m.ID),
			Polygon: geo.Polygon{Points: points},
		})
	}
	return catchlocation.NewLookup(locations), nil
}
