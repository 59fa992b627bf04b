package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/orcalabs/kyogre/internal/domain/deliverypoint"
)

// GormDeliveryPointRepository loads the delivery-point registries and
// redirect table from storage.
type GormDeliveryPointRepository struct {
	db *gorm.DB
}

// NewGormDeliveryPointRepository creates a new GORM delivery-point
// repository.
func NewGormDeliveryPointRepository(db *gorm.DB) *GormDeliveryPointRepository {
	return &GormDeliveryPointRepository{db: db}
}

// LoadChain builds a deliverypoint.Chain from the stored registries and
// redirects, highest-priority registry first: manual override,
// aqua-culture register, Mattilsynet, Fiskeridirektoratet buyer register.
func (r *GormDeliveryPointRepository) LoadChain(ctx context.Context) (*deliverypoint.Chain, error) {
	var models []DeliveryPointModel
	if result := r.db.WithContext(ctx).Find(&models); result.Error != nil {
		return nil, fmt.Errorf("failed to load delivery points: %w", result.Error)
	}

	bySource := make(map[deliverypoint.Source][]deliverypoint.DeliveryPoint)
	for _, m := range models {
		source := deliverypoint.Source(m.Source)
		bySource[source] = append(bySource[source], deliverypoint.DeliveryPoint{
			Code: deliverypoint.Code(m.Code),
			Name: m.Name,
		})
	}

	registries := []*deliverypoint.Registry{
		deliverypoint.NewRegistry(deliverypoint.SourceManualOverride, bySource[deliverypoint.SourceManualOverride]),
		deliverypoint.NewRegistry(deliverypoint.SourceAquaCulture, bySource[deliverypoint.SourceAquaCulture]),
		deliverypoint.NewRegistry(deliverypoint.SourceMattilsynet, bySource[deliverypoint.SourceMattilsynet]),
		deliverypoint.NewRegistry(deliverypoint.SourceBuyerRegister, bySource[deliverypoint.SourceBuyerRegister]),
	}

	var redirectModels []DeliveryPointRedirectModel
	if result := r.db.WithContext(ctx).Find(&redirectModels); result.Error != nil {
		return nil, fmt.Errorf("failed to load delivery point redirects: %w", result.Error)
	}
	redirects := make(map[deliverypoint.Code]deliverypoint.Code, len(redirectModels))
	for _, m := range redirectModels {
		redirects[deliverypoint.Code(m.FromCode)] = deliverypoint.Code(m.ToCode)
	}

	return deliverypoint.NewChain(redirects, registries...), nil
}
