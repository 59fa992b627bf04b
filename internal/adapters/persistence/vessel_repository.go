package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	appsetbuilder "github.com/orcalabs/kyogre/internal/application/setbuilder"
	"github.com/orcalabs/kyogre/internal/domain/vessel"
)

// GormVesselRepository implements vessel storage using GORM.
type GormVesselRepository struct {
	db *gorm.DB
}

// NewGormVesselRepository creates a new GORM vessel repository.
func NewGormVesselRepository(db *gorm.DB) *GormVesselRepository {
	return &GormVesselRepository{db: db}
}

// FindByID retrieves a vessel by its Fiskeridirektoratet id.
func (r *GormVesselRepository) FindByID(ctx context.Context, id vessel.FiskeridirVesselId) (*vessel.Vessel, error) {
	var model VesselModel
	result := r.db.WithContext(ctx).Where("id = ?", int64(id)).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("vessel not found: %d", id)
		}
		return nil, fmt.Errorf("failed to find vessel: %w", result.Error)
	}
	return modelToVessel(&model), nil
}

// ListActive retrieves every vessel currently flagged active.
func (r *GormVesselRepository) ListActive(ctx context.Context) ([]vessel.Vessel, error) {
	var models []VesselModel
	result := r.db.WithContext(ctx).Where("active = ?", true).Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list active vessels: %w", result.Error)
	}
	vessels := make([]vessel.Vessel, len(models))
	for i, m := range models {
		vessels[i] = *modelToVessel(&m)
	}
	return vessels, nil
}

// Save upserts a vessel record.
func (r *GormVesselRepository) Save(ctx context.Context, v vessel.Vessel) error {
	model := vesselToModel(v)
	if result := r.db.WithContext(ctx).Save(model); result.Error != nil {
		return fmt.Errorf("failed to save vessel: %w", result.Error)
	}
	return nil
}

// RecordMappingConflict persists a detected call-sign/MMSI ambiguity.
func (r *GormVesselRepository) RecordMappingConflict(ctx context.Context, conflict vessel.MappingConflict, detectedAt time.Time) error {
	ids := make([]int64, len(conflict.VesselIDs))
	for i, id := range conflict.VesselIDs {
		ids[i] = int64(id)
	}
	idsJSON, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to marshal vessel ids: %w", err)
	}
	model := VesselMappingConflictModel{
		CallSign:   conflict.CallSign,
		Mmsi:       conflict.Mmsi,
		VesselIDs:  string(idsJSON),
		DetectedAt: detectedAt,
	}
	if result := r.db.WithContext(ctx).Create(&model); result.Error != nil {
		return fmt.Errorf("failed to record mapping conflict: %w", result.Error)
	}
	return nil
}

// ConflictingVesselMappings lists every recorded mapping conflict, for the
// VerifyDatabase state's consistency check.
func (r *GormVesselRepository) ConflictingVesselMappings(ctx context.Context) ([]vessel.MappingConflict, error) {
	var models []VesselMappingConflictModel
	if result := r.db.WithContext(ctx).Find(&models); result.Error != nil {
		return nil, fmt.Errorf("failed to list mapping conflicts: %w", result.Error)
	}
	conflicts := make([]vessel.MappingConflict, 0, len(models))
	for _, m := range models {
		var ids []int64
		if err := json.Unmarshal([]byte(m.VesselIDs), &ids); err != nil {
			continue
		}
		vesselIDs := make([]vessel.FiskeridirVesselId, len(ids))
		for i, id := range ids {
			vesselIDs[i] = vessel.FiskeridirVesselId(id)
		}
		conflicts = append(conflicts, vessel.MappingConflict{
			CallSign:   m.CallSign,
			Mmsi:       m.Mmsi,
			VesselIDs:  vesselIDs,
			DetectedAt: m.DetectedAt.Format(time.RFC3339),
		})
	}
	return conflicts, nil
}

// UpsertVesselIdentities implements setbuilder.Store: it commits a
// normalized, conflict-free batch of vessel identities (call sign + mmsi)
// in one statement using an upsert-on-conflict clause, rather than the
// per-row Save loop Scrape's eventual caller would otherwise need.
func (r *GormVesselRepository) UpsertVesselIdentities(ctx context.Context, sightings []appsetbuilder.VesselSighting) error {
	if len(sightings) == 0 {
		return nil
	}
	models := make([]VesselModel, len(sightings))
	for i, s := range sightings {
		models[i] = VesselModel{
			ID:          int64(s.VesselID),
			CallSign:    s.CallSign,
			Mmsi:        s.Mmsi,
			LengthGroup: string(vessel.LengthGroupUnknown),
			Active:      true,
		}
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"call_sign", "mmsi", "active"}),
	}).Create(&models)
	if result.Error != nil {
		return fmt.Errorf("failed to upsert vessel identities: %w", result.Error)
	}
	return nil
}

func modelToVessel(m *VesselModel) *vessel.Vessel {
	return &vessel.Vessel{
		ID:                      vessel.FiskeridirVesselId(m.ID),
		CallSign:                m.CallSign,
		Mmsi:                    m.Mmsi,
		EnginePowerKW:           m.EnginePowerKW,
		SpecificFuelConsumption: m.SpecificFuelConsumption,
		LengthMeters:            m.LengthMeters,
		LengthGroup:             vessel.LengthGroup(m.LengthGroup),
		Active:                  m.Active,
	}
}

func vesselToModel(v vessel.Vessel) *VesselModel {
	return &VesselModel{
		ID:                      int64(v.ID),
		CallSign:                v.CallSign,
		Mmsi:                    v.Mmsi,
		EnginePowerKW:           v.EnginePowerKW,
		SpecificFuelConsumption: v.SpecificFuelConsumption,
		LengthMeters:            v.LengthMeters,
		LengthGroup:             string(v.LengthGroup),
		Active:                  v.Active,
	}
}
