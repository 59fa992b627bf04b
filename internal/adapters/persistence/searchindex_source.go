package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/orcalabs/kyogre/internal/application/searchindex"
)

// GormTripSearchSource implements searchindex.Source against the trips
// table, feeding the trips mirror index.
type GormTripSearchSource struct {
	db *gorm.DB
}

// NewGormTripSearchSource creates a new trip search source.
func NewGormTripSearchSource(db *gorm.DB) *GormTripSearchSource {
	return &GormTripSearchSource{db: db}
}

// ListIDs returns every trip's (id, cache_version) pair.
func (s *GormTripSearchSource) ListIDs(ctx context.Context) ([]searchindex.VersionedID, error) {
	return listVersionedIDs(ctx, s.db, &TripModel{})
}

// FetchDocuments loads the full rows for the given trip ids and encodes
// them as mirror documents.
func (s *GormTripSearchSource) FetchDocuments(ctx context.Context, ids []string) ([]searchindex.Document, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var models []TripModel
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch trip documents: %w", err)
	}

	docs := make([]searchindex.Document, 0, len(models))
	for _, m := range models {
		payload, err := json.Marshal(tripDoc{
			ID:             m.ID,
			VesselID:       m.VesselID,
			Assembler:      m.Assembler,
			PeriodStart:    m.PeriodStart,
			PeriodEnd:      m.PeriodEnd,
			StartPortCode:  m.StartPortCode,
			EndPortCode:    m.EndPortCode,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to encode trip document: %w", err)
		}
		docs = append(docs, searchindex.Document{
			ID:      fmt.Sprintf("%d", m.ID),
			Version: m.CacheVersion,
			Payload: payload,
		})
	}
	return docs, nil
}

type tripDoc struct {
	ID            int64     `json:"id"`
	VesselID      int64     `json:"vessel_id"`
	Assembler     string    `json:"assembler"`
	PeriodStart   time.Time `json:"period_start"`
	PeriodEnd     time.Time `json:"period_end"`
	StartPortCode *string   `json:"start_port_code,omitempty"`
	EndPortCode   *string   `json:"end_port_code,omitempty"`
}

// GormHaulSearchSource implements searchindex.Source against the hauls
// table, feeding the hauls mirror index.
type GormHaulSearchSource struct {
	db *gorm.DB
}

// NewGormHaulSearchSource creates a new haul search source.
func NewGormHaulSearchSource(db *gorm.DB) *GormHaulSearchSource {
	return &GormHaulSearchSource{db: db}
}

// ListIDs returns every haul's (id, cache_version) pair.
func (s *GormHaulSearchSource) ListIDs(ctx context.Context) ([]searchindex.VersionedID, error) {
	return listVersionedIDs(ctx, s.db, &HaulModel{})
}

// FetchDocuments loads the full rows for the given haul ids and encodes
// them as mirror documents.
func (s *GormHaulSearchSource) FetchDocuments(ctx context.Context, ids []string) ([]searchindex.Document, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var models []HaulModel
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch haul documents: %w", err)
	}

	docs := make([]searchindex.Document, 0, len(models))
	for _, m := range models {
		payload, err := json.Marshal(haulDoc{
			ID:            m.ID,
			VesselID:      m.VesselID,
			GearGroup:     m.GearGroup,
			Start:         m.Start,
			Stop:          m.Stop,
			CatchLocation: m.CatchLocation,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to encode haul document: %w", err)
		}
		docs = append(docs, searchindex.Document{
			ID:      fmt.Sprintf("%d", m.ID),
			Version: m.CacheVersion,
			Payload: payload,
		})
	}
	return docs, nil
}

type haulDoc struct {
	ID            int64     `json:"id"`
	VesselID      int64     `json:"vessel_id"`
	GearGroup     string    `json:"gear_group"`
	Start         time.Time `json:"start"`
	Stop          time.Time `json:"stop"`
	CatchLocation *string   `json:"catch_location,omitempty"`
}

func listVersionedIDs(ctx context.Context, db *gorm.DB, model interface{ TableName() string }) ([]searchindex.VersionedID, error) {
	rows, err := db.WithContext(ctx).Table(model.TableName()).Select("id, cache_version").Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to list versioned ids from %s: %w", model.TableName(), err)
	}
	defer rows.Close()

	var out []searchindex.VersionedID
	for rows.Next() {
		var id int64
		var version int64
		if err := rows.Scan(&id, &version); err != nil {
			return nil, fmt.Errorf("failed to scan versioned id from %s: %w", model.TableName(), err)
		}
		out = append(out, searchindex.VersionedID{ID: fmt.Sprintf("%d", id), Version: version})
	}
	return out, rows.Err()
}
