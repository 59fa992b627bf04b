package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/orcalabs/kyogre/internal/domain/vessel"
	"github.com/orcalabs/kyogre/internal/domain/vesselevent"
)

// GormVesselEventRepository implements vessel-event storage using GORM.
type GormVesselEventRepository struct {
	db *gorm.DB
}

// NewGormVesselEventRepository creates a new GORM vessel event repository.
func NewGormVesselEventRepository(db *gorm.DB) *GormVesselEventRepository {
	return &GormVesselEventRepository{db: db}
}

// EventStream returns a vessel's event stream ordered by ordering
// timestamp, for the trip assemblers.
func (r *GormVesselEventRepository) EventStream(ctx context.Context, vesselID vessel.FiskeridirVesselId, since int64) ([]vesselevent.VesselEvent, error) {
	var models []VesselEventModel
	result := r.db.WithContext(ctx).
		Where("vessel_id = ? AND timestamp >= ?", int64(vesselID), time.Unix(since, 0).UTC()).
		Order("timestamp ASC, sequence_number ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list vessel events: %w", result.Error)
	}
	events := make([]vesselevent.VesselEvent, len(models))
	for i, m := range models {
		events[i] = modelToVesselEvent(&m)
	}
	return events, nil
}

// DanglingVesselEventIDs returns events never linked to a trip, for the
// VerifyDatabase check.
func (r *GormVesselEventRepository) DanglingVesselEventIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	result := r.db.WithContext(ctx).Model(&VesselEventModel{}).
		Where("trip_id IS NULL").
		Pluck("id", &ids)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list dangling vessel events: %w", result.Error)
	}
	return ids, nil
}

// LinkToTrip sets TripID on every event whose timestamp falls within the
// given trip's interval, committed as part of trip-assembly persistence.
func (r *GormVesselEventRepository) LinkToTrip(ctx context.Context, vesselID vessel.FiskeridirVesselId, tripID int64, start, end time.Time) error {
	result := r.db.WithContext(ctx).Model(&VesselEventModel{}).
		Where("vessel_id = ? AND timestamp >= ? AND timestamp < ?", int64(vesselID), start, end).
		Update("trip_id", tripID)
	if result.Error != nil {
		return fmt.Errorf("failed to link vessel events to trip: %w", result.Error)
	}
	return nil
}

func modelToVesselEvent(m *VesselEventModel) vesselevent.VesselEvent {
	e := vesselevent.VesselEvent{
		ID:             vesselevent.EventID(m.ID),
		VesselID:       vessel.FiskeridirVesselId(m.VesselID),
		Kind:           vesselevent.Kind(m.Kind),
		Timestamp:      m.Timestamp,
		TripID:         m.TripID,
		SequenceNumber: int32(m.SequenceNumber),
	}
	if m.ErsMessageID != nil {
		ers := &vesselevent.ErsMessage{
			MessageID:            *m.ErsMessageID,
			PortCode:             m.ErsPortCode,
			StartLat:             m.ErsStartLat,
			StartLon:             m.ErsStartLon,
			StopLat:              m.ErsStopLat,
			StopLon:              m.ErsStopLon,
			Gear:                 m.ErsGear,
			ReloadToCallSign:     m.ErsReloadToCallSign,
			ReloadFromCallSign:   m.ErsReloadFromCallSign,
			ReloadingTimestamp:   m.ErsReloadingTimestamp,
		}
		if m.ErsMessageNumber != nil {
			ers.MessageNumber = int32(*m.ErsMessageNumber)
		}
		if m.ErsMessageTimestamp != nil {
			ers.MessageTimestamp = *m.ErsMessageTimestamp
		}
		if m.ErsEstimatedTimestamp != nil {
			ers.EstimatedTimestamp = *m.ErsEstimatedTimestamp
		}
		if m.ErsCallSign != nil {
			ers.CallSign = *m.ErsCallSign
		}
		if m.ErsHaulDurationMin != nil {
			d := time.Duration(*m.ErsHaulDurationMin) * time.Minute
			ers.HaulDuration = &d
		}
		e.ErsMessage = ers
	}
	return e
}
