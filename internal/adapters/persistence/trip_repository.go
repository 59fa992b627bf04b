package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/orcalabs/kyogre/internal/domain/geo"
	"github.com/orcalabs/kyogre/internal/domain/trip"
	"github.com/orcalabs/kyogre/internal/domain/vessel"
	"github.com/orcalabs/kyogre/internal/domain/vesselevent"
)

// GormTripRepository implements trip.Outbound using GORM.
type GormTripRepository struct {
	db        *gorm.DB
	vessels   *GormVesselRepository
	events    *GormVesselEventRepository
	landings  *GormLandingRepository
	positions *GormPositionRepository
}

// NewGormTripRepository creates a new GORM trip repository.
func NewGormTripRepository(db *gorm.DB, vessels *GormVesselRepository, events *GormVesselEventRepository, landings *GormLandingRepository, positions *GormPositionRepository) *GormTripRepository {
	return &GormTripRepository{db: db, vessels: vessels, events: events, landings: landings, positions: positions}
}

// VesselsToProcess returns every active vessel, the candidate set the
// orchestrator's Trips state iterates.
func (r *GormTripRepository) VesselsToProcess(ctx context.Context) ([]vessel.Vessel, error) {
	return r.vessels.ListActive(ctx)
}

// EventStream delegates to the vessel event repository.
func (r *GormTripRepository) EventStream(ctx context.Context, vesselID vessel.FiskeridirVesselId, since int64) ([]vesselevent.VesselEvent, error) {
	return r.events.EventStream(ctx, vesselID, since)
}

// PositionCandidates returns one vessel's position reports within window,
// resolving its call sign first since positions are keyed by call sign
// rather than the fiskeridir vessel id.
func (r *GormTripRepository) PositionCandidates(ctx context.Context, vesselID vessel.FiskeridirVesselId, window geo.Interval) ([]trip.PositionCandidate, error) {
	var vesselModel VesselModel
	if err := r.db.WithContext(ctx).Select("call_sign").Where("id = ?", int64(vesselID)).First(&vesselModel).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve vessel call sign: %w", err)
	}
	positions, err := r.positions.ForCallSignBetween(ctx, vesselModel.CallSign, window.Start, window.End)
	if err != nil {
		return nil, err
	}
	candidates := make([]trip.PositionCandidate, len(positions))
	for i, p := range positions {
		candidates[i] = trip.PositionCandidate{
			TimestampUnix: p.Timestamp.Unix(),
			Lat:           p.Point.Lat,
			Lon:           p.Point.Lon,
		}
	}
	return candidates, nil
}

// CommitAssemblerState persists an assembler's output transactionally:
// under ConflictReplace, pre-existing trips overlapping a new trip's
// period are deleted first; under ConflictError, an overlap aborts the
// whole commit.
func (r *GormTripRepository) CommitAssemblerState(ctx context.Context, vesselID vessel.FiskeridirVesselId, assembler trip.AssemblerID, state trip.AssemblerState) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Serialize concurrent assembly runs for the same vessel: take a
		// row lock on the vessel's calculation-timer row for the whole
		// delete-overlapping-then-insert sequence.
		timer := TripCalculationTimerModel{VesselID: int64(vesselID), Assembler: string(assembler)}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(&timer).FirstOrCreate(&timer).Error; err != nil {
			return fmt.Errorf("failed to lock trip calculation timer: %w", err)
		}

		for _, nt := range state.NewTrips {
			var replacedVersion int64
			if state.ConflictStrategy != trip.ConflictNone {
				var overlapping []TripModel
				q := tx.Where("vessel_id = ? AND assembler = ? AND period_start < ? AND period_end > ?",
					int64(vesselID), string(assembler), nt.Period.End, nt.Period.Start)
				if err := q.Find(&overlapping).Error; err != nil {
					return fmt.Errorf("failed to check overlapping trips: %w", err)
				}
				if len(overlapping) > 0 {
					if state.ConflictStrategy == trip.ConflictError {
						return fmt.Errorf("trip conflict: vessel %d already has an overlapping trip", vesselID)
					}
					ids := make([]int64, len(overlapping))
					for i, t := range overlapping {
						ids[i] = t.ID
						if t.CacheVersion > replacedVersion {
							replacedVersion = t.CacheVersion
						}
					}
					if err := tx.Where("id IN ?", ids).Delete(&TripModel{}).Error; err != nil {
						return fmt.Errorf("failed to replace overlapping trips: %w", err)
					}
				}
			}

			model := newTripToModel(vesselID, assembler, nt)
			// A replaced trip's successor continues its version sequence
			// so mirror reconciliation sees the change as an upsert.
			model.CacheVersion = replacedVersion + 1
			if err := tx.Create(&model).Error; err != nil {
				return fmt.Errorf("failed to insert trip: %w", err)
			}

			if err := tx.Model(&VesselEventModel{}).
				Where("vessel_id = ? AND timestamp >= ? AND timestamp < ?", int64(vesselID), nt.Period.Start, nt.Period.End).
				Update("trip_id", model.ID).Error; err != nil {
				return fmt.Errorf("failed to link vessel events to trip: %w", err)
			}

			if err := tx.Model(&LandingModel{}).
				Where("vessel_id = ? AND timestamp >= ? AND timestamp < ?", int64(vesselID), nt.LandingCoverage.Start, nt.LandingCoverage.End).
				Update("trip_id", model.ID).Error; err != nil {
				return fmt.Errorf("failed to link landings to trip: %w", err)
			}

			if err := tx.Model(&HaulModel{}).
				Where("vessel_id = ? AND start >= ? AND start < ?", int64(vesselID), nt.Period.Start, nt.Period.End).
				Update("trip_id", model.ID).Error; err != nil {
				return fmt.Errorf("failed to link hauls to trip: %w", err)
			}
		}

		timer.Timer = state.CalculationTimer
		if err := tx.Save(&timer).Error; err != nil {
			return fmt.Errorf("failed to persist trip calculation timer: %w", err)
		}
		return nil
	})
}

// TripsForVessel returns every trip for one vessel, for the haul
// distributor and fuel estimator to resolve TripID associations.
func (r *GormTripRepository) TripsForVessel(ctx context.Context, vesselID vessel.FiskeridirVesselId) ([]trip.Trip, error) {
	var models []TripModel
	result := r.db.WithContext(ctx).Where("vessel_id = ?", int64(vesselID)).Order("period_start ASC").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list trips: %w", result.Error)
	}
	trips := make([]trip.Trip, len(models))
	for i, m := range models {
		trips[i] = modelToTrip(&m)
	}
	return trips, nil
}

// LandingsWithoutTrip returns landing ids whose timestamp falls outside
// every trip's landing coverage window, for the VerifyDatabase check.
func (r *GormTripRepository) LandingsWithoutTrip(ctx context.Context) ([]int64, error) {
	var ids []int64
	result := r.db.WithContext(ctx).Model(&LandingModel{}).Where("trip_id IS NULL").Pluck("id", &ids)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list landings without trip: %w", result.Error)
	}
	return ids, nil
}

func newTripToModel(vesselID vessel.FiskeridirVesselId, assembler trip.AssemblerID, nt trip.NewTrip) TripModel {
	m := TripModel{
		VesselID:             int64(vesselID),
		Assembler:            string(assembler),
		PeriodStart:          nt.Period.Start,
		PeriodEnd:            nt.Period.End,
		PeriodExtendedStart:  nt.PeriodExtended.Start,
		PeriodExtendedEnd:    nt.PeriodExtended.End,
		LandingCoverageStart: nt.LandingCoverage.Start,
		LandingCoverageEnd:   nt.LandingCoverage.End,
	}
	if nt.StartPort != nil {
		m.StartPortCode = &nt.StartPort.Code
		m.StartPortName = &nt.StartPort.Name
	}
	if nt.EndPort != nil {
		m.EndPortCode = &nt.EndPort.Code
		m.EndPortName = &nt.EndPort.Name
	}
	if nt.Precision != nil {
		start, end := nt.Precision.Period.Start, nt.Precision.Period.End
		m.PrecisionStart = &start
		m.PrecisionEnd = &end
		m.PrecisionOutcome = "SUCCESS"
		if nt.Precision.Outcome == trip.PrecisionFailed {
			m.PrecisionOutcome = "FAILED"
		}
	}
	return m
}

func modelToTrip(m *TripModel) trip.Trip {
	t := trip.Trip{
		ID:              trip.ID(m.ID),
		VesselID:        vessel.FiskeridirVesselId(m.VesselID),
		Assembler:       trip.AssemblerID(m.Assembler),
		Period:          geo.NewInterval(m.PeriodStart, m.PeriodEnd),
		PeriodExtended:  geo.NewInterval(m.PeriodExtendedStart, m.PeriodExtendedEnd),
		LandingCoverage: geo.NewInterval(m.LandingCoverageStart, m.LandingCoverageEnd),
		CacheVersion:    m.CacheVersion,
	}
	if m.StartPortCode != nil {
		t.StartPort = &trip.Port{Code: *m.StartPortCode, Name: derefString(m.StartPortName)}
	}
	if m.EndPortCode != nil {
		t.EndPort = &trip.Port{Code: *m.EndPortCode, Name: derefString(m.EndPortName)}
	}
	if m.PrecisionStart != nil && m.PrecisionEnd != nil {
		outcome := trip.PrecisionSuccess
		if m.PrecisionOutcome == "FAILED" {
			outcome = trip.PrecisionFailed
		}
		t.Precision = &trip.PrecisionResult{
			Period:  geo.NewInterval(*m.PrecisionStart, *m.PrecisionEnd),
			Outcome: outcome,
		}
	}
	return t
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
