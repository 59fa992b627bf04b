package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/orcalabs/kyogre/internal/application/fuelestimator"
	"github.com/orcalabs/kyogre/internal/domain/fuel"
	"github.com/orcalabs/kyogre/internal/domain/position"
	"github.com/orcalabs/kyogre/internal/domain/vessel"
)

const pendingDaysLookback = 30 * 24 * time.Hour

// GormFuelRepository implements fuelestimator.Source and discovers the
// vessel/day work units the Scrape stage's position ingestion left
// pending (a calendar day with positions but no committed estimate yet).
type GormFuelRepository struct {
	db        *gorm.DB
	vessels   *GormVesselRepository
	positions *GormPositionRepository
}

// NewGormFuelRepository creates a new GORM fuel repository.
func NewGormFuelRepository(db *gorm.DB, vessels *GormVesselRepository, positions *GormPositionRepository) *GormFuelRepository {
	return &GormFuelRepository{db: db, vessels: vessels, positions: positions}
}

// PendingWork lists every active vessel together with the calendar days
// in the last 30 days that have a position row but no fuel estimate yet.
func (r *GormFuelRepository) PendingWork(ctx context.Context, now time.Time) ([]fuelestimator.VesselToProcess, error) {
	vessels, err := r.vessels.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	since := now.Add(-pendingDaysLookback)
	work := make([]fuelestimator.VesselToProcess, 0, len(vessels))
	for _, v := range vessels {
		days, err := r.pendingDaysForVessel(ctx, v, since)
		if err != nil {
			return nil, err
		}
		if len(days) == 0 {
			continue
		}
		work = append(work, fuelestimator.VesselToProcess{Vessel: v, Days: days})
	}
	return work, nil
}

func (r *GormFuelRepository) pendingDaysForVessel(ctx context.Context, v vessel.Vessel, since time.Time) ([]time.Time, error) {
	var positionDays []string
	result := r.db.WithContext(ctx).Model(&PositionModel{}).
		Where("vessel_call_sign = ? AND timestamp >= ?", v.CallSign, since).
		Distinct().
		Pluck("date(timestamp)", &positionDays)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list position days: %w", result.Error)
	}

	var estimatedDays []time.Time
	result = r.db.WithContext(ctx).Model(&FuelEstimateModel{}).
		Where("vessel_id = ? AND day >= ?", int64(v.ID), since).
		Pluck("day", &estimatedDays)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list estimated days: %w", result.Error)
	}
	estimated := make(map[string]bool, len(estimatedDays))
	for _, d := range estimatedDays {
		estimated[d.UTC().Format("2006-01-02")] = true
	}

	var pending []time.Time
	for _, raw := range positionDays {
		if estimated[raw] {
			continue
		}
		day, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			continue
		}
		pending = append(pending, day)
	}
	return pending, nil
}

// PositionsForDay returns a vessel's raw position reports for one
// calendar day.
func (r *GormFuelRepository) PositionsForDay(ctx context.Context, v vessel.Vessel, day time.Time) ([]position.Position, error) {
	return r.positions.ForCallSignBetween(ctx, v.CallSign, day, day.Add(24*time.Hour))
}

// MeasurementsForDay returns user-submitted fuel measurements whose range
// overlaps the given calendar day.
func (r *GormFuelRepository) MeasurementsForDay(ctx context.Context, v vessel.Vessel, day time.Time) ([]fuel.Measurement, error) {
	var models []FuelMeasurementModel
	result := r.db.WithContext(ctx).
		Where("call_sign = ? AND start_time < ? AND end_time > ?", v.CallSign, day.Add(24*time.Hour), day).
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list fuel measurements: %w", result.Error)
	}
	return measurementsFromModels(models), nil
}

// ListMeasurements returns a vessel's measurement spans overlapping
// [start, end), newest first; the measurement API's read path.
func (r *GormFuelRepository) ListMeasurements(ctx context.Context, callSign string, start, end time.Time) ([]fuel.Measurement, error) {
	var models []FuelMeasurementModel
	result := r.db.WithContext(ctx).
		Where("call_sign = ? AND start_time < ? AND end_time > ?", callSign, end, start).
		Order("start_time DESC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list fuel measurements: %w", result.Error)
	}
	return measurementsFromModels(models), nil
}

// UpsertMeasurements stores user-submitted spans, replacing any existing
// span with the same (call_sign, start_time); backs both the create and
// update paths of the measurement API.
func (r *GormFuelRepository) UpsertMeasurements(ctx context.Context, measurements []fuel.Measurement) error {
	if len(measurements) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range measurements {
			model := FuelMeasurementModel{
				CallSign:  m.CallSign,
				StartTime: m.StartTime,
			}
			err := tx.Where("call_sign = ? AND start_time = ?", m.CallSign, m.StartTime).
				Assign(FuelMeasurementModel{
					BarentswatchUserID: m.BarentswatchUserID,
					EndTime:            m.EndTime,
					FuelUsedLiter:      m.FuelUsedLiter,
				}).
				FirstOrCreate(&model).Error
			if err != nil {
				return fmt.Errorf("failed to upsert fuel measurement: %w", err)
			}
		}
		return nil
	})
}

// DeleteMeasurements removes a vessel's spans keyed by start timestamp.
func (r *GormFuelRepository) DeleteMeasurements(ctx context.Context, callSign string, startTimes []time.Time) error {
	if len(startTimes) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).
		Where("call_sign = ? AND start_time IN ?", callSign, startTimes).
		Delete(&FuelMeasurementModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete fuel measurements: %w", result.Error)
	}
	return nil
}

func measurementsFromModels(models []FuelMeasurementModel) []fuel.Measurement {
	measurements := make([]fuel.Measurement, len(models))
	for i, m := range models {
		measurements[i] = fuel.Measurement{
			BarentswatchUserID: m.BarentswatchUserID,
			CallSign:           m.CallSign,
			StartTime:          m.StartTime,
			EndTime:            m.EndTime,
			FuelUsedLiter:      m.FuelUsedLiter,
		}
	}
	return measurements
}

// CommitBatch upserts a batch of fuel estimates keyed by (vessel, day).
func (r *GormFuelRepository) CommitBatch(ctx context.Context, estimates []fuel.Estimate) error {
	if len(estimates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, e := range estimates {
			model := FuelEstimateModel{
				VesselID: int64(e.VesselID),
				Day:      e.Day,
				Liters:   e.Liters,
			}
			err := tx.Where("vessel_id = ? AND day = ?", model.VesselID, model.Day).
				Assign(FuelEstimateModel{Liters: e.Liters}).
				FirstOrCreate(&model).Error
			if err != nil {
				return fmt.Errorf("failed to commit fuel estimate: %w", err)
			}
		}
		return nil
	})
}
