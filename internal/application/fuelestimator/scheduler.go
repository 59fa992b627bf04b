package fuelestimator

import (
	"context"
	"sync"
	"time"

	"github.com/orcalabs/kyogre/internal/application/common"
	"github.com/orcalabs/kyogre/internal/application/positionlayers"
	"github.com/orcalabs/kyogre/internal/domain/fuel"
	"github.com/orcalabs/kyogre/internal/domain/position"
	"github.com/orcalabs/kyogre/internal/domain/vessel"
)

const commitBatchSize = 50

// VesselToProcess is one unit of scheduled work: a vessel plus the
// calendar days it has pending positions for.
type VesselToProcess struct {
	Vessel vessel.Vessel
	Days   []time.Time
}

// Source loads raw inputs for one vessel/day and persists the resulting
// estimates in batches.
type Source interface {
	PositionsForDay(ctx context.Context, v vessel.Vessel, day time.Time) ([]position.Position, error)
	MeasurementsForDay(ctx context.Context, v vessel.Vessel, day time.Time) ([]fuel.Measurement, error)
	CommitBatch(ctx context.Context, estimates []fuel.Estimate) error
}

// Scheduler fans VesselToProcess work out over a bounded worker pool,
// each worker draining one vessel's pending days sequentially and
// committing in batches.
type Scheduler struct {
	source  Source
	layers  *positionlayers.Pipeline
	workers int
}

// NewScheduler builds a scheduler with the given worker pool size.
func NewScheduler(source Source, layers *positionlayers.Pipeline, workers int) *Scheduler {
	if workers <= 0 {
		workers = 8
	}
	return &Scheduler{source: source, layers: layers, workers: workers}
}

// Run processes every vessel's pending days sequentially within a worker,
// fanning vessels out across the pool. The work channel is closed after
// enqueueing all vessels and the call blocks until every worker drains it,
// matching the orchestrator's channel-ownership model.
func (s *Scheduler) Run(ctx context.Context, work []VesselToProcess) (processed int, err error) {
	ch := make(chan VesselToProcess, len(work))
	for _, w := range work {
		ch <- w
	}
	close(ch)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error
	count := 0

	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range ch {
				n, werr := s.processVessel(ctx, item)
				mu.Lock()
				count += n
				if werr != nil {
					logger := common.LoggerFromContext(ctx)
					logger.Log("error", "fuel estimation worker failed", map[string]interface{}{
						"vessel_id": item.Vessel.ID,
						"error":     werr.Error(),
					})
					if firstErr == nil {
						firstErr = werr
					}
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// A worker failure is logged and does not abort the run; partial
	// progress is fine because the next cycle observes the still-pending
	// days. firstErr is returned for visibility only.
	return count, firstErr
}

func (s *Scheduler) processVessel(ctx context.Context, w VesselToProcess) (int, error) {
	batch := make([]fuel.Estimate, 0, commitBatchSize)
	processed := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := s.source.CommitBatch(ctx, batch); err != nil {
			return err
		}
		batch = batch[:0]
		return nil
	}

	for _, day := range w.Days {
		positions, err := s.source.PositionsForDay(ctx, w.Vessel, day)
		if err != nil {
			return processed, err
		}
		measurements, err := s.source.MeasurementsForDay(ctx, w.Vessel, day)
		if err != nil {
			return processed, err
		}

		estimate, _, err := Pipeline(ctx, w.Vessel, day, positions, s.layers)
		if err != nil {
			return processed, err
		}
		estimate = Reconcile(day, estimate, measurements)

		batch = append(batch, estimate)
		processed++
		if len(batch) >= commitBatchSize {
			if err := flush(); err != nil {
				return processed, err
			}
		}
	}
	if err := flush(); err != nil {
		return processed, err
	}
	return processed, nil
}
