// Package tripassembler selects the ERS or landings strategy per vessel
// and drives one assembly pass across every vessel due for reprocessing
//, implementing the orchestrator's narrow
// domorch.TripAssemblerOutbound port.
package tripassembler

import (
	"context"

	"github.com/orcalabs/kyogre/internal/domain/trip"
	"github.com/orcalabs/kyogre/internal/domain/vessel"
	"github.com/orcalabs/kyogre/internal/domain/vesselevent"
)

// Strategy is trip.Assembler narrowed to what this package dispatches on.
type Strategy = trip.Assembler

// fullHistory is the EventStream "since" watermark that selects every
// event a vessel has ever recorded. A retroactively-ingested event (e.g. a
// late DCA whose own timestamp predates events already assembled into
// trips) has a timestamp below any incremental watermark derived from a
// prior CalculationTimer, so an in-memory per-vessel watermark would
// permanently exclude it from reassembly. Reprocessing full history every
// cycle is the only way to guarantee retroactive events are seen; this is
// safe because strategy.Assemble is pure and CommitAssemblerState's
// ConflictReplace path makes recommitting the same (or a revised) trip set
// idempotent.
const fullHistory int64 = 0

// Service runs trip assembly for every active vessel, picking the ERS
// strategy for vessels whose event stream carries ERS DEP/POR coverage
// and falling back to the landings-only strategy otherwise.
type Service struct {
	outbound  trip.Outbound
	ers       Strategy
	landings  Strategy
	precision *PrecisionRunner
}

// New builds a Service. precision may be nil, which skips edge
// refinement entirely (trips then persist with PeriodExtended equal to
// the strategy's own extension and no Precision result).
func New(outbound trip.Outbound, ers, landings Strategy, precision *PrecisionRunner) *Service {
	return &Service{outbound: outbound, ers: ers, landings: landings, precision: precision}
}

// RunAssembly implements domorch.TripAssemblerOutbound.
func (s *Service) RunAssembly(ctx context.Context) (int, error) {
	vessels, err := s.outbound.VesselsToProcess(ctx)
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, v := range vessels {
		n, err := s.assembleOne(ctx, v)
		if err != nil {
			return processed, err
		}
		processed += n
	}
	return processed, nil
}

func (s *Service) assembleOne(ctx context.Context, v vessel.Vessel) (int, error) {
	events, err := s.outbound.EventStream(ctx, v.ID, fullHistory)
	if err != nil {
		return 0, err
	}
	if len(events) == 0 {
		return 0, nil
	}

	strategy := s.selectStrategy(events)
	state, err := strategy.Assemble(ctx, v, events)
	if err != nil {
		return 0, err
	}
	if state == nil {
		return 0, nil
	}

	if s.precision != nil {
		for i, nt := range state.NewTrips {
			state.NewTrips[i] = s.precision.Refine(ctx, v.ID, nt)
		}
	}

	if err := s.outbound.CommitAssemblerState(ctx, v.ID, strategy.ID(), *state); err != nil {
		return 0, err
	}
	return len(state.NewTrips), nil
}

// selectStrategy picks ERS for vessels whose stream carries any ERS
// DEP/POR coverage, landings-only otherwise.
func (s *Service) selectStrategy(events []vesselevent.VesselEvent) Strategy {
	for _, e := range events {
		if e.Kind == vesselevent.KindErsDep || e.Kind == vesselevent.KindErsPor {
			return s.ers
		}
	}
	return s.landings
}
