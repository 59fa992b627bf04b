package tripassembler

import (
	"context"
	"time"

	"github.com/orcalabs/kyogre/internal/domain/geo"
	"github.com/orcalabs/kyogre/internal/domain/trip"
	"github.com/orcalabs/kyogre/internal/domain/vessel"
)

// defaultSearchWindow bounds how far past a trip's start edge
// PrecisionRunner looks for the first position showing real movement.
const defaultSearchWindow = 3 * time.Hour

// PrecisionRunner refines a newly assembled trip's start edge using a
// trip.PrecisionStage and a position-candidate source, populating
// PeriodExtended and Precision on the emitted trip.NewTrip. Only the
// movement-based anchor is wired here: the port/dock/delivery-point
// anchors need coordinate data this pipeline's domain model does not
// carry (see DESIGN.md).
type PrecisionRunner struct {
	stage     trip.PrecisionStage
	positions trip.Outbound
}

// NewPrecisionRunner builds a PrecisionRunner. positions supplies the
// PositionCandidates lookup; stage is normally precision.NewStage with
// cfg.ID == trip.AnchorFirstMovedPoint.
func NewPrecisionRunner(stage trip.PrecisionStage, positions trip.Outbound) *PrecisionRunner {
	return &PrecisionRunner{stage: stage, positions: positions}
}

// Refine scans positions from the trip's start edge forward and, on a
// successful refinement, narrows PeriodExtended to the refined start and
// records the outcome on nt.Precision. A stage-reported failure still
// records the Failed outcome on nt.Precision; no candidates or a stage
// error leave nt untouched.
func (r *PrecisionRunner) Refine(ctx context.Context, vesselID vessel.FiskeridirVesselId, nt trip.NewTrip) trip.NewTrip {
	cfg := r.stage.Config()
	window := geo.NewInterval(nt.Period.Start, nt.Period.Start.Add(defaultSearchWindow))
	candidates, err := r.positions.PositionCandidates(ctx, vesselID, window)
	if err != nil || len(candidates) == 0 {
		return nt
	}

	placeholder := trip.Trip{VesselID: vesselID, Period: nt.Period}
	result, err := r.stage.Refine(ctx, placeholder, candidates)
	if err != nil {
		return nt
	}
	nt.Precision = &result
	if result.Outcome == trip.PrecisionSuccess && cfg.ID == trip.AnchorFirstMovedPoint {
		nt.PeriodExtended = geo.NewInterval(result.Period.Start, nt.PeriodExtended.End)
	}
	return nt
}
