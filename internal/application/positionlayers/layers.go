// Package positionlayers implements the pluggable position-pruning and
// annotation pipeline a TripProcessingUnit passes through before fuel
// estimation.
package positionlayers

import (
	"context"
	"encoding/json"

	"github.com/orcalabs/kyogre/internal/domain/geo"
	"github.com/orcalabs/kyogre/internal/domain/position"
)

const unrealisticSpeedKnots = 70.0

// Layer receives a processing unit and may prune or annotate its
// positions before handing it to the next layer.
type Layer interface {
	ID() string
	Apply(ctx context.Context, unit *Unit) error
}

// Output accumulates the pruned-position audit log across every layer run
// against one unit.
type Output struct {
	Pruned []PrunedPosition
}

// PrunedPosition records one position a layer removed from the accepted
// set, with an audit payload for later inspection.
type PrunedPosition struct {
	Index     int
	PrunedBy  string
	AuditJSON string
}

// Unit carries one trip's sorted positions through the layer pipeline.
type Unit struct {
	Positions []position.Position
	Output    Output
}

// Pipeline runs a unit through every registered layer, in registration
// order.
type Pipeline struct {
	layers []Layer
}

// NewPipeline builds a layer pipeline from an ordered registration list.
func NewPipeline(layers ...Layer) *Pipeline {
	return &Pipeline{layers: layers}
}

func (p *Pipeline) Run(ctx context.Context, unit *Unit) error {
	for _, layer := range p.layers {
		if err := layer.Apply(ctx, unit); err != nil {
			return err
		}
	}
	return nil
}

// UnrealisticSpeed drops any position implying ≥70 knots of travel from
// its accepted predecessor, tagging both the dropped candidate and its
// predecessor, then re-testing the next candidate against the
// predecessor (the predecessor stays the comparison anchor across drops).
type UnrealisticSpeed struct{}

func NewUnrealisticSpeed() *UnrealisticSpeed { return &UnrealisticSpeed{} }

func (UnrealisticSpeed) ID() string { return "UNREALISTIC_SPEED" }

func (u UnrealisticSpeed) Apply(ctx context.Context, unit *Unit) error {
	if len(unit.Positions) == 0 {
		return nil
	}

	accepted := make([]position.Position, 0, len(unit.Positions))
	accepted = append(accepted, unit.Positions[0])
	predecessor := unit.Positions[0]
	// tagNext marks that the next accepted candidate sits on the far edge
	// of a just-dropped gap and needs the audit tag too.
	tagNext := false

	for i := 1; i < len(unit.Positions); i++ {
		cand := unit.Positions[i]

		elapsed := cand.Timestamp.Sub(predecessor.Timestamp).Seconds()
		speed := geo.KnotsBetween(predecessor.Point, cand.Point, elapsed)
		auditBytes, _ := json.Marshal(map[string]float64{"speed": speed})
		audit := string(auditBytes)

		if speed >= unrealisticSpeedKnots {
			cand.PrunedBy = u.ID()
			cand.PrunedAuditJSON = audit
			unit.Output.Pruned = append(unit.Output.Pruned, PrunedPosition{
				Index:     i,
				PrunedBy:  u.ID(),
				AuditJSON: audit,
			})

			last := &accepted[len(accepted)-1]
			if last.PrunedBy == "" {
				last.PrunedBy = u.ID()
				last.PrunedAuditJSON = audit
			}
			tagNext = true
			// predecessor remains the comparison anchor; only the
			// dropped candidate is excluded from accepted.
			continue
		}

		if tagNext {
			cand.PrunedBy = u.ID()
			cand.PrunedAuditJSON = audit
			tagNext = false
		}
		accepted = append(accepted, cand)
		predecessor = cand
	}

	unit.Positions = accepted
	return nil
}

// HaulOverlapTagger annotates positions with InsideHaul/ActiveGear so the
// fuel estimator can apply the gear-active load multiplier.
type HaulOverlapTagger struct {
	IsInsideHaul func(p position.Position) (insideHaul, activeGear bool)
}

func (HaulOverlapTagger) ID() string { return "HAUL_OVERLAP" }

func (t HaulOverlapTagger) Apply(ctx context.Context, unit *Unit) error {
	for i := range unit.Positions {
		inside, active := t.IsInsideHaul(unit.Positions[i])
		unit.Positions[i].InsideHaul = inside
		unit.Positions[i].ActiveGear = active
	}
	return nil
}
