package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/cucumber/godog"

	"github.com/orcalabs/kyogre/internal/application/positionlayers"
	"github.com/orcalabs/kyogre/internal/domain/geo"
	"github.com/orcalabs/kyogre/internal/domain/position"
)

type positionLayersContext struct {
	base      time.Time
	unit      *positionlayers.Unit
	prunedNow []positionlayers.PrunedPosition
}

func (c *positionLayersContext) reset() {
	c.base = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.unit = &positionlayers.Unit{}
	c.prunedNow = nil
}

func (c *positionLayersContext) aPositionAtOffsetLatLon(offsetSeconds int, lat, lon float64) error {
	c.unit.Positions = append(c.unit.Positions, position.Position{
		Timestamp: c.base.Add(time.Duration(offsetSeconds) * time.Second),
		Point:     geo.Point{Lat: lat, Lon: lon},
	})
	return nil
}

func (c *positionLayersContext) theUnrealisticSpeedLayerRuns() error {
	layer := positionlayers.NewUnrealisticSpeed()
	if err := layer.Apply(context.Background(), c.unit); err != nil {
		return err
	}
	c.prunedNow = c.unit.Output.Pruned
	return nil
}

func (c *positionLayersContext) theUnrealisticSpeedLayerRunsAgainOnItsOwnOutput() error {
	rerun := &positionlayers.Unit{Positions: append([]position.Position(nil), c.unit.Positions...)}
	layer := positionlayers.NewUnrealisticSpeed()
	if err := layer.Apply(context.Background(), rerun); err != nil {
		return err
	}
	c.unit = rerun
	c.prunedNow = rerun.Output.Pruned
	return nil
}

func (c *positionLayersContext) positionsRemain(n int) error {
	if len(c.unit.Positions) != n {
		return fmt.Errorf("expected %d positions remaining, got %d", n, len(c.unit.Positions))
	}
	return nil
}

func (c *positionLayersContext) positionWasPrunedBy(n int, by string) error {
	if len(c.prunedNow) != n {
		return fmt.Errorf("expected %d pruned positions, got %d", n, len(c.prunedNow))
	}
	for _, p := range c.prunedNow {
		if p.PrunedBy != by {
			return fmt.Errorf("expected pruned_by %q, got %q", by, p.PrunedBy)
		}
	}
	return nil
}

func (c *positionLayersContext) noFurtherPositionsArePruned() error {
	if len(c.prunedNow) != 0 {
		return fmt.Errorf("expected no further prunes, got %d", len(c.prunedNow))
	}
	return nil
}

// InitializePositionLayersScenario registers the unrealistic-speed pruning
// step definitions.
func InitializePositionLayersScenario(sc *godog.ScenarioContext) {
	c := &positionLayersContext{}
	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		c.reset()
		return ctx, nil
	})

	sc.Step(`^a position at (\d+)s offset, lat (-?\d+\.?\d*), lon (-?\d+\.?\d*)$`, c.aPositionAtOffsetLatLon)
	sc.Step(`^the unrealistic speed layer runs$`, c.theUnrealisticSpeedLayerRuns)
	sc.Step(`^the unrealistic speed layer runs again on its own output$`, c.theUnrealisticSpeedLayerRunsAgainOnItsOwnOutput)
	sc.Step(`^(\d+) positions remain$`, c.positionsRemain)
	sc.Step(`^(\d+) position was pruned by "([^"]*)"$`, c.positionWasPrunedBy)
	sc.Step(`^no further positions are pruned$`, c.noFurtherPositionsArePruned)
}
