package positionlayers_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orcalabs/kyogre/internal/application/positionlayers"
	"github.com/orcalabs/kyogre/internal/domain/geo"
	"github.com/orcalabs/kyogre/internal/domain/position"
)

func pointAt(base time.Time, offset time.Duration, lat, lon float64) position.Position {
	return position.Position{
		Timestamp: base.Add(offset),
		Point:     geo.Point{Lat: lat, Lon: lon},
	}
}

func TestUnrealisticSpeed_KeepsRealisticTravel(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	unit := &positionlayers.Unit{Positions: []position.Position{
		pointAt(base, 0, 69.0, 18.0),
		pointAt(base, time.Hour, 69.01, 18.01),
		pointAt(base, 2*time.Hour, 69.02, 18.02),
	}}

	layer := positionlayers.NewUnrealisticSpeed()
	require.NoError(t, layer.Apply(context.Background(), unit))

	assert.Len(t, unit.Positions, 3)
	assert.Empty(t, unit.Output.Pruned)
}

func TestUnrealisticSpeed_DropsTeleportingPosition(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	unit := &positionlayers.Unit{Positions: []position.Position{
		pointAt(base, 0, 69.0, 18.0),
		// Jumps several degrees in one minute: far beyond 70 knots.
		pointAt(base, time.Minute, 75.0, 25.0),
		pointAt(base, 2*time.Minute, 69.01, 18.01),
	}}

	layer := positionlayers.NewUnrealisticSpeed()
	require.NoError(t, layer.Apply(context.Background(), unit))

	assert.Len(t, unit.Positions, 2)
	assert.Len(t, unit.Output.Pruned, 1)
	assert.Equal(t, 1, unit.Output.Pruned[0].Index)
	assert.Equal(t, "UNREALISTIC_SPEED", unit.Output.Pruned[0].PrunedBy)
}

func TestUnrealisticSpeed_TagsPredecessorAndNextAcceptedAroundDrop(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	unit := &positionlayers.Unit{Positions: []position.Position{
		pointAt(base, 0, 69.0, 18.0),
		pointAt(base, time.Minute, 75.0, 25.0),
		pointAt(base, 2*time.Minute, 69.01, 18.01),
	}}

	layer := positionlayers.NewUnrealisticSpeed()
	require.NoError(t, layer.Apply(context.Background(), unit))

	require.Len(t, unit.Positions, 2)
	assert.NotEmpty(t, unit.Positions[0].PrunedBy, "predecessor of a dropped candidate is tagged")
	assert.NotEmpty(t, unit.Positions[1].PrunedBy, "next accepted position after a drop is tagged")
}

func TestUnrealisticSpeed_EmptyInput(t *testing.T) {
	unit := &positionlayers.Unit{}
	layer := positionlayers.NewUnrealisticSpeed()
	require.NoError(t, layer.Apply(context.Background(), unit))
	assert.Empty(t, unit.Positions)
}

func TestPipeline_RunsLayersInOrder(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	unit := &positionlayers.Unit{Positions: []position.Position{
		pointAt(base, 0, 69.0, 18.0),
		pointAt(base, time.Minute, 75.0, 25.0),
		pointAt(base, 2*time.Minute, 69.01, 18.01),
	}}

	pipeline := positionlayers.NewPipeline(positionlayers.NewUnrealisticSpeed())
	require.NoError(t, pipeline.Run(context.Background(), unit))

	assert.Len(t, unit.Positions, 2)
}

func TestUnrealisticSpeed_IdempotentOnItsOwnOutput(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	unit := &positionlayers.Unit{Positions: []position.Position{
		pointAt(base, 0, 69.0, 18.0),
		pointAt(base, time.Minute, 75.0, 25.0),
		pointAt(base, 2*time.Minute, 69.01, 18.01),
	}}

	layer := positionlayers.NewUnrealisticSpeed()
	require.NoError(t, layer.Apply(context.Background(), unit))
	first := append([]position.Position(nil), unit.Positions...)

	rerun := &positionlayers.Unit{Positions: append([]position.Position(nil), first...)}
	require.NoError(t, layer.Apply(context.Background(), rerun))

	assert.Equal(t, first, rerun.Positions)
	assert.Empty(t, rerun.Output.Pruned)
}

func TestHaulOverlapTagger_AnnotatesPositions(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	unit := &positionlayers.Unit{Positions: []position.Position{
		pointAt(base, 0, 69.0, 18.0),
		pointAt(base, time.Minute, 69.01, 18.01),
	}}

	tagger := positionlayers.HaulOverlapTagger{
		IsInsideHaul: func(p position.Position) (bool, bool) {
			return p.Timestamp.Equal(base), true
		},
	}
	require.NoError(t, tagger.Apply(context.Background(), unit))

	assert.True(t, unit.Positions[0].InsideHaul)
	assert.True(t, unit.Positions[0].ActiveGear)
	assert.False(t, unit.Positions[1].InsideHaul)
}
