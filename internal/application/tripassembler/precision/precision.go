// Package precision implements trip edge refinement: shrinking or
// extending a trip's start/end toward a port, dock point, or delivery
// point using clusters of nearby positions.
package precision

import (
	"context"
	"time"

	"github.com/orcalabs/kyogre/internal/domain/geo"
	"github.com/orcalabs/kyogre/internal/domain/trip"
)

const (
	defaultChunkSize          = 10
	defaultDistanceThresholdM = 1000.0
	defaultSearchWindow       = 3 * time.Hour
)

// Anchor resolves the geographic point a refinement implementation
// targets (port coordinate, dock point, or delivery point coordinate);
// AnchorFirstMovedPoint has no anchor point and is handled separately.
type Anchor interface {
	Resolve(ctx context.Context, t trip.Trip) (geo.Point, bool, error)
}

// Stage is one registered precision implementation.
type Stage struct {
	cfg    trip.PrecisionConfig
	anchor Anchor
}

// NewStage builds a precision stage. cfg.ChunkSize/DistanceThresholdM
// default to 10/1000m when zero.
func NewStage(cfg trip.PrecisionConfig, anchor Anchor) *Stage {
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = defaultChunkSize
	}
	if cfg.DistanceThresholdM == 0 {
		cfg.DistanceThresholdM = defaultDistanceThresholdM
	}
	return &Stage{cfg: cfg, anchor: anchor}
}

func (s *Stage) Config() trip.PrecisionConfig { return s.cfg }

// Refine scans candidate positions in the configured direction, chunking
// them into groups of ChunkSize, and picks the first chunk whose centroid
// falls within DistanceThresholdM of the anchor. If nothing matches, or
// the resulting edge would make start >= end, refinement fails and the
// caller keeps the original period.
func (s *Stage) Refine(ctx context.Context, t trip.Trip, candidates []trip.PositionCandidate) (trip.PrecisionResult, error) {
	if s.cfg.ID == trip.AnchorFirstMovedPoint {
		return s.refineFirstMoved(t, candidates)
	}

	anchor, ok, err := s.anchor.Resolve(ctx, t)
	if err != nil {
		return trip.PrecisionResult{}, err
	}
	if !ok {
		return trip.PrecisionResult{Outcome: trip.PrecisionFailed}, nil
	}

	chunks := chunk(candidates, s.cfg.ChunkSize)
	for _, c := range chunks {
		centroid := centroidOf(c)
		if geo.HaversineDistanceMeters(centroid, anchor) <= s.cfg.DistanceThresholdM {
			edge := pickEdge(c, s.cfg.Preference)
			return s.applyEdge(t, edge)
		}
	}
	return trip.PrecisionResult{Outcome: trip.PrecisionFailed}, nil
}

// refineFirstMoved scans from trip start looking for the first position
// showing meaningful movement, shrinking the start edge toward it. It has
// no anchor distance check: the "anchor" is movement itself.
func (s *Stage) refineFirstMoved(t trip.Trip, candidates []trip.PositionCandidate) (trip.PrecisionResult, error) {
	if len(candidates) < 2 {
		return trip.PrecisionResult{Outcome: trip.PrecisionFailed}, nil
	}
	for i := 1; i < len(candidates); i++ {
		a := geo.Point{Lat: candidates[i-1].Lat, Lon: candidates[i-1].Lon}
		b := geo.Point{Lat: candidates[i].Lat, Lon: candidates[i].Lon}
		if geo.HaversineDistanceMeters(a, b) > s.cfg.DistanceThresholdM {
			return s.applyEdge(t, candidates[i])
		}
	}
	return trip.PrecisionResult{Outcome: trip.PrecisionFailed}, nil
}

func (s *Stage) applyEdge(t trip.Trip, edge trip.PositionCandidate) (trip.PrecisionResult, error) {
	edgeTime := time.Unix(edge.TimestampUnix, 0).UTC()
	start, end := t.Period.Start, t.Period.End
	if s.cfg.Direction == trip.DirectionStart {
		start = edgeTime
	} else {
		end = edgeTime
	}
	if !start.Before(end) {
		return trip.PrecisionResult{Outcome: trip.PrecisionFailed}, nil
	}
	return trip.PrecisionResult{
		Period:  geo.NewInterval(start, end),
		Outcome: trip.PrecisionSuccess,
	}, nil
}

func chunk(candidates []trip.PositionCandidate, size int) [][]trip.PositionCandidate {
	var chunks [][]trip.PositionCandidate
	for i := 0; i < len(candidates); i += size {
		end := i + size
		if end > len(candidates) {
			end = len(candidates)
		}
		chunks = append(chunks, candidates[i:end])
	}
	return chunks
}

func centroidOf(chunk []trip.PositionCandidate) geo.Point {
	points := make([]geo.Point, len(chunk))
	for i, c := range chunk {
		points[i] = geo.Point{Lat: c.Lat, Lon: c.Lon}
	}
	return geo.Centroid(points)
}

func pickEdge(chunk []trip.PositionCandidate, pref trip.ClusterPreference) trip.PositionCandidate {
	if pref == trip.PreferLastInChunk {
		return chunk[len(chunk)-1]
	}
	return chunk[0]
}
