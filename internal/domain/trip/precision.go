package trip

import "github.com/orcalabs/kyogre/internal/domain/geo"

// PrecisionDirection is the trip edge a precision implementation may move.
type PrecisionDirection int

const (
	DirectionStart PrecisionDirection = iota
	DirectionEnd
)

// ClusterPreference picks which end of a matching position chunk becomes
// the new trip edge.
type ClusterPreference int

const (
	PreferFirstInChunk ClusterPreference = iota
	PreferLastInChunk
)

// AnchorKind names what a precision implementation refines toward.
type AnchorKind int

const (
	AnchorPortCoordinate AnchorKind = iota
	AnchorDockPoint
	AnchorDeliveryPointCoordinate
	AnchorFirstMovedPoint
)

// PrecisionConfig describes one registered precision implementation.
type PrecisionConfig struct {
	ID                 AnchorKind
	Direction          PrecisionDirection
	Preference         ClusterPreference
	SearchWindow       geo.Interval       // relative window is applied by the caller around the trip edge
	DistanceThresholdM float64            // default 1000
	ChunkSize          int                // default 10
}

// PrecisionResult is the outcome of refining one trip edge.
type PrecisionResult struct {
	Period  geo.Interval
	Outcome PrecisionOutcome
}

// PrecisionOutcome is Success{period} | Failed, modeled as a tagged struct
// rather than an error: a failed refinement is an expected, non-exceptional
// outcome and the caller keeps the original period.
type PrecisionOutcome int

const (
	PrecisionSuccess PrecisionOutcome = iota
	PrecisionFailed
)
