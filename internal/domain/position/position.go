// Package position holds AIS and VMS position reports and the merged
// AisVmsPosition view the trip assembler and fuel estimator consume.
package position

import (
	"time"

	"github.com/orcalabs/kyogre/internal/domain/geo"
)

// Source distinguishes the upstream feed a position arrived from.
type Source string

const (
	SourceAIS Source = "AIS"
	SourceVMS Source = "VMS"
)

// Position is a single timestamped location report. Positions are never
// mutated after insertion; corrections arrive as new rows keyed by
// (mmsi/call_sign, timestamp).
type Position struct {
	VesselCallSign     string
	Timestamp          time.Time
	Source             Source
	Point              geo.Point
	SpeedKnots         *float64
	CourseDegrees      *float64
	NavigationalStatus *string
	DistanceToShoreM   float64

	// PrunedBy names the TripPositionLayer that removed this position from
	// a trip's accepted set, or "" if the position was kept.
	PrunedBy           string
	// PrunedAuditJSON carries an audit payload (e.g. {"speed": 83.2}) for
	// positions pruned by UnrealisticSpeed.
	PrunedAuditJSON    string

	// InsideHaul and ActiveGear are set by the haul-overlap tagging layer;
	// the fuel estimator applies the 1.75x gear-active load multiplier when
	// both are true.
	InsideHaul         bool
	ActiveGear         bool
}

// AisVmsPosition is the merged, timestamp-sorted view across AIS and VMS
// used by every downstream consumer. Sorting ties break by source with AIS
// preferred, matching the registries' own precedence (AIS has sub-minute
// resolution; VMS is the fallback for vessels without AIS).
type AisVmsPosition = Position

// MergeSorted merges two already-sorted position slices into one
// timestamp-ordered slice; positions within one trip are always processed
// strictly in timestamp order.
func MergeSorted(ais, vms []Position) []Position {
	merged := make([]Position, 0, len(ais)+len(vms))
	i, j := 0, 0
	for i < len(ais) && j < len(vms) {
		if ais[i].Timestamp.Before(vms[j].Timestamp) {
			merged = append(merged, ais[i])
			i++
		} else if vms[j].Timestamp.Before(ais[i].Timestamp) {
			merged = append(merged, vms[j])
			j++
		} else {
			// Identical timestamps: prefer AIS, keep ordering stable.
			merged = append(merged, ais[i])
			merged = append(merged, vms[j])
			i++
			j++
		}
	}
	merged = append(merged, ais[i:]...)
	merged = append(merged, vms[j:]...)
	return merged
}
