// Package vesselevent holds the VesselEvent marker that ties ERS messages,
// hauls, and landings to a vessel timeline for trip assembly.
package vesselevent

import (
	"time"

	"github.com/orcalabs/kyogre/internal/domain/vessel"
)

// Kind enumerates the marker types a vessel event can carry.
type Kind string

const (
	KindErsDep  Kind = "ERS_DEP"
	KindErsPor  Kind = "ERS_POR"
	KindErsDca  Kind = "ERS_DCA"
	KindErsTra  Kind = "ERS_TRA"
	KindHaul    Kind = "HAUL"
	KindLanding Kind = "LANDING"
)

// EventID uniquely identifies one vessel event.
type EventID int64

// VesselEvent is a timestamped, typed marker attached to a vessel. Events
// are ingested once and linked to a trip only after trip assembly. The
// event carries an optional TripID rather than the trip holding a pointer
// back; trips materialize their event list on read.
type VesselEvent struct {
	ID             EventID
	VesselID       vessel.FiskeridirVesselId
	Kind           Kind
	Timestamp      time.Time

	// TripID is set once this event is linked to an assembled trip. Nil
	// until trip assembly commits.
	TripID         *int64

	// SequenceNumber breaks estimated-timestamp ties for ERS messages
	// (DEP/POR ordering within the same instant).
	SequenceNumber int32

	// ErsMessage carries the ERS-specific payload when Kind is one of the
	// ERS_* kinds; nil for HAUL/LANDING markers (those reference the haul
	// or landing table by EventID instead).
	ErsMessage     *ErsMessage
}

// ErsMessage is the summarized wire payload for DEP/POR/DCA/TRA messages
//.
type ErsMessage struct {
	MessageID          int64
	MessageNumber      int32
	MessageTimestamp   time.Time
	EstimatedTimestamp time.Time
	PortCode           *string
	CallSign           string

	// DCA-only fields.
	StartLat           *float64
	StartLon           *float64
	StopLat            *float64
	StopLon            *float64
	Gear               *string
	HaulDuration       *time.Duration

	// TRA-only fields.
	ReloadToCallSign   *string
	ReloadFromCallSign *string
	ReloadingTimestamp *time.Time
}

// IsLinked reports whether the event has already been attached to a trip.
func (e VesselEvent) IsLinked() bool {
	return e.TripID != nil
}

// OrderingTimestamp returns the instant used to order trip boundaries: the
// estimated timestamp for ERS messages (the captain's forecast of actual
// departure/arrival), or the plain Timestamp for haul/landing markers.
func (e VesselEvent) OrderingTimestamp() time.Time {
	if e.ErsMessage != nil {
		return e.ErsMessage.EstimatedTimestamp
	}
	return e.Timestamp
}
