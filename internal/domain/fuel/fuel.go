// Package fuel holds per-vessel-per-day fuel estimates and user-submitted
// fuel measurement spans used to reconcile them.
package fuel

import (
	"time"

	"github.com/orcalabs/kyogre/internal/domain/vessel"
)

// Estimate is one vessel's liter estimate for one calendar day.
type Estimate struct {
	VesselID vessel.FiskeridirVesselId
	Day      time.Time                 // truncated to UTC midnight
	Liters   float64
}

// Measurement is a user-submitted fuel-level reading defining a
// measurement range between two timestamps for one vessel.
type Measurement struct {
	BarentswatchUserID string
	CallSign           string
	StartTime          time.Time
	EndTime            time.Time
	FuelUsedLiter      float64
}

// OverlapSeconds returns the number of seconds [start, end) overlaps with
// the measurement's range.
func (m Measurement) OverlapSeconds(start, end time.Time) float64 {
	lo := start
	if m.StartTime.After(lo) {
		lo = m.StartTime
	}
	hi := end
	if m.EndTime.Before(hi) {
		hi = m.EndTime
	}
	if hi.Before(lo) {
		return 0
	}
	return hi.Sub(lo).Seconds()
}

// LengthSeconds is the measurement range's own duration.
func (m Measurement) LengthSeconds() float64 {
	return m.EndTime.Sub(m.StartTime).Seconds()
}
