// Package trip holds the Trip aggregate produced by trip assembly: a
// vessel voyage interval plus its landing-coverage window and optional
// precision refinement.
package trip

import (
	"time"

	"github.com/orcalabs/kyogre/internal/domain/geo"
	"github.com/orcalabs/kyogre/internal/domain/vessel"
)

// AssemblerID names the strategy that produced a trip.
type AssemblerID string

const (
	AssemblerErs      AssemblerID = "ERS"
	AssemblerLandings AssemblerID = "LANDINGS"
)

// ID is a persisted trip's primary key.
type ID int64

// Port names a departure/arrival port observed for a trip edge.
type Port struct {
	Code string
	Name string
}

// Trip is the persisted, assembled voyage. Trips never overlap for the
// same vessel under the same assembler. Precision.Period, when present,
// must be a subset of PeriodExtended; Period need not be a subset of
// LandingCoverage since coverage may extend past trip end to absorb late
// landing registrations.
type Trip struct {
	ID              ID
	VesselID        vessel.FiskeridirVesselId
	Assembler       AssemblerID
	Period          geo.Interval
	PeriodExtended  geo.Interval
	LandingCoverage geo.Interval
	Precision       *PrecisionResult
	StartPort       *Port
	EndPort         *Port
	CacheVersion    int64
}

// NewTrip is the un-persisted candidate an assembler emits. The caller
// persists it transactionally and, under conflict strategy Replace,
// deletes any pre-existing trip overlapping Period first.
type NewTrip struct {
	Period          geo.Interval
	PeriodExtended  geo.Interval
	LandingCoverage geo.Interval
	StartPort       *Port
	EndPort         *Port
	Precision       *PrecisionResult
}

// ConflictStrategy tells the persistence layer how to reconcile a newly
// assembled trip with pre-existing trips overlapping its interval.
type ConflictStrategy int

const (
	ConflictNone ConflictStrategy = iota
	ConflictReplace
	ConflictError
)

// AssemblerState is the full output of one assembler invocation: the new
// trip candidates plus the timer to persist for the next incremental run.
type AssemblerState struct {
	NewTrips         []NewTrip
	CalculationTimer time.Time
	ConflictStrategy ConflictStrategy
}
