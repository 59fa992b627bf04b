package trip

import (
	"context"

	"github.com/orcalabs/kyogre/internal/domain/geo"
	"github.com/orcalabs/kyogre/internal/domain/vessel"
	"github.com/orcalabs/kyogre/internal/domain/vesselevent"
)

// Assembler is the shared contract for the ERS and landings strategies:
// given a vessel and its ordered event stream, optionally emit new trips.
type Assembler interface {
	ID() AssemblerID
	Assemble(ctx context.Context, v vessel.Vessel, events []vesselevent.VesselEvent) (*AssemblerState, error)
}

// PrecisionStage refines one trip's edges after assembly.
type PrecisionStage interface {
	Config() PrecisionConfig
	Refine(ctx context.Context, t Trip, candidates []PositionCandidate) (PrecisionResult, error)
}

// PositionCandidate is the minimal position projection precision stages
// need: a timestamp and a point, without depending on the position package
// directly (keeps the trip/precision contract independent of AIS/VMS
// plumbing).
type PositionCandidate struct {
	TimestampUnix int64
	Lat, Lon      float64
}

// Outbound is the orchestrator's read-mostly port onto trip storage: list
// vessels needing re-assembly, fetch a vessel's event stream, and persist
// an assembler's output transactionally.
type Outbound interface {
	VesselsToProcess(ctx context.Context) ([]vessel.Vessel, error)
	EventStream(ctx context.Context, vesselID vessel.FiskeridirVesselId, since int64) ([]vesselevent.VesselEvent, error)
	CommitAssemblerState(ctx context.Context, vesselID vessel.FiskeridirVesselId, assembler AssemblerID, state AssemblerState) error

	// PositionCandidates returns one vessel's position reports within window,
	// ordered by timestamp, for a PrecisionStage to scan for an edge
	// refinement.
	PositionCandidates(ctx context.Context, vesselID vessel.FiskeridirVesselId, window geo.Interval) ([]PositionCandidate, error)
}
