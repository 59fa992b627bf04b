// Package vessel holds the Vessel entity: commercial fishing vessels
// identified by a stable Norwegian registry id, carrying the engine
// parameters the fuel estimator needs.
package vessel

import "fmt"

// FiskeridirVesselId is the stable 64-bit identifier assigned by the
// Norwegian Directorate of Fisheries vessel registry.
type FiskeridirVesselId int64

// LengthGroup buckets vessels by hull length for matrix-cache bucketing.
type LengthGroup string

const (
	LengthGroupUnder11  LengthGroup = "UNDER_11"
	LengthGroup11To15   LengthGroup = "11_TO_15"
	LengthGroup15To21   LengthGroup = "15_TO_21"
	LengthGroup21To28   LengthGroup = "21_TO_28"
	LengthGroupOver28   LengthGroup = "OVER_28"
	LengthGroupUnknown  LengthGroup = "UNKNOWN"
)

// Vessel is the authoritative record for one fishing vessel. Vessels
// persist forever; Active distinguishes currently-fishing vessels from
// historic ones.
type Vessel struct {
	ID                      FiskeridirVesselId
	CallSign                string
	Mmsi                    *int
	EnginePowerKW           *float64
	SpecificFuelConsumption *float64           // grams per kWh
	LengthMeters            *float64
	LengthGroup             LengthGroup
	Active                  bool
}

// MappingConflict records a call-sign/MMSI pair observed to map to more
// than one vessel id. Conflicts are recorded, never silently overwritten.
type MappingConflict struct {
	CallSign   string
	Mmsi       *int
	VesselIDs  []FiskeridirVesselId
	DetectedAt string               // ISO timestamp, stored as provided by the detector
}

func (c MappingConflict) String() string {
	return fmt.Sprintf("call_sign=%s mmsi=%v maps to %d vessels", c.CallSign, c.Mmsi, len(c.VesselIDs))
}
