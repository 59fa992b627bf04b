package utils

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// GenerateRunID creates a short, human-readable id for one orchestrator
// cycle run against a single vessel, used in transition-log details and
// CLI single-state mode output.
// Format: {state}-{vesselID}-{8charHexUUID}
//
// Example:
//   - Input: state="TRIPS", vesselID=2006009001
//   - Output: "trips-2006009001-a3f8e2b1"
func GenerateRunID(state string, vesselID int64) string {
	return strings.ToLower(state) + "-" + strconv.FormatInt(vesselID, 10) + "-" + generateShortUUID()
}

// generateShortUUID creates an 8-character hex string from a UUID. This
// provides sufficient uniqueness while keeping ids compact.
func generateShortUUID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}
