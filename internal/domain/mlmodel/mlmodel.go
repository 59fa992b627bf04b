// Package mlmodel holds the types the ML predictor orchestration glue
// exchanges with the opaque train/predict functions. The
// functions themselves are external collaborators reached through a port;
// this package only describes the data crossing that boundary.
package mlmodel

import (
	"strconv"
	"time"

	"github.com/orcalabs/kyogre/internal/domain/catchlocation"
	"github.com/orcalabs/kyogre/internal/domain/haul"
	"github.com/orcalabs/kyogre/internal/domain/vessel"
)

// ID names a registered model (e.g. one species-group predictor).
type ID string

// TrainingRow is one labeled example fed to train(). Rows are filtered to
// DistanceToShoreM > 2000 (relaxed in test) before being handed to a model.
type TrainingRow struct {
	HaulID              int64
	VesselID            vessel.FiskeridirVesselId
	CatchLocation       catchlocation.ID
	Week                int
	Year                int
	SpeciesGroup        haul.SpeciesGroup
	DistanceToShoreM    float64
	WeatherFeatures     map[string]float64        // nil unless the model requires weather
	LabelLivingWeightKg float64
}

// RequiresWeather reports whether a model only trains on rows carrying a
// complete weather feature vector for every active catch location on the
// row's date.
type ModelSpec struct {
	ID              ID
	RequiresWeather bool
	Rounds          int
	UseGPU          bool
}

// PredictionRow is one candidate drawn from the Cartesian product of
// active weeks, species groups, and catch locations for the current year.
type PredictionRow struct {
	CatchLocation   catchlocation.ID
	SpeciesGroup    haul.SpeciesGroup
	Week            int
	Year            int
	WeatherFeatures map[string]float64
}

// Key identifies a prediction row for dedup/existence checks.
func (r PredictionRow) Key() string {
	return string(r.CatchLocation) + "|" + string(r.SpeciesGroup) + "|" +
		strconv.Itoa(r.Year) + "-" + strconv.Itoa(r.Week)
}

// Prediction is one scored row, ready to persist.
type Prediction struct {
	Row         PredictionRow
	Score       float64
	ModelID     ID
	GeneratedAt time.Time
}
