package mlpredictor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orcalabs/kyogre/internal/domain/catchlocation"
	"github.com/orcalabs/kyogre/internal/domain/haul"
	"github.com/orcalabs/kyogre/internal/domain/mlmodel"
)

type fakeStore struct {
	trainingRows    []mlmodel.TrainingRow
	trainingHaulIDs []int64
	weeks           map[int][]int
	speciesGroups   []haul.SpeciesGroup
	catchLocations  []catchlocation.ID
	existing        map[string]bool
	savedPreds      []mlmodel.Prediction
	markedHauls     []int64
	modelBytes      map[mlmodel.ID][]byte
}

func (s *fakeStore) TrainingRows(ctx context.Context, spec mlmodel.ModelSpec) ([]mlmodel.TrainingRow, []int64, error) {
	return s.trainingRows, s.trainingHaulIDs, nil
}

func (s *fakeStore) ActiveWeeks(ctx context.Context, year int) ([]int, error) {
	return s.weeks[year], nil
}

func (s *fakeStore) ActiveSpeciesGroups(ctx context.Context) ([]haul.SpeciesGroup, error) {
	return s.speciesGroups, nil
}

func (s *fakeStore) ActiveCatchLocations(ctx context.Context) ([]catchlocation.ID, error) {
	return s.catchLocations, nil
}

func (s *fakeStore) ExistingPredictionKeys(ctx context.Context, year int, fromWeek int) (map[string]bool, error) {
	return s.existing, nil
}

func (s *fakeStore) SavePredictions(ctx context.Context, preds []mlmodel.Prediction) error {
	s.savedPreds = append(s.savedPreds, preds...)
	return nil
}

func (s *fakeStore) MarkHaulsUsed(ctx context.Context, haulIDs []int64) error {
	s.markedHauls = append(s.markedHauls, haulIDs...)
	return nil
}

func (s *fakeStore) ModelBytes(ctx context.Context, id mlmodel.ID) ([]byte, error) {
	return s.modelBytes[id], nil
}

func (s *fakeStore) SaveModelBytes(ctx context.Context, id mlmodel.ID, bytes []byte) error {
	if s.modelBytes == nil {
		s.modelBytes = map[mlmodel.ID][]byte{}
	}
	s.modelBytes[id] = bytes
	return nil
}

type fakePort struct {
	trainedBytes []byte
	scores       []float64
}

func (p *fakePort) Train(ctx context.Context, modelBytes []byte, rows []mlmodel.TrainingRow, rounds int, useGPU bool) ([]byte, error) {
	return p.trainedBytes, nil
}

func (p *fakePort) Predict(ctx context.Context, modelBytes []byte, rows []mlmodel.PredictionRow) ([]float64, error) {
	return p.scores, nil
}

func TestTrain_FiltersByDistanceToShore(t *testing.T) {
	store := &fakeStore{
		trainingRows: []mlmodel.TrainingRow{
			{HaulID: 1, DistanceToShoreM: 500},  // filtered out
			{HaulID: 2, DistanceToShoreM: 3000}, // kept
		},
		trainingHaulIDs: []int64{1, 2},
	}
	port := &fakePort{trainedBytes: []byte("model-v2")}

	p := New(store, port, false)
	err := p.Train(context.Background(), mlmodel.ModelSpec{ID: "cod"})
	require.NoError(t, err)

	assert.Equal(t, []byte("model-v2"), store.modelBytes["cod"])
	assert.Equal(t, []int64{2}, store.markedHauls)
}

func TestTrain_TestModeRelaxesDistanceFilter(t *testing.T) {
	store := &fakeStore{
		trainingRows:    []mlmodel.TrainingRow{{HaulID: 1, DistanceToShoreM: 0}},
		trainingHaulIDs: []int64{1},
	}
	port := &fakePort{trainedBytes: []byte("model")}

	p := New(store, port, true)
	err := p.Train(context.Background(), mlmodel.ModelSpec{ID: "cod"})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, store.markedHauls)
}

func TestTrain_RequiresWeather_SkipsIncompleteRows(t *testing.T) {
	store := &fakeStore{
		trainingRows: []mlmodel.TrainingRow{
			{HaulID: 1, DistanceToShoreM: 3000, WeatherFeatures: nil},
			{HaulID: 2, DistanceToShoreM: 3000, WeatherFeatures: map[string]float64{"wind": 5}},
		},
		trainingHaulIDs: []int64{1, 2},
	}
	port := &fakePort{trainedBytes: []byte("model")}

	p := New(store, port, false)
	err := p.Train(context.Background(), mlmodel.ModelSpec{ID: "cod", RequiresWeather: true})
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, store.markedHauls)
}

func TestTrain_NoRowsSurviveFilter_NoOp(t *testing.T) {
	store := &fakeStore{
		trainingRows:    []mlmodel.TrainingRow{{HaulID: 1, DistanceToShoreM: 0}},
		trainingHaulIDs: []int64{1},
	}
	port := &fakePort{}

	p := New(store, port, false)
	err := p.Train(context.Background(), mlmodel.ModelSpec{ID: "cod"})
	require.NoError(t, err)
	assert.Empty(t, store.markedHauls)
	assert.Nil(t, store.modelBytes)
}

func TestPredict_CartesianProductDedupedAgainstExisting(t *testing.T) {
	now := time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC) // ISO week 24
	year, week := now.ISOWeek()

	store := &fakeStore{
		weeks:          map[int][]int{year: {week, week + 1}},
		speciesGroups:  []haul.SpeciesGroup{"COD"},
		catchLocations: []catchlocation.ID{"09-05"},
		existing:       map[string]bool{},
	}
	// Mark the first week's prediction as already existing.
	existingRow := mlmodel.PredictionRow{CatchLocation: "09-05", SpeciesGroup: "COD", Week: week, Year: year}
	store.existing[existingRow.Key()] = true

	port := &fakePort{scores: []float64{0.9}}

	p := New(store, port, false)
	n, err := p.Predict(context.Background(), mlmodel.ModelSpec{ID: "cod"}, now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, store.savedPreds, 1)
	assert.Equal(t, week+1, store.savedPreds[0].Row.Week)
}

func TestPredict_NoNewCandidates_NoOp(t *testing.T) {
	now := time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)
	year, week := now.ISOWeek()
	row := mlmodel.PredictionRow{CatchLocation: "09-05", SpeciesGroup: "COD", Week: week, Year: year}

	store := &fakeStore{
		weeks:          map[int][]int{year: {week}},
		speciesGroups:  []haul.SpeciesGroup{"COD"},
		catchLocations: []catchlocation.ID{"09-05"},
		existing:       map[string]bool{row.Key(): true},
	}
	port := &fakePort{}

	p := New(store, port, false)
	n, err := p.Predict(context.Background(), mlmodel.ModelSpec{ID: "cod"}, now)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Empty(t, store.savedPreds)
}
