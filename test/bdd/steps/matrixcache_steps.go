package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"github.com/orcalabs/kyogre/internal/application/matrixcache"
	"github.com/orcalabs/kyogre/internal/domain/catchlocation"
	"github.com/orcalabs/kyogre/internal/domain/matrix"
)

func catchLocationID(s string) catchlocation.ID { return catchlocation.ID(s) }

type fakeMatrixStore struct {
	state        matrix.VersionState
	cells        map[matrix.Key]float64
	swappedCells map[matrix.Key]float64
	swappedVer   int64
	swapCalls    int
}

func (f *fakeMatrixStore) Version(ctx context.Context) (matrix.VersionState, error) {
	return f.state, nil
}

func (f *fakeMatrixStore) Aggregate(ctx context.Context) (map[matrix.Key]float64, error) {
	return f.cells, nil
}

func (f *fakeMatrixStore) SwapShadow(ctx context.Context, cells map[matrix.Key]float64, version int64) error {
	f.swapCalls++
	f.swappedCells = cells
	f.swappedVer = version
	return nil
}

type fakeMatrixReader struct {
	cells map[matrix.Key]float64
}

func (r fakeMatrixReader) Query(ctx context.Context, q matrix.Query) ([]matrix.Cell, error) {
	var out []matrix.Cell
	for k, v := range r.cells {
		out = append(out, matrix.Cell{
			MonthBucket:    k.MonthBucket,
			CatchLocation:  k.CatchLocation,
			GearGroup:      k.GearGroup,
			SpeciesGroup:   k.SpeciesGroup,
			LivingWeightKg: v,
		})
	}
	return out, nil
}

type matrixCacheContext struct {
	month      matrix.MonthBucket
	store      *fakeMatrixStore
	refreshed  bool
	queryCells []matrix.Cell
}

func (c *matrixCacheContext) reset() {
	c.month = matrix.NewMonthBucket(2023, 1)
	c.store = &fakeMatrixStore{cells: map[matrix.Key]float64{}}
	c.refreshed = false
	c.queryCells = nil
}

func (c *matrixCacheContext) theMatrixIsStaleWithAuthoritativeVersionAndCachedVersion(authoritative, cached int) error {
	c.store.state = matrix.VersionState{Authoritative: int64(authoritative), Cached: int64(cached)}
	return nil
}

func (c *matrixCacheContext) aHaulInCatchLocationWithLivingWeight(catchLocation string, weight float64) error {
	c.store.cells[matrix.Key{MonthBucket: c.month, CatchLocation: catchLocationID(catchLocation)}] = weight
	return nil
}

func (c *matrixCacheContext) theMatrixRefresherRuns() error {
	r := matrixcache.New(c.store)
	refreshed, err := r.RefreshIfStale(context.Background())
	if err != nil {
		return err
	}
	c.refreshed = refreshed
	return nil
}

func (c *matrixCacheContext) theMatrixWasSwappedExactlyOnceToVersion(version int) error {
	if c.store.swapCalls != 1 {
		return fmt.Errorf("expected 1 swap, got %d", c.store.swapCalls)
	}
	if c.store.swappedVer != int64(version) {
		return fmt.Errorf("expected swapped version %d, got %d", version, c.store.swappedVer)
	}
	return nil
}

func (c *matrixCacheContext) theMatrixWasNotSwapped() error {
	if c.store.swapCalls != 0 {
		return fmt.Errorf("expected no swap, got %d", c.store.swapCalls)
	}
	return nil
}

func (c *matrixCacheContext) queryingByMonthAndCatchLocationYieldsCells(n int) error {
	reader := fakeMatrixReader{cells: c.store.swappedCells}
	results, err := matrixcache.Query(context.Background(), reader, matrix.Query{
		XAxis: matrix.AxisMonthBucket,
		YAxis: matrix.AxisCatchLocation,
	})
	if err != nil {
		return err
	}
	if len(results) != n {
		return fmt.Errorf("expected %d cells, got %d", n, len(results))
	}
	c.queryCells = results
	return nil
}

func (c *matrixCacheContext) theCellsSumTo(total float64) error {
	var sum float64
	for _, cell := range c.queryCells {
		sum += cell.LivingWeightKg
	}
	if sum != total {
		return fmt.Errorf("expected sum %v, got %v", total, sum)
	}
	return nil
}

// InitializeMatrixCacheScenario registers the matrix cache refresh step
// definitions.
func InitializeMatrixCacheScenario(sc *godog.ScenarioContext) {
	c := &matrixCacheContext{}
	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		c.reset()
		return ctx, nil
	})

	sc.Step(`^the matrix is stale with authoritative version (\d+) and cached version (\d+)$`, c.theMatrixIsStaleWithAuthoritativeVersionAndCachedVersion)
	sc.Step(`^a haul in catch location "([^"]*)" with living weight (\d+)$`, c.aHaulInCatchLocationWithLivingWeight)
	sc.Step(`^the matrix refresher runs$`, c.theMatrixRefresherRuns)
	sc.Step(`^the matrix was swapped exactly once to version (\d+)$`, c.theMatrixWasSwappedExactlyOnceToVersion)
	sc.Step(`^the matrix was not swapped$`, c.theMatrixWasNotSwapped)
	sc.Step(`^querying by month and catch location yields (\d+) cells$`, c.queryingByMonthAndCatchLocationYieldsCells)
	sc.Step(`^the cells sum to (\d+)$`, c.theCellsSumTo)
}
