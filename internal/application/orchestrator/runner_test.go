package orchestrator_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orcalabs/kyogre/internal/application/orchestrator"
	domorch "github.com/orcalabs/kyogre/internal/domain/orchestrator"
	"github.com/orcalabs/kyogre/internal/domain/shared"
)

type memoryLog struct {
	entries []domorch.TransitionLogEntry
}

func (m *memoryLog) Append(ctx context.Context, entry domorch.TransitionLogEntry) error {
	entry.ID = int64(len(m.entries) + 1)
	m.entries = append(m.entries, entry)
	return nil
}

func (m *memoryLog) Last(ctx context.Context) (*domorch.TransitionLogEntry, error) {
	if len(m.entries) == 0 {
		return nil, nil
	}
	last := m.entries[len(m.entries)-1]
	return &last, nil
}

type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }

type fakeStage struct {
	state domorch.State
	err   error
	runs  *int
}

func (s fakeStage) State() domorch.State { return s.state }

func (s fakeStage) Run(ctx context.Context, shared domorch.SharedState) (domorch.SharedState, error) {
	if s.runs != nil {
		*s.runs++
	}
	if s.err != nil {
		return shared, s.err
	}
	return shared, nil
}

func TestRunner_RunOnce_AdvancesToNextState(t *testing.T) {
	log := &memoryLog{}
	runs := 0
	stage := fakeStage{state: domorch.StateScrape, runs: &runs}
	runner := orchestrator.New(log, fixedClock{at: time.Now()}, stage)

	_, next, err := runner.RunOnce(context.Background(), domorch.SharedState{}, domorch.StatePending)

	require.NoError(t, err)
	assert.Equal(t, domorch.StateScrape, next)
	assert.Equal(t, 1, runs)
	require.Len(t, log.entries, 1)
	assert.Equal(t, domorch.OutcomeSuccess, log.entries[0].Outcome)
}

func TestRunner_RunOnce_SkipsUnregisteredStage(t *testing.T) {
	log := &memoryLog{}
	runner := orchestrator.New(log, fixedClock{at: time.Now()})

	_, next, err := runner.RunOnce(context.Background(), domorch.SharedState{}, domorch.StatePending)

	require.NoError(t, err)
	assert.Equal(t, domorch.StateScrape, next)
	require.Len(t, log.entries, 1)
	assert.Equal(t, domorch.OutcomeSkipped, log.entries[0].Outcome)
}

func TestRunner_RunOnce_DisabledModeSkips(t *testing.T) {
	log := &memoryLog{}
	runs := 0
	stage := fakeStage{state: domorch.StateScrape, runs: &runs}
	runner := orchestrator.New(log, fixedClock{at: time.Now()}, stage)
	runner.Configure(domorch.StateScrape, orchestrator.StageConfig{Mode: domorch.ModeDisabled})

	_, next, err := runner.RunOnce(context.Background(), domorch.SharedState{}, domorch.StatePending)

	require.NoError(t, err)
	assert.Equal(t, domorch.StateScrape, next)
	assert.Equal(t, 0, runs)
	assert.Equal(t, domorch.OutcomeSkipped, log.entries[0].Outcome)
}

func TestRunner_RunOnce_StageFailureIsLoggedButDoesNotAbort(t *testing.T) {
	log := &memoryLog{}
	stage := fakeStage{state: domorch.StateScrape, err: errors.New("upstream unavailable")}
	runner := orchestrator.New(log, fixedClock{at: time.Now()}, stage)

	_, next, err := runner.RunOnce(context.Background(), domorch.SharedState{}, domorch.StatePending)

	require.NoError(t, err)
	assert.Equal(t, domorch.StateScrape, next)
	assert.Equal(t, domorch.OutcomeFailure, log.entries[0].Outcome)
	assert.Contains(t, log.entries[0].Detail, "upstream unavailable")
}

// A flaky stage fails with a timeout-classified error a fixed number of
// times before succeeding.
type flakyStage struct {
	state    domorch.State
	failures int
	runs     *int
}

func (s flakyStage) State() domorch.State { return s.state }

func (s flakyStage) Run(ctx context.Context, sharedState domorch.SharedState) (domorch.SharedState, error) {
	*s.runs++
	if *s.runs <= s.failures {
		return sharedState, shared.NewTimeoutError("test.flakyStage", "store unavailable")
	}
	return sharedState, nil
}

func TestRunner_RunOnce_VerifyDatabaseFailureHalts(t *testing.T) {
	log := &memoryLog{}
	stage := fakeStage{state: domorch.StateVerifyDatabase, err: errors.New("matrix weight discrepancy")}
	runner := orchestrator.New(log, fixedClock{at: time.Now()}, stage)

	_, next, err := runner.RunOnce(context.Background(), domorch.SharedState{}, domorch.StateMLModels)

	require.Error(t, err)
	assert.Equal(t, domorch.StateVerifyDatabase, next)
	require.Len(t, log.entries, 1)
	assert.Equal(t, domorch.OutcomeFailure, log.entries[0].Outcome)
}

func TestRunner_RunOnce_RetriableErrorRetriesWithBackoff(t *testing.T) {
	log := &memoryLog{}
	runs := 0
	stage := flakyStage{state: domorch.StateScrape, failures: 2, runs: &runs}
	runner := orchestrator.New(log, fixedClock{at: time.Now()}, stage)
	runner.ConfigureRetry(orchestrator.RetryPolicy{
		MaxAttempts:       3,
		Delay:             time.Millisecond,
		BackoffMultiplier: 2,
	})

	_, next, err := runner.RunOnce(context.Background(), domorch.SharedState{}, domorch.StatePending)

	require.NoError(t, err)
	assert.Equal(t, domorch.StateScrape, next)
	assert.Equal(t, 3, runs)
	assert.Equal(t, domorch.OutcomeSuccess, log.entries[0].Outcome)
}

func TestRunner_RunOnce_NonRetriableErrorIsNotRetried(t *testing.T) {
	log := &memoryLog{}
	runs := 0
	stage := fakeStage{state: domorch.StateScrape, err: errors.New("bad record"), runs: &runs}
	runner := orchestrator.New(log, fixedClock{at: time.Now()}, stage)
	runner.ConfigureRetry(orchestrator.RetryPolicy{MaxAttempts: 3, Delay: time.Millisecond, BackoffMultiplier: 2})

	_, _, err := runner.RunOnce(context.Background(), domorch.SharedState{}, domorch.StatePending)

	require.NoError(t, err)
	assert.Equal(t, 1, runs)
	assert.Equal(t, domorch.OutcomeFailure, log.entries[0].Outcome)
}

// cancellingStage cancels the run's context when it runs, so a
// RunContinuous loop stops right after that one stage.
type cancellingStage struct {
	state  domorch.State
	cancel context.CancelFunc
	runs   *int
}

func (s cancellingStage) State() domorch.State { return s.state }

func (s cancellingStage) Run(ctx context.Context, sharedState domorch.SharedState) (domorch.SharedState, error) {
	*s.runs++
	s.cancel()
	return sharedState, nil
}

func TestRunner_RunContinuous_ResumesFromLastTransition(t *testing.T) {
	log := &memoryLog{entries: []domorch.TransitionLogEntry{
		{To: domorch.StateTrips, Outcome: domorch.OutcomeSuccess},
	}}
	runs := 0
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stage := cancellingStage{state: domorch.StateBenchmark, cancel: cancel, runs: &runs}
	runner := orchestrator.New(log, fixedClock{at: time.Now()}, stage)

	err := runner.RunContinuous(ctx, domorch.SharedState{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, runs)
	require.Len(t, log.entries, 2)
	assert.Equal(t, domorch.StateTrips, log.entries[1].From)
	assert.Equal(t, domorch.StateBenchmark, log.entries[1].To)
}
