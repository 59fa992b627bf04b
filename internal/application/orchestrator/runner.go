// Package orchestrator drives vessel data through the fixed ordered
// pipeline stages, persisting a transition log and resuming from the
// last recorded position after restart.
package orchestrator

import (
	"context"
	"time"

	"github.com/orcalabs/kyogre/internal/application/common"
	domorch "github.com/orcalabs/kyogre/internal/domain/orchestrator"
	domshared "github.com/orcalabs/kyogre/internal/domain/shared"
)

// StageConfig controls whether a state runs at all, and if scheduled,
// what triggers it.
type StageConfig struct {
	Mode    domorch.Mode
	// Trigger is an opaque cron-like expression. The runner stores it but
	// only checks Mode; nothing in this module evaluates Trigger.
	Trigger string
}

// RetryPolicy controls sleep-then-retry of stages failing with a
// retriable (timeout-classified) error. The zero value retries nothing.
type RetryPolicy struct {
	MaxAttempts       int
	Delay             time.Duration
	BackoffMultiplier float64
}

// Runner drives the fixed state sequence, logging every transition and
// resuming from the last persisted state on startup.
type Runner struct {
	stages  map[domorch.State]domorch.Runnable
	configs map[domorch.State]StageConfig
	log     domorch.TransitionLog
	clock   domorch.Clock
	retry   RetryPolicy
}

// New builds a Runner from a config-ordered set of stage implementations.
func New(log domorch.TransitionLog, clock domorch.Clock, stages ...domorch.Runnable) *Runner {
	r := &Runner{
		stages:  make(map[domorch.State]domorch.Runnable, len(stages)),
		configs: make(map[domorch.State]StageConfig, len(stages)),
		log:     log,
		clock:   clock,
	}
	for _, s := range stages {
		r.stages[s.State()] = s
		r.configs[s.State()] = StageConfig{Mode: domorch.ModeEnabled}
	}
	return r
}

// Configure overrides a stage's run mode/trigger.
func (r *Runner) Configure(state domorch.State, cfg StageConfig) {
	r.configs[state] = cfg
}

// ConfigureRetry sets the sleep-then-retry policy for retriable stage
// failures.
func (r *Runner) ConfigureRetry(p RetryPolicy) {
	r.retry = p
}

// RunContinuous resumes from the last transition log entry (or
// StatePending if none exists) and advances through the fixed order
// forever, until ctx is cancelled.
func (r *Runner) RunContinuous(ctx context.Context, shared domorch.SharedState) error {
	current, err := r.resumeState(ctx)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		shared, current, err = r.step(ctx, shared, current)
		if err != nil {
			return err
		}
	}
}

// RunOnce runs a single iteration starting at the given state and returns
// the next state, for local/batch single-state mode.
func (r *Runner) RunOnce(ctx context.Context, shared domorch.SharedState, start domorch.State) (domorch.SharedState, domorch.State, error) {
	return r.step(ctx, shared, start)
}

func (r *Runner) resumeState(ctx context.Context) (domorch.State, error) {
	last, err := r.log.Last(ctx)
	if err != nil {
		return "", err
	}
	if last == nil {
		return domorch.StatePending, nil
	}
	return last.To, nil
}

func (r *Runner) step(ctx context.Context, shared domorch.SharedState, current domorch.State) (domorch.SharedState, domorch.State, error) {
	next := domorch.Next(current)
	logger := common.LoggerFromContext(ctx)

	runnable, ok := r.stages[next]
	cfg := r.configs[next]
	startedAt := r.now()

	if !ok || cfg.Mode == domorch.ModeDisabled {
		r.appendTransition(ctx, current, next, startedAt, domorch.OutcomeSkipped, "")
		return shared, next, nil
	}

	logger.Log("info", "entering orchestrator state", map[string]interface{}{"state": string(next)})

	newShared, err := runnable.Run(ctx, shared)
	if err != nil && r.retry.MaxAttempts > 0 && domshared.IsRetriable(err) {
		newShared, err = r.retryStage(ctx, runnable, shared, logger, err)
	}
	if err != nil {
		r.appendTransition(ctx, current, next, startedAt, domorch.OutcomeFailure, err.Error())
		if next == domorch.StateVerifyDatabase {
			// Verification failure is fail-fast: surface it and stop the
			// orchestrator rather than advancing past a broken store.
			return shared, next, err
		}
		// Any other stage failure does not abort the run: the next
		// cycle re-observes whatever is still pending.
		return shared, next, nil
	}

	r.appendTransition(ctx, current, next, startedAt, domorch.OutcomeSuccess, "")
	return newShared, next, nil
}

// retryStage re-runs a stage that failed with a retriable error, sleeping
// between attempts with the policy's backoff. Returns the last attempt's
// result; a non-retriable failure mid-sequence stops retrying.
func (r *Runner) retryStage(ctx context.Context, runnable domorch.Runnable, sharedState domorch.SharedState, logger common.StageLogger, firstErr error) (domorch.SharedState, error) {
	delay := r.retry.Delay
	err := firstErr
	for attempt := 1; attempt <= r.retry.MaxAttempts; attempt++ {
		logger.Log("warn", "retriable stage failure, backing off", map[string]interface{}{
			"state":   string(runnable.State()),
			"attempt": attempt,
			"delay":   delay.String(),
			"error":   err.Error(),
		})
		select {
		case <-ctx.Done():
			return sharedState, ctx.Err()
		case <-time.After(delay):
		}
		if r.retry.BackoffMultiplier > 1 {
			delay = time.Duration(float64(delay) * r.retry.BackoffMultiplier)
		}

		var newShared domorch.SharedState
		newShared, err = runnable.Run(ctx, sharedState)
		if err == nil || !domshared.IsRetriable(err) {
			return newShared, err
		}
	}
	return sharedState, err
}

func (r *Runner) appendTransition(ctx context.Context, from, to domorch.State, startedAt time.Time, outcome domorch.Outcome, detail string) {
	entry := domorch.TransitionLogEntry{
		From:      from,
		To:        to,
		StartedAt: startedAt,
		EndedAt:   r.now(),
		Outcome:   outcome,
		Detail:    detail,
	}
	if err := r.log.Append(ctx, entry); err != nil {
		logger := common.LoggerFromContext(ctx)
		logger.Log("error", "failed to persist transition log entry", map[string]interface{}{"error": err.Error()})
	}
}

func (r *Runner) now() time.Time {
	if r.clock != nil {
		return r.clock.Now()
	}
	return time.Now().UTC()
}
