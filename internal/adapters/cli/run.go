package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"reflect"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/orcalabs/kyogre/internal/application/mediator"
	"github.com/orcalabs/kyogre/internal/application/orchestrator"
	domorch "github.com/orcalabs/kyogre/internal/domain/orchestrator"
	"github.com/orcalabs/kyogre/pkg/utils"
)

// runStateRequest asks the mediator to run a single orchestrator state once
// against the given SharedState. Routed through mediator.Mediator rather
// than called directly so the dispatch passes through the mediator's
// middleware (the --verbose timing log).
type runStateRequest struct {
	runner *orchestrator.Runner
	shared domorch.SharedState
	state  domorch.State
}

type runStateResponse struct {
	shared domorch.SharedState
	next   domorch.State
}

type runStateHandler struct{}

func (runStateHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	req := request.(runStateRequest)
	shared, next, err := req.runner.RunOnce(ctx, req.shared, req.state)
	if err != nil {
		return nil, err
	}
	return runStateResponse{shared: shared, next: next}, nil
}

// loggingMiddleware records each dispatched request's wall-clock duration;
// the run command wires it so single-state runs report how long a stage
// actually took.
func loggingMiddleware(log func(format string, args ...any)) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		started := time.Now()
		resp, err := next(ctx, request)
		log("command %s handled in %s (err=%v)", mediator.RequestName(request), time.Since(started), err)
		return resp, err
	}
}

var (
	continuous bool
	runState   string
	vesselID   int64
)

// NewRunCommand builds the `kyogre run` command: drive the orchestrator
// either continuously (fixed-order loop from the last resumed state) or
// for a single state, single-cycle batch run.
func NewRunCommand(boot Bootstrap) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the orchestrator",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, shared, cleanup, err := boot(configPath)
			if err != nil {
				return fmt.Errorf("bootstrap failed: %w", err)
			}
			defer cleanup()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if continuous {
				return runner.RunContinuous(ctx, shared)
			}

			state := domorch.State(runState)
			if state == "" {
				state = domorch.StatePending
			}
			runID := utils.GenerateRunID(string(state), vesselID)
			if verbose {
				fmt.Fprintf(cmd.OutOrStdout(), "starting run %s\n", runID)
			}

			m := mediator.NewMediator()
			if verbose {
				m.RegisterMiddleware(loggingMiddleware(func(format string, args ...any) {
					fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
				}))
			}
			if err := m.Register(reflect.TypeOf(runStateRequest{}), runStateHandler{}); err != nil {
				return err
			}

			resp, err := m.Send(ctx, runStateRequest{runner: runner, shared: shared, state: state})
			if err != nil {
				return err
			}
			next := resp.(runStateResponse).next
			fmt.Fprintf(cmd.OutOrStdout(), "run %s complete, next state %s\n", runID, next)
			return nil
		},
	}

	cmd.Flags().BoolVar(&continuous, "continuous", false, "run the fixed state loop until interrupted")
	cmd.Flags().StringVar(&runState, "state", "", "state to start from; the state after it runs once (defaults to PENDING, so the scrape stage runs)")
	cmd.Flags().Int64Var(&vesselID, "vessel-id", 0, "vessel id tag for the run's log entry")

	return cmd
}
