// Package verification implements the VerifyDatabase consistency checks
// run at the end of each orchestrator cycle.
package verification

import (
	"context"
	"fmt"

	"github.com/orcalabs/kyogre/internal/domain/shared"
)

// Check is one independent consistency check; Run returns the findings it
// detects (nil/empty means the check passed).
type Check interface {
	Name() string
	Run(ctx context.Context) ([]shared.VerifyDatabaseFinding, error)
}

// Verifier runs every registered check and aggregates their findings into
// a single VerifyDatabaseError. Checks are a config-ordered list, no
// dynamic dispatch beyond one interface per check.
type Verifier struct {
	checks []Check
}

// New builds a Verifier from a config-ordered list of checks.
func New(checks ...Check) *Verifier {
	return &Verifier{checks: checks}
}

// Run executes every check and returns a VerifyDatabaseError if any
// findings were produced. A check that errors (rather than returning
// findings) is itself wrapped and returned immediately — distinguishing
// "the check ran and found a problem" from "the check could not run".
func (v *Verifier) Run(ctx context.Context) error {
	var all []shared.VerifyDatabaseFinding
	for _, check := range v.checks {
		findings, err := check.Run(ctx)
		if err != nil {
			return fmt.Errorf("verification check %q failed to run: %w", check.Name(), err)
		}
		all = append(all, findings...)
	}
	if len(all) == 0 {
		return nil
	}
	return &shared.VerifyDatabaseError{Findings: all}
}
