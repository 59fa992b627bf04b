package verification

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orcalabs/kyogre/internal/domain/shared"
)

type fakeCheck struct {
	name     string
	findings []shared.VerifyDatabaseFinding
	err      error
}

func (c fakeCheck) Name() string { return c.name }

func (c fakeCheck) Run(ctx context.Context) ([]shared.VerifyDatabaseFinding, error) {
	return c.findings, c.err
}

func TestVerifier_Run_NoFindings_Passes(t *testing.T) {
	v := New(fakeCheck{name: "a"}, fakeCheck{name: "b"})
	assert.NoError(t, v.Run(context.Background()))
}

func TestVerifier_Run_AggregatesFindingsAcrossChecks(t *testing.T) {
	v := New(
		fakeCheck{name: "dangling-events", findings: []shared.VerifyDatabaseFinding{
			{Kind: shared.VerifyDanglingVesselEvent, Subject: "1"},
		}},
		fakeCheck{name: "matrix", findings: []shared.VerifyDatabaseFinding{
			{Kind: shared.VerifyMatrixWeightDiscrepancy, Subject: "09-05"},
		}},
	)

	err := v.Run(context.Background())
	require.Error(t, err)
	var verifyErr *shared.VerifyDatabaseError
	require.ErrorAs(t, err, &verifyErr)
	assert.True(t, verifyErr.HasFindings())
	assert.Len(t, verifyErr.Findings, 2)
}

func TestVerifier_Run_CheckErrorStopsImmediately(t *testing.T) {
	v := New(
		fakeCheck{name: "broken", err: errors.New("connection reset")},
		fakeCheck{name: "never-runs", findings: []shared.VerifyDatabaseFinding{
			{Kind: shared.VerifyLandingWithoutTrip},
		}},
	)

	err := v.Run(context.Background())
	require.Error(t, err)
	var verifyErr *shared.VerifyDatabaseError
	assert.False(t, errors.As(err, &verifyErr))
}
