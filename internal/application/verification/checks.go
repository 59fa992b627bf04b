package verification

import (
	"context"
	"fmt"

	"github.com/orcalabs/kyogre/internal/domain/shared"
	"github.com/orcalabs/kyogre/internal/domain/vessel"
)

// Store is the narrow read port every concrete check needs. Each check
// only calls the subset of methods relevant to its finding kind.
type Store interface {
	DanglingVesselEventIDs(ctx context.Context) ([]int64, error)
	HaulsWithIncorrectCatchTotal(ctx context.Context) ([]int64, error)
	MatrixWeightDiscrepancies(ctx context.Context) (map[string]float64, error)
	LandingsWithoutTrip(ctx context.Context) ([]int64, error)
	ConflictingVesselMappings(ctx context.Context) ([]vessel.MappingConflict, error)
}

type danglingVesselEventCheck struct{ store Store }

func NewDanglingVesselEventCheck(store Store) Check { return danglingVesselEventCheck{store} }

func (danglingVesselEventCheck) Name() string { return "dangling_vessel_event" }

func (c danglingVesselEventCheck) Run(ctx context.Context) ([]shared.VerifyDatabaseFinding, error) {
	ids, err := c.store.DanglingVesselEventIDs(ctx)
	if err != nil {
		return nil, err
	}
	findings := make([]shared.VerifyDatabaseFinding, len(ids))
	for i, id := range ids {
		findings[i] = shared.VerifyDatabaseFinding{
			Kind:    shared.VerifyDanglingVesselEvent,
			Subject: fmt.Sprintf("vessel_event:%d", id),
			Detail:  "event has no linked trip after assembly completed",
		}
	}
	return findings, nil
}

type incorrectHaulCatchCheck struct{ store Store }

func NewIncorrectHaulCatchCheck(store Store) Check { return incorrectHaulCatchCheck{store} }

func (incorrectHaulCatchCheck) Name() string { return "incorrect_haul_catch" }

func (c incorrectHaulCatchCheck) Run(ctx context.Context) ([]shared.VerifyDatabaseFinding, error) {
	ids, err := c.store.HaulsWithIncorrectCatchTotal(ctx)
	if err != nil {
		return nil, err
	}
	findings := make([]shared.VerifyDatabaseFinding, len(ids))
	for i, id := range ids {
		findings[i] = shared.VerifyDatabaseFinding{
			Kind:    shared.VerifyIncorrectHaulCatch,
			Subject: fmt.Sprintf("haul:%d", id),
			Detail:  "distributed catch-location weights do not sum to the haul's total living weight",
		}
	}
	return findings, nil
}

type matrixWeightDiscrepancyCheck struct{ store Store }

func NewMatrixWeightDiscrepancyCheck(store Store) Check { return matrixWeightDiscrepancyCheck{store} }

func (matrixWeightDiscrepancyCheck) Name() string { return "matrix_weight_discrepancy" }

func (c matrixWeightDiscrepancyCheck) Run(ctx context.Context) ([]shared.VerifyDatabaseFinding, error) {
	discrepancies, err := c.store.MatrixWeightDiscrepancies(ctx)
	if err != nil {
		return nil, err
	}
	findings := make([]shared.VerifyDatabaseFinding, 0, len(discrepancies))
	for subject, delta := range discrepancies {
		findings = append(findings, shared.VerifyDatabaseFinding{
			Kind:    shared.VerifyMatrixWeightDiscrepancy,
			Subject: subject,
			Detail:  fmt.Sprintf("matrix cell sum differs from authoritative total by %.2f kg", delta),
		})
	}
	return findings, nil
}

type landingWithoutTripCheck struct{ store Store }

func NewLandingWithoutTripCheck(store Store) Check { return landingWithoutTripCheck{store} }

func (landingWithoutTripCheck) Name() string { return "landing_without_trip" }

func (c landingWithoutTripCheck) Run(ctx context.Context) ([]shared.VerifyDatabaseFinding, error) {
	ids, err := c.store.LandingsWithoutTrip(ctx)
	if err != nil {
		return nil, err
	}
	findings := make([]shared.VerifyDatabaseFinding, len(ids))
	for i, id := range ids {
		findings[i] = shared.VerifyDatabaseFinding{
			Kind:    shared.VerifyLandingWithoutTrip,
			Subject: fmt.Sprintf("landing:%d", id),
			Detail:  "no trip's landing_coverage contains this landing's timestamp",
		}
	}
	return findings, nil
}

type conflictingVesselMappingCheck struct{ store Store }

func NewConflictingVesselMappingCheck(store Store) Check { return conflictingVesselMappingCheck{store} }

func (conflictingVesselMappingCheck) Name() string { return "conflicting_vessel_mapping" }

func (c conflictingVesselMappingCheck) Run(ctx context.Context) ([]shared.VerifyDatabaseFinding, error) {
	conflicts, err := c.store.ConflictingVesselMappings(ctx)
	if err != nil {
		return nil, err
	}
	findings := make([]shared.VerifyDatabaseFinding, len(conflicts))
	for i, conflict := range conflicts {
		findings[i] = shared.VerifyDatabaseFinding{
			Kind:    shared.VerifyConflictingVesselMapping,
			Subject: conflict.CallSign,
			Detail:  conflict.String(),
		}
	}
	return findings, nil
}
