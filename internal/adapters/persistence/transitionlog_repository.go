package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	domorch "github.com/orcalabs/kyogre/internal/domain/orchestrator"
)

// GormTransitionLogRepository implements domorch.TransitionLog using GORM.
type GormTransitionLogRepository struct {
	db *gorm.DB
}

// NewGormTransitionLogRepository creates a new GORM transition log
// repository.
func NewGormTransitionLogRepository(db *gorm.DB) *GormTransitionLogRepository {
	return &GormTransitionLogRepository{db: db}
}

// Append records one state transition.
func (r *GormTransitionLogRepository) Append(ctx context.Context, entry domorch.TransitionLogEntry) error {
	model := TransitionLogModel{
		FromState: string(entry.From),
		ToState:   string(entry.To),
		StartedAt: entry.StartedAt,
		EndedAt:   entry.EndedAt,
		Outcome:   string(entry.Outcome),
		Detail:    entry.Detail,
	}
	if result := r.db.WithContext(ctx).Create(&model); result.Error != nil {
		return fmt.Errorf("failed to append transition log entry: %w", result.Error)
	}
	return nil
}

// Last returns the most recently recorded transition, or nil if the log
// is empty (a fresh deployment resumes at StatePending).
func (r *GormTransitionLogRepository) Last(ctx context.Context) (*domorch.TransitionLogEntry, error) {
	var model TransitionLogModel
	result := r.db.WithContext(ctx).Order("id DESC").Limit(1).Find(&model)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to load last transition log entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	entry := &domorch.TransitionLogEntry{
		ID:        model.ID,
		From:      domorch.State(model.FromState),
		To:        domorch.State(model.ToState),
		StartedAt: model.StartedAt,
		EndedAt:   model.EndedAt,
		Outcome:   domorch.Outcome(model.Outcome),
		Detail:    model.Detail,
	}
	return entry, nil
}
