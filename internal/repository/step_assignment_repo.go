package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StepAssignmentRepository is append-only: assignments are history and are
// never updated or deleted.
type StepAssignmentRepository interface {
	Create(ctx context.Context, assignment *model.StepAssignment) error
	ListByStep(ctx context.Context, stepID uuid.UUID) ([]model.StepAssignment, error)
}

type stepAssignmentRepository struct {
	db *gorm.DB
}

func NewStepAssignmentRepository(db *gorm.DB) StepAssignmentRepository {
	return &stepAssignmentRepository{db: db}
}

func (r *stepAssignmentRepository) Create(ctx context.Context, assignment *model.StepAssignment) error {
	return GetDB(ctx, r.db).Create(assignment).Error
}

func (r *stepAssignmentRepository) ListByStep(ctx context.Context, stepID uuid.UUID) ([]model.StepAssignment, error) {
	var assignments []model.StepAssignment
	if err := GetDB(ctx, r.db).
		Preload("Employee").
		Where("workflow_step_id = ?", stepID).
		Order("created_at ASC").
		Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}
