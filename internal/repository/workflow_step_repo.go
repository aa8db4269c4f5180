package repository

import (
	"context"
	"errors"
	"fmt"

	"backend/internal/model"
	"backend/internal/workflow"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkflowStepRepository is the store for the nine step rows of each order.
type WorkflowStepRepository interface {
	CreateBatch(ctx context.Context, steps []model.WorkflowStep) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.WorkflowStep, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]model.WorkflowStep, error)
	CountByOrder(ctx context.Context, orderID uuid.UUID) (int64, error)
	HighestCompletedStep(ctx context.Context, orderID uuid.UUID) (int, error)
	UpdateAssignment(ctx context.Context, stepID uuid.UUID, employeeID uuid.UUID) error
	UpdateStatusCAS(ctx context.Context, stepID uuid.UUID, expectedStatus workflow.StepStatus, updates map[string]interface{}) error
	UpdateDocuments(ctx context.Context, stepID uuid.UUID, documentsJSON string) error
}

type workflowStepRepository struct {
	db *gorm.DB
}

func NewWorkflowStepRepository(db *gorm.DB) WorkflowStepRepository {
	return &workflowStepRepository{db: db}
}

func (r *workflowStepRepository) CreateBatch(ctx context.Context, steps []model.WorkflowStep) error {
	return GetDB(ctx, r.db).Create(&steps).Error
}

func (r *workflowStepRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.WorkflowStep, error) {
	var step model.WorkflowStep
	if err := GetDB(ctx, r.db).First(&step, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: workflow step %s", workflow.ErrNotFound, id)
		}
		return nil, err
	}
	return &step, nil
}

func (r *workflowStepRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]model.WorkflowStep, error) {
	var steps []model.WorkflowStep
	if err := GetDB(ctx, r.db).
		Preload("AssignedEmployee").
		Where("sales_order_id = ?", orderID).
		Order("step_number ASC").
		Find(&steps).Error; err != nil {
		return nil, err
	}
	return steps, nil
}

func (r *workflowStepRepository) CountByOrder(ctx context.Context, orderID uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.WorkflowStep{}).
		Where("sales_order_id = ?", orderID).
		Count(&count).Error
	return count, err
}

// HighestCompletedStep returns 0 when no step of the order is completed.
func (r *workflowStepRepository) HighestCompletedStep(ctx context.Context, orderID uuid.UUID) (int, error) {
	var result struct {
		Highest int
	}
	err := GetDB(ctx, r.db).Model(&model.WorkflowStep{}).
		Select("COALESCE(MAX(step_number), 0) as highest").
		Where("sales_order_id = ? AND status = ?", orderID, workflow.StatusCompleted).
		Scan(&result).Error
	return result.Highest, err
}

func (r *workflowStepRepository) UpdateAssignment(ctx context.Context, stepID uuid.UUID, employeeID uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.WorkflowStep{}).
		Where("id = ?", stepID).
		Updates(map[string]interface{}{
			"assigned_employee_id": employeeID,
			"assigned_at":          gorm.Expr("CURRENT_TIMESTAMP"),
		}).Error
}

// UpdateStatusCAS applies updates only if the step still has expectedStatus.
// Zero rows affected means another caller won the race between this caller's
// read and write, reported as ErrConcurrentModification.
func (r *workflowStepRepository) UpdateStatusCAS(ctx context.Context, stepID uuid.UUID, expectedStatus workflow.StepStatus, updates map[string]interface{}) error {
	res := GetDB(ctx, r.db).Model(&model.WorkflowStep{}).
		Where("id = ? AND status = ?", stepID, string(expectedStatus)).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: step %s is no longer %s", workflow.ErrConcurrentModification, stepID, expectedStatus)
	}
	return nil
}

func (r *workflowStepRepository) UpdateDocuments(ctx context.Context, stepID uuid.UUID, documentsJSON string) error {
	return GetDB(ctx, r.db).Model(&model.WorkflowStep{}).
		Where("id = ?", stepID).
		Update("documents", documentsJSON).Error
}
