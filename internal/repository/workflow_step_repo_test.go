package repository

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/internal/workflow"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Employee{},
		&model.SalesOrder{},
		&model.WorkflowStep{},
		&model.StepAssignment{},
		&model.StepAudit{},
	))

	return db
}

func seedOrderWithSteps(t *testing.T, db *gorm.DB) (*model.SalesOrder, []model.WorkflowStep) {
	t.Helper()

	order := &model.SalesOrder{
		PONumber: "PO-REPO-1",
		Customer: "Acme Manufacturing",
	}
	require.NoError(t, db.Create(order).Error)

	steps := make([]model.WorkflowStep, 0, workflow.TotalSteps())
	for _, entry := range workflow.Steps() {
		steps = append(steps, model.WorkflowStep{
			SalesOrderID: order.ID,
			StepNumber:   entry.Number,
			StepName:     entry.Name,
			StepType:     string(entry.Type),
			Status:       string(workflow.StatusPending),
			Documents:    "[]",
		})
	}
	require.NoError(t, db.Create(&steps).Error)
	return order, steps
}

func TestUpdateStatusCAS(t *testing.T) {
	db := newTestDB(t)
	repo := NewWorkflowStepRepository(db)
	ctx := context.Background()
	_, steps := seedOrderWithSteps(t, db)

	err := repo.UpdateStatusCAS(ctx, steps[0].ID, workflow.StatusPending, map[string]interface{}{
		"status": string(workflow.StatusInProgress),
	})
	require.NoError(t, err)

	step, err := repo.GetByID(ctx, steps[0].ID)
	require.NoError(t, err)
	assert.Equal(t, string(workflow.StatusInProgress), step.Status)
}

func TestUpdateStatusCASStaleRead(t *testing.T) {
	db := newTestDB(t)
	repo := NewWorkflowStepRepository(db)
	ctx := context.Background()
	_, steps := seedOrderWithSteps(t, db)

	// A concurrent writer already moved the step to in_progress; this caller
	// still believes it is pending.
	require.NoError(t, repo.UpdateStatusCAS(ctx, steps[0].ID, workflow.StatusPending, map[string]interface{}{
		"status": string(workflow.StatusInProgress),
	}))

	err := repo.UpdateStatusCAS(ctx, steps[0].ID, workflow.StatusPending, map[string]interface{}{
		"status": string(workflow.StatusOnHold),
	})
	require.ErrorIs(t, err, workflow.ErrConcurrentModification)

	// The losing write must not have been applied.
	step, err := repo.GetByID(ctx, steps[0].ID)
	require.NoError(t, err)
	assert.Equal(t, string(workflow.StatusInProgress), step.Status)
}

func TestHighestCompletedStep(t *testing.T) {
	db := newTestDB(t)
	repo := NewWorkflowStepRepository(db)
	ctx := context.Background()
	order, steps := seedOrderWithSteps(t, db)

	highest, err := repo.HighestCompletedStep(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, highest, "no completed steps yet")

	for i := 0; i < 3; i++ {
		require.NoError(t, db.Model(&steps[i]).Update("status", string(workflow.StatusCompleted)).Error)
	}

	highest, err = repo.HighestCompletedStep(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, highest)
}

func TestCountByOrder(t *testing.T) {
	db := newTestDB(t)
	repo := NewWorkflowStepRepository(db)
	ctx := context.Background()
	order, _ := seedOrderWithSteps(t, db)

	count, err := repo.CountByOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(9), count)
}

func TestGetByIDNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewWorkflowStepRepository(db)

	_, err := repo.GetByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, workflow.ErrNotFound)
}

func TestListByOrderSortsByStepNumber(t *testing.T) {
	db := newTestDB(t)
	repo := NewWorkflowStepRepository(db)
	ctx := context.Background()
	order, _ := seedOrderWithSteps(t, db)

	steps, err := repo.ListByOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, steps, 9)
	for i, step := range steps {
		assert.Equal(t, i+1, step.StepNumber)
	}
}
