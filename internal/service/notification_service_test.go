package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAssignmentCreatesNotification(t *testing.T) {
	e := newTestEngine(t, true)
	ctx := context.Background()
	notifications := NewNotificationService(repository.NewNotificationRepository(e.db), nopBroadcaster{}, zap.NewNop())

	_, steps := initTestWorkflow(t, e, "PO-4001")
	employee := createTestEmployee(t, e.db, "jordan@example.com", true)

	_, err := e.workflow.AssignEmployee(ctx, AssignEmployeeRequest{
		StepID:     steps[0].ID.String(),
		EmployeeID: employee.ID.String(),
	})
	require.NoError(t, err)

	list, total, err := notifications.ListByEmployee(ctx, employee.ID.String(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, model.NotificationTaskAssignment, list[0].Type)
	assert.Contains(t, list[0].Message, "PO Details")
	assert.False(t, list[0].Read)
}

func TestStatusChangeCreatesNotification(t *testing.T) {
	e := newTestEngine(t, true)
	ctx := context.Background()
	notifications := NewNotificationService(repository.NewNotificationRepository(e.db), nopBroadcaster{}, zap.NewNop())

	_, steps := initTestWorkflow(t, e, "PO-4002")
	employee := createTestEmployee(t, e.db, "jordan@example.com", true)
	startStep(t, e, steps[0].ID, employee.ID)

	list, total, err := notifications.ListByEmployee(ctx, employee.ID.String(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total, "one for the assignment, one for the status change")

	var types []string
	for _, n := range list {
		types = append(types, n.Type)
	}
	assert.Contains(t, types, model.NotificationTaskAssignment)
	assert.Contains(t, types, model.NotificationStepStatusUpdate)
}

func TestMarkNotificationRead(t *testing.T) {
	e := newTestEngine(t, true)
	ctx := context.Background()
	notifications := NewNotificationService(repository.NewNotificationRepository(e.db), nopBroadcaster{}, zap.NewNop())

	_, steps := initTestWorkflow(t, e, "PO-4003")
	employee := createTestEmployee(t, e.db, "jordan@example.com", true)
	_, err := e.workflow.AssignEmployee(ctx, AssignEmployeeRequest{
		StepID:     steps[0].ID.String(),
		EmployeeID: employee.ID.String(),
	})
	require.NoError(t, err)

	list, _, err := notifications.ListByEmployee(ctx, employee.ID.String(), 1, 20)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, notifications.MarkRead(ctx, list[0].ID))

	list, _, err = notifications.ListByEmployee(ctx, employee.ID.String(), 1, 20)
	require.NoError(t, err)
	assert.True(t, list[0].Read)
}
