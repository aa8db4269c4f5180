package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// newTestDB opens an in-memory sqlite database with the full schema. A single
// connection is forced so every query sees the same :memory: database.
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
		&model.Notification{},
	))

	return db
}

type nopBroadcaster struct{}

func (nopBroadcaster) Publish([]byte) {}

// testEngine bundles the workflow service with the repositories the tests use
// to inspect database state directly.
type testEngine struct {
	db          *gorm.DB
	workflow    WorkflowService
	orders      repository.SalesOrderRepository
	steps       repository.WorkflowStepRepository
	assignments repository.StepAssignmentRepository
	audits      repository.StepAuditRepository
}

func newTestEngine(t *testing.T, allowRework bool) *testEngine {
	t.Helper()

	db := newTestDB(t)
	logger := zap.NewNop()

	orders := repository.NewSalesOrderRepository(db)
	steps := repository.NewWorkflowStepRepository(db)
	assignments := repository.NewStepAssignmentRepository(db)
	audits := repository.NewStepAuditRepository(db)
	employees := repository.NewEmployeeRepository(db)
	notifications := repository.NewNotificationRepository(db)

	notifier := NewNotificationService(notifications, nopBroadcaster{}, logger)

	return &testEngine{
		db:          db,
		orders:      orders,
		steps:       steps,
		assignments: assignments,
		audits:      audits,
		workflow: NewWorkflowService(
			repository.NewTransactionManager(db),
			orders,
			steps,
			assignments,
			audits,
			employees,
			notifier,
			logger,
			allowRework,
		),
	}
}

func createTestOrder(t *testing.T, db *gorm.DB, poNumber string) *model.SalesOrder {
	t.Helper()

	order := &model.SalesOrder{
		PONumber:       poNumber,
		Customer:       "Acme Manufacturing",
		POValue:        decimal.NewFromInt(15000),
		Currency:       "USD",
		WorkflowStatus: model.OrderWorkflowDraft,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func createTestUser(t *testing.T, db *gorm.DB, username, role string) *model.User {
	t.Helper()

	user := &model.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
		Role:     role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestEmployee(t *testing.T, db *gorm.DB, email string, active bool) *model.Employee {
	t.Helper()

	employee := &model.Employee{
		FirstName:  "Jordan",
		LastName:   "Lee",
		Email:      email,
		Department: "Production",
		Active:     active,
	}
	require.NoError(t, db.Create(employee).Error)
	return employee
}

// initTestWorkflow creates an order with its nine steps and returns the order
// plus the steps ordered by step number.
func initTestWorkflow(t *testing.T, e *testEngine, poNumber string) (*model.SalesOrder, []model.WorkflowStep) {
	t.Helper()

	order := createTestOrder(t, e.db, poNumber)
	_, err := e.workflow.InitializeWorkflow(context.Background(), InitializeWorkflowRequest{
		SalesOrderID: order.ID.String(),
	})
	require.NoError(t, err)

	steps, err := e.steps.ListByOrder(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, steps, 9)
	return order, steps
}
