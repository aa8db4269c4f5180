package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/workflow"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// --- DTOs ---

type InitializeWorkflowRequest struct {
	SalesOrderID string `json:"sales_order_id" binding:"required"`
	DeferStart   bool   `json:"defer_start"`
}

type InitializeWorkflowResponse struct {
	SalesOrderID   string `json:"sales_order_id"`
	StepsCreated   int    `json:"steps_created"`
	CurrentStep    int    `json:"current_step"`
	WorkflowStatus string `json:"workflow_status"`
}

type AssignEmployeeRequest struct {
	StepID     string `json:"step_id" binding:"required"`
	EmployeeID string `json:"employee_id" binding:"required"`
	Reason     string `json:"reason"`
	AssignerID string `json:"-"` // from auth context, not the body
}

type AssignmentResponse struct {
	StepID        string `json:"step_id"`
	EmployeeID    string `json:"employee_id"`
	EmployeeName  string `json:"employee_name"`
	EmployeeEmail string `json:"employee_email"`
	AssignedAt    string `json:"assigned_at"`
}

type UpdateStepStatusRequest struct {
	Status           string          `json:"status" binding:"required,oneof=pending in_progress completed rejected on_hold"`
	Reason           string          `json:"reason"`
	Notes            string          `json:"notes"`
	VerificationData json.RawMessage `json:"verification_data"`
	StepID           string          `json:"-"` // from the path
	ActorID          string          `json:"-"` // from auth context
}

type StepStatusResponse struct {
	StepID    string `json:"step_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	AuditID   string `json:"audit_id"`
}

type StepAuditResponse struct {
	ID           string `json:"id"`
	StepID       string `json:"step_id"`
	ChangedBy    string `json:"changed_by,omitempty"`
	ActorName    string `json:"actor_name,omitempty"`
	OldStatus    string `json:"old_status"`
	NewStatus    string `json:"new_status"`
	ChangeReason string `json:"change_reason,omitempty"`
	CreatedAt    string `json:"created_at"`
}

type StepResponse struct {
	ID               string              `json:"id"`
	SalesOrderID     string              `json:"sales_order_id"`
	StepNumber       int                 `json:"step_number"`
	StepName         string              `json:"step_name"`
	StepType         string              `json:"step_type"`
	Status           string              `json:"status"`
	AssignedEmployee *AssigneeSummary    `json:"assigned_employee,omitempty"`
	AssignedAt       *string             `json:"assigned_at,omitempty"`
	StartedAt        *string             `json:"started_at,omitempty"`
	CompletedAt      *string             `json:"completed_at,omitempty"`
	RejectedReason   string              `json:"rejected_reason,omitempty"`
	Notes            string              `json:"notes,omitempty"`
	Documents        []model.DocumentRef `json:"documents"`
	VerificationData json.RawMessage     `json:"verification_data,omitempty"`
	AuditHistory     []StepAuditResponse `json:"audit_history,omitempty"`
}

type AssigneeSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type WorkflowDetailsResponse struct {
	SalesOrder         *model.SalesOrder `json:"sales_order"`
	Steps              []StepResponse    `json:"steps"`
	TotalSteps         int               `json:"total_steps"`
	CompletedSteps     int               `json:"completed_steps"`
	ProgressPercentage int               `json:"progress_percentage"`
}

// --- Interface ---

// WorkflowService drives a sales order through the fixed 9-step fulfillment
// sequence: initialization, assignment, status transitions, and the
// denormalized order progress that follows from them.
type WorkflowService interface {
	InitializeWorkflow(ctx context.Context, req InitializeWorkflowRequest) (InitializeWorkflowResponse, error)
	GetWorkflowSteps(ctx context.Context, salesOrderID string) ([]StepResponse, error)
	AssignEmployee(ctx context.Context, req AssignEmployeeRequest) (AssignmentResponse, error)
	UpdateStepStatus(ctx context.Context, req UpdateStepStatusRequest) (StepStatusResponse, error)
	GetWorkflowDetails(ctx context.Context, salesOrderID string) (WorkflowDetailsResponse, error)
	ListStepAudits(ctx context.Context, page, limit int) ([]StepAuditResponse, int64, error)
}

type workflowService struct {
	tx          repository.TransactionManager
	orders      repository.SalesOrderRepository
	steps       repository.WorkflowStepRepository
	assignments repository.StepAssignmentRepository
	audits      repository.StepAuditRepository
	employees   repository.EmployeeRepository
	notifier    NotificationService
	logger      *zap.Logger
	allowRework bool
}

// NewWorkflowService wires the engine. allowRework gates the
// rejected -> in_progress transition.
func NewWorkflowService(
	tx repository.TransactionManager,
	orders repository.SalesOrderRepository,
	steps repository.WorkflowStepRepository,
	assignments repository.StepAssignmentRepository,
	audits repository.StepAuditRepository,
	employees repository.EmployeeRepository,
	notifier NotificationService,
	logger *zap.Logger,
	allowRework bool,
) WorkflowService {
	return &workflowService{
		tx:          tx,
		orders:      orders,
		steps:       steps,
		assignments: assignments,
		audits:      audits,
		employees:   employees,
		notifier:    notifier,
		logger:      logger,
		allowRework: allowRework,
	}
}

// --- Implementation ---

// InitializeWorkflow creates all nine step rows for an order in one
// transaction. A second call fails with ErrAlreadyInitialized instead of
// duplicating steps.
func (s *workflowService) InitializeWorkflow(ctx context.Context, req InitializeWorkflowRequest) (InitializeWorkflowResponse, error) {
	orderID, err := uuid.Parse(req.SalesOrderID)
	if err != nil {
		return InitializeWorkflowResponse{}, fmt.Errorf("invalid sales order id: %w", err)
	}

	workflowStatus := model.OrderWorkflowInProgress
	if req.DeferStart {
		workflowStatus = model.OrderWorkflowDraft
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		order, err := s.orders.GetByID(txCtx, orderID)
		if err != nil {
			return err
		}

		count, err := s.steps.CountByOrder(txCtx, order.ID)
		if err != nil {
			return fmt.Errorf("failed to count existing steps: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("%w: sales order %s already has %d steps", workflow.ErrAlreadyInitialized, order.ID, count)
		}

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
		if err := s.steps.CreateBatch(txCtx, steps); err != nil {
			return fmt.Errorf("failed to create workflow steps: %w", err)
		}

		return s.orders.UpdateProgress(txCtx, order.ID, 1, workflowStatus)
	})
	if err != nil {
		return InitializeWorkflowResponse{}, err
	}

	s.logger.Info("workflow initialized",
		zap.String("sales_order_id", orderID.String()),
		zap.String("workflow_status", workflowStatus))

	return InitializeWorkflowResponse{
		SalesOrderID:   orderID.String(),
		StepsCreated:   workflow.TotalSteps(),
		CurrentStep:    1,
		WorkflowStatus: workflowStatus,
	}, nil
}

func (s *workflowService) GetWorkflowSteps(ctx context.Context, salesOrderID string) ([]StepResponse, error) {
	orderID, err := uuid.Parse(salesOrderID)
	if err != nil {
		return nil, fmt.Errorf("invalid sales order id: %w", err)
	}

	if _, err := s.orders.GetByID(ctx, orderID); err != nil {
		return nil, err
	}

	steps, err := s.steps.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow steps: %w", err)
	}

	result := make([]StepResponse, 0, len(steps))
	for i := range steps {
		result = append(result, toStepResponse(&steps[i], nil))
	}
	return result, nil
}

// AssignEmployee sets the current assignee and appends one StepAssignment
// history row. Reassignment is permitted; the previous assignee stays in the
// history. Status is never touched here.
func (s *workflowService) AssignEmployee(ctx context.Context, req AssignEmployeeRequest) (AssignmentResponse, error) {
	stepID, err := uuid.Parse(req.StepID)
	if err != nil {
		return AssignmentResponse{}, fmt.Errorf("invalid step id: %w", err)
	}
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return AssignmentResponse{}, fmt.Errorf("invalid employee id: %w", err)
	}

	var assignerID *uuid.UUID
	if req.AssignerID != "" {
		if parsed, parseErr := uuid.Parse(req.AssignerID); parseErr == nil {
			assignerID = &parsed
		}
	}

	var step *model.WorkflowStep
	var employee *model.Employee
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		step, err = s.steps.GetByID(txCtx, stepID)
		if err != nil {
			return err
		}

		employee, err = s.employees.GetByID(txCtx, employeeID)
		if err != nil {
			return err
		}
		if !employee.Active {
			return fmt.Errorf("%w: employee %s", workflow.ErrEmployeeInactive, employee.FullName())
		}

		if err := s.steps.UpdateAssignment(txCtx, step.ID, employee.ID); err != nil {
			return fmt.Errorf("failed to update step assignment: %w", err)
		}

		assignment := &model.StepAssignment{
			WorkflowStepID: step.ID,
			EmployeeID:     employee.ID,
			AssignedBy:     assignerID,
			Reason:         req.Reason,
		}
		if err := s.assignments.Create(txCtx, assignment); err != nil {
			return fmt.Errorf("failed to record assignment: %w", err)
		}
		return nil
	})
	if err != nil {
		return AssignmentResponse{}, err
	}

	s.notifier.NotifyAssignment(ctx, employee.ID, step)
	s.logger.Info("employee assigned to step",
		zap.String("step_id", step.ID.String()),
		zap.Int("step_number", step.StepNumber),
		zap.String("employee_id", employee.ID.String()))

	return AssignmentResponse{
		StepID:        step.ID.String(),
		EmployeeID:    employee.ID.String(),
		EmployeeName:  employee.FullName(),
		EmployeeEmail: employee.Email,
		AssignedAt:    time.Now().Format(time.RFC3339),
	}, nil
}

// UpdateStepStatus is the state machine core. It validates the transition,
// applies it with a compare-and-swap on the previous status, writes exactly
// one audit row in the same transaction, and keeps the order's denormalized
// current_step / workflow_status consistent with step state.
func (s *workflowService) UpdateStepStatus(ctx context.Context, req UpdateStepStatusRequest) (StepStatusResponse, error) {
	stepID, err := uuid.Parse(req.StepID)
	if err != nil {
		return StepStatusResponse{}, fmt.Errorf("invalid step id: %w", err)
	}

	newStatus := workflow.StepStatus(req.Status)
	if !newStatus.IsValid() {
		return StepStatusResponse{}, fmt.Errorf("%w: unknown status %q", workflow.ErrInvalidTransition, req.Status)
	}

	var actorID *uuid.UUID
	if req.ActorID != "" {
		if parsed, parseErr := uuid.Parse(req.ActorID); parseErr == nil {
			actorID = &parsed
		}
	}

	var step *model.WorkflowStep
	var oldStatus workflow.StepStatus
	var auditID uuid.UUID
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		step, err = s.steps.GetByID(txCtx, stepID)
		if err != nil {
			return err
		}
		order, err := s.orders.GetByID(txCtx, step.SalesOrderID)
		if err != nil {
			return err
		}

		oldStatus = workflow.StepStatus(step.Status)
		if err := s.validateTransition(step, order, oldStatus, newStatus, req.Reason); err != nil {
			return err
		}

		updates := map[string]interface{}{
			"status": string(newStatus),
		}
		now := time.Now()
		switch newStatus {
		case workflow.StatusInProgress:
			if step.StartedAt == nil {
				updates["started_at"] = now
			}
		case workflow.StatusCompleted:
			updates["completed_at"] = now
			if len(req.VerificationData) > 0 {
				updates["verification_data"] = string(req.VerificationData)
			}
		case workflow.StatusRejected:
			updates["rejected_reason"] = req.Reason
		}
		if req.Notes != "" {
			updates["notes"] = req.Notes
		}

		if err := s.steps.UpdateStatusCAS(txCtx, step.ID, oldStatus, updates); err != nil {
			return err
		}

		// The transition and its audit row are one atomic unit: an audit
		// write failure rolls the transition back.
		audit := &model.StepAudit{
			WorkflowStepID: step.ID,
			ChangedBy:      actorID,
			OldStatus:      string(oldStatus),
			NewStatus:      string(newStatus),
			ChangeReason:   req.Reason,
		}
		if err := s.audits.Record(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write step audit: %w", err)
		}
		auditID = audit.ID

		return s.syncOrderProgress(txCtx, order, step, newStatus)
	})
	if err != nil {
		return StepStatusResponse{}, err
	}

	if step.AssignedEmployeeID != nil {
		s.notifier.NotifyStatusChange(ctx, *step.AssignedEmployeeID, step, string(newStatus))
	}
	s.logger.Info("step status updated",
		zap.String("step_id", step.ID.String()),
		zap.Int("step_number", step.StepNumber),
		zap.String("old_status", string(oldStatus)),
		zap.String("new_status", string(newStatus)))

	return StepStatusResponse{
		StepID:    step.ID.String(),
		OldStatus: string(oldStatus),
		NewStatus: string(newStatus),
		AuditID:   auditID.String(),
	}, nil
}

// validateTransition applies the transition table plus the rules that need
// order and assignment state: sequencing, assignee presence, rejection
// reasons, and the rework policy.
func (s *workflowService) validateTransition(step *model.WorkflowStep, order *model.SalesOrder, oldStatus, newStatus workflow.StepStatus, reason string) error {
	if !workflow.CanTransition(oldStatus, newStatus) {
		return fmt.Errorf("%w: step %d cannot go from %s to %s", workflow.ErrInvalidTransition, step.StepNumber, oldStatus, newStatus)
	}
	if workflow.IsRework(oldStatus, newStatus) && !s.allowRework {
		return fmt.Errorf("%w: rework of rejected steps is disabled", workflow.ErrInvalidTransition)
	}
	if newStatus == workflow.StatusInProgress {
		if step.AssignedEmployeeID == nil {
			return fmt.Errorf("%w: step %d (%s) must be assigned before work starts", workflow.ErrUnassigned, step.StepNumber, step.StepName)
		}
		if step.StepNumber > order.CurrentStep {
			return fmt.Errorf("%w: step %d cannot start before step %d is completed", workflow.ErrOutOfSequence, step.StepNumber, step.StepNumber-1)
		}
	}
	if newStatus == workflow.StatusRejected && strings.TrimSpace(reason) == "" {
		return fmt.Errorf("%w: rejecting a step requires a reason", workflow.ErrInvalidTransition)
	}
	return nil
}

// syncOrderProgress recomputes the order's denormalized position from the
// step rows rather than incrementing blindly, so current_step cannot drift
// from the invariant (highest completed step) + 1.
func (s *workflowService) syncOrderProgress(ctx context.Context, order *model.SalesOrder, step *model.WorkflowStep, newStatus workflow.StepStatus) error {
	switch newStatus {
	case workflow.StatusCompleted:
		highest, err := s.steps.HighestCompletedStep(ctx, order.ID)
		if err != nil {
			return fmt.Errorf("failed to recompute order progress: %w", err)
		}
		if highest >= workflow.TotalSteps() {
			return s.orders.UpdateProgress(ctx, order.ID, workflow.TotalSteps(), model.OrderWorkflowCompleted)
		}
		return s.orders.UpdateProgress(ctx, order.ID, highest+1, model.OrderWorkflowInProgress)
	case workflow.StatusRejected:
		// Rejection parks the order for manual intervention; it never
		// auto-cancels.
		return s.orders.UpdateProgress(ctx, order.ID, order.CurrentStep, model.OrderWorkflowOnHold)
	case workflow.StatusInProgress:
		if order.WorkflowStatus != model.OrderWorkflowInProgress {
			return s.orders.UpdateProgress(ctx, order.ID, order.CurrentStep, model.OrderWorkflowInProgress)
		}
	}
	return nil
}

// GetWorkflowDetails returns the order header, all nine steps, and the full
// audit chain per step. Read-only.
func (s *workflowService) GetWorkflowDetails(ctx context.Context, salesOrderID string) (WorkflowDetailsResponse, error) {
	orderID, err := uuid.Parse(salesOrderID)
	if err != nil {
		return WorkflowDetailsResponse{}, fmt.Errorf("invalid sales order id: %w", err)
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return WorkflowDetailsResponse{}, err
	}

	steps, err := s.steps.ListByOrder(ctx, orderID)
	if err != nil {
		return WorkflowDetailsResponse{}, fmt.Errorf("failed to load workflow steps: %w", err)
	}

	completed := 0
	result := make([]StepResponse, 0, len(steps))
	for i := range steps {
		audits, err := s.audits.ListByStep(ctx, steps[i].ID)
		if err != nil {
			return WorkflowDetailsResponse{}, fmt.Errorf("failed to load step audits: %w", err)
		}
		result = append(result, toStepResponse(&steps[i], audits))
		if steps[i].Status == string(workflow.StatusCompleted) {
			completed++
		}
	}

	progress := 0
	if len(steps) > 0 {
		progress = completed * 100 / len(steps)
	}

	return WorkflowDetailsResponse{
		SalesOrder:         order,
		Steps:              result,
		TotalSteps:         len(steps),
		CompletedSteps:     completed,
		ProgressPercentage: progress,
	}, nil
}

func (s *workflowService) ListStepAudits(ctx context.Context, page, limit int) ([]StepAuditResponse, int64, error) {
	audits, total, err := s.audits.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]StepAuditResponse, 0, len(audits))
	for i := range audits {
		result = append(result, toStepAuditResponse(&audits[i]))
	}
	return result, total, nil
}

// --- Helpers ---

func toStepAuditResponse(a *model.StepAudit) StepAuditResponse {
	resp := StepAuditResponse{
		ID:           a.ID.String(),
		StepID:       a.WorkflowStepID.String(),
		OldStatus:    a.OldStatus,
		NewStatus:    a.NewStatus,
		ChangeReason: a.ChangeReason,
		CreatedAt:    a.CreatedAt.Format(time.RFC3339),
	}
	if a.ChangedBy != nil {
		resp.ChangedBy = a.ChangedBy.String()
	}
	if a.Actor != nil {
		resp.ActorName = a.Actor.Username
	}
	return resp
}

func toStepResponse(step *model.WorkflowStep, audits []model.StepAudit) StepResponse {
	resp := StepResponse{
		ID:             step.ID.String(),
		SalesOrderID:   step.SalesOrderID.String(),
		StepNumber:     step.StepNumber,
		StepName:       step.StepName,
		StepType:       step.StepType,
		Status:         step.Status,
		RejectedReason: step.RejectedReason,
		Notes:          step.Notes,
		Documents:      parseDocuments(step.Documents),
	}

	if step.AssignedEmployee != nil {
		resp.AssignedEmployee = &AssigneeSummary{
			ID:    step.AssignedEmployee.ID.String(),
			Name:  step.AssignedEmployee.FullName(),
			Email: step.AssignedEmployee.Email,
		}
	}
	resp.AssignedAt = formatTimePtr(step.AssignedAt)
	resp.StartedAt = formatTimePtr(step.StartedAt)
	resp.CompletedAt = formatTimePtr(step.CompletedAt)

	if step.VerificationData != "" {
		resp.VerificationData = json.RawMessage(step.VerificationData)
	}

	if audits != nil {
		resp.AuditHistory = make([]StepAuditResponse, 0, len(audits))
		for i := range audits {
			resp.AuditHistory = append(resp.AuditHistory, toStepAuditResponse(&audits[i]))
		}
	}

	return resp
}

func parseDocuments(raw string) []model.DocumentRef {
	docs := []model.DocumentRef{}
	if raw == "" {
		return docs
	}
	// Malformed JSON degrades to an empty list rather than failing a read.
	_ = json.Unmarshal([]byte(raw), &docs)
	return docs
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(time.RFC3339)
	return &formatted
}
