package service

import (
	"context"
	"encoding/json"
	"fmt"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Broadcaster pushes an event to connected realtime clients. Implemented by
// the websocket hub; delivery is best-effort.
type Broadcaster interface {
	Publish(message []byte)
}

type NotificationResponse struct {
	ID          string `json:"id"`
	Message     string `json:"message"`
	Type        string `json:"type"`
	RelatedID   string `json:"related_id,omitempty"`
	RelatedType string `json:"related_type,omitempty"`
	Read        bool   `json:"read"`
	CreatedAt   string `json:"created_at"`
}

// workflowEvent is the hub payload for dashboard clients.
type workflowEvent struct {
	Event      string `json:"event"`
	OrderID    string `json:"order_id"`
	StepID     string `json:"step_id"`
	StepNumber int    `json:"step_number"`
	StepName   string `json:"step_name"`
	Message    string `json:"message"`
}

type NotificationService interface {
	NotifyAssignment(ctx context.Context, employeeID uuid.UUID, step *model.WorkflowStep)
	NotifyStatusChange(ctx context.Context, employeeID uuid.UUID, step *model.WorkflowStep, newStatus string)
	ListByEmployee(ctx context.Context, employeeID string, page, limit int) ([]NotificationResponse, int64, error)
	MarkRead(ctx context.Context, id string) error
}

type notificationService struct {
	repo   repository.NotificationRepository
	hub    Broadcaster
	logger *zap.Logger
}

func NewNotificationService(repo repository.NotificationRepository, hub Broadcaster, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, hub: hub, logger: logger}
}

// NotifyAssignment is best-effort: a failed notification never fails the
// assignment that caused it.
func (s *notificationService) NotifyAssignment(ctx context.Context, employeeID uuid.UUID, step *model.WorkflowStep) {
	message := fmt.Sprintf("You have been assigned to: %s for Sales Order %s", step.StepName, step.SalesOrderID)
	s.persistAndBroadcast(ctx, employeeID, step, model.NotificationTaskAssignment, "step_assigned", message)
}

func (s *notificationService) NotifyStatusChange(ctx context.Context, employeeID uuid.UUID, step *model.WorkflowStep, newStatus string) {
	message := fmt.Sprintf("Status updated to %s for step: %s", newStatus, step.StepName)
	s.persistAndBroadcast(ctx, employeeID, step, model.NotificationStepStatusUpdate, "step_status_changed", message)
}

func (s *notificationService) persistAndBroadcast(ctx context.Context, employeeID uuid.UUID, step *model.WorkflowStep, notificationType, event, message string) {
	orderID := step.SalesOrderID
	notification := &model.Notification{
		EmployeeID:  employeeID,
		Message:     message,
		Type:        notificationType,
		RelatedID:   &orderID,
		RelatedType: "sales_order",
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		s.logger.Warn("failed to persist notification",
			zap.String("employee_id", employeeID.String()),
			zap.Error(err))
	}

	payload, err := json.Marshal(workflowEvent{
		Event:      event,
		OrderID:    step.SalesOrderID.String(),
		StepID:     step.ID.String(),
		StepNumber: step.StepNumber,
		StepName:   step.StepName,
		Message:    message,
	})
	if err != nil {
		return
	}
	if s.hub != nil {
		s.hub.Publish(payload)
	}
}

func (s *notificationService) ListByEmployee(ctx context.Context, employeeID string, page, limit int) ([]NotificationResponse, int64, error) {
	id, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid employee id: %w", err)
	}

	notifications, total, err := s.repo.ListByEmployee(ctx, id, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		resp := NotificationResponse{
			ID:          n.ID.String(),
			Message:     n.Message,
			Type:        n.Type,
			RelatedType: n.RelatedType,
			Read:        n.Read,
			CreatedAt:   n.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if n.RelatedID != nil {
			resp.RelatedID = n.RelatedID.String()
		}
		result = append(result, resp)
	}

	return result, total, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id string) error {
	notificationID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid notification id: %w", err)
	}
	return s.repo.MarkRead(ctx, notificationID)
}
