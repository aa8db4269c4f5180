package service

import (
	"context"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateSalesOrderRequest struct {
	PONumber                string `json:"po_number" binding:"required"`
	Customer                string `json:"customer" binding:"required"`
	POValue                 string `json:"po_value"`
	Currency                string `json:"currency"`
	EstimatedCompletionDate string `json:"estimated_completion_date"` // YYYY-MM-DD
	Notes                   string `json:"notes"`
	CreatedBy               string `json:"-"`
}

type SalesOrderService interface {
	CreateOrder(ctx context.Context, req CreateSalesOrderRequest) (*model.SalesOrder, error)
	GetOrder(ctx context.Context, id string) (*model.SalesOrder, error)
	ListOrders(ctx context.Context, page, limit int) ([]model.SalesOrder, int64, error)
}

type salesOrderService struct {
	repo repository.SalesOrderRepository
}

func NewSalesOrderService(repo repository.SalesOrderRepository) SalesOrderService {
	return &salesOrderService{repo: repo}
}

// CreateOrder persists a new order in workflow_status draft with no steps.
// The workflow engine creates the steps on initialization.
func (s *salesOrderService) CreateOrder(ctx context.Context, req CreateSalesOrderRequest) (*model.SalesOrder, error) {
	poValue := decimal.Zero
	if req.POValue != "" {
		parsed, err := decimal.NewFromString(req.POValue)
		if err != nil {
			return nil, fmt.Errorf("invalid po_value: %w", err)
		}
		poValue = parsed
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	var estimated *time.Time
	if req.EstimatedCompletionDate != "" {
		parsed, err := time.Parse("2006-01-02", req.EstimatedCompletionDate)
		if err != nil {
			return nil, fmt.Errorf("invalid estimated_completion_date: %w", err)
		}
		estimated = &parsed
	}

	var createdBy *uuid.UUID
	if req.CreatedBy != "" {
		if parsed, err := uuid.Parse(req.CreatedBy); err == nil {
			createdBy = &parsed
		}
	}

	order := &model.SalesOrder{
		PONumber:                req.PONumber,
		Customer:                req.Customer,
		POValue:                 poValue,
		Currency:                currency,
		WorkflowStatus:          model.OrderWorkflowDraft,
		EstimatedCompletionDate: estimated,
		Notes:                   req.Notes,
		CreatedBy:               createdBy,
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create sales order: %w", err)
	}
	return order, nil
}

func (s *salesOrderService) GetOrder(ctx context.Context, id string) (*model.SalesOrder, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid sales order id: %w", err)
	}
	return s.repo.GetByID(ctx, orderID)
}

func (s *salesOrderService) ListOrders(ctx context.Context, page, limit int) ([]model.SalesOrder, int64, error) {
	return s.repo.List(ctx, page, limit)
}
