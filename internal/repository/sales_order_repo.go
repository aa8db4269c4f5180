package repository

import (
	"context"
	"errors"
	"fmt"

	"backend/internal/model"
	"backend/internal/workflow"
	"backend/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SalesOrderRepository interface {
	Create(ctx context.Context, order *model.SalesOrder) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.SalesOrder, error)
	List(ctx context.Context, page, limit int) ([]model.SalesOrder, int64, error)
	UpdateProgress(ctx context.Context, id uuid.UUID, currentStep int, workflowStatus string) error
}

type salesOrderRepository struct {
	db *gorm.DB
}

func NewSalesOrderRepository(db *gorm.DB) SalesOrderRepository {
	return &salesOrderRepository{db: db}
}

func (r *salesOrderRepository) Create(ctx context.Context, order *model.SalesOrder) error {
	return GetDB(ctx, r.db).Create(order).Error
}

func (r *salesOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.SalesOrder, error) {
	var order model.SalesOrder
	if err := GetDB(ctx, r.db).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: sales order %s", workflow.ErrNotFound, id)
		}
		return nil, err
	}
	return &order, nil
}

func (r *salesOrderRepository) List(ctx context.Context, page, limit int) ([]model.SalesOrder, int64, error) {
	var orders []model.SalesOrder
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.SalesOrder{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Order("created_at desc").Scopes(pagination.New(page, limit).Scope()).Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// UpdateProgress writes the denormalized workflow position. Only the workflow
// engine calls this, always inside the transaction of the step change that
// recomputed the values.
func (r *salesOrderRepository) UpdateProgress(ctx context.Context, id uuid.UUID, currentStep int, workflowStatus string) error {
	return GetDB(ctx, r.db).Model(&model.SalesOrder{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"current_step":    currentStep,
			"workflow_status": workflowStatus,
		}).Error
}
