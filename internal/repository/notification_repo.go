package repository

import (
	"context"

	"backend/internal/model"
	"backend/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	ListByEmployee(ctx context.Context, employeeID uuid.UUID, page, limit int) ([]model.Notification, int64, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *model.Notification) error {
	return GetDB(ctx, r.db).Create(notification).Error
}

func (r *notificationRepository) ListByEmployee(ctx context.Context, employeeID uuid.UUID, page, limit int) ([]model.Notification, int64, error) {
	var notifications []model.Notification
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Notification{}).Where("employee_id = ?", employeeID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Order("created_at desc").Scopes(pagination.New(page, limit).Scope()).Find(&notifications).Error; err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.Notification{}).
		Where("id = ?", id).
		Update("read", true).Error
}
