package repository

import (
	"context"

	"backend/internal/model"
	"backend/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StepAuditRepository records status transitions. Append-only; a failed Record
// must fail the surrounding transaction, so Record is always called through
// the transaction context of the transition it belongs to.
type StepAuditRepository interface {
	Record(ctx context.Context, audit *model.StepAudit) error
	ListByStep(ctx context.Context, stepID uuid.UUID) ([]model.StepAudit, error)
	List(ctx context.Context, page, limit int) ([]model.StepAudit, int64, error)
}

type stepAuditRepository struct {
	db *gorm.DB
}

func NewStepAuditRepository(db *gorm.DB) StepAuditRepository {
	return &stepAuditRepository{db: db}
}

func (r *stepAuditRepository) Record(ctx context.Context, audit *model.StepAudit) error {
	return GetDB(ctx, r.db).Create(audit).Error
}

func (r *stepAuditRepository) ListByStep(ctx context.Context, stepID uuid.UUID) ([]model.StepAudit, error) {
	audits := make([]model.StepAudit, 0)
	if err := GetDB(ctx, r.db).
		Preload("Actor").
		Where("workflow_step_id = ?", stepID).
		Order("created_at ASC").
		Find(&audits).Error; err != nil {
		return nil, err
	}
	return audits, nil
}

func (r *stepAuditRepository) List(ctx context.Context, page, limit int) ([]model.StepAudit, int64, error) {
	var audits []model.StepAudit
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.StepAudit{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Actor").Order("created_at desc").Scopes(pagination.New(page, limit).Scope()).Find(&audits).Error; err != nil {
		return nil, 0, err
	}

	return audits, total, nil
}
