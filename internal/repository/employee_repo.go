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

type EmployeeRepository interface {
	Create(ctx context.Context, employee *model.Employee) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Employee, error)
	List(ctx context.Context, page, limit int, activeOnly bool) ([]model.Employee, int64, error)
	Update(ctx context.Context, employee *model.Employee) error
}

type employeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, employee *model.Employee) error {
	return GetDB(ctx, r.db).Create(employee).Error
}

func (r *employeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Employee, error) {
	var employee model.Employee
	if err := GetDB(ctx, r.db).First(&employee, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: employee %s", workflow.ErrNotFound, id)
		}
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) List(ctx context.Context, page, limit int, activeOnly bool) ([]model.Employee, int64, error) {
	var employees []model.Employee
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Employee{})
	if activeOnly {
		db = db.Where("active = ?", true)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Order("last_name asc, first_name asc").Scopes(pagination.New(page, limit).Scope()).Find(&employees).Error; err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

func (r *employeeRepository) Update(ctx context.Context, employee *model.Employee) error {
	return GetDB(ctx, r.db).Save(employee).Error
}
