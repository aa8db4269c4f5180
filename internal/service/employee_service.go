package service

import (
	"context"
	"fmt"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
)

type CreateEmployeeRequest struct {
	FirstName  string `json:"first_name" binding:"required"`
	LastName   string `json:"last_name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Department string `json:"department"`
}

type EmployeeService interface {
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (*model.Employee, error)
	GetEmployee(ctx context.Context, id string) (*model.Employee, error)
	ListEmployees(ctx context.Context, page, limit int, activeOnly bool) ([]model.Employee, int64, error)
	SetActive(ctx context.Context, id string, active bool) (*model.Employee, error)
}

type employeeService struct {
	repo repository.EmployeeRepository
}

func NewEmployeeService(repo repository.EmployeeRepository) EmployeeService {
	return &employeeService{repo: repo}
}

func (s *employeeService) CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (*model.Employee, error) {
	employee := &model.Employee{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Department: req.Department,
		Active:     true,
	}
	if err := s.repo.Create(ctx, employee); err != nil {
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}
	return employee, nil
}

func (s *employeeService) GetEmployee(ctx context.Context, id string) (*model.Employee, error) {
	employeeID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid employee id: %w", err)
	}
	return s.repo.GetByID(ctx, employeeID)
}

func (s *employeeService) ListEmployees(ctx context.Context, page, limit int, activeOnly bool) ([]model.Employee, int64, error) {
	return s.repo.List(ctx, page, limit, activeOnly)
}

// SetActive toggles whether the employee can receive new step assignments.
// Existing assignments are untouched.
func (s *employeeService) SetActive(ctx context.Context, id string, active bool) (*model.Employee, error) {
	employeeID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid employee id: %w", err)
	}

	employee, err := s.repo.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	employee.Active = active
	if err := s.repo.Update(ctx, employee); err != nil {
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}
	return employee, nil
}
