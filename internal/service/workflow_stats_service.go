package service

import (
	"context"

	"backend/internal/model"
	"backend/internal/workflow"

	"gorm.io/gorm"
)

type WorkflowStatsService interface {
	GetWorkflowStats(ctx context.Context) (model.WorkflowStatsResponse, error)
}

type workflowStatsService struct {
	db *gorm.DB
}

func NewWorkflowStatsService(db *gorm.DB) WorkflowStatsService {
	return &workflowStatsService{db: db}
}

type countRow struct {
	Key   string
	Count int64
}

// GetWorkflowStats aggregates step counts across all orders. Advisory only:
// reads run without locking and may trail concurrent transitions.
func (s *workflowStatsService) GetWorkflowStats(ctx context.Context) (model.WorkflowStatsResponse, error) {
	var response model.WorkflowStatsResponse
	response.StepsByStatus = make(map[string]int64)
	response.StepsByType = make(map[string]int64)
	response.OrdersByStatus = make(map[string]int64)

	if err := s.db.WithContext(ctx).Model(&model.WorkflowStep{}).Count(&response.TotalSteps).Error; err != nil {
		return response, err
	}
	if err := s.db.WithContext(ctx).Model(&model.SalesOrder{}).Count(&response.TotalOrders).Error; err != nil {
		return response, err
	}

	var byStatus []countRow
	if err := s.db.WithContext(ctx).Model(&model.WorkflowStep{}).
		Select("status as key, COUNT(*) as count").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		return response, err
	}
	for _, row := range byStatus {
		response.StepsByStatus[row.Key] = row.Count
	}

	var byType []countRow
	if err := s.db.WithContext(ctx).Model(&model.WorkflowStep{}).
		Select("step_type as key, COUNT(*) as count").
		Group("step_type").
		Scan(&byType).Error; err != nil {
		return response, err
	}
	for _, row := range byType {
		response.StepsByType[row.Key] = row.Count
	}

	var orderStatus []countRow
	if err := s.db.WithContext(ctx).Model(&model.SalesOrder{}).
		Select("workflow_status as key, COUNT(*) as count").
		Group("workflow_status").
		Scan(&orderStatus).Error; err != nil {
		return response, err
	}
	for _, row := range orderStatus {
		response.OrdersByStatus[row.Key] = row.Count
	}

	// Open steps per employee: assigned and still in flight.
	var load []model.EmployeeLoad
	if err := s.db.WithContext(ctx).Table("sales_order_workflow_steps").
		Select("employees.id as employee_id, (employees.first_name || ' ' || employees.last_name) as employee_name, COUNT(*) as open_steps").
		Joins("JOIN employees ON employees.id = sales_order_workflow_steps.assigned_employee_id").
		Where("sales_order_workflow_steps.status IN ?", []string{
			string(workflow.StatusPending),
			string(workflow.StatusInProgress),
			string(workflow.StatusOnHold),
		}).
		Group("employees.id, employees.first_name, employees.last_name").
		Order("open_steps DESC").
		Scan(&load).Error; err != nil {
		return response, err
	}
	response.EmployeeLoad = load

	return response, nil
}
