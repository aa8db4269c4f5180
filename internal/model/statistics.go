package model

// WorkflowStatsResponse aggregates step counts across all sales orders.
// Advisory/reporting data: computed without locking, so it is eventually
// consistent with respect to in-flight transitions.
type WorkflowStatsResponse struct {
	TotalOrders    int64            `json:"total_orders"`
	TotalSteps     int64            `json:"total_steps"`
	StepsByStatus  map[string]int64 `json:"steps_by_status"`
	StepsByType    map[string]int64 `json:"steps_by_type"`
	OrdersByStatus map[string]int64 `json:"orders_by_status"`
	EmployeeLoad   []EmployeeLoad   `json:"employee_load"`
}

// EmployeeLoad is the number of open steps (assigned and neither completed nor
// rejected) currently attributed to one employee.
type EmployeeLoad struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	OpenSteps    int64  `json:"open_steps"`
}
