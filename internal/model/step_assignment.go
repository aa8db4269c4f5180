package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StepAssignment is one row per assignment event. The table is append-only:
// reassigning a step adds a row, it never rewrites history. The current
// assignee lives on WorkflowStep.AssignedEmployeeID.
type StepAssignment struct {
	ID             uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	WorkflowStepID uuid.UUID     `gorm:"type:uuid;not null;index" json:"workflow_step_id"`
	WorkflowStep   *WorkflowStep `gorm:"foreignKey:WorkflowStepID;constraint:OnDelete:CASCADE" json:"-"`
	EmployeeID     uuid.UUID     `gorm:"type:uuid;not null;index" json:"employee_id"`
	Employee       *Employee     `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	AssignedBy     *uuid.UUID    `gorm:"type:uuid" json:"assigned_by"`
	Assigner       *User         `gorm:"foreignKey:AssignedBy" json:"assigner,omitempty"`
	Reason         string        `gorm:"type:text" json:"reason,omitempty"`
	CreatedAt      time.Time     `gorm:"autoCreateTime;index" json:"created_at"`
}

func (StepAssignment) TableName() string {
	return "sales_order_step_assignments"
}

func (a *StepAssignment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
