package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocumentRef is one uploaded file reference attached to a step. The engine
// stores references only; the bytes live with the file storage collaborator.
type DocumentRef struct {
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// WorkflowStep is one of the nine fulfillment stages of a sales order.
// (sales_order_id, step_number) is unique; all nine rows are created together
// at workflow initialization and are removed only by cascade from the order.
type WorkflowStep struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	SalesOrderID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uniq_order_step,priority:1;index" json:"sales_order_id"`
	StepNumber         int        `gorm:"not null;uniqueIndex:uniq_order_step,priority:2" json:"step_number"`
	StepName           string     `gorm:"type:varchar(100);not null" json:"step_name"`
	StepType           string     `gorm:"type:varchar(50);not null;index" json:"step_type"`
	Status             string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	AssignedEmployeeID *uuid.UUID `gorm:"type:uuid;index" json:"assigned_employee_id"`
	AssignedEmployee   *Employee  `gorm:"foreignKey:AssignedEmployeeID" json:"assigned_employee,omitempty"`
	AssignedAt         *time.Time `json:"assigned_at"`
	StartedAt          *time.Time `json:"started_at"`
	CompletedAt        *time.Time `json:"completed_at"`
	RejectedReason     string     `gorm:"type:text" json:"rejected_reason,omitempty"`
	Notes              string     `gorm:"type:text" json:"notes,omitempty"`
	Documents          string     `gorm:"type:jsonb;default:'[]'" json:"-"` // JSON array of DocumentRef
	VerificationData   string     `gorm:"type:jsonb" json:"-"`              // opaque payload captured at completion
	CreatedAt          time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (WorkflowStep) TableName() string {
	return "sales_order_workflow_steps"
}

func (s *WorkflowStep) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
