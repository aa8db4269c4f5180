package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StepAudit records one status transition of one workflow step. Rows are
// immutable once written; read back in timestamp order they chain so that each
// OldStatus equals the previous row's NewStatus (empty for the first row).
type StepAudit struct {
	ID             uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	WorkflowStepID uuid.UUID     `gorm:"type:uuid;not null;index" json:"workflow_step_id"`
	WorkflowStep   *WorkflowStep `gorm:"foreignKey:WorkflowStepID;constraint:OnDelete:CASCADE" json:"-"`
	ChangedBy      *uuid.UUID    `gorm:"type:uuid;index" json:"changed_by"`
	Actor          *User         `gorm:"foreignKey:ChangedBy" json:"actor,omitempty"`
	OldStatus      string        `gorm:"type:varchar(20)" json:"old_status"`
	NewStatus      string        `gorm:"type:varchar(20);not null" json:"new_status"`
	ChangeReason   string        `gorm:"type:text" json:"change_reason,omitempty"`
	CreatedAt      time.Time     `gorm:"autoCreateTime;index" json:"created_at"`
}

func (StepAudit) TableName() string {
	return "sales_order_step_audits"
}

func (a *StepAudit) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
