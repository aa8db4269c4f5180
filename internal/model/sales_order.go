package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Workflow status of a sales order as a whole
const (
	OrderWorkflowDraft      = "draft"
	OrderWorkflowInProgress = "in_progress"
	OrderWorkflowCompleted  = "completed"
	OrderWorkflowOnHold     = "on_hold"
	OrderWorkflowCancelled  = "cancelled"
)

// SalesOrder is the parent of one 9-step fulfillment workflow.
// CurrentStep and WorkflowStatus are denormalized from the step rows and are
// only ever written by the workflow engine inside the same transaction as the
// step change that caused them.
type SalesOrder struct {
	ID                      uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	PONumber                string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"po_number"`
	Customer                string          `gorm:"type:varchar(255);not null" json:"customer"`
	POValue                 decimal.Decimal `gorm:"type:decimal(14,2)" json:"po_value"`
	Currency                string          `gorm:"type:varchar(10);default:'USD'" json:"currency"`
	CurrentStep             int             `gorm:"not null;default:0" json:"current_step"`
	WorkflowStatus          string          `gorm:"type:varchar(20);not null;default:'draft';index" json:"workflow_status"`
	EstimatedCompletionDate *time.Time      `json:"estimated_completion_date"`
	Notes                   string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy               *uuid.UUID      `gorm:"type:uuid;index" json:"created_by"`
	Creator                 *User           `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Steps                   []WorkflowStep  `gorm:"foreignKey:SalesOrderID;constraint:OnDelete:CASCADE" json:"steps,omitempty"`
	CreatedAt               time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt               time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (o *SalesOrder) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
