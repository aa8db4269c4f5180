package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification types emitted by the workflow engine
const (
	NotificationTaskAssignment   = "task_assignment"
	NotificationStepStatusUpdate = "step_status_update"
)

// Notification is a persisted message for an employee, written alongside the
// workflow change that caused it. Delivery beyond the websocket hub is handled
// by an external collaborator.
type Notification struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	EmployeeID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"employee_id"`
	Message     string     `gorm:"type:text;not null" json:"message"`
	Type        string     `gorm:"type:varchar(50);not null;index" json:"type"`
	RelatedID   *uuid.UUID `gorm:"type:uuid;index" json:"related_id"`
	RelatedType string     `gorm:"type:varchar(50)" json:"related_type,omitempty"`
	Read        bool       `gorm:"not null;default:false;index" json:"read"`
	CreatedAt   time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
