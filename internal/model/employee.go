package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Employee is a member of the workforce that workflow steps are assigned to.
// Distinct from User: users authenticate, employees do the work.
type Employee struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName  string     `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName   string     `gorm:"type:varchar(100);not null" json:"last_name"`
	Email      string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Department string     `gorm:"type:varchar(100)" json:"department"`
	Active     bool       `gorm:"not null;default:true;index" json:"active"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // linked login account, if any
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// FullName joins first and last name for notifications and responses.
func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}
