package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Application represents one employee's relationship to one job. Records are
// never physically deleted; terminal outcomes are carried in the status.
type Application struct {
	gorm.Model
	PublicID   uuid.UUID       `json:"public_id" gorm:"type:uuid;uniqueIndex"`
	JobID      uint            `json:"job_id" gorm:"not null;index:idx_app_job_employee"`
	EmployeeID uint            `json:"employee_id" gorm:"not null;index:idx_app_job_employee"`
	Status     CanonicalStatus `json:"status" gorm:"not null;index"`
	AppliedAt  *time.Time      `json:"applied_at"`
}

// BeforeCreate assigns the public identifier.
func (a *Application) BeforeCreate(_ *gorm.DB) error {
	if a.PublicID == uuid.Nil {
		a.PublicID = uuid.New()
	}
	return nil
}

// Active reports whether the application still counts against the
// one-active-application-per-(job, employee) rule.
func (a *Application) Active() bool {
	return !IsNegativeOutcome(a.Status)
}
