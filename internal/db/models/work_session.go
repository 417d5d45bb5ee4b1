package models

import (
	"time"

	"gorm.io/gorm"
)

// SessionStatus represents the state of a work session
type SessionStatus string

// Work session statuses
const (
	// SessionOtpGenerated indicates a start code has been issued and work
	// has not begun
	SessionOtpGenerated SessionStatus = "OTP_GENERATED"
	// SessionWorkStarted indicates the employee verified the start code
	SessionWorkStarted SessionStatus = "WORK_STARTED"
	// SessionCompletionPending indicates the employee initiated completion
	// and a completion code has been issued
	SessionCompletionPending SessionStatus = "COMPLETION_PENDING"
	// SessionWorkCompleted indicates the employer verified the completion
	// code; the session is final
	SessionWorkCompleted SessionStatus = "WORK_COMPLETED"
	// SessionExpired indicates the start code lapsed before work began
	SessionExpired SessionStatus = "EXPIRED"
)

// WorkSession is the OTP-gated execution record tied to an application once
// it reaches SELECTED. The current session for an application is the most
// recently created one; superseded sessions are kept, never deleted.
type WorkSession struct {
	gorm.Model
	ApplicationID uint          `json:"application_id" gorm:"not null;index"`
	JobID         uint          `json:"job_id" gorm:"not null;index"`
	EmployeeID    uint          `json:"employee_id" gorm:"not null;index"`
	EmployerID    uint          `json:"employer_id" gorm:"not null;index"`
	Status        SessionStatus `json:"status" gorm:"not null;index"`

	StartOTP  string    `json:"-" gorm:"column:start_otp"`
	OTPExpiry time.Time `json:"otp_expiry"`

	CompletionOTP       string    `json:"-" gorm:"column:completion_otp"`
	CompletionOTPExpiry time.Time `json:"completion_otp_expiry"`

	WorkStartTime       *time.Time `json:"work_start_time"`
	WorkEndTime         *time.Time `json:"work_end_time"`
	WorkDurationMinutes int        `json:"work_duration_minutes"`
	CalculatedWages     float64    `json:"calculated_wages"`
}

// StartOTPLive reports whether the start code can still be redeemed at now.
func (w *WorkSession) StartOTPLive(now time.Time) bool {
	return w.Status == SessionOtpGenerated && !now.After(w.OTPExpiry)
}

// CompletionOTPLive reports whether the completion code can still be
// redeemed at now.
func (w *WorkSession) CompletionOTPLive(now time.Time) bool {
	return w.Status == SessionCompletionPending && !now.After(w.CompletionOTPExpiry)
}
