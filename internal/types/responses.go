package types

import "time"

// AcceptResult is returned when an employer accepts an application or a
// start code is re-issued. The code is relayed out-of-band to the employee.
type AcceptResult struct {
	ApplicationID uint      `json:"application_id"`
	Status        string    `json:"status"`
	OTP           string    `json:"otp"`
	OTPExpiresAt  time.Time `json:"otp_expires_at"`
}

// StartResult is returned when an employee starts work.
type StartResult struct {
	ApplicationID uint      `json:"application_id"`
	Status        string    `json:"status"`
	WorkStartTime time.Time `json:"work_start_time"`
	// AlreadyStarted reports that the session was started by an earlier
	// call and this one was a no-op.
	AlreadyStarted bool `json:"already_started,omitempty"`
}

// CompletionOTPResult is returned when an employee initiates completion.
// The code is relayed out-of-band to the employer.
type CompletionOTPResult struct {
	ApplicationID       uint      `json:"application_id"`
	Status              string    `json:"status"`
	OTP                 string    `json:"otp"`
	OTPExpiresAt        time.Time `json:"otp_expires_at"`
	WorkDurationMinutes int       `json:"work_duration_minutes"`
}

// CompletionSummary is returned when the employer verifies completion.
type CompletionSummary struct {
	ApplicationID       uint      `json:"application_id"`
	Status              string    `json:"status"`
	WorkStartTime       time.Time `json:"work_start_time"`
	WorkEndTime         time.Time `json:"work_end_time"`
	WorkDurationMinutes int       `json:"work_duration_minutes"`
	HourlyRate          float64   `json:"hourly_rate"`
	CalculatedWages     float64   `json:"calculated_wages"`
}

// PaginationResponse represents pagination information for list endpoints
type PaginationResponse struct {
	Total  int `json:"total"`
	Page   int `json:"page"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
