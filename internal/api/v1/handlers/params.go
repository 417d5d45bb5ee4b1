package handlers

import (
	"fmt"

	"github.com/shiftworks/quickjob/internal/db/models"
)

// getPaginationOptions converts a 1-based page number to list options.
func getPaginationOptions(page int) *models.ListOptions {
	if page < 1 {
		page = 1
	}
	return &models.ListOptions{
		Limit:  models.DefaultLimit,
		Offset: (page - 1) * models.DefaultLimit,
	}
}

// JobCreateParams defines the parameters for creating a job posting
type JobCreateParams struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	District    string `json:"district"`
	State       string `json:"state"`
	SalaryRange string `json:"salary_range"`
}

// Validate validates the parameters for creating a job posting
func (p JobCreateParams) Validate() error {
	if p.Title == "" {
		return fmt.Errorf("title is required")
	}
	return nil
}

// JobUpdateParams defines the parameters for updating a job posting
type JobUpdateParams struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	District    string `json:"district"`
	State       string `json:"state"`
	SalaryRange string `json:"salary_range"`
}

// JobActiveParams defines the parameters for toggling a job posting
type JobActiveParams struct {
	Active bool `json:"active"`
}

// JobApproveParams defines the parameters for recording an approval decision
type JobApproveParams struct {
	Approved bool `json:"approved"`
}

// ApplyParams defines the parameters for filing an application
type ApplyParams struct {
	JobID uint `json:"job_id"`
}

// Validate validates the parameters for filing an application
func (p ApplyParams) Validate() error {
	if p.JobID == 0 {
		return fmt.Errorf("job_id is required")
	}
	return nil
}

// OtpParams defines the parameters for operations that redeem a code
type OtpParams struct {
	Otp string `json:"otp"`
}

// Validate validates the parameters for redeeming a code
func (p OtpParams) Validate() error {
	if p.Otp == "" {
		return fmt.Errorf("otp is required")
	}
	return nil
}
