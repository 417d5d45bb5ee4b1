package models

import (
	"gorm.io/gorm"
)

// JobApprovalStatus represents the moderation state of a job posting
type JobApprovalStatus string

// Job approval statuses. Approval itself happens in an admin surface outside
// this service; the core only reads the outcome.
const (
	JobPendingApproval JobApprovalStatus = "PENDING_APPROVAL"
	JobApproved        JobApprovalStatus = "APPROVED"
	JobRejected        JobApprovalStatus = "REJECTED"
)

// Job represents a short-task posting owned by an employer. Jobs are
// read-mostly reference data and the only entity served from the cache.
type Job struct {
	gorm.Model
	EmployerID     uint              `json:"employer_id" gorm:"not null;index"`
	Title          string            `json:"title" gorm:"not null"`
	Description    string            `json:"description" gorm:"type:text"`
	District       string            `json:"district"`
	State          string            `json:"state"`
	SalaryRange    string            `json:"salary_range"` // free text, e.g. "40-60" or "50"
	ApprovalStatus JobApprovalStatus `json:"approval_status" gorm:"not null;default:PENDING_APPROVAL;index"`
	IsActive       bool              `json:"is_active" gorm:"not null;default:true;index"`
}

// Discoverable reports whether the job may be listed to employees.
func (j *Job) Discoverable() bool {
	return j.ApprovalStatus == JobApproved && j.IsActive
}

// OwnedBy reports whether employerID owns the job.
func (j *Job) OwnedBy(employerID uint) bool {
	return j.EmployerID == employerID
}
