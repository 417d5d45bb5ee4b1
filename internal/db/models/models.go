// Package models defines the persistent entities of the application
// workflow: jobs, applications and work sessions.
package models

// Common database field names
const (
	// CreatedAtField is the database field name for the creation timestamp
	CreatedAtField = "created_at"
	// UpdatedAtField is the database field name for the update timestamp
	UpdatedAtField = "updated_at"
)

// DefaultLimit is the default number of rows returned by list queries
const DefaultLimit = 50

// ListOptions defines options for listing entities
type ListOptions struct {
	Limit  int
	Offset int
}

// LimitOrDefault returns the configured limit, or DefaultLimit when unset.
func (o *ListOptions) LimitOrDefault() int {
	if o == nil || o.Limit <= 0 {
		return DefaultLimit
	}
	return o.Limit
}

// OffsetOrZero returns the configured offset, or zero when unset.
func (o *ListOptions) OffsetOrZero() int {
	if o == nil || o.Offset < 0 {
		return 0
	}
	return o.Offset
}
