package services

import (
	"context"

	"github.com/shiftworks/quickjob/internal/events"
	"github.com/shiftworks/quickjob/internal/logger"
)

// Notifier delivers workflow events to the parties involved. Codes travel
// out of band (the employer reads the start code to the employee in person,
// and vice versa for completion), so delivery here is the audit record of
// issuance, not the code's transport.
type Notifier struct{}

// NewNotifier creates a notifier and registers it as an event handler
func NewNotifier() *Notifier {
	n := &Notifier{}

	events.Subscribe(events.EventApplicationFiled, n.handleApplicationFiled)
	events.Subscribe(events.EventStartCodeIssued, n.handleCodeIssued)
	events.Subscribe(events.EventCompletionCodeIssued, n.handleCodeIssued)
	events.Subscribe(events.EventWorkCompleted, n.handleWorkCompleted)
	events.Subscribe(events.EventApplicationClosed, n.handleApplicationClosed)

	return n
}

func (n *Notifier) handleApplicationFiled(_ context.Context, e events.Event) error {
	logger.InfoWithFields("application filed", map[string]interface{}{
		"application_id": e.ApplicationID,
		"job_id":         e.JobID,
		"employee_id":    e.EmployeeID,
	})
	return nil
}

// handleCodeIssued records a code issuance. The code itself is never
// logged.
func (n *Notifier) handleCodeIssued(_ context.Context, e events.Event) error {
	logger.InfoWithFields("one-time code issued", map[string]interface{}{
		"event":          string(e.Type),
		"application_id": e.ApplicationID,
		"expires_at":     e.CodeExpiresAt,
	})
	return nil
}

func (n *Notifier) handleWorkCompleted(_ context.Context, e events.Event) error {
	logger.InfoWithFields("work settled", map[string]interface{}{
		"application_id": e.ApplicationID,
		"duration_min":   e.Minutes,
		"wages":          e.Wages,
	})
	return nil
}

func (n *Notifier) handleApplicationClosed(_ context.Context, e events.Event) error {
	logger.InfoWithFields("application closed", map[string]interface{}{
		"application_id": e.ApplicationID,
		"job_id":         e.JobID,
	})
	return nil
}
