// Package events provides an in-process bus for workflow lifecycle events
package events

import (
	"context"
	"sync"
	"time"

	"github.com/shiftworks/quickjob/internal/logger"
)

// EventType represents the type of workflow event
type EventType string

const (
	// EventApplicationFiled is emitted when an employee files an application
	EventApplicationFiled EventType = "application_filed"
	// EventStartCodeIssued is emitted when a start code is issued or re-issued
	EventStartCodeIssued EventType = "start_code_issued"
	// EventWorkStarted is emitted when an employee redeems a start code
	EventWorkStarted EventType = "work_started"
	// EventCompletionCodeIssued is emitted when a completion code is issued
	EventCompletionCodeIssued EventType = "completion_code_issued"
	// EventWorkCompleted is emitted when the employer settles a session
	EventWorkCompleted EventType = "work_completed"
	// EventApplicationClosed is emitted on a terminal rejection or withdrawal
	EventApplicationClosed EventType = "application_closed"
	// EventChannelSize is the buffer size for the event channel
	EventChannelSize = 100
)

// Event represents a workflow event
type Event struct {
	Type          EventType // The type of event
	ApplicationID uint      // The application the event concerns
	JobID         uint      // The job the application targets
	EmployeeID    uint      // The employee side of the application
	EmployerID    uint      // The employer owning the job
	Code          string    // Issued one-time code, when the event carries one
	CodeExpiresAt time.Time // Expiry of the issued code
	Minutes       int       // Billable minutes, on completion events
	Wages         float64   // Settled wages, on completion events
}

// Handler is a function that handles an event
type Handler func(context.Context, Event) error

var (
	// handlers is a map of event types to their handlers
	handlers = make(map[EventType][]Handler)
	// handlersMu is a mutex for the handlers map
	handlersMu sync.RWMutex
	// eventChan is a channel for events
	eventChan = make(chan Event, EventChannelSize)
)

// Subscribe registers a handler for a specific event type
func Subscribe(eventType EventType, handler Handler) {
	handlersMu.Lock()
	defer handlersMu.Unlock()
	handlers[eventType] = append(handlers[eventType], handler)
	logger.Debugf("Registered handler for event type: %s", eventType)
}

// Publish sends an event to be processed. Publishing never blocks the
// workflow: when the buffer is full the event is dropped with a warning.
func Publish(event Event) {
	select {
	case eventChan <- event:
		logger.Debugf("Published event %s (application: %d)", event.Type, event.ApplicationID)
	default:
		logger.Warnf("Event channel full, dropping event %s (application: %d)", event.Type, event.ApplicationID)
	}
}

// Start starts the event processing loop
func Start(ctx context.Context) {
	go processEvents(ctx)
	logger.Info("Started event processing loop")
}

// processEvents handles events in the background
func processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("Stopping event processing loop")
			return
		case event := <-eventChan:
			handlersMu.RLock()
			eventHandlers := handlers[event.Type]
			handlersMu.RUnlock()

			// Process event with all registered handlers
			for _, handler := range eventHandlers {
				go func(h Handler, e Event) {
					if err := h(ctx, e); err != nil {
						logger.Errorf("Failed to handle event %s: %v", e.Type, err)
					}
				}(handler, event)
			}
		}
	}
}
