package models

import (
	"strings"

	"github.com/shiftworks/quickjob/internal/logger"
)

// CanonicalStatus is the closed set of values an application status may hold
// after normalization. Statuses are stored under their canonical string name.
type CanonicalStatus string

// Canonical application statuses
const (
	StatusApplied           CanonicalStatus = "APPLIED"
	StatusPending           CanonicalStatus = "PENDING"
	StatusUnderReview       CanonicalStatus = "UNDER_REVIEW"
	StatusSelected          CanonicalStatus = "SELECTED"
	StatusAccepted          CanonicalStatus = "ACCEPTED"
	StatusDeclined          CanonicalStatus = "DECLINED"
	StatusNotInterested     CanonicalStatus = "NOT_INTERESTED"
	StatusRejected          CanonicalStatus = "REJECTED"
	StatusWorkInProgress    CanonicalStatus = "WORK_IN_PROGRESS"
	StatusCompletionPending CanonicalStatus = "COMPLETION_PENDING"
	StatusCompleted         CanonicalStatus = "COMPLETED"
)

// defaultStatus is what unrecognized raw values normalize to. The historical
// data is inconsistent here, so the fallback is configurable through
// SetDefaultStatus; APPLIED is the non-terminal choice.
var defaultStatus = StatusApplied

// SetDefaultStatus overrides the fallback for unrecognized raw statuses.
// Invalid values leave the fallback unchanged.
func SetDefaultStatus(raw string) {
	s := CanonicalStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if s.Valid() {
		defaultStatus = s
	}
}

// Valid reports whether s is one of the canonical statuses.
func (s CanonicalStatus) Valid() bool {
	switch s {
	case StatusApplied, StatusPending, StatusUnderReview, StatusSelected,
		StatusAccepted, StatusDeclined, StatusNotInterested, StatusRejected,
		StatusWorkInProgress, StatusCompletionPending, StatusCompleted:
		return true
	}
	return false
}

func (s CanonicalStatus) String() string {
	return string(s)
}

// statusAliases maps deprecated raw values onto their canonical replacement.
var statusAliases = map[string]CanonicalStatus{
	"SKIP":     StatusNotInterested,
	"PASS":     StatusNotInterested,
	"HIRED":    StatusAccepted,
	"FINISHED": StatusCompleted,
	"DONE":     StatusCompleted,
	"COMPLETE": StatusCompleted,
}

// NormalizeStatus maps an arbitrary raw status string onto the canonical set.
// Input is trimmed and case-folded. Deprecated aliases map deterministically
// and are logged at warn level, never rejected. Anything unrecognized falls
// back to the configured default status.
func NormalizeStatus(raw string) CanonicalStatus {
	folded := strings.ToUpper(strings.TrimSpace(raw))
	folded = strings.ReplaceAll(folded, " ", "_")
	folded = strings.ReplaceAll(folded, "-", "_")

	if s := CanonicalStatus(folded); s.Valid() {
		return s
	}

	if s, ok := statusAliases[folded]; ok {
		logger.Warnf("deprecated status %q normalized to %s", raw, s)
		return s
	}

	logger.Warnf("unrecognized status %q normalized to default %s", raw, defaultStatus)
	return defaultStatus
}

// validTransitions lists every allowed (from -> to) pair of the application
// lifecycle. Terminal states have no outgoing transitions; a terminal record
// is only ever superseded by the reconsideration flow, which creates a fresh
// APPLIED application.
var validTransitions = map[CanonicalStatus][]CanonicalStatus{
	StatusApplied:           {StatusPending, StatusUnderReview, StatusSelected, StatusRejected, StatusNotInterested},
	StatusPending:           {StatusUnderReview, StatusSelected, StatusRejected, StatusNotInterested},
	StatusUnderReview:       {StatusSelected, StatusRejected, StatusNotInterested},
	StatusSelected:          {StatusWorkInProgress, StatusRejected},
	StatusAccepted:          {StatusWorkInProgress, StatusRejected},
	StatusWorkInProgress:    {StatusCompletionPending},
	StatusCompletionPending: {StatusCompleted},
}

// CanTransition reports whether moving from -> to is permitted.
func CanTransition(from, to CanonicalStatus) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether s has no outgoing transitions.
func IsTerminal(s CanonicalStatus) bool {
	return len(validTransitions[s]) == 0
}

// IsNegativeOutcome reports whether s excludes the application from the
// one-active-application rule, freeing the (job, employee) pair to re-apply.
func IsNegativeOutcome(s CanonicalStatus) bool {
	return s == StatusRejected || s == StatusNotInterested || s == StatusDeclined
}
