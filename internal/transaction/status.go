package transaction

import (
	errors "github.com/deevseek/washcorner/internal"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

var knownStatuses = []Status{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled}

// ParseStatus accepts exactly one of the known status values. Case and
// spelling variants are rejected rather than coerced.
func ParseStatus(s string) (Status, error) {
	for _, known := range knownStatuses {
		if s == string(known) {
			return known, nil
		}
	}
	return "", errors.NewValidationFieldError("status",
		"status must be one of: pending, in_progress, completed, cancelled",
		errors.ErrCodeInvalidStatus)
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}
