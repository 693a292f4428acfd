package booking

import "fmt"

// Status is the lifecycle state of a booking.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

// legalTransitions is the closed transition table. Anything not listed fails
// with ErrIllegalTransition.
var legalTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
	StatusCompleted: {},
	StatusCancelled: {},
	StatusNoShow:    {},
}

// ParseStatus converts a wire string into a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := legalTransitions[st]; !ok {
		return "", fmt.Errorf("booking: unknown status %q", s)
	}
	return st, nil
}

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return len(legalTransitions[s]) == 0
}

// CanTransitionTo reports whether target is reachable from s in one step.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range legalTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// RequiresReason reports whether entering the status needs a non-empty reason.
func (s Status) RequiresReason() bool {
	return s == StatusCancelled || s == StatusNoShow
}

// activeStatuses are the statuses that hold a slot against availability.
func activeStatuses() []string {
	return []string{string(StatusPending), string(StatusConfirmed), string(StatusCompleted)}
}
