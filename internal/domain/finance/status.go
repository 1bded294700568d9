package finance

import (
	"fmt"
	"strings"

	"github.com/clube/backend/internal/domain/shared"
)

// ObligationStatus is the lifecycle state shared by dues records and ad-hoc accounts
type ObligationStatus string

const (
	StatusPending  ObligationStatus = "PENDING"
	StatusOverdue  ObligationStatus = "OVERDUE"
	StatusPaid     ObligationStatus = "PAID"
	StatusCanceled ObligationStatus = "CANCELED"
)

// obligationTransitions lists every allowed move. Anything absent is rejected.
// Overdue goes back to pending only when the due date is rescheduled.
var obligationTransitions = map[ObligationStatus][]ObligationStatus{
	StatusPending:  {StatusOverdue, StatusPaid, StatusCanceled},
	StatusOverdue:  {StatusPending, StatusPaid, StatusCanceled},
	StatusCanceled: {StatusPending},
	StatusPaid:     {},
}

// AllObligationStatuses returns the statuses in display order
func AllObligationStatuses() []ObligationStatus {
	return []ObligationStatus{StatusPending, StatusOverdue, StatusPaid, StatusCanceled}
}

// IsValid checks if the status is known
func (s ObligationStatus) IsValid() bool {
	_, ok := obligationTransitions[s]
	return ok
}

// String returns the string representation of ObligationStatus
func (s ObligationStatus) String() string {
	return string(s)
}

// IsOpen reports whether money is still owed
func (s ObligationStatus) IsOpen() bool {
	return s == StatusPending || s == StatusOverdue
}

// IsTerminal reports whether no further transition exists
func (s ObligationStatus) IsTerminal() bool {
	return len(obligationTransitions[s]) == 0
}

// CanTransitionTo checks the transition table
func (s ObligationStatus) CanTransitionTo(target ObligationStatus) bool {
	for _, allowed := range obligationTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// ValidateTransition returns an INVALID_STATE error when the move is not allowed
func (s ObligationStatus) ValidateTransition(target ObligationStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("Unknown status %q", target))
	}
	if !s.CanTransitionTo(target) {
		return shared.NewInvalidStateError(fmt.Sprintf("Cannot change status from %s to %s", s, target))
	}
	return nil
}

// ParseObligationStatus parses a status string, accepting any case
func ParseObligationStatus(value string) (ObligationStatus, error) {
	s := ObligationStatus(strings.ToUpper(strings.TrimSpace(value)))
	if !s.IsValid() {
		return "", shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("Unknown status %q", value))
	}
	return s, nil
}
