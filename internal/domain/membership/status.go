package membership

import (
	"strings"

	"github.com/clube/backend/internal/domain/shared"
)

// MemberStatus represents the membership status of a member
type MemberStatus string

const (
	MemberStatusActive    MemberStatus = "ACTIVE"
	MemberStatusInactive  MemberStatus = "INACTIVE"
	MemberStatusSuspended MemberStatus = "SUSPENDED"
	MemberStatusCanceled  MemberStatus = "CANCELED"
)

var memberTransitions = map[MemberStatus][]MemberStatus{
	MemberStatusActive:    {MemberStatusInactive, MemberStatusSuspended, MemberStatusCanceled},
	MemberStatusInactive:  {MemberStatusActive, MemberStatusCanceled},
	MemberStatusSuspended: {MemberStatusActive, MemberStatusCanceled},
	MemberStatusCanceled:  {},
}

// IsValid checks if the status is known
func (s MemberStatus) IsValid() bool {
	_, ok := memberTransitions[s]
	return ok
}

// String returns the string representation of MemberStatus
func (s MemberStatus) String() string {
	return string(s)
}

// CanTransitionTo reports whether staff may move a member from s to target
func (s MemberStatus) CanTransitionTo(target MemberStatus) bool {
	for _, allowed := range memberTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// ParseMemberStatus parses a status name, case-insensitively
func ParseMemberStatus(value string) (MemberStatus, error) {
	s := MemberStatus(strings.ToUpper(strings.TrimSpace(value)))
	if !s.IsValid() {
		return "", shared.NewValidationError("status", "Status must be ACTIVE, INACTIVE, SUSPENDED or CANCELED")
	}
	return s, nil
}
