package membership

import (
	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AggregateTypeMember is the aggregate type of member events
const AggregateTypeMember = "Member"

const (
	EventTypeMemberEnrolled      = "MemberEnrolled"
	EventTypeMemberStatusChanged = "MemberStatusChanged"
)

// MemberEnrolledEvent is published when a member joins the club
type MemberEnrolledEvent struct {
	shared.BaseDomainEvent
	RegistrationNumber string    `json:"registration_number"`
	Name               string    `json:"name"`
	CategoryID         uuid.UUID `json:"category_id"`
}

// NewMemberEnrolledEvent creates a new MemberEnrolledEvent
func NewMemberEnrolledEvent(m *Member) *MemberEnrolledEvent {
	return &MemberEnrolledEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent(EventTypeMemberEnrolled, AggregateTypeMember, m.ID, m.TenantID),
		RegistrationNumber: m.RegistrationNumber,
		Name:               m.Name,
		CategoryID:         m.CategoryID,
	}
}

// MemberStatusChangedEvent is published on every status change
type MemberStatusChangedEvent struct {
	shared.BaseDomainEvent
	OldStatus MemberStatus `json:"old_status"`
	NewStatus MemberStatus `json:"new_status"`
	Reason    string       `json:"reason,omitempty"`
}

// NewMemberStatusChangedEvent creates a new MemberStatusChangedEvent
func NewMemberStatusChangedEvent(m *Member, old MemberStatus) *MemberStatusChangedEvent {
	return &MemberStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMemberStatusChanged, AggregateTypeMember, m.ID, m.TenantID),
		OldStatus:       old,
		NewStatus:       m.Status,
		Reason:          m.StatusReason,
	}
}
