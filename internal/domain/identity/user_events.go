package identity

import (
	"time"

	"github.com/clube/backend/internal/domain/shared"
)

const AggregateTypeUser = "User"

const (
	EventTypeUserCreated         = "UserCreated"
	EventTypeUserPasswordChanged = "UserPasswordChanged"
	EventTypeUserRoleChanged     = "UserRoleChanged"
	EventTypeUserStatusChanged   = "UserStatusChanged"
)

// UserCreatedEvent is published when a user is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(user *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserCreated, AggregateTypeUser, user.ID, user.TenantID),
		Username:        user.Username,
		Role:            user.Role,
	}
}

// UserPasswordChangedEvent is published when a user's password is changed
type UserPasswordChangedEvent struct {
	shared.BaseDomainEvent
	Username  string    `json:"username"`
	ChangedAt time.Time `json:"changed_at"`
}

// NewUserPasswordChangedEvent creates a new UserPasswordChangedEvent
func NewUserPasswordChangedEvent(user *User) *UserPasswordChangedEvent {
	changedAt := time.Now()
	if user.PasswordChangedAt != nil {
		changedAt = *user.PasswordChangedAt
	}
	return &UserPasswordChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserPasswordChanged, AggregateTypeUser, user.ID, user.TenantID),
		Username:        user.Username,
		ChangedAt:       changedAt,
	}
}

// UserRoleChangedEvent is published when a user's role changes
type UserRoleChangedEvent struct {
	shared.BaseDomainEvent
	Username string `json:"username"`
	OldRole  Role   `json:"old_role"`
	NewRole  Role   `json:"new_role"`
}

// NewUserRoleChangedEvent creates a new UserRoleChangedEvent
func NewUserRoleChangedEvent(user *User, old Role) *UserRoleChangedEvent {
	return &UserRoleChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRoleChanged, AggregateTypeUser, user.ID, user.TenantID),
		Username:        user.Username,
		OldRole:         old,
		NewRole:         user.Role,
	}
}

// UserStatusChangedEvent is published when a user's status changes
type UserStatusChangedEvent struct {
	shared.BaseDomainEvent
	Username  string     `json:"username"`
	OldStatus UserStatus `json:"old_status"`
	NewStatus UserStatus `json:"new_status"`
}

// NewUserStatusChangedEvent creates a new UserStatusChangedEvent
func NewUserStatusChangedEvent(user *User, oldStatus, newStatus UserStatus) *UserStatusChangedEvent {
	return &UserStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserStatusChanged, AggregateTypeUser, user.ID, user.TenantID),
		Username:        user.Username,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}
