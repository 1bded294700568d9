package identity

import (
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserStatus represents the status of a user
type UserStatus string

const (
	UserStatusActive      UserStatus = "ACTIVE"
	UserStatusLocked      UserStatus = "LOCKED"
	UserStatusDeactivated UserStatus = "DEACTIVATED"
)

var (
	// bcryptCost is lowered in tests
	bcryptCost = 12

	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)
	hasLetter       = regexp.MustCompile(`[a-zA-Z]`)
	hasNumber       = regexp.MustCompile(`[0-9]`)
)

// User is a staff member allowed into a club's back office
type User struct {
	shared.TenantAggregateRoot
	Username          string
	Email             string
	DisplayName       string
	PasswordHash      string
	Role              Role
	Status            UserStatus
	LastLoginAt       *time.Time
	LastLoginIP       string
	FailedAttempts    int
	LockedUntil       *time.Time
	PasswordChangedAt *time.Time
}

// NewUser creates an active user with the given role
func NewUser(tenantID uuid.UUID, username, password string, role Role) (*User, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.NewValidationError("role", "Role must be ADMIN, FINANCE or STAFF")
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	now := time.Now()
	user := &User{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Username:            strings.ToLower(strings.TrimSpace(username)),
		PasswordHash:        hash,
		Role:                role,
		Status:              UserStatusActive,
		PasswordChangedAt:   &now,
	}
	user.AddDomainEvent(NewUserCreatedEvent(user))
	return user, nil
}

// UpdateProfile sets email and display name
func (u *User) UpdateProfile(email, displayName string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	displayName = strings.TrimSpace(displayName)

	v := &shared.ValidationError{}
	if email != "" {
		if len(email) > 200 {
			v.Add("email", "Email cannot exceed 200 characters")
		} else if _, err := mail.ParseAddress(email); err != nil {
			v.Add("email", "Invalid email address")
		}
	}
	if len(displayName) > 200 {
		v.Add("display_name", "Display name cannot exceed 200 characters")
	}
	if err := v.Err(); err != nil {
		return err
	}

	u.Email = email
	u.DisplayName = displayName
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// ChangeRole replaces the user's role
func (u *User) ChangeRole(role Role) error {
	if !role.IsValid() {
		return shared.NewValidationError("role", "Role must be ADMIN, FINANCE or STAFF")
	}
	if u.Role == role {
		return nil
	}
	old := u.Role
	u.Role = role
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	u.AddDomainEvent(NewUserRoleChangedEvent(u, old))
	return nil
}

// Permissions returns the permission codes of the user's role
func (u *User) Permissions() []string {
	return u.Role.Permissions()
}

// ChangePassword changes the password after checking the current one
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	return u.SetPassword(newPassword)
}

// SetPassword sets a new password without checking the old one (admin reset)
func (u *User) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	now := time.Now()
	u.PasswordHash = hash
	u.PasswordChangedAt = &now
	u.UpdatedAt = now
	u.IncrementVersion()
	u.AddDomainEvent(NewUserPasswordChangedEvent(u))
	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Activate activates the user and clears any lock
func (u *User) Activate() error {
	if u.Status == UserStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "User is already active")
	}
	old := u.Status
	u.Status = UserStatusActive
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	u.AddDomainEvent(NewUserStatusChangedEvent(u, old, UserStatusActive))
	return nil
}

// Deactivate deactivates the user
func (u *User) Deactivate() error {
	if u.Status == UserStatusDeactivated {
		return shared.NewDomainError("ALREADY_DEACTIVATED", "User is already deactivated")
	}
	old := u.Status
	u.Status = UserStatusDeactivated
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	u.AddDomainEvent(NewUserStatusChangedEvent(u, old, UserStatusDeactivated))
	return nil
}

// Lock locks the account; a zero duration locks until an admin unlocks it
func (u *User) Lock(duration time.Duration) error {
	if u.Status == UserStatusDeactivated {
		return shared.NewDomainError("USER_DEACTIVATED", "Cannot lock a deactivated user")
	}
	old := u.Status
	u.Status = UserStatusLocked
	if duration > 0 {
		until := time.Now().Add(duration)
		u.LockedUntil = &until
	}
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	u.AddDomainEvent(NewUserStatusChangedEvent(u, old, UserStatusLocked))
	return nil
}

// RecordLoginSuccess records a successful login
func (u *User) RecordLoginSuccess(ip string) {
	now := time.Now()
	if u.Status == UserStatusLocked {
		// lock expired
		u.Status = UserStatusActive
		u.LockedUntil = nil
	}
	u.LastLoginAt = &now
	u.LastLoginIP = ip
	u.FailedAttempts = 0
	u.UpdatedAt = now
	u.IncrementVersion()
}

// RecordLoginFailure counts a failed attempt and reports whether the account got locked
func (u *User) RecordLoginFailure(maxAttempts int, lockDuration time.Duration) bool {
	u.FailedAttempts++
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	if maxAttempts > 0 && u.FailedAttempts >= maxAttempts {
		_ = u.Lock(lockDuration)
		return true
	}
	return false
}

// IsLocked reports whether the lock is still in force
func (u *User) IsLocked() bool {
	if u.Status != UserStatusLocked {
		return false
	}
	return u.LockedUntil == nil || time.Now().Before(*u.LockedUntil)
}

// CanLogin returns true if user can login
func (u *User) CanLogin() bool {
	if u.Status == UserStatusDeactivated {
		return false
	}
	return !u.IsLocked()
}

// Name returns display name if set, otherwise username
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

func validateUsername(username string) error {
	username = strings.TrimSpace(username)
	switch {
	case len(username) < 3:
		return shared.NewValidationError("username", "Username must be at least 3 characters")
	case len(username) > 100:
		return shared.NewValidationError("username", "Username cannot exceed 100 characters")
	case !usernamePattern.MatchString(username):
		return shared.NewValidationError("username", "Username can only contain letters, numbers, underscores, hyphens and dots")
	}
	return nil
}

func validatePassword(password string) error {
	switch {
	case len(password) < 8:
		return shared.NewValidationError("password", "Password must be at least 8 characters")
	case len(password) > 72:
		return shared.NewValidationError("password", "Password cannot exceed 72 characters")
	case !hasLetter.MatchString(password) || !hasNumber.MatchString(password):
		return shared.NewValidationError("password", "Password must contain at least one letter and one number")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
