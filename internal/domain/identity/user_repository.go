package identity

import (
	"context"

	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UserFilter contains filter options for querying users
type UserFilter struct {
	shared.Filter
	Status *UserStatus
	Role   *Role
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*User, error)
	// FindByUsername looks a user up by login name within a club
	FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*User, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter UserFilter) ([]User, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter UserFilter) (int64, error)
	ExistsByUsername(ctx context.Context, tenantID uuid.UUID, username string) (bool, error)
	// CountActiveAdmins guards removing the last administrator of a club
	CountActiveAdmins(ctx context.Context, tenantID uuid.UUID) (int64, error)
	Save(ctx context.Context, user *User) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
