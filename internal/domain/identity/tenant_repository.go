package identity

import (
	"context"

	"github.com/google/uuid"
)

// TenantRepository defines the interface for tenant persistence
type TenantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	FindByCode(ctx context.Context, code string) (*Tenant, error)
	// FindActive lists every active club, used by background jobs
	FindActive(ctx context.Context) ([]Tenant, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Save(ctx context.Context, tenant *Tenant) error
}
