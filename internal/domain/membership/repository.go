package membership

import (
	"context"

	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MemberFilter defines filtering options for member queries.
// Search matches name, CPF digits or registration number.
type MemberFilter struct {
	shared.Filter
	Status        *MemberStatus
	CategoryID    *uuid.UUID
	AffiliationID *uuid.UUID
}

// MemberRepository defines persistence for members and their dependents
type MemberRepository interface {
	// FindByIDForTenant loads the member with its dependents
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Member, error)
	FindByIDsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Member, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter MemberFilter) ([]Member, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter MemberFilter) (int64, error)
	ExistsByRegistration(ctx context.Context, tenantID uuid.UUID, registration string, excludeID *uuid.UUID) (bool, error)
	ExistsByCPF(ctx context.Context, tenantID uuid.UUID, cpf string, excludeID *uuid.UUID) (bool, error)
	// Save upserts the member and replaces its dependents
	Save(ctx context.Context, member *Member) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// CategoryRepository defines persistence for member categories
type CategoryRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Category, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Category, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error)
	// IsInUse reports whether any member references the category
	IsInUse(ctx context.Context, tenantID, id uuid.UUID) (bool, error)
	Save(ctx context.Context, category *Category) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// AffiliationRepository defines persistence for affiliations
type AffiliationRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Affiliation, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Affiliation, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error)
	IsInUse(ctx context.Context, tenantID, id uuid.UUID) (bool, error)
	Save(ctx context.Context, affiliation *Affiliation) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
