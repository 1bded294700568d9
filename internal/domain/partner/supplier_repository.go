package partner

import (
	"context"

	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SupplierFilter defines filtering options for supplier queries.
// Search matches name, trade name or document digits.
type SupplierFilter struct {
	shared.Filter
	Status *SupplierStatus
}

// SupplierRepository defines the interface for supplier persistence
type SupplierRepository interface {
	// FindByIDForTenant finds a supplier by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Supplier, error)

	// FindAllForTenant finds all suppliers for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter SupplierFilter) ([]Supplier, error)

	// CountForTenant counts suppliers for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter SupplierFilter) (int64, error)

	// ExistsByDocument checks if another supplier of the tenant has the document
	ExistsByDocument(ctx context.Context, tenantID uuid.UUID, document string, excludeID *uuid.UUID) (bool, error)

	// IsReferenced reports whether payable accounts reference the supplier
	IsReferenced(ctx context.Context, tenantID, id uuid.UUID) (bool, error)

	// Save creates or updates a supplier
	Save(ctx context.Context, supplier *Supplier) error

	// DeleteForTenant deletes a supplier within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
