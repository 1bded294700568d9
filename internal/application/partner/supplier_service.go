package partner

import (
	"context"

	"github.com/clube/backend/internal/domain/partner"
	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SupplierService handles supplier-related business operations
type SupplierService struct {
	supplierRepo   partner.SupplierRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(supplierRepo partner.SupplierRepository, logger *zap.Logger) *SupplierService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SupplierService{
		supplierRepo: supplierRepo,
		logger:       logger.Named("suppliers"),
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *SupplierService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new supplier
func (s *SupplierService) Create(ctx context.Context, tenantID uuid.UUID, req SupplierRequest) (*SupplierResponse, error) {
	in, err := req.toInput()
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueDocument(ctx, tenantID, in.Document, nil); err != nil {
		return nil, err
	}

	supplier, err := partner.NewSupplier(tenantID, in)
	if err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	s.publish(ctx, supplier)

	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// GetByID retrieves a supplier by ID
func (s *SupplierService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// List retrieves a list of suppliers with filtering and pagination
func (s *SupplierService) List(ctx context.Context, tenantID uuid.UUID, filter SupplierListFilter) (*shared.Paginated[SupplierResponse], error) {
	f := partner.SupplierFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			Search:   filter.Search,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
		}.Normalize(),
	}
	if filter.Status != "" {
		status := partner.SupplierStatus(filter.Status)
		f.Status = &status
	}

	suppliers, err := s.supplierRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, err
	}
	total, err := s.supplierRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, err
	}
	items := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		items[i] = ToSupplierResponse(&suppliers[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// Update updates a supplier
func (s *SupplierService) Update(ctx context.Context, tenantID, id uuid.UUID, req SupplierRequest) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	in, err := req.toInput()
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueDocument(ctx, tenantID, in.Document, &id); err != nil {
		return nil, err
	}
	if err := supplier.Update(in); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	s.publish(ctx, supplier)

	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// Activate activates a supplier
func (s *SupplierService) Activate(ctx context.Context, tenantID, id uuid.UUID) (*SupplierResponse, error) {
	return s.setStatus(ctx, tenantID, id, (*partner.Supplier).Activate)
}

// Deactivate deactivates a supplier
func (s *SupplierService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) (*SupplierResponse, error) {
	return s.setStatus(ctx, tenantID, id, (*partner.Supplier).Deactivate)
}

func (s *SupplierService) setStatus(ctx context.Context, tenantID, id uuid.UUID, apply func(*partner.Supplier) error) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := apply(supplier); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// Delete deletes a supplier that no payable account references
func (s *SupplierService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	referenced, err := s.supplierRepo.IsReferenced(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if referenced {
		return shared.NewInvalidStateError("Supplier has payable accounts; deactivate it instead")
	}
	if err := s.supplierRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	s.logger.Info("Supplier deleted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("supplier_id", id.String()))
	return nil
}

func (s *SupplierService) ensureUniqueDocument(ctx context.Context, tenantID uuid.UUID, document string, excludeID *uuid.UUID) error {
	if document == "" {
		return nil
	}
	exists, err := s.supplierRepo.ExistsByDocument(ctx, tenantID, document, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError(shared.CodeAlreadyExists, "Supplier with this CPF/CNPJ already exists")
	}
	return nil
}

func (s *SupplierService) publish(ctx context.Context, supplier *partner.Supplier) {
	if err := shared.PublishAndClear(ctx, s.eventPublisher, supplier); err != nil {
		s.logger.Warn("Failed to publish supplier events",
			zap.String("supplier_id", supplier.ID.String()),
			zap.Error(err))
	}
}
