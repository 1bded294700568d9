package membership

import (
	"context"

	"github.com/clube/backend/internal/domain/membership"
	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoryService handles member category operations
type CategoryService struct {
	categoryRepo membership.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo membership.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, tenantID uuid.UUID, req CategoryRequest) (*CategoryResponse, error) {
	exists, err := s.categoryRepo.ExistsByName(ctx, tenantID, req.Name, nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Category with this name already exists")
	}

	category, err := membership.NewCategory(tenantID, req.Name, req.MonthlyFee, req.DueDay)
	if err != nil {
		return nil, err
	}
	if req.Description != "" {
		if err := category.Update(req.Name, req.Description, req.MonthlyFee, req.DueDay); err != nil {
			return nil, err
		}
	}
	if req.Active != nil && !*req.Active {
		category.Deactivate()
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// GetByID retrieves a category by ID
func (s *CategoryService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// List retrieves a page of categories
func (s *CategoryService) List(ctx context.Context, tenantID uuid.UUID, filter ListFilter) (*shared.Paginated[CategoryResponse], error) {
	f := filter.toDomain()
	categories, err := s.categoryRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, err
	}
	total, err := s.categoryRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, err
	}
	items := make([]CategoryResponse, len(categories))
	for i := range categories {
		items[i] = ToCategoryResponse(&categories[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// Update replaces the terms of a category. Existing dues keep their amount.
func (s *CategoryService) Update(ctx context.Context, tenantID, id uuid.UUID, req CategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	exists, err := s.categoryRepo.ExistsByName(ctx, tenantID, req.Name, &id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Category with this name already exists")
	}

	if err := category.Update(req.Name, req.Description, req.MonthlyFee, req.DueDay); err != nil {
		return nil, err
	}
	if req.Active != nil {
		if *req.Active {
			category.Activate()
		} else {
			category.Deactivate()
		}
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// Delete removes a category no member references
func (s *CategoryService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	inUse, err := s.categoryRepo.IsInUse(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if inUse {
		return shared.NewInvalidStateError("Category has members and cannot be deleted")
	}
	return s.categoryRepo.DeleteForTenant(ctx, tenantID, id)
}

// AffiliationService handles affiliation (convênio) operations
type AffiliationService struct {
	affiliationRepo membership.AffiliationRepository
}

// NewAffiliationService creates a new AffiliationService
func NewAffiliationService(affiliationRepo membership.AffiliationRepository) *AffiliationService {
	return &AffiliationService{affiliationRepo: affiliationRepo}
}

// Create creates a new affiliation
func (s *AffiliationService) Create(ctx context.Context, tenantID uuid.UUID, req AffiliationRequest) (*AffiliationResponse, error) {
	exists, err := s.affiliationRepo.ExistsByName(ctx, tenantID, req.Name, nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Affiliation with this name already exists")
	}

	affiliation, err := membership.NewAffiliation(tenantID, req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.apply(affiliation, req); err != nil {
		return nil, err
	}
	if err := s.affiliationRepo.Save(ctx, affiliation); err != nil {
		return nil, err
	}
	resp := ToAffiliationResponse(affiliation)
	return &resp, nil
}

// GetByID retrieves an affiliation by ID
func (s *AffiliationService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*AffiliationResponse, error) {
	affiliation, err := s.affiliationRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToAffiliationResponse(affiliation)
	return &resp, nil
}

// List retrieves a page of affiliations
func (s *AffiliationService) List(ctx context.Context, tenantID uuid.UUID, filter ListFilter) (*shared.Paginated[AffiliationResponse], error) {
	f := filter.toDomain()
	affiliations, err := s.affiliationRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, err
	}
	total, err := s.affiliationRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, err
	}
	items := make([]AffiliationResponse, len(affiliations))
	for i := range affiliations {
		items[i] = ToAffiliationResponse(&affiliations[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// Update replaces the details of an affiliation
func (s *AffiliationService) Update(ctx context.Context, tenantID, id uuid.UUID, req AffiliationRequest) (*AffiliationResponse, error) {
	affiliation, err := s.affiliationRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	exists, err := s.affiliationRepo.ExistsByName(ctx, tenantID, req.Name, &id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Affiliation with this name already exists")
	}
	if err := s.apply(affiliation, req); err != nil {
		return nil, err
	}
	if err := s.affiliationRepo.Save(ctx, affiliation); err != nil {
		return nil, err
	}
	resp := ToAffiliationResponse(affiliation)
	return &resp, nil
}

func (s *AffiliationService) apply(a *membership.Affiliation, req AffiliationRequest) error {
	discount := decimal.Zero
	if req.DiscountPercent != nil {
		discount = *req.DiscountPercent
	}
	if err := a.Update(req.Name, req.ContactCompany, req.ContactPhone, discount); err != nil {
		return err
	}
	if req.Active != nil {
		a.SetActive(*req.Active)
	}
	return nil
}

// Delete removes an affiliation no member references
func (s *AffiliationService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.affiliationRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	inUse, err := s.affiliationRepo.IsInUse(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if inUse {
		return shared.NewInvalidStateError("Affiliation has members and cannot be deleted")
	}
	return s.affiliationRepo.DeleteForTenant(ctx, tenantID, id)
}
