package collection

import (
	"context"

	"github.com/clube/backend/internal/domain/collection"
	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TemplateService manages billing message templates
type TemplateService struct {
	templateRepo collection.TemplateRepository
	logger       *zap.Logger
}

// NewTemplateService creates a new TemplateService
func NewTemplateService(templateRepo collection.TemplateRepository, logger *zap.Logger) *TemplateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TemplateService{templateRepo: templateRepo, logger: logger.Named("collection-templates")}
}

// Create adds a template
func (s *TemplateService) Create(ctx context.Context, tenantID uuid.UUID, req TemplateRequest) (*TemplateResponse, error) {
	tmpl, err := collection.NewTemplate(tenantID, req.Name, collection.Channel(req.Channel), req.Subject, req.Body)
	if err != nil {
		return nil, err
	}
	if err := s.templateRepo.Save(ctx, tmpl); err != nil {
		return nil, err
	}
	resp := ToTemplateResponse(tmpl)
	return &resp, nil
}

// GetByID returns a template
func (s *TemplateService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*TemplateResponse, error) {
	tmpl, err := s.templateRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToTemplateResponse(tmpl)
	return &resp, nil
}

// List retrieves a page of templates
func (s *TemplateService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[TemplateResponse], error) {
	filter = filter.Normalize()
	templates, err := s.templateRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.templateRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]TemplateResponse, len(templates))
	for i := range templates {
		items[i] = ToTemplateResponse(&templates[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Update replaces the template content
func (s *TemplateService) Update(ctx context.Context, tenantID, id uuid.UUID, req TemplateRequest) (*TemplateResponse, error) {
	tmpl, err := s.templateRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := tmpl.Update(req.Name, collection.Channel(req.Channel), req.Subject, req.Body); err != nil {
		return nil, err
	}
	if err := s.templateRepo.Save(ctx, tmpl); err != nil {
		return nil, err
	}
	resp := ToTemplateResponse(tmpl)
	return &resp, nil
}

// SetActive enables or disables a template
func (s *TemplateService) SetActive(ctx context.Context, tenantID, id uuid.UUID, active bool) (*TemplateResponse, error) {
	tmpl, err := s.templateRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	tmpl.SetActive(active)
	if err := s.templateRepo.Save(ctx, tmpl); err != nil {
		return nil, err
	}
	resp := ToTemplateResponse(tmpl)
	return &resp, nil
}

// Delete removes a template no campaign uses
func (s *TemplateService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.templateRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	inUse, err := s.templateRepo.IsInUse(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if inUse {
		return shared.NewInvalidStateError("Template is used by a campaign")
	}
	return s.templateRepo.DeleteForTenant(ctx, tenantID, id)
}

// Preview renders the template with sample data
func (s *TemplateService) Preview(ctx context.Context, tenantID, id uuid.UUID) (*PreviewResponse, error) {
	tmpl, err := s.templateRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	subject, body, err := tmpl.Render(sampleMessage)
	if err != nil {
		return nil, shared.NewValidationError("body", err.Error())
	}
	return &PreviewResponse{Subject: subject, Body: body}, nil
}

var sampleMessage = collection.MessageData{
	Member: collection.MemberData{
		Name:               "Maria da Silva",
		RegistrationNumber: "000123",
		Email:              "maria@example.com",
		Phone:              "(11) 99999-0000",
	},
	Dues: collection.DuesData{
		Period:      "2024-03",
		DueDate:     "10/03/2024",
		Amount:      "R$ 150,00",
		Total:       "R$ 153,00",
		DaysOverdue: 12,
	},
	Club: collection.ClubData{Name: "Clube Exemplo", Phone: "(11) 3333-0000"},
}
