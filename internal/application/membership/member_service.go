package membership

import (
	"context"
	"errors"

	"github.com/clube/backend/internal/domain/dues"
	"github.com/clube/backend/internal/domain/membership"
	"github.com/clube/backend/internal/domain/shared"
	"github.com/clube/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MemberService handles member registry operations
type MemberService struct {
	memberRepo      membership.MemberRepository
	categoryRepo    membership.CategoryRepository
	affiliationRepo membership.AffiliationRepository
	duesRepo        dues.DuesRepository
	eventPublisher  shared.EventPublisher
	logger          *zap.Logger
}

// NewMemberService creates a new MemberService
func NewMemberService(
	memberRepo membership.MemberRepository,
	categoryRepo membership.CategoryRepository,
	affiliationRepo membership.AffiliationRepository,
	duesRepo dues.DuesRepository,
	logger *zap.Logger,
) *MemberService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemberService{
		memberRepo:      memberRepo,
		categoryRepo:    categoryRepo,
		affiliationRepo: affiliationRepo,
		duesRepo:        duesRepo,
		logger:          logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *MemberService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create enrolls a new member
func (s *MemberService) Create(ctx context.Context, tenantID uuid.UUID, req CreateMemberRequest) (*MemberResponse, error) {
	exists, err := s.memberRepo.ExistsByRegistration(ctx, tenantID, req.RegistrationNumber, nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Member with this registration number already exists")
	}
	if digits := valueobject.OnlyDigits(req.CPF); digits != "" {
		exists, err = s.memberRepo.ExistsByCPF(ctx, tenantID, digits, nil)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Member with this CPF already exists")
		}
	}

	category, err := s.category(ctx, tenantID, req.CategoryID)
	if err != nil {
		return nil, err
	}
	affiliation, err := s.affiliation(ctx, tenantID, req.AffiliationID)
	if err != nil {
		return nil, err
	}

	in := membership.NewMemberInput{
		RegistrationNumber: req.RegistrationNumber,
		ContractNumber:     req.ContractNumber,
		Name:               req.Name,
		CPF:                req.CPF,
		Category:           category,
		Affiliation:        affiliation,
	}
	if req.AdmissionDate != nil {
		in.AdmissionDate = *req.AdmissionDate
	}
	member, err := membership.NewMember(tenantID, in)
	if err != nil {
		return nil, err
	}

	address, err := req.Address.ToAddress()
	if err != nil {
		return nil, err
	}
	if err := member.UpdateProfile(membership.ProfileInput{
		Name:           req.Name,
		ContractNumber: req.ContractNumber,
		BirthDate:      req.BirthDate,
		Email:          req.Email,
		Phone:          req.Phone,
		MobilePhone:    req.MobilePhone,
		Address:        address,
		Notes:          req.Notes,
	}); err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		member.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.memberRepo.Save(ctx, member); err != nil {
		return nil, err
	}
	s.publish(ctx, member)

	resp := ToMemberResponse(member)
	return &resp, nil
}

// GetByID retrieves a member with dependents
func (s *MemberService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*MemberResponse, error) {
	member, err := s.memberRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToMemberResponse(member)
	return &resp, nil
}

// List retrieves a page of members
func (s *MemberService) List(ctx context.Context, tenantID uuid.UUID, filter MemberListFilter) (*shared.Paginated[MemberResponse], error) {
	f := membership.MemberFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			Search:   filter.Search,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
		}.Normalize(),
		CategoryID:    filter.CategoryID,
		AffiliationID: filter.AffiliationID,
	}
	if filter.Status != "" {
		status, err := membership.ParseMemberStatus(filter.Status)
		if err != nil {
			return nil, err
		}
		f.Status = &status
	}

	members, err := s.memberRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, err
	}
	total, err := s.memberRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, err
	}
	items := make([]MemberResponse, len(members))
	for i := range members {
		items[i] = ToMemberResponse(&members[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// Update replaces the member's data, category and affiliation
func (s *MemberService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateMemberRequest) (*MemberResponse, error) {
	member, err := s.memberRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	address, err := req.Address.ToAddress()
	if err != nil {
		return nil, err
	}
	if err := member.UpdateProfile(membership.ProfileInput{
		Name:           req.Name,
		ContractNumber: req.ContractNumber,
		BirthDate:      req.BirthDate,
		Email:          req.Email,
		Phone:          req.Phone,
		MobilePhone:    req.MobilePhone,
		Address:        address,
		Notes:          req.Notes,
	}); err != nil {
		return nil, err
	}

	if req.CategoryID != member.CategoryID {
		category, err := s.category(ctx, tenantID, req.CategoryID)
		if err != nil {
			return nil, err
		}
		if err := member.ChangeCategory(category); err != nil {
			return nil, err
		}
	}
	affiliation, err := s.affiliation(ctx, tenantID, req.AffiliationID)
	if err != nil {
		return nil, err
	}
	if err := member.SetAffiliation(affiliation); err != nil {
		return nil, err
	}

	if err := s.memberRepo.Save(ctx, member); err != nil {
		return nil, err
	}
	resp := ToMemberResponse(member)
	return &resp, nil
}

// ChangeStatus applies a status change
func (s *MemberService) ChangeStatus(ctx context.Context, tenantID, id uuid.UUID, req ChangeMemberStatusRequest) (*MemberResponse, error) {
	status, err := membership.ParseMemberStatus(req.Status)
	if err != nil {
		return nil, err
	}
	member, err := s.memberRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := member.ChangeStatus(status, req.Reason); err != nil {
		return nil, err
	}
	if err := s.memberRepo.Save(ctx, member); err != nil {
		return nil, err
	}
	s.logger.Info("Member status changed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("member_id", id.String()),
		zap.String("status", string(status)))
	s.publish(ctx, member)

	resp := ToMemberResponse(member)
	return &resp, nil
}

// Delete removes a member that was never billed
func (s *MemberService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.memberRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	billed, err := s.duesRepo.ExistsForMember(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if billed {
		return shared.NewInvalidStateError("Member has dues records and cannot be deleted; cancel the membership instead")
	}
	return s.memberRepo.DeleteForTenant(ctx, tenantID, id)
}

// AddDependent registers a dependent under a member
func (s *MemberService) AddDependent(ctx context.Context, tenantID, memberID uuid.UUID, req AddDependentRequest) (*MemberResponse, error) {
	member, err := s.memberRepo.FindByIDForTenant(ctx, tenantID, memberID)
	if err != nil {
		return nil, err
	}
	if _, err := member.AddDependent(membership.DependentInput{
		Name:         req.Name,
		BirthDate:    req.BirthDate,
		CPF:          req.CPF,
		Relationship: membership.Relationship(req.Relationship),
	}); err != nil {
		return nil, err
	}
	if err := s.memberRepo.Save(ctx, member); err != nil {
		return nil, err
	}
	resp := ToMemberResponse(member)
	return &resp, nil
}

// RemoveDependent removes a dependent from a member
func (s *MemberService) RemoveDependent(ctx context.Context, tenantID, memberID, dependentID uuid.UUID) (*MemberResponse, error) {
	member, err := s.memberRepo.FindByIDForTenant(ctx, tenantID, memberID)
	if err != nil {
		return nil, err
	}
	if err := member.RemoveDependent(dependentID); err != nil {
		return nil, err
	}
	if err := s.memberRepo.Save(ctx, member); err != nil {
		return nil, err
	}
	resp := ToMemberResponse(member)
	return &resp, nil
}

// category loads a category of the tenant; an unknown ID is a field error
func (s *MemberService) category(ctx context.Context, tenantID, id uuid.UUID) (*membership.Category, error) {
	category, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewValidationError("category_id", "Category not found")
	}
	return category, err
}

func (s *MemberService) affiliation(ctx context.Context, tenantID uuid.UUID, id *uuid.UUID) (*membership.Affiliation, error) {
	if id == nil {
		return nil, nil
	}
	affiliation, err := s.affiliationRepo.FindByIDForTenant(ctx, tenantID, *id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewValidationError("affiliation_id", "Affiliation not found")
	}
	return affiliation, err
}

func (s *MemberService) publish(ctx context.Context, member *membership.Member) {
	if err := shared.PublishAndClear(ctx, s.eventPublisher, member); err != nil {
		s.logger.Warn("Failed to publish member events",
			zap.String("member_id", member.ID.String()),
			zap.Error(err))
	}
}
