package dues

import (
	"context"
	"time"

	"github.com/clube/backend/internal/domain/finance"
	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DuesFilter defines filtering options for dues queries
type DuesFilter struct {
	shared.Filter
	Status     *finance.ObligationStatus
	MemberID   *uuid.UUID
	PeriodFrom *Period
	PeriodTo   *Period
	PaidFrom   *time.Time
}

// DelinquencyFilter restricts the delinquency report to one period
type DelinquencyFilter struct {
	Period *Period
}

// DelinquentDues is an open record joined with the member it bills
type DelinquentDues struct {
	Record             DuesRecord
	MemberName         string
	RegistrationNumber string
}

// DuesRepository defines persistence for dues records
type DuesRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*DuesRecord, error)
	// FindByIDForUpdate loads the row with a write lock; call inside a transaction
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*DuesRecord, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter DuesFilter) ([]DuesRecord, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter DuesFilter) (int64, error)
	// ExistingForPeriods returns which members already have a record in each period
	ExistingForPeriods(ctx context.Context, tenantID uuid.UUID, periods []Period) (ExistingSet, error)
	ExistsForMemberPeriod(ctx context.Context, tenantID, memberID uuid.UUID, period Period) (bool, error)
	ExistsForMember(ctx context.Context, tenantID, memberID uuid.UUID) (bool, error)
	// CreateBatch inserts all records or none
	CreateBatch(ctx context.Context, records []*DuesRecord) error
	Save(ctx context.Context, record *DuesRecord) error
	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, record *DuesRecord) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
	// MarkOverdue bulk-updates pending records due strictly before today
	MarkOverdue(ctx context.Context, tenantID uuid.UUID, today time.Time) (int64, error)
	FindDelinquent(ctx context.Context, tenantID uuid.UUID, filter DelinquencyFilter) ([]DelinquentDues, error)
}

// BillableMemberSource lists the active members of a tenant with their category
// fee and due day. affiliationID narrows the list to one affiliation.
type BillableMemberSource interface {
	ListBillable(ctx context.Context, tenantID uuid.UUID, affiliationID *uuid.UUID) ([]Billable, error)
}
