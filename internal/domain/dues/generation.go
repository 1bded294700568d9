package dues

import (
	"fmt"

	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DefaultLookahead = 1
	MaxLookahead     = 12
)

// Billable is an active member with the fee and due day of its category
type Billable struct {
	MemberID uuid.UUID
	Fee      decimal.Decimal
	DueDay   int
}

// ExistingSet holds the members that already have a record, per period
type ExistingSet map[Period]map[uuid.UUID]struct{}

// Add marks memberID as billed for period
func (s ExistingSet) Add(period Period, memberID uuid.UUID) {
	members, ok := s[period]
	if !ok {
		members = make(map[uuid.UUID]struct{})
		s[period] = members
	}
	members[memberID] = struct{}{}
}

// Has reports whether memberID already has a record for period
func (s ExistingSet) Has(period Period, memberID uuid.UUID) bool {
	_, ok := s[period][memberID]
	return ok
}

// GenerationPlan is the set difference between billable members and existing records
type GenerationPlan struct {
	Records []*DuesRecord
	Ignored int
}

// ValidateLookahead checks the number of months a run may cover
func ValidateLookahead(months int) error {
	if months < 1 || months > MaxLookahead {
		return shared.NewValidationError("months", fmt.Sprintf("Must be between 1 and %d", MaxLookahead))
	}
	return nil
}

// PlanGeneration builds the records missing for every (member, period) pair.
// Members whose category fee is not positive, or has no due day, are counted as
// ignored for every period they lack a record in.
func PlanGeneration(tenantID uuid.UUID, periods []Period, members []Billable, existing ExistingSet) (*GenerationPlan, error) {
	plan := &GenerationPlan{}
	for _, period := range periods {
		for _, m := range members {
			if existing.Has(period, m.MemberID) {
				continue
			}
			if !m.Fee.IsPositive() || m.DueDay < 1 {
				plan.Ignored++
				continue
			}
			record, err := NewDuesRecord(tenantID, m.MemberID, period, m.Fee, period.DueDate(m.DueDay), OriginGenerated)
			if err != nil {
				return nil, err
			}
			plan.Records = append(plan.Records, record)
		}
	}
	return plan, nil
}

// GenerationResult is the human-readable outcome of a run
type GenerationResult struct {
	Created int
	Ignored int
	Periods []Period
}

// String renders the result the way maintenance triggers print it
func (r GenerationResult) String() string {
	return fmt.Sprintf("created=%d ignored=%d", r.Created, r.Ignored)
}
