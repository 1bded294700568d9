package membership

import (
	"strings"
	"time"

	"github.com/clube/backend/internal/domain/shared"
	"github.com/clube/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// Relationship is how a dependent relates to the member
type Relationship string

const (
	RelationshipSpouse Relationship = "SPOUSE"
	RelationshipChild  Relationship = "CHILD"
	RelationshipFather Relationship = "FATHER"
	RelationshipMother Relationship = "MOTHER"
	RelationshipOther  Relationship = "OTHER"
)

// IsValid checks if the relationship is known
func (r Relationship) IsValid() bool {
	switch r {
	case RelationshipSpouse, RelationshipChild, RelationshipFather, RelationshipMother, RelationshipOther:
		return true
	}
	return false
}

// Dependent is a family member covered by a membership. It is owned by the
// Member aggregate.
type Dependent struct {
	shared.BaseEntity
	MemberID     uuid.UUID
	Name         string
	BirthDate    *time.Time
	CPF          valueobject.Document
	Relationship Relationship
	Active       bool
}

// DependentInput holds the fields of a new dependent
type DependentInput struct {
	Name         string
	BirthDate    *time.Time
	CPF          string
	Relationship Relationship
}

func newDependent(memberID uuid.UUID, in DependentInput) (*Dependent, error) {
	name := strings.TrimSpace(in.Name)
	rel := Relationship(strings.ToUpper(string(in.Relationship)))

	v := &shared.ValidationError{}
	if name == "" {
		v.Add("name", "Name is required")
	} else if len(name) > 150 {
		v.Add("name", "Name cannot exceed 150 characters")
	}
	if !rel.IsValid() {
		v.Add("relationship", "Relationship must be SPOUSE, CHILD, FATHER, MOTHER or OTHER")
	}
	if in.BirthDate != nil && in.BirthDate.After(time.Now()) {
		v.Add("birth_date", "Birth date cannot be in the future")
	}
	var cpf valueobject.Document
	if strings.TrimSpace(in.CPF) != "" {
		doc, err := valueobject.NewCPF(in.CPF)
		if err != nil {
			v.Add("cpf", err.Error())
		}
		cpf = doc
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	return &Dependent{
		BaseEntity:   shared.NewBaseEntity(),
		MemberID:     memberID,
		Name:         name,
		BirthDate:    in.BirthDate,
		CPF:          cpf,
		Relationship: rel,
		Active:       true,
	}, nil
}
