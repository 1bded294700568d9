package membership

import (
	"errors"
	"testing"
	"time"

	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validCPF = "529.982.247-25"

func newTestCategory(t *testing.T, tenantID uuid.UUID) *Category {
	t.Helper()
	c, err := NewCategory(tenantID, "Titular", decimal.RequireFromString("150.00"), 10)
	require.NoError(t, err)
	return c
}

func newTestMember(t *testing.T, tenantID uuid.UUID) *Member {
	t.Helper()
	m, err := NewMember(tenantID, NewMemberInput{
		RegistrationNumber: "0001",
		Name:               "Maria Souza",
		CPF:                validCPF,
		Category:           newTestCategory(t, tenantID),
	})
	require.NoError(t, err)
	return m
}

func TestNewCategory(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates billable category", func(t *testing.T) {
		c := newTestCategory(t, tenantID)
		assert.Equal(t, 1, c.Version)
		assert.True(t, c.IsBillable())
	})

	t.Run("zero fee is allowed but not billable", func(t *testing.T) {
		c, err := NewCategory(tenantID, "Remido", decimal.Zero, 10)
		require.NoError(t, err)
		assert.False(t, c.IsBillable())
	})

	t.Run("rejects invalid terms", func(t *testing.T) {
		_, err := NewCategory(tenantID, "", decimal.NewFromInt(-1), 32)
		var v *shared.ValidationError
		require.True(t, errors.As(err, &v))
		assert.Len(t, v.Fields, 3)
	})
}

func TestNewMember(t *testing.T) {
	tenantID := uuid.New()

	t.Run("enrolls an active member", func(t *testing.T) {
		m := newTestMember(t, tenantID)
		assert.Equal(t, MemberStatusActive, m.Status)
		assert.Equal(t, "52998224725", m.CPF.Digits())
		assert.False(t, m.AdmissionDate.IsZero())
		assert.Equal(t, 1, m.Version)
		events := m.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeMemberEnrolled, events[0].EventType())
	})

	t.Run("rejects invalid CPF", func(t *testing.T) {
		_, err := NewMember(tenantID, NewMemberInput{
			RegistrationNumber: "0002",
			Name:               "João",
			CPF:                "123.456.789-00",
			Category:           newTestCategory(t, tenantID),
		})
		var v *shared.ValidationError
		require.True(t, errors.As(err, &v))
		assert.Equal(t, "cpf", v.Fields[0].Field)
	})

	t.Run("rejects category of another club", func(t *testing.T) {
		_, err := NewMember(tenantID, NewMemberInput{
			RegistrationNumber: "0003",
			Name:               "João",
			CPF:                validCPF,
			Category:           newTestCategory(t, uuid.New()),
		})
		assert.ErrorIs(t, err, shared.ErrCrossTenant)
	})
}

func TestMember_ChangeStatus(t *testing.T) {
	tests := []struct {
		from    MemberStatus
		to      MemberStatus
		allowed bool
	}{
		{MemberStatusActive, MemberStatusSuspended, true},
		{MemberStatusSuspended, MemberStatusActive, true},
		{MemberStatusInactive, MemberStatusActive, true},
		{MemberStatusSuspended, MemberStatusInactive, false},
		{MemberStatusActive, MemberStatusCanceled, true},
		{MemberStatusCanceled, MemberStatusActive, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			m := newTestMember(t, uuid.New())
			m.Status = tt.from
			err := m.ChangeStatus(tt.to, "board decision")
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, tt.to, m.Status)
				assert.Equal(t, "board decision", m.StatusReason)
			} else {
				assert.True(t, errors.Is(err, shared.ErrInvalidState))
				assert.Equal(t, tt.from, m.Status)
			}
		})
	}
}

func TestMember_Dependents(t *testing.T) {
	m := newTestMember(t, uuid.New())
	birth := time.Date(2015, 6, 1, 0, 0, 0, 0, time.UTC)

	d, err := m.AddDependent(DependentInput{Name: "Ana", BirthDate: &birth, Relationship: "child"})
	require.NoError(t, err)
	assert.Equal(t, RelationshipChild, d.Relationship)
	assert.Equal(t, m.ID, d.MemberID)
	require.Len(t, m.Dependents, 1)

	_, err = m.AddDependent(DependentInput{Name: "Pedro", CPF: validCPF, Relationship: RelationshipSpouse})
	assert.True(t, errors.Is(err, shared.ErrValidation), "dependent cannot reuse the member's CPF")

	_, err = m.AddDependent(DependentInput{Name: "Pedro", Relationship: "cousin"})
	assert.True(t, errors.Is(err, shared.ErrValidation))

	require.NoError(t, m.RemoveDependent(d.ID))
	assert.Empty(t, m.Dependents)
	assert.True(t, errors.Is(m.RemoveDependent(d.ID), shared.ErrNotFound))
}

func TestMember_UpdateProfile(t *testing.T) {
	m := newTestMember(t, uuid.New())

	err := m.UpdateProfile(ProfileInput{Name: "Maria S. Lima", Email: "Maria@Example.com"})
	require.NoError(t, err)
	assert.Equal(t, "maria@example.com", m.Email)

	err = m.UpdateProfile(ProfileInput{Name: "Maria", Email: "not-an-email"})
	assert.True(t, errors.Is(err, shared.ErrValidation))
}

func TestMember_Age(t *testing.T) {
	m := newTestMember(t, uuid.New())
	assert.Equal(t, -1, m.Age(time.Now()))

	birth := time.Date(1990, 8, 20, 0, 0, 0, 0, time.UTC)
	m.BirthDate = &birth
	assert.Equal(t, 35, m.Age(time.Date(2026, 8, 19, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 36, m.Age(time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)))
}
