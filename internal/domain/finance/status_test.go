package finance

import (
	"errors"
	"testing"
	"time"

	"github.com/clube/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestObligationStatus_Transitions(t *testing.T) {
	tests := []struct {
		from    ObligationStatus
		to      ObligationStatus
		allowed bool
	}{
		{StatusPending, StatusPaid, true},
		{StatusPending, StatusOverdue, true},
		{StatusPending, StatusCanceled, true},
		{StatusOverdue, StatusPaid, true},
		{StatusOverdue, StatusCanceled, true},
		{StatusOverdue, StatusPending, true},
		{StatusCanceled, StatusPaid, false},
		{StatusCanceled, StatusPending, true},
		{StatusPaid, StatusPending, false},
		{StatusPaid, StatusCanceled, false},
		{StatusPaid, StatusPaid, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
			err := tt.from.ValidateTransition(tt.to)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, shared.ErrInvalidState))
			}
		})
	}
}

func TestObligationStatus_Predicates(t *testing.T) {
	assert.True(t, StatusPending.IsOpen())
	assert.True(t, StatusOverdue.IsOpen())
	assert.False(t, StatusPaid.IsOpen())
	assert.False(t, StatusCanceled.IsOpen())
	assert.True(t, StatusPaid.IsTerminal())
	assert.False(t, StatusCanceled.IsTerminal())
	assert.False(t, ObligationStatus("LATE").IsValid())
}

func TestParseObligationStatus(t *testing.T) {
	s, err := ParseObligationStatus(" overdue ")
	assert.NoError(t, err)
	assert.Equal(t, StatusOverdue, s)

	_, err = ParseObligationStatus("late")
	assert.Error(t, err)
}

func TestDaysOverdue(t *testing.T) {
	due := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	today := time.Date(2026, 3, 25, 15, 30, 0, 0, time.UTC)

	assert.Equal(t, 15, DaysOverdue(StatusOverdue, due, today))
	assert.Equal(t, 15, DaysOverdue(StatusPending, due, today))
	assert.Equal(t, 0, DaysOverdue(StatusPaid, due, today))
	assert.Equal(t, 0, DaysOverdue(StatusCanceled, due, today))
	assert.Equal(t, 0, DaysOverdue(StatusPending, today.AddDate(0, 0, 3), today))
}

func TestIsPastDue(t *testing.T) {
	today := time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)
	assert.False(t, IsPastDue(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), today))
	assert.True(t, IsPastDue(time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), today))
}

func TestTotalDue(t *testing.T) {
	total := TotalDue(decimal.RequireFromString("150.00"), decimal.RequireFromString("15.00"), decimal.RequireFromString("5.50"))
	assert.True(t, total.Equal(decimal.RequireFromString("159.50")))
}
