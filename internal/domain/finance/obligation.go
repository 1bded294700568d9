package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateOnly truncates t to midnight UTC of its calendar day
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysOverdue is max(0, today - dueDate) in whole days for open obligations, else 0
func DaysOverdue(status ObligationStatus, dueDate, today time.Time) int {
	if !status.IsOpen() {
		return 0
	}
	days := int(DateOnly(today).Sub(DateOnly(dueDate)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// IsPastDue reports whether dueDate is strictly before today
func IsPastDue(dueDate, today time.Time) bool {
	return DateOnly(dueDate).Before(DateOnly(today))
}

// TotalDue is amount + interest - discount
func TotalDue(amount, interest, discount decimal.Decimal) decimal.Decimal {
	return amount.Add(interest).Sub(discount)
}
