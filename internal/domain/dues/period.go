package dues

import (
	"fmt"
	"time"

	"github.com/clube/backend/internal/domain/shared"
)

// Period identifies a billing cycle (competência) by year and month
type Period struct {
	Year  int
	Month int
}

// NewPeriod builds a period, rejecting months outside 1..12
func NewPeriod(year, month int) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, shared.NewValidationError("period", "Month must be between 1 and 12")
	}
	if year < 1900 || year > 9999 {
		return Period{}, shared.NewValidationError("period", "Year is out of range")
	}
	return Period{Year: year, Month: month}, nil
}

// PeriodOf returns the period containing t
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: int(t.Month())}
}

// ParsePeriod accepts "2006-01" or a first-of-month date "2006-01-02"
func ParsePeriod(value string) (Period, error) {
	var year, month int
	if _, err := fmt.Sscanf(value, "%4d-%2d", &year, &month); err != nil {
		return Period{}, shared.NewValidationError("period", fmt.Sprintf("Invalid period %q, expected YYYY-MM", value))
	}
	return NewPeriod(year, month)
}

// AddMonths moves the period n months, rolling the year over with integer arithmetic
func (p Period) AddMonths(n int) Period {
	month0 := p.Month - 1 + n
	yearShift := month0 / 12
	month0 %= 12
	if month0 < 0 {
		month0 += 12
		yearShift--
	}
	return Period{Year: p.Year + yearShift, Month: month0 + 1}
}

// UpcomingPeriods returns start and the n-1 periods after it
func UpcomingPeriods(start Period, n int) []Period {
	periods := make([]Period, 0, n)
	for k := 0; k < n; k++ {
		periods = append(periods, start.AddMonths(k))
	}
	return periods
}

// FirstDay returns the first-of-month date of the period in UTC
func (p Period) FirstDay() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

// DaysInMonth returns the number of calendar days of the period
func (p Period) DaysInMonth() int {
	next := p.AddMonths(1)
	return next.FirstDay().AddDate(0, 0, -1).Day()
}

// DueDate returns (year, month, day) clamped to the last day of the month
func (p Period) DueDate(day int) time.Time {
	if day < 1 {
		day = 1
	}
	if last := p.DaysInMonth(); day > last {
		day = last
	}
	return time.Date(p.Year, time.Month(p.Month), day, 0, 0, 0, 0, time.UTC)
}

// Before reports whether p is earlier than other
func (p Period) Before(other Period) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}

// IsZero reports whether the period is unset
func (p Period) IsZero() bool {
	return p.Year == 0 && p.Month == 0
}

// String formats the period as YYYY-MM
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}
