package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashFlowRow is one entry of a statement with the balance after it
type CashFlowRow struct {
	EntryID        uuid.UUID
	EntryDate      time.Time
	Description    string
	ChartAccountID *uuid.UUID
	Source         EntrySource
	Amount         decimal.Decimal
	RunningBalance decimal.Decimal
}

// CashFlowStatement is the movement of one cash box over a date range
type CashFlowStatement struct {
	CashBoxID      uuid.UUID
	From           time.Time
	To             time.Time
	OpeningBalance decimal.Decimal
	// BalanceBefore is opening balance plus every entry dated before From
	BalanceBefore  decimal.Decimal
	Rows           []CashFlowRow
	TotalInflow    decimal.Decimal
	TotalOutflow   decimal.Decimal
	ClosingBalance decimal.Decimal
}

// BuildCashFlowStatement computes the running balance:
// opening + sum(before range) + cumulative sum of in-range entries.
// entries must already be ordered by date.
func BuildCashFlowStatement(box *CashBox, from, to time.Time, sumBefore decimal.Decimal, entries []LedgerEntry) *CashFlowStatement {
	st := &CashFlowStatement{
		CashBoxID:      box.ID,
		From:           DateOnly(from),
		To:             DateOnly(to),
		OpeningBalance: box.OpeningBalance,
		BalanceBefore:  box.OpeningBalance.Add(sumBefore),
		Rows:           make([]CashFlowRow, 0, len(entries)),
		TotalInflow:    decimal.Zero,
		TotalOutflow:   decimal.Zero,
	}

	balance := st.BalanceBefore
	for _, e := range entries {
		balance = balance.Add(e.Amount)
		if e.Amount.IsPositive() {
			st.TotalInflow = st.TotalInflow.Add(e.Amount)
		} else {
			st.TotalOutflow = st.TotalOutflow.Add(e.Amount.Abs())
		}
		st.Rows = append(st.Rows, CashFlowRow{
			EntryID:        e.ID,
			EntryDate:      e.EntryDate,
			Description:    e.Description,
			ChartAccountID: e.ChartAccountID,
			Source:         e.Source,
			Amount:         e.Amount,
			RunningBalance: balance,
		})
	}
	st.ClosingBalance = balance
	return st
}

// ChartAccountTotal is the sum of entries posted to one chart account
type ChartAccountTotal struct {
	ChartAccountID *uuid.UUID
	Name           string
	Total          decimal.Decimal
}

// IncomeStatement is the simple DRE: revenue and expense grouped by chart account
type IncomeStatement struct {
	From          time.Time
	To            time.Time
	Revenues      []ChartAccountTotal
	Expenses      []ChartAccountTotal
	TotalRevenue  decimal.Decimal
	TotalExpenses decimal.Decimal
	Result        decimal.Decimal
}

// BuildIncomeStatement splits signed per-account sums into revenue (positive) and
// expense (negative, reported as absolute values). Result = revenue - expenses.
func BuildIncomeStatement(from, to time.Time, positives, negatives []ChartAccountTotal) *IncomeStatement {
	st := &IncomeStatement{
		From:          DateOnly(from),
		To:            DateOnly(to),
		Revenues:      make([]ChartAccountTotal, 0, len(positives)),
		Expenses:      make([]ChartAccountTotal, 0, len(negatives)),
		TotalRevenue:  decimal.Zero,
		TotalExpenses: decimal.Zero,
	}
	for _, p := range positives {
		st.TotalRevenue = st.TotalRevenue.Add(p.Total)
		st.Revenues = append(st.Revenues, p)
	}
	for _, n := range negatives {
		abs := n.Total.Abs()
		st.TotalExpenses = st.TotalExpenses.Add(abs)
		st.Expenses = append(st.Expenses, ChartAccountTotal{ChartAccountID: n.ChartAccountID, Name: n.Name, Total: abs})
	}
	st.Result = st.TotalRevenue.Sub(st.TotalExpenses)
	return st
}
