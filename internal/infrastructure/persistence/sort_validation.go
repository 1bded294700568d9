package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

func sortFields(extra ...string) map[string]bool {
	m := map[string]bool{"id": true, "created_at": true, "updated_at": true}
	for _, f := range extra {
		m[f] = true
	}
	return m
}

var (
	UserSortFields         = sortFields("username", "email", "display_name", "role", "status", "last_login_at")
	MemberSortFields       = sortFields("name", "registration_number", "admission_date", "status", "birth_date")
	CategorySortFields     = sortFields("name", "monthly_fee", "due_day")
	AffiliationSortFields  = sortFields("name", "discount_percent")
	DuesSortFields         = sortFields("period", "due_date", "payment_date", "amount", "status")
	CashBoxSortFields      = sortFields("name", "opening_balance")
	ChartAccountSortFields = sortFields("code", "name", "kind")
	LedgerEntrySortFields  = sortFields("entry_date", "amount", "description")
	AccountSortFields      = sortFields("due_date", "payment_date", "amount", "status", "kind", "description")
	EventSortFields        = sortFields("title", "starts_at", "status")
	TemplateSortFields     = sortFields("name", "channel")
	CampaignSortFields     = sortFields("name", "status")
	DispatchSortFields     = sortFields("status", "sent_at")
	SupplierSortFields     = sortFields("name", "trade_name", "document", "status")
)
