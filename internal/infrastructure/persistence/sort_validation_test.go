package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"asc", "ASC"},
		{" ASC ", "ASC"},
		{"desc", "DESC"},
		{"", "DESC"},
		{"asc; DROP TABLE members", "DESC"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateSortOrder(tt.in))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	assert.Equal(t, "name", ValidateSortField("name", MemberSortFields, "created_at"))
	assert.Equal(t, "due_date", ValidateSortField(" due_date ", DuesSortFields, "period"))
	assert.Equal(t, "period", ValidateSortField("", DuesSortFields, "period"))
	assert.Equal(t, "created_at", ValidateSortField("name; --", MemberSortFields, "created_at"))
	assert.Equal(t, "code", ValidateSortField("monthly_fee", ChartAccountSortFields, "code"))
}
