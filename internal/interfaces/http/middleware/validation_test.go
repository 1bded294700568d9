package middleware

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clubForm struct {
	Document string `json:"document" validate:"omitempty,document"`
	State    string `json:"state" validate:"omitempty,uf"`
	Month    string `json:"month" validate:"omitempty,yearmonth"`
	Timezone string `json:"timezone" validate:"omitempty,timezone"`
	Name     string `json:"name" validate:"required"`
}

func newTestValidator() *validator.Validate {
	v := validator.New()
	RegisterClubValidations(v)
	return v
}

func TestClubValidations(t *testing.T) {
	v := newTestValidator()

	valid := clubForm{
		Document: "529.982.247-25",
		State:    "sp",
		Month:    "2025-03",
		Timezone: "America/Manaus",
		Name:     "Ana",
	}
	assert.NoError(t, v.Struct(valid))

	tests := []struct {
		name  string
		mod   func(*clubForm)
		field string
	}{
		{"bad cpf", func(f *clubForm) { f.Document = "111.111.111-11" }, "Document"},
		{"bad uf", func(f *clubForm) { f.State = "XX" }, "State"},
		{"bad month", func(f *clubForm) { f.Month = "2025-13" }, "Month"},
		{"bad timezone", func(f *clubForm) { f.Timezone = "Mars/Olympus" }, "Timezone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := valid
			tt.mod(&form)
			err := v.Struct(form)
			var verrs validator.ValidationErrors
			require.True(t, errors.As(err, &verrs))
			assert.Equal(t, tt.field, verrs[0].Field())
		})
	}
}

func TestFormatValidationErrors(t *testing.T) {
	err := newTestValidator().Struct(clubForm{Month: "03/2025"})

	resp := FormatValidationErrors(err, "req-1")

	assert.False(t, resp.Success)
	assert.Equal(t, "ERR_VALIDATION", resp.Error.Code)
	assert.Equal(t, "req-1", resp.Error.RequestID)
	require.Len(t, resp.Error.Details, 2)
	byCode := map[string]string{}
	for _, d := range resp.Error.Details {
		byCode[d.Code] = d.Message
	}
	assert.Equal(t, "Must be a month in YYYY-MM format", byCode["yearmonth"])
	assert.Equal(t, "This field is required", byCode["required"])
}

func TestFormatValidationErrors_MalformedBody(t *testing.T) {
	resp := FormatValidationErrors(errors.New("unexpected EOF"), "")
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "body", resp.Error.Details[0].Field)
}
