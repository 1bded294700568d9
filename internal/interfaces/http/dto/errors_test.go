package dto

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainCodesReachTheRightStatus(t *testing.T) {
	tests := []struct {
		domainCode string
		apiCode    string
		status     int
	}{
		{"VALIDATION_ERROR", ErrCodeValidation, http.StatusBadRequest},
		{"INVALID_INPUT", ErrCodeInvalidInput, http.StatusBadRequest},
		{"NOT_FOUND", ErrCodeNotFound, http.StatusNotFound},
		{"ALREADY_EXISTS", ErrCodeAlreadyExists, http.StatusConflict},
		{"CONCURRENCY_CONFLICT", ErrCodeConcurrencyConflict, http.StatusConflict},
		{"INVALID_STATE", ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{"CONFIGURATION_ERROR", ErrCodeConfiguration, http.StatusUnprocessableEntity},
		{"CROSS_TENANT_REFERENCE", ErrCodeCrossTenant, http.StatusUnprocessableEntity},
		{"INVALID_CREDENTIALS", ErrCodeInvalidCredentials, http.StatusUnauthorized},
		{"ACCOUNT_LOCKED", ErrCodeAccountLocked, http.StatusLocked},
		{"USER_DEACTIVATED", ErrCodeAccountInactive, http.StatusForbidden},
		{"TENANT_INACTIVE", ErrCodeTenantInactive, http.StatusForbidden},
		{"PASSWORD_HASH_ERROR", ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.domainCode, func(t *testing.T) {
			code := NormalizeErrorCode(tt.domainCode)
			assert.Equal(t, tt.apiCode, code)
			assert.Equal(t, tt.status, GetHTTPStatus(code))
		})
	}
}

func TestNormalizeErrorCode_Prefixes(t *testing.T) {
	assert.Equal(t, ErrCodeInvalidState, NormalizeErrorCode("ALREADY_PAID"))
	assert.Equal(t, ErrCodeInvalidState, NormalizeErrorCode("CANNOT_DELETE_PAID_DUES"))
	assert.Equal(t, ErrCodeInvalidInput, NormalizeErrorCode("INVALID_PERIOD"))
	assert.Equal(t, ErrCodeRateLimited, NormalizeErrorCode(ErrCodeRateLimited))
	assert.Equal(t, "SOMETHING_ELSE", NormalizeErrorCode("SOMETHING_ELSE"))
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus("SOMETHING_ELSE"))
}

func TestEveryMappedCodeHasAStatus(t *testing.T) {
	for domainCode, apiCode := range LegacyErrorCodeMapping {
		_, ok := ErrorCodeHTTPStatus[apiCode]
		assert.True(t, ok, "%s maps to %s which has no status", domainCode, apiCode)
	}
	for code := range ErrorCodeHTTPStatus {
		assert.True(t, strings.HasPrefix(code, "ERR_"), code)
		assert.Equal(t, strings.ToUpper(code), code)
	}
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	before := time.Now()
	resp := NewErrorResponseWithRequestID("CONFIGURATION_ERROR", "Dues revenue account is not mapped", "req-42")

	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeConfiguration, resp.Error.Code)
	assert.Equal(t, "req-42", resp.Error.RequestID)
	assert.False(t, resp.Error.Timestamp.Before(before))
}

func TestNewValidationErrorResponse(t *testing.T) {
	resp := NewValidationErrorResponse("Validation failed", "req-7", []ValidationDetail{
		{Field: "guests", Message: "Only 2 guests per member", Code: "max"},
		{Field: "ends_at", Message: "End must be after start"},
	})

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))

	assert.Equal(t, false, body["success"])
	assert.NotContains(t, body, "data")
	errInfo := body["error"].(map[string]any)
	assert.Equal(t, ErrCodeValidation, errInfo["code"])
	details := errInfo["details"].([]any)
	require.Len(t, details, 2)
	assert.Equal(t, "guests", details[0].(map[string]any)["field"])
	assert.NotContains(t, details[1].(map[string]any), "code")
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	tests := []struct {
		name      string
		total     int64
		pageSize  int
		wantPages int
		wantSize  int
	}{
		{"exact pages", 40, 20, 2, 20},
		{"partial last page", 41, 20, 3, 20},
		{"empty", 0, 20, 0, 20},
		{"size defaults", 45, 0, 3, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := NewSuccessResponseWithMeta([]string{"Ana"}, tt.total, 1, tt.pageSize)
			assert.True(t, resp.Success)
			require.NotNil(t, resp.Meta)
			assert.Equal(t, tt.wantPages, resp.Meta.TotalPages)
			assert.Equal(t, tt.wantSize, resp.Meta.PageSize)
			assert.Equal(t, tt.total, resp.Meta.Total)
		})
	}

	plain := NewSuccessResponse("ok")
	assert.Nil(t, plain.Meta)
	assert.Nil(t, plain.Error)
}
