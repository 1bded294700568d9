package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clube/backend/internal/domain/shared"
	"github.com/clube/backend/internal/interfaces/http/dto"
	"github.com/clube/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(method, target string) (*gin.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(method, target, nil)
	return c, rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", shared.NewNotFoundError("Member"), http.StatusNotFound, dto.ErrCodeNotFound},
		{"wrapped not found", fmt.Errorf("load: %w", shared.ErrNotFound), http.StatusNotFound, dto.ErrCodeNotFound},
		{"invalid state", shared.NewInvalidStateError("already paid"), http.StatusUnprocessableEntity, dto.ErrCodeInvalidState},
		{"configuration", shared.NewConfigurationError("no revenue account"), http.StatusUnprocessableEntity, dto.ErrCodeConfiguration},
		{"validation", shared.NewValidationError("months", "out of range"), http.StatusBadRequest, dto.ErrCodeValidation},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestContext(http.MethodGet, "/")
			c.Set(middleware.RequestIDKey, "req-1")
			h := &BaseHandler{}

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			resp := decodeResponse(t, rec)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, "req-1", resp.Error.RequestID)
		})
	}
}

func TestBaseHandler_HandleErrorValidationDetails(t *testing.T) {
	c, rec := newTestContext(http.MethodPost, "/")
	h := &BaseHandler{}

	h.HandleError(c, shared.NewValidationError("period", "must be YYYY-MM"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "period", resp.Error.Details[0].Field)
	assert.Equal(t, "must be YYYY-MM", resp.Error.Details[0].Message)
}

func TestBaseHandler_HandleErrorNil(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/")
	(&BaseHandler{}).HandleError(c, nil)
	assert.Empty(t, rec.Body.String())
}

func TestBaseHandler_TenantAndID(t *testing.T) {
	tenantID := uuid.New()
	id := uuid.New()

	t.Run("resolves both", func(t *testing.T) {
		c, _ := newTestContext(http.MethodGet, "/")
		c.Set(middleware.TenantIDKey, tenantID.String())
		c.Params = gin.Params{{Key: "id", Value: id.String()}}

		gotTenant, gotID, ok := (&BaseHandler{}).tenantAndID(c, "id")
		require.True(t, ok)
		assert.Equal(t, tenantID, gotTenant)
		assert.Equal(t, id, gotID)
	})

	t.Run("missing tenant", func(t *testing.T) {
		c, rec := newTestContext(http.MethodGet, "/")
		c.Params = gin.Params{{Key: "id", Value: id.String()}}

		_, _, ok := (&BaseHandler{}).tenantAndID(c, "id")
		assert.False(t, ok)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		c, rec := newTestContext(http.MethodGet, "/")
		c.Set(middleware.TenantIDKey, tenantID.String())
		c.Params = gin.Params{{Key: "id", Value: "42"}}

		_, _, ok := (&BaseHandler{}).tenantAndID(c, "id")
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid id format", decodeResponse(t, rec).Error.Message)
	})
}

func TestBaseHandler_QueryUUID(t *testing.T) {
	h := &BaseHandler{}
	memberID := uuid.New()

	c, _ := newTestContext(http.MethodGet, "/?member_id="+memberID.String())
	got, ok := h.queryUUID(c, "member_id")
	require.True(t, ok)
	require.NotNil(t, got)
	assert.Equal(t, memberID, *got)

	c, _ = newTestContext(http.MethodGet, "/")
	got, ok = h.queryUUID(c, "member_id")
	assert.True(t, ok)
	assert.Nil(t, got)

	c, rec := newTestContext(http.MethodGet, "/?member_id=nope")
	_, ok = h.queryUUID(c, "member_id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListQuery_Filter(t *testing.T) {
	f := listQuery{}.filter()
	assert.Positive(t, f.Page)
	assert.Positive(t, f.PageSize)

	f = listQuery{Page: 3, PageSize: 25, Search: "ana", OrderDir: "desc"}.filter()
	assert.Equal(t, 3, f.Page)
	assert.Equal(t, 25, f.PageSize)
	assert.Equal(t, "ana", f.Search)
	assert.Equal(t, "desc", f.OrderDir)
}

func TestPaginated(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/")
	page := &shared.Paginated[string]{Items: []string{"a", "b"}, Total: 12, Page: 2, PageSize: 2}

	Paginated(&BaseHandler{}, c, page)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(12), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 6, resp.Meta.TotalPages)
}

func TestQueryInt(t *testing.T) {
	c, _ := newTestContext(http.MethodGet, "/?limit=7&bad=x")
	assert.Equal(t, 7, queryInt(c, "limit", 1))
	assert.Equal(t, 1, queryInt(c, "bad", 1))
	assert.Equal(t, 5, queryInt(c, "missing", 5))
}
