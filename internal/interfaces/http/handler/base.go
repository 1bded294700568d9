// Package handler holds the gin handlers of the club API. Handlers bind and
// validate requests, call one application service and map the result.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/clube/backend/internal/domain/shared"
	"github.com/clube/backend/internal/infrastructure/logger"
	"github.com/clube/backend/internal/interfaces/http/dto"
	"github.com/clube/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// errNoTenant means the route was mounted without the tenant middleware
var errNoTenant = errors.New("tenant not found in context")

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getUserID extracts the caller's user ID from the JWT claims
func getUserID(c *gin.Context) (uuid.UUID, error) {
	raw := middleware.GetJWTUserID(c)
	if raw == "" {
		return uuid.Nil, errors.New("user ID not found in context")
	}
	return uuid.Parse(raw)
}

// getTenantID returns the tenant resolved by the tenant middleware
func getTenantID(c *gin.Context) (uuid.UUID, error) {
	raw := middleware.GetTenantID(c)
	if raw == "" {
		return uuid.Nil, errNoTenant
	}
	return uuid.Parse(raw)
}

// tenantAndID resolves the tenant and the :id path parameter, writing the
// error response itself when either is missing
func (h *BaseHandler) tenantAndID(c *gin.Context, param string) (uuid.UUID, uuid.UUID, bool) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		h.BadRequest(c, "Invalid "+param+" format")
		return uuid.Nil, uuid.Nil, false
	}
	return tenantID, id, true
}

func (h *BaseHandler) tenant(c *gin.Context) (uuid.UUID, bool) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return uuid.Nil, false
	}
	return tenantID, true
}

// bindJSON binds the body, answering 400 with field details on failure
func (h *BaseHandler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// bindQuery binds query parameters, answering 400 with field details on failure
func (h *BaseHandler) bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Paginated sends a page of results with meta
func Paginated[T any](h *BaseHandler, c *gin.Context, page *shared.Paginated[T]) {
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleError converts application errors to HTTP responses. Field
// validation failures carry their details; unknown errors are logged and
// hidden behind a generic 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID := middleware.GetRequestID(c)

	var validationErr *shared.ValidationError
	if errors.As(err, &validationErr) {
		details := make([]dto.ValidationDetail, 0, len(validationErr.Fields))
		for _, f := range validationErr.Fields {
			details = append(details, dto.ValidationDetail{Field: f.Field, Message: f.Message})
		}
		c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse("Validation failed", requestID, details))
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, domainErr.Message, requestID))
		return
	}

	logger.L(c.Request.Context()).Error("Unhandled request error",
		zap.String("path", c.FullPath()),
		zap.Error(err))
	h.InternalError(c, "An unexpected error occurred")
}

// listQuery is the common paging and search query string
type listQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (q listQuery) filter() shared.Filter {
	return shared.Filter{
		Page:     q.Page,
		PageSize: q.PageSize,
		Search:   q.Search,
		OrderBy:  q.OrderBy,
		OrderDir: q.OrderDir,
	}.Normalize()
}

// queryUUID reads an optional UUID query parameter. A malformed value is
// answered with 400 and ok=false.
func (h *BaseHandler) queryUUID(c *gin.Context, key string) (id *uuid.UUID, ok bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		h.BadRequest(c, "Invalid "+key+" format")
		return nil, false
	}
	return &parsed, true
}

// queryInt reads an integer query parameter, falling back to def
func queryInt(c *gin.Context, key string, def int) int {
	if v, err := strconv.Atoi(c.Query(key)); err == nil {
		return v
	}
	return def
}
