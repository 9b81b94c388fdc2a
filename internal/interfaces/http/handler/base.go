// Package handler maps HTTP routes onto application services.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mealportal/backend/internal/domain/shared"
	"github.com/mealportal/backend/internal/interfaces/http/dto"
	"github.com/mealportal/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getActorID extracts the acting user's id from JWT claims. The
// X-User-ID header is a development fallback for requests that bypass
// the auth middleware.
func getActorID(c *gin.Context) int64 {
	if id := middleware.GetJWTUserID(c); id != 0 {
		return id
	}
	if raw := c.GetHeader("X-User-ID"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return id
		}
	}
	return 0
}

// pathID parses a numeric path parameter.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Success sends a successful envelope.
func (h *BaseHandler) Success(c *gin.Context, action string, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(action, data))
}

// Failed sends a failed envelope on HTTP 200. Domain failures are part
// of the API contract and do not use error status codes.
func (h *BaseHandler) Failed(c *gin.Context, action, message string) {
	c.JSON(http.StatusOK, dto.NewFailedResponse(action, message))
}

// BadRequest sends a failed envelope for malformed input.
func (h *BaseHandler) BadRequest(c *gin.Context, action, message string) {
	c.JSON(http.StatusBadRequest, dto.NewFailedResponse(action, message))
}

// Error maps a service error onto the wire: domain failures ride an
// HTTP 200 failed envelope, everything else becomes a 500.
func (h *BaseHandler) Error(c *gin.Context, action string, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) && domainErr.Code != "INTERNAL_ERROR" {
		h.Failed(c, action, domainErr.Message)
		return
	}
	c.JSON(http.StatusInternalServerError, dto.NewFailedResponse(action, "Unexpected error"))
}
