package handler

import (
	"errors"
	"net/http"
	"strconv"

	domainerr "github.com/ledgertriage/ledgertriage/internal/domain/error"
	coreport "github.com/ledgertriage/ledgertriage/internal/domain/port/core"
	"github.com/ledgertriage/ledgertriage/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// StatusCode maps a domain error onto an HTTP status
func StatusCode(err error) int {
	switch {
	case domainerr.IsNotFoundError(err):
		return http.StatusNotFound
	case domainerr.IsMalformedRuleError(err):
		return http.StatusUnprocessableEntity
	case domainerr.IsConflictError(err):
		return http.StatusConflict
	case domainerr.IsValidationError(err):
		return http.StatusBadRequest
	case domainerr.IsStorageFailure(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes the matching error response
func respondError(c *gin.Context, logger coreport.Logger, message string, err error) {
	status := StatusCode(err)

	fields := map[string]any{
		"path":   c.FullPath(),
		"status": status,
		"error":  err.Error(),
	}
	var withFields interface{ LogFields() map[string]any }
	if errors.As(err, &withFields) {
		for k, v := range withFields.LogFields() {
			fields[k] = v
		}
	}

	if status >= http.StatusInternalServerError {
		logger.Error(message, fields)
	} else {
		logger.Warn(message, fields)
	}

	body := dto.ErrorResponse{
		Code:    domainerr.ErrorCode(err),
		Message: err.Error(),
	}
	if status == http.StatusInternalServerError {
		body.Message = "Internal server error"
	}
	c.JSON(status, body)
}

// invalidRequest writes a 400 for a malformed request body or parameter
func invalidRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
		Message: message,
	})
}

// parseID reads a positive numeric path parameter
func parseID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		invalidRequest(c, "Invalid "+name+" format")
		return 0, false
	}
	return id, true
}
