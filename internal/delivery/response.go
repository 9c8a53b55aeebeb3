package delivery

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"product_tracker/internal/usecase"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Status:  "error",
		Message: message,
	})
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, usecase.ErrInvalidCredentials),
		errors.Is(err, usecase.ErrNotAdmin):
		return http.StatusUnauthorized
	case errors.Is(err, usecase.ErrUserInactive),
		errors.Is(err, usecase.ErrDiscountNeedsAdmin):
		return http.StatusForbidden
	}

	errMsg := strings.ToLower(err.Error())

	if strings.Contains(errMsg, "not found") {
		return http.StatusNotFound
	}
	if strings.Contains(errMsg, "already exists") || strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint") {
		return http.StatusConflict
	}
	if strings.Contains(errMsg, "insufficient stock") {
		return http.StatusConflict
	}
	if strings.Contains(errMsg, "invalid") ||
		strings.Contains(errMsg, "cannot be empty") ||
		strings.Contains(errMsg, "must be positive") ||
		strings.Contains(errMsg, "must be") ||
		strings.Contains(errMsg, "cannot be negative") ||
		strings.Contains(errMsg, "cannot be deleted") ||
		strings.Contains(errMsg, "cannot be sold") ||
		strings.Contains(errMsg, "does not exist") ||
		strings.Contains(errMsg, "unknown") ||
		strings.Contains(errMsg, "archived") ||
		strings.Contains(errMsg, "at least one item") ||
		strings.Contains(errMsg, "constraint violation") {
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}
