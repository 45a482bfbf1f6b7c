package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/supermarket-api/pkg/apperror"
	"github.com/sangkips/supermarket-api/pkg/pagination"
)

// APIResponse is the envelope every JSON endpoint answers with
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// Meta ties a response to the request log line
type Meta struct {
	Timestamp string `json:"timestamp"`
	RequestID string `json:"request_id"`
}

func newMeta(c *gin.Context) *Meta {
	requestID := c.GetString("request_id")
	if requestID == "" {
		requestID = c.GetHeader("X-Request-ID")
	}
	if requestID == "" {
		requestID = uuid.New().String()
	}
	return &Meta{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: requestID,
	}
}

func write(c *gin.Context, status int, body APIResponse) {
	body.Meta = newMeta(c)
	c.JSON(status, body)
}

// Success sends data with the given status
func Success(c *gin.Context, statusCode int, message string, data interface{}) {
	write(c, statusCode, APIResponse{Success: true, Message: message, Data: data})
}

// SuccessWithPagination sends one page of a listing
func SuccessWithPagination[T any](c *gin.Context, statusCode int, message string, result *pagination.PaginatedResult[T]) {
	write(c, statusCode, APIResponse{Success: true, Message: message, Data: result})
}

// OK sends a 200 response
func OK(c *gin.Context, message string, data interface{}) {
	Success(c, http.StatusOK, message, data)
}

// Created sends a 201 response
func Created(c *gin.Context, message string, data interface{}) {
	Success(c, http.StatusCreated, message, data)
}

// NoContent sends an empty 204 response
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error maps err to its status code and field details
func Error(c *gin.Context, err error) {
	appErr := apperror.GetAppError(err)
	write(c, appErr.Code, APIResponse{Message: appErr.Message, Errors: appErr.Errors})
}

// ValidationError sends a 422 listing the offending fields
func ValidationError(c *gin.Context, errors []apperror.FieldError) {
	Error(c, apperror.NewValidationError(errors))
}

// BadRequest sends a 400 for a body or query that could not be read
func BadRequest(c *gin.Context, message string) {
	write(c, http.StatusBadRequest, APIResponse{Message: message})
}

// Unauthorized sends a 401
func Unauthorized(c *gin.Context, message string) {
	write(c, http.StatusUnauthorized, APIResponse{Message: message})
}

// TooManyRequests sends a 429
func TooManyRequests(c *gin.Context, message string) {
	write(c, http.StatusTooManyRequests, APIResponse{Message: message})
}
