package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetAppError_Mapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"validation", NewValidationError([]FieldError{{Field: "items", Message: "required"}}), http.StatusUnprocessableEntity},
		{"not found", NewNotFoundError("Bill"), http.StatusNotFound},
		{"product not found", &ProductNotFoundError{ProductID: "x"}, http.StatusNotFound},
		{"wrapped product not found", fmt.Errorf("sale: %w", &ProductNotFoundError{ProductID: "x"}), http.StatusNotFound},
		{"insufficient stock", &InsufficientStockError{ProductID: "a", ProductName: "Rice", Requested: 5, Available: 2}, http.StatusConflict},
		{"persistence", NewPersistenceError("append bill", errors.New("disk full")), http.StatusInternalServerError},
		{"conflict", NewConflictError("dup"), http.StatusConflict},
		{"bad request", NewBadRequestError("bad"), http.StatusBadRequest},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, GetAppError(tt.err).Code)
		})
	}
}

func TestGetAppError_Details(t *testing.T) {
	stock := &InsufficientStockError{ProductID: "a", ProductName: "Rice", Requested: 5, Available: 2}
	appErr := GetAppError(stock)
	assert.Equal(t, stock, appErr.Errors)
	assert.Contains(t, appErr.Message, "Available: 2")

	nf := GetAppError(&ProductNotFoundError{ProductID: "zzz"})
	assert.Equal(t, map[string]string{"product_id": "zzz"}, nf.Errors)
}

func TestPersistenceError(t *testing.T) {
	assert.Nil(t, NewPersistenceError("save", nil))

	cause := errors.New("disk full")
	err := NewPersistenceError("save catalog", cause)
	assert.ErrorIs(t, err, cause)

	var pe *PersistenceError
	assert.True(t, errors.As(err, &pe))
	assert.Equal(t, "save catalog", pe.Op)
}

func TestIsValidationError(t *testing.T) {
	assert.True(t, IsValidationError(NewValidationError(nil)))
	assert.False(t, IsValidationError(NewNotFoundError("x")))
	assert.False(t, IsValidationError(errors.New("x")))
}
