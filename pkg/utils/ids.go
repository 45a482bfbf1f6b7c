package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewBillID returns an 8-character uppercase code taken from a random UUID.
func NewBillID() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
}

// NewProductID returns a product id for products created without one.
func NewProductID() string {
	return "PROD-" + strings.ToUpper(uuid.New().String()[:8])
}

// NewRequestID returns a fresh request correlation id.
func NewRequestID() string {
	return uuid.New().String()
}
