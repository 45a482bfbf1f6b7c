package entity

import (
	"time"
)

// IdempotencyKey stores a processed request so a retry replays the first response.
type IdempotencyKey struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	Key          string    `gorm:"uniqueIndex:idx_idempotency_scope_key;size:255;not null" json:"key"`
	Scope        string    `gorm:"uniqueIndex:idx_idempotency_scope_key;size:255;not null" json:"scope"` // operator or client ip
	Endpoint     string    `gorm:"size:255;not null" json:"endpoint"`                                    // e.g. "POST /api/v1/bills"
	ResponseCode int       `gorm:"not null;default:0" json:"response_code"`                              // 0 while in progress
	ResponseBody string    `gorm:"type:text" json:"response_body"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	ExpiresAt    time.Time `gorm:"not null;index" json:"expires_at"`
}

// TableName returns the table name for IdempotencyKey
func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

// IsExpired checks if the idempotency key has expired
func (i *IdempotencyKey) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}

// InProgress reports whether the request holding the key has not finished yet
func (i *IdempotencyKey) InProgress() bool {
	return i.ResponseCode == 0
}
