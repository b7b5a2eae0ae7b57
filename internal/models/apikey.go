package models

import (
	"time"

	"github.com/google/uuid"
)

// APIKey is a dashboard-issued secret granting access to gated endpoints.
// Usage only ever grows; Limit nil means unlimited.
type APIKey struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Key       string    `json:"key" db:"key"`
	Usage     int       `json:"usage" db:"usage"`
	Limit     *int      `json:"limit" db:"limit_value"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Exhausted reports whether the key has reached its configured ceiling.
func (k *APIKey) Exhausted() bool {
	return k.Limit != nil && k.Usage >= *k.Limit
}
