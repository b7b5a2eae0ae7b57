package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	GoogleID  string     `json:"google_id" db:"google_id"`
	Email     string     `json:"email" db:"email"`
	Name      string     `json:"name,omitempty" db:"name"`
	Image     string     `json:"image,omitempty" db:"image"`
	LastLogin *time.Time `json:"last_login,omitempty" db:"last_login"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}
