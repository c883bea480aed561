package models

import (
	"time"

	"github.com/google/uuid"
)

// TwoFactorAuth only carries column definitions; there is no 2FA flow yet.
type TwoFactorAuth struct {
	ID     uint      `gorm:"primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`

	Secret  string `gorm:"type:varchar(64)" json:"-"`
	Enabled bool   `gorm:"default:false" json:"enabled"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
