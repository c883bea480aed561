package models

import (
	"time"

	"github.com/google/uuid"
)

type UserImage struct {
	ID     uint      `gorm:"primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	URL          string `gorm:"type:varchar(255);not null" json:"url"`
	OriginalName string `gorm:"type:varchar(255)" json:"original_name"`

	CreatedAt time.Time `json:"created_at"`
}
