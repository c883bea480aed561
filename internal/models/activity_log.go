package models

import (
	"time"

	"github.com/google/uuid"
)

type ActivityLog struct {
	ID     uint      `gorm:"primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;index" json:"user_id"`

	Action string `gorm:"type:varchar(100);not null" json:"action"` // login, job_approve, job_reject, dll
	Detail string `gorm:"type:text" json:"detail"`

	CreatedAt time.Time `json:"created_at"`
}
