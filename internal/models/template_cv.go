package models

import (
	"time"

	"gorm.io/datatypes"
)

type TemplateCV struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"type:varchar(150);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	PreviewURL  string `gorm:"type:varchar(255)" json:"preview_url"`

	// Layout menyimpan struktur section template (urutan, warna, font)
	// sebagai JSON biar fleksibel.
	Layout datatypes.JSON `json:"layout"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
