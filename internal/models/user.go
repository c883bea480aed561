package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleRecruiter Role = "recruiter"
	RoleApplicant Role = "applicant"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FullName string    `gorm:"type:varchar(100);not null" json:"full_name"`
	Email    string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`

	Password  string `gorm:"not null" json:"-"`
	Role      Role   `gorm:"type:varchar(20);not null;index;default:'applicant'" json:"role"`
	AvatarURL string `gorm:"type:varchar(255)" json:"avatar_url"`
	IsActive  bool   `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// HAS ONE applicant_profiles.user_id -> users.id
	ApplicantProfile *ApplicantProfile `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"applicant_profile,omitempty"`

	Applications []Application `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Images       []UserImage   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	ActivityLogs []ActivityLog `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
