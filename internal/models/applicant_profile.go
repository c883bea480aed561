package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InterviewStatus string

const (
	InterviewNone      InterviewStatus = "none"
	InterviewScheduled InterviewStatus = "scheduled"
	InterviewDone      InterviewStatus = "done"
)

// ApplicantProfile is the 1:1 job-seeker extension of a User with
// role=applicant. Like JobPostDetail it is created lazily (find-or-create)
// on first touch.
type ApplicantProfile struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`

	Phone           string          `gorm:"type:varchar(30)" json:"phone"`
	Position        string          `gorm:"type:varchar(150)" json:"position"` // posisi yang dilamar
	ResumeURL       string          `gorm:"type:varchar(255)" json:"resume_url"`
	InterviewStatus InterviewStatus `gorm:"type:varchar(20);default:'none'" json:"interview_status"`

	AvatarImageID *uint `json:"avatar_image_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	AvatarImage *UserImage `gorm:"foreignKey:AvatarImageID" json:"avatar_image,omitempty"`
}

func (p *ApplicantProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
