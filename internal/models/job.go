package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Job struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"type:varchar(200);not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`

	Requirements     string `gorm:"type:text" json:"requirements"`
	Responsibilities string `gorm:"type:text" json:"responsibilities"`
	Benefits         string `gorm:"type:text" json:"benefits"`

	SalaryRange string `gorm:"type:varchar(100)" json:"salary_range"`
	Location    string `gorm:"type:varchar(150)" json:"location"`
	JobType     string `gorm:"type:varchar(50)" json:"job_type"` // full_time / part_time / contract / internship
	Vacancies   int    `gorm:"default:1" json:"vacancies"`

	Deadline *time.Time `json:"deadline,omitempty"`

	CreatedBy uuid.UUID `gorm:"type:uuid;not null;index" json:"created_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Creator *User          `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Detail  *JobPostDetail `gorm:"foreignKey:JobID;references:ID;constraint:OnDelete:CASCADE" json:"detail,omitempty"`

	Applications []Application `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"-"`
}

func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}
