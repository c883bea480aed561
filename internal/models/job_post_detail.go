package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApprovalStatus string

const (
	ApprovalDraft    ApprovalStatus = "draft"    // belum pernah diajukan
	ApprovalPending  ApprovalStatus = "pending"  // menunggu review admin
	ApprovalApproved ApprovalStatus = "approved" // tayang sampai expires_at
	ApprovalRejected ApprovalStatus = "rejected"
)

const DefaultDurationDays = 30

// JobPostDetail is the 1:1 workflow extension of a Job. It is created lazily
// on the first workflow interaction; a missing row means the job was never
// submitted for approval.
type JobPostDetail struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	JobID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"job_id"`

	ApprovalStatus  ApprovalStatus `gorm:"type:varchar(20);not null;default:'draft';index" json:"approval_status"`
	ApprovedBy      *uuid.UUID     `gorm:"type:uuid" json:"approved_by,omitempty"`
	ApprovedAt      *time.Time     `json:"approved_at,omitempty"`
	RejectionReason string         `gorm:"type:text" json:"rejection_reason"`

	// DurationDays is "hari tayang setelah disetujui", bukan sejak dibuat.
	// ExpiresAt is only computed at approval time.
	DurationDays int        `gorm:"not null;default:30" json:"duration_days"`
	ExpiresAt    *time.Time `gorm:"index" json:"expires_at,omitempty"`

	IsFeatured bool `gorm:"default:false" json:"is_featured"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Approver *User `gorm:"foreignKey:ApprovedBy" json:"approver,omitempty"`
}

func (d *JobPostDetail) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// IsExpired reports whether an approved posting has passed its expiry.
func (d *JobPostDetail) IsExpired(now time.Time) bool {
	return d.ExpiresAt != nil && !d.ExpiresAt.After(now)
}
