package lifecycle

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/lokerhub/lokerhub-be/internal/models"
)

var (
	ErrJobNotFound = errors.New("lowongan tidak ditemukan")

	// ErrAlreadyProcessed: approve/reject dipanggil saat status bukan pending.
	// Record tidak berubah sama sekali.
	ErrAlreadyProcessed = errors.New("pengajuan sudah diproses")

	// ErrAlreadySubmitted: submit saat masih pending / sudah approved.
	ErrAlreadySubmitted = errors.New("lowongan sudah diajukan")

	// ErrNoDetail: aksi workflow pada job yang belum pernah diajukan sama
	// sekali (row detail tidak ada). Tidak ada row yang dibuat.
	ErrNoDetail = errors.New("lowongan belum pernah diajukan")

	// ErrNotFeaturable: feature toggle hanya berlaku untuk lowongan approved
	// yang belum expired.
	ErrNotFeaturable = errors.New("hanya lowongan approved yang bisa di-featured")
)

const DefaultRejectionReason = "Tidak memenuhi persyaratan portal"

const (
	cacheKeyActive   = "jobs:active"
	cacheKeyFeatured = "jobs:featured"
	cacheTTL         = 60 * time.Second
)

// Service owns the approval/expiry/featured state of job postings and the
// transition rules between them.
type Service struct {
	DB  *gorm.DB
	RDB *redis.Client // optional; listing cache degrades to DB-only when nil
}

func NewService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{DB: db, RDB: rdb}
}

// findOrCreateDetail loads the workflow extension of a job, creating the row
// in draft state when the job was never submitted before.
func (s *Service) findOrCreateDetail(tx *gorm.DB, jobID uuid.UUID) (*models.JobPostDetail, error) {
	var d models.JobPostDetail
	err := tx.Where("job_id = ?", jobID).First(&d).Error
	if err == nil {
		return &d, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	d = models.JobPostDetail{
		JobID:          jobID,
		ApprovalStatus: models.ApprovalDraft,
		DurationDays:   models.DefaultDurationDays,
	}
	if err := tx.Create(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// Submit moves a draft (or never-submitted, or previously rejected) posting
// to pending. DurationDays is how long the posting stays live AFTER approval;
// expires_at stays empty until an admin approves.
func (s *Service) Submit(jobID uuid.UUID, durationDays int) (*models.JobPostDetail, error) {
	if durationDays <= 0 {
		durationDays = models.DefaultDurationDays
	}

	var detail *models.JobPostDetail
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var job models.Job
		if err := tx.First(&job, "id = ?", jobID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrJobNotFound
			}
			return err
		}

		d, err := s.findOrCreateDetail(tx, jobID)
		if err != nil {
			return err
		}

		switch d.ApprovalStatus {
		case models.ApprovalPending:
			return ErrAlreadySubmitted
		case models.ApprovalApproved:
			if !d.IsExpired(time.Now()) {
				return ErrAlreadySubmitted
			}
		}

		d.ApprovalStatus = models.ApprovalPending
		d.DurationDays = durationDays
		d.ApprovedBy = nil
		d.ApprovedAt = nil
		d.ExpiresAt = nil
		d.RejectionReason = ""
		d.IsFeatured = false

		if err := tx.Save(d).Error; err != nil {
			return err
		}
		detail = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateListings()
	return detail, nil
}

// Approve moves a pending posting to approved and computes expires_at from
// the approval moment, not from creation. The write is guarded on
// status=pending so two concurrent approvals cannot both win; the loser gets
// ErrAlreadyProcessed and the record stays untouched.
func (s *Service) Approve(jobID, adminID uuid.UUID) (*models.JobPostDetail, error) {
	var detail models.JobPostDetail
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", jobID).First(&detail).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoDetail
			}
			return err
		}

		now := time.Now()
		expires := now.AddDate(0, 0, detail.DurationDays)

		res := tx.Model(&models.JobPostDetail{}).
			Where("job_id = ? AND approval_status = ?", jobID, models.ApprovalPending).
			Updates(map[string]interface{}{
				"approval_status": models.ApprovalApproved,
				"approved_by":     adminID,
				"approved_at":     now,
				"expires_at":      expires,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyProcessed
		}

		detail.ApprovalStatus = models.ApprovalApproved
		detail.ApprovedBy = &adminID
		detail.ApprovedAt = &now
		detail.ExpiresAt = &expires
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateListings()
	return &detail, nil
}

// Reject moves a pending posting to rejected. Expires_at is never set here.
func (s *Service) Reject(jobID, adminID uuid.UUID, reason string) (*models.JobPostDetail, error) {
	if reason == "" {
		reason = DefaultRejectionReason
	}

	var detail models.JobPostDetail
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", jobID).First(&detail).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoDetail
			}
			return err
		}

		now := time.Now()
		res := tx.Model(&models.JobPostDetail{}).
			Where("job_id = ? AND approval_status = ?", jobID, models.ApprovalPending).
			Updates(map[string]interface{}{
				"approval_status":  models.ApprovalRejected,
				"approved_by":      adminID,
				"approved_at":      now,
				"rejection_reason": reason,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyProcessed
		}

		detail.ApprovalStatus = models.ApprovalRejected
		detail.ApprovedBy = &adminID
		detail.ApprovedAt = &now
		detail.RejectionReason = reason
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateListings()
	return &detail, nil
}

// ToggleFeature flips is_featured on an approved, unexpired posting. Calling
// it on a job without a detail row is a conflict; no row gets created.
func (s *Service) ToggleFeature(jobID uuid.UUID) (*models.JobPostDetail, error) {
	var detail models.JobPostDetail
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", jobID).First(&detail).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoDetail
			}
			return err
		}

		if detail.ApprovalStatus != models.ApprovalApproved || detail.IsExpired(time.Now()) {
			return ErrNotFeaturable
		}

		detail.IsFeatured = !detail.IsFeatured
		return tx.Save(&detail).Error
	})
	if err != nil {
		return nil, err
	}

	s.invalidateListings()
	return &detail, nil
}

// Hide is the admin override that pulls a posting from the public listing:
// status becomes rejected and the featured flag is cleared. The only
// precondition is that the detail row exists.
func (s *Service) Hide(jobID uuid.UUID) (*models.JobPostDetail, error) {
	return s.override(jobID, models.ApprovalRejected)
}

// Reopen sends a posting back to the review queue, clearing the featured flag.
func (s *Service) Reopen(jobID uuid.UUID) (*models.JobPostDetail, error) {
	return s.override(jobID, models.ApprovalPending)
}

func (s *Service) override(jobID uuid.UUID, to models.ApprovalStatus) (*models.JobPostDetail, error) {
	var detail models.JobPostDetail
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", jobID).First(&detail).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoDetail
			}
			return err
		}

		detail.ApprovalStatus = to
		detail.IsFeatured = false
		return tx.Save(&detail).Error
	})
	if err != nil {
		return nil, err
	}

	s.invalidateListings()
	return &detail, nil
}

// IsOpen reports whether a job is publicly visible and accepting
// applications: approved and not yet expired.
func (s *Service) IsOpen(tx *gorm.DB, jobID uuid.UUID) (bool, error) {
	var d models.JobPostDetail
	if err := tx.Where("job_id = ?", jobID).First(&d).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return d.ApprovalStatus == models.ApprovalApproved && !d.IsExpired(time.Now()), nil
}

// ActiveJobs returns approved, unexpired postings (the public listing).
func (s *Service) ActiveJobs() ([]models.Job, error) {
	if jobs, ok := s.cacheGet(cacheKeyActive); ok {
		return jobs, nil
	}

	var jobs []models.Job
	err := s.DB.
		Joins("JOIN job_post_details d ON d.job_id = jobs.id").
		Where("d.approval_status = ? AND d.expires_at > ?", models.ApprovalApproved, time.Now()).
		Preload("Detail").
		Order("jobs.created_at DESC").
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}

	s.cacheSet(cacheKeyActive, jobs)
	return jobs, nil
}

// FeaturedJobs returns featured postings. Only approved and unexpired
// postings qualify; hiding a posting clears the flag, so a once-featured
// rejected posting can never leak back into this listing.
func (s *Service) FeaturedJobs() ([]models.Job, error) {
	if jobs, ok := s.cacheGet(cacheKeyFeatured); ok {
		return jobs, nil
	}

	var jobs []models.Job
	err := s.DB.
		Joins("JOIN job_post_details d ON d.job_id = jobs.id").
		Where("d.is_featured = ? AND d.approval_status = ? AND d.expires_at > ?",
			true, models.ApprovalApproved, time.Now()).
		Preload("Detail").
		Order("jobs.created_at DESC").
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}

	s.cacheSet(cacheKeyFeatured, jobs)
	return jobs, nil
}

// PendingJobs returns the admin review queue.
func (s *Service) PendingJobs() ([]models.Job, error) {
	var jobs []models.Job
	err := s.DB.
		Joins("JOIN job_post_details d ON d.job_id = jobs.id").
		Where("d.approval_status = ?", models.ApprovalPending).
		Preload("Detail").
		Preload("Creator").
		Order("jobs.created_at ASC").
		Find(&jobs).Error
	return jobs, err
}

// ---- listing cache (best effort) ----

func (s *Service) cacheGet(key string) ([]models.Job, bool) {
	if s.RDB == nil {
		return nil, false
	}
	raw, err := s.RDB.Get(context.Background(), key).Bytes()
	if err != nil {
		return nil, false
	}
	var jobs []models.Job
	if err := json.Unmarshal(raw, &jobs); err != nil {
		return nil, false
	}
	return jobs, true
}

func (s *Service) cacheSet(key string, jobs []models.Job) {
	if s.RDB == nil {
		return
	}
	raw, err := json.Marshal(jobs)
	if err != nil {
		return
	}
	if err := s.RDB.Set(context.Background(), key, raw, cacheTTL).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("listing cache set failed")
	}
}

func (s *Service) invalidateListings() {
	if s.RDB == nil {
		return
	}
	if err := s.RDB.Del(context.Background(), cacheKeyActive, cacheKeyFeatured).Err(); err != nil {
		log.Warn().Err(err).Msg("listing cache invalidation failed")
	}
}
