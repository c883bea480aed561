package intake

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lokerhub/lokerhub-be/internal/models"
)

var (
	ErrJobNotFound = errors.New("lowongan tidak ditemukan")

	// ErrJobNotOpen: the posting is not approved-and-unexpired.
	ErrJobNotOpen = errors.New("lowongan tidak menerima lamaran")

	// ErrDuplicate: the (user, job) pair already has an application. No row
	// is written.
	ErrDuplicate = errors.New("kamu sudah melamar lowongan ini")

	// ErrBadTransition: review move not allowed from the current status.
	ErrBadTransition = errors.New("status lamaran tidak bisa diubah ke sana")
)

// Service records applicant submissions against jobs, enforcing
// at-most-one-submission-per-(user, job).
type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "unique constraint")
}

// Submit creates a pending application for an open job. The duplicate check
// runs inside the transaction and the composite unique index backs it up, so
// a concurrent double-submit still ends as ErrDuplicate instead of two rows.
func (s *Service) Submit(userID, jobID uuid.UUID, resumeURL, coverLetter string) (*models.Application, error) {
	var app models.Application
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var job models.Job
		if err := tx.First(&job, "id = ?", jobID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrJobNotFound
			}
			return err
		}

		var detail models.JobPostDetail
		if err := tx.Where("job_id = ?", jobID).First(&detail).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrJobNotOpen
			}
			return err
		}
		if detail.ApprovalStatus != models.ApprovalApproved || detail.IsExpired(time.Now()) {
			return ErrJobNotOpen
		}

		var existing models.Application
		err := tx.Where("user_id = ? AND job_id = ?", userID, jobID).First(&existing).Error
		if err == nil {
			return ErrDuplicate
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		app = models.Application{
			JobID:       jobID,
			UserID:      userID,
			ResumeURL:   resumeURL,
			CoverLetter: coverLetter,
			Status:      models.ApplicationPending,
			AppliedAt:   time.Now(),
		}
		if err := tx.Create(&app).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicate
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// ForUser lists an applicant's own submissions, newest first.
func (s *Service) ForUser(userID uuid.UUID) ([]models.Application, error) {
	var apps []models.Application
	err := s.DB.
		Preload("Job").
		Where("user_id = ?", userID).
		Order("applied_at DESC").
		Find(&apps).Error
	return apps, err
}

// ForJob lists submissions against one job, for its owner or an admin.
func (s *Service) ForJob(jobID uuid.UUID) ([]models.Application, error) {
	var apps []models.Application
	err := s.DB.
		Preload("Applicant").
		Where("job_id = ?", jobID).
		Order("applied_at ASC").
		Find(&apps).Error
	return apps, err
}

// allowedReviewMoves: pending can be marked reviewed or decided directly,
// reviewed can be decided, terminal states are frozen.
var allowedReviewMoves = map[models.ApplicationStatus][]models.ApplicationStatus{
	models.ApplicationPending:  {models.ApplicationReviewed, models.ApplicationAccepted, models.ApplicationRejected},
	models.ApplicationReviewed: {models.ApplicationAccepted, models.ApplicationRejected},
}

// Review moves an application through the recruiter review flow.
func (s *Service) Review(appID uuid.UUID, to models.ApplicationStatus) (*models.Application, error) {
	var app models.Application
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&app, "id = ?", appID).Error; err != nil {
			return err
		}

		ok := false
		for _, allowed := range allowedReviewMoves[app.Status] {
			if allowed == to {
				ok = true
				break
			}
		}
		if !ok {
			return ErrBadTransition
		}

		app.Status = to
		return tx.Save(&app).Error
	})
	if err != nil {
		return nil, err
	}
	return &app, nil
}
