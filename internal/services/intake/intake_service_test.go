package intake

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/lokerhub/lokerhub-be/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Job{},
		&models.JobPostDetail{},
		&models.Application{},
	))
	return db
}

func seedApplicant(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	u := models.User{
		FullName: "Andi Pelamar",
		Email:    uuid.New().String() + "@test.local",
		Password: "x",
		Role:     models.RoleApplicant,
		IsActive: true,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

// seedOpenJob creates a job whose posting is approved and unexpired.
func seedOpenJob(t *testing.T, db *gorm.DB) models.Job {
	t.Helper()
	owner := models.User{
		FullName: "Rina Recruiter",
		Email:    uuid.New().String() + "@test.local",
		Password: "x",
		Role:     models.RoleRecruiter,
		IsActive: true,
	}
	require.NoError(t, db.Create(&owner).Error)

	job := models.Job{
		Title:       "Data Analyst",
		Description: "Analisis data pelamar",
		CreatedBy:   owner.ID,
	}
	require.NoError(t, db.Create(&job).Error)

	now := time.Now()
	expires := now.AddDate(0, 0, 30)
	require.NoError(t, db.Create(&models.JobPostDetail{
		JobID:          job.ID,
		ApprovalStatus: models.ApprovalApproved,
		ApprovedAt:     &now,
		DurationDays:   30,
		ExpiresAt:      &expires,
	}).Error)
	return job
}

func TestSubmitCreatesPendingApplication(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	job := seedOpenJob(t, db)
	user := seedApplicant(t, db)

	app, err := svc.Submit(user.ID, job.ID, "/uploads/resumes/andi.pdf", "Halo, saya tertarik")
	require.NoError(t, err)

	assert.Equal(t, models.ApplicationPending, app.Status)
	assert.WithinDuration(t, time.Now(), app.AppliedAt, 5*time.Second)
	assert.Equal(t, job.ID, app.JobID)
	assert.Equal(t, user.ID, app.UserID)
}

func TestSubmitDuplicateWritesNothing(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	job := seedOpenJob(t, db)
	user := seedApplicant(t, db)

	_, err := svc.Submit(user.ID, job.ID, "/r.pdf", "")
	require.NoError(t, err)

	_, err = svc.Submit(user.ID, job.ID, "/r.pdf", "coba lagi")
	assert.ErrorIs(t, err, ErrDuplicate)

	var count int64
	db.Model(&models.Application{}).
		Where("user_id = ? AND job_id = ?", user.ID, job.ID).
		Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestSubmitToOtherJobStillAllowed(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	jobA := seedOpenJob(t, db)
	jobB := seedOpenJob(t, db)
	user := seedApplicant(t, db)

	_, err := svc.Submit(user.ID, jobA.ID, "/r.pdf", "")
	require.NoError(t, err)
	_, err = svc.Submit(user.ID, jobB.ID, "/r.pdf", "")
	require.NoError(t, err)
}

func TestSubmitClosedJobRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	user := seedApplicant(t, db)

	owner := seedApplicant(t, db)
	job := models.Job{Title: "Tertutup", Description: "x", CreatedBy: owner.ID}
	require.NoError(t, db.Create(&job).Error)

	// belum pernah diajukan sama sekali
	_, err := svc.Submit(user.ID, job.ID, "/r.pdf", "")
	assert.ErrorIs(t, err, ErrJobNotOpen)

	// masih pending review
	require.NoError(t, db.Create(&models.JobPostDetail{
		JobID:          job.ID,
		ApprovalStatus: models.ApprovalPending,
		DurationDays:   30,
	}).Error)
	_, err = svc.Submit(user.ID, job.ID, "/r.pdf", "")
	assert.ErrorIs(t, err, ErrJobNotOpen)
}

func TestSubmitExpiredJobRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	user := seedApplicant(t, db)

	job := seedOpenJob(t, db)
	past := time.Now().Add(-time.Minute)
	require.NoError(t, db.Model(&models.JobPostDetail{}).
		Where("job_id = ?", job.ID).
		Update("expires_at", past).Error)

	_, err := svc.Submit(user.ID, job.ID, "/r.pdf", "")
	assert.ErrorIs(t, err, ErrJobNotOpen)
}

func TestSubmitUnknownJob(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	user := seedApplicant(t, db)

	_, err := svc.Submit(user.ID, uuid.New(), "/r.pdf", "")
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestReviewTransitions(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	job := seedOpenJob(t, db)
	user := seedApplicant(t, db)

	app, err := svc.Submit(user.ID, job.ID, "/r.pdf", "")
	require.NoError(t, err)

	got, err := svc.Review(app.ID, models.ApplicationReviewed)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationReviewed, got.Status)

	got, err = svc.Review(app.ID, models.ApplicationAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationAccepted, got.Status)

	// terminal state beku
	_, err = svc.Review(app.ID, models.ApplicationRejected)
	assert.ErrorIs(t, err, ErrBadTransition)
	_, err = svc.Review(app.ID, models.ApplicationPending)
	assert.ErrorIs(t, err, ErrBadTransition)
}

func TestReviewDirectDecision(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	job := seedOpenJob(t, db)
	user := seedApplicant(t, db)

	app, err := svc.Submit(user.ID, job.ID, "/r.pdf", "")
	require.NoError(t, err)

	got, err := svc.Review(app.ID, models.ApplicationRejected)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationRejected, got.Status)
}
