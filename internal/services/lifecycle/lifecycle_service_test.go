package lifecycle

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

func seedJob(t *testing.T, db *gorm.DB) (models.User, models.Job) {
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
		Title:       "Backend Engineer",
		Description: "Bangun API portal lowongan",
		CreatedBy:   owner.ID,
	}
	require.NoError(t, db.Create(&job).Error)
	return owner, job
}

func seedAdmin(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	admin := models.User{
		FullName: "Admin",
		Email:    uuid.New().String() + "@test.local",
		Password: "x",
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	require.NoError(t, db.Create(&admin).Error)
	return admin
}

func TestSubmitCreatesPendingDetail(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, nil)
	_, job := seedJob(t, db)

	detail, err := svc.Submit(job.ID, 0)
	require.NoError(t, err)

	assert.Equal(t, models.ApprovalPending, detail.ApprovalStatus)
	assert.Equal(t, models.DefaultDurationDays, detail.DurationDays)
	assert.Nil(t, detail.ExpiresAt, "expiry is only computed at approval time")
	assert.Nil(t, detail.ApprovedAt)
}

func TestSubmitCustomDuration(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, nil)
	_, job := seedJob(t, db)

	detail, err := svc.Submit(job.ID, 14)
	require.NoError(t, err)
	assert.Equal(t, 14, detail.DurationDays)
}

func TestSubmitTwiceConflicts(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, nil)
	_, job := seedJob(t, db)

	_, err := svc.Submit(job.ID, 0)
	require.NoError(t, err)

	_, err = svc.Submit(job.ID, 0)
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
}

func TestSubmitUnknownJob(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, nil)

	_, err := svc.Submit(uuid.New(), 0)
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestApproveSetsExpiryFromApprovalMoment(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, nil)
	_, job := seedJob(t, db)
	admin := seedAdmin(t, db)

	_, err := svc.Submit(job.ID, 30)
	require.NoError(t, err)

	before := time.Now()
	detail, err := svc.Approve(job.ID, admin.ID)
	require.NoError(t, err)

	assert.Equal(t, models.ApprovalApproved, detail.ApprovalStatus)
	require.NotNil(t, detail.ApprovedAt)
	require.NotNil(t, detail.ExpiresAt)
	require.NotNil(t, detail.ApprovedBy)
	assert.Equal(t, admin.ID, *detail.ApprovedBy)

	// expires_at = approval time + 30 hari, bukan sejak job dibuat
	assert.True(t, detail.ExpiresAt.After(*detail.ApprovedAt))
	expected := before.AddDate(0, 0, 30)
	assert.WithinDuration(t, expected, *detail.ExpiresAt, 5*time.Second)
}

func TestApproveNonPendingLeavesRecordUnchanged(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, nil)
	_, job := seedJob(t, db)
	admin := seedAdmin(t, db)
	other := seedAdmin(t, db)

	_, err := svc.Submit(job.ID, 30)
	require.NoError(t, err)

	first, err := svc.Approve(job.ID, admin.ID)
	require.NoError(t, err)

	_, err = svc.Approve(job.ID, other.ID)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)

	var detail models.JobPostDetail
	require.NoError(t, db.Where("job_id = ?", job.ID).First(&detail).Error)
	assert.Equal(t, models.ApprovalApproved, detail.ApprovalStatus)
	assert.Equal(t, admin.ID, *detail.ApprovedBy, "losing approver must not overwrite the winner")
	assert.WithinDuration(t, *first.ExpiresAt, *detail.ExpiresAt, time.Second)
}

func TestRejectDefaultsReason(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, nil)
	_, job := seedJob(t, db)
	admin := seedAdmin(t, db)

	_, err := svc.Submit(job.ID, 0)
	require.NoError(t, err)

	detail, err := svc.Reject(job.ID, admin.ID, "")
	require.NoError(t, err)

	assert.Equal(t, models.ApprovalRejected, detail.ApprovalStatus)
	assert.Equal(t, DefaultRejectionReason, detail.RejectionReason)
	assert.Nil(t, detail.ExpiresAt, "reject never sets expiry")
}

func TestRejectNonPendingConflicts(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, nil)
	_, job := seedJob(t, db)
	admin := seedAdmin(t, db)

	_, err := svc.Submit(job.ID, 0)
	require.NoError(t, err)
	_, err = svc.Reject(job.ID, admin.ID, "kurang detail")
	require.NoError(t, err)

	_, err = svc.Reject(job.ID, admin.ID, "lagi")
	assert.ErrorIs(t, err, ErrAlreadyProcessed)

	var detail models.JobPostDetail
	require.NoError(t, db.Where("job_id = ?", job.ID).First(&detail).Error)
	assert.Equal(t, "kurang detail", detail.RejectionReason)
}

func TestRejectedJobCanBeResubmitted(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, nil)
	_, job := seedJob(t, db)
	admin := seedAdmin(t, db)

	_, err := svc.Submit(job.ID, 0)
	require.NoError(t, err)
	_, err = svc.Reject(job.ID, admin.ID, "revisi dulu")
	require.NoError(t, err)

	detail, err := svc.Submit(job.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalPending, detail.ApprovalStatus)
	assert.Empty(t, detail.RejectionReason)
	assert.Nil(t, detail.ApprovedAt)
}

func TestToggleFeatureWithoutDetailConflicts(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, nil)
	_, job := seedJob(t, db)

	_, err := svc.ToggleFeature(job.ID)
	assert.ErrorIs(t, err, ErrNoDetail)

	var count int64
	db.Model(&models.JobPostDetail{}).Where("job_id = ?", job.ID).Count(&count)
	assert.Zero(t, count, "conflict must not lazily create a row")
}

func TestToggleFeatureRequiresApproved(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, nil)
	_, job := seedJob(t, db)

	_, err := svc.Submit(job.ID, 0)
	require.NoError(t, err)

	_, err = svc.ToggleFeature(job.ID)
	assert.ErrorIs(t, err, ErrNotFeaturable)
}

func TestToggleFeatureFlips(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, nil)
	_, job := seedJob(t, db)
	admin := seedAdmin(t, db)

	_, err := svc.Submit(job.ID, 30)
	require.NoError(t, err)
	_, err = svc.Approve(job.ID, admin.ID)
	require.NoError(t, err)

	detail, err := svc.ToggleFeature(job.ID)
	require.NoError(t, err)
	assert.True(t, detail.IsFeatured)

	detail, err = svc.ToggleFeature(job.ID)
	require.NoError(t, err)
	assert.False(t, detail.IsFeatured)
}

func TestHideClearsFeature(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, nil)
	_, job := seedJob(t, db)
	admin := seedAdmin(t, db)

	_, err := svc.Submit(job.ID, 30)
	require.NoError(t, err)
	_, err = svc.Approve(job.ID, admin.ID)
	require.NoError(t, err)
	_, err = svc.ToggleFeature(job.ID)
	require.NoError(t, err)

	detail, err := svc.Hide(job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalRejected, detail.ApprovalStatus)
	assert.False(t, detail.IsFeatured)
}

func TestReopenSendsBackToQueue(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, nil)
	_, job := seedJob(t, db)
	admin := seedAdmin(t, db)

	_, err := svc.Submit(job.ID, 30)
	require.NoError(t, err)
	_, err = svc.Approve(job.ID, admin.ID)
	require.NoError(t, err)

	detail, err := svc.Reopen(job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalPending, detail.ApprovalStatus)
	assert.False(t, detail.IsFeatured)
}

func TestActiveJobsExcludesExpiredAndPending(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, nil)
	admin := seedAdmin(t, db)

	_, live := seedJob(t, db)
	_, err := svc.Submit(live.ID, 30)
	require.NoError(t, err)
	_, err = svc.Approve(live.ID, admin.ID)
	require.NoError(t, err)

	_, queued := seedJob(t, db)
	_, err = svc.Submit(queued.ID, 30)
	require.NoError(t, err)

	_, stale := seedJob(t, db)
	past := time.Now().Add(-time.Hour)
	approvedAt := past.AddDate(0, 0, -30)
	require.NoError(t, db.Create(&models.JobPostDetail{
		JobID:          stale.ID,
		ApprovalStatus: models.ApprovalApproved,
		ApprovedBy:     &admin.ID,
		ApprovedAt:     &approvedAt,
		DurationDays:   30,
		ExpiresAt:      &past,
	}).Error)

	jobs, err := svc.ActiveJobs()
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, live.ID, jobs[0].ID)
}

func TestFeaturedJobsExcludesRejectedWithStaleFlag(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, nil)
	admin := seedAdmin(t, db)

	_, featured := seedJob(t, db)
	_, err := svc.Submit(featured.ID, 30)
	require.NoError(t, err)
	_, err = svc.Approve(featured.ID, admin.ID)
	require.NoError(t, err)
	_, err = svc.ToggleFeature(featured.ID)
	require.NoError(t, err)

	// stale state: rejected row yang flag featured-nya masih nyala
	_, hidden := seedJob(t, db)
	future := time.Now().AddDate(0, 0, 10)
	require.NoError(t, db.Create(&models.JobPostDetail{
		JobID:          hidden.ID,
		ApprovalStatus: models.ApprovalRejected,
		DurationDays:   30,
		ExpiresAt:      &future,
		IsFeatured:     true,
	}).Error)

	jobs, err := svc.FeaturedJobs()
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, featured.ID, jobs[0].ID)
}

func TestPendingJobsQueue(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, nil)

	_, a := seedJob(t, db)
	_, err := svc.Submit(a.ID, 0)
	require.NoError(t, err)

	_, b := seedJob(t, db)
	_, err = svc.Submit(b.ID, 0)
	require.NoError(t, err)

	jobs, err := svc.PendingJobs()
	require.NoError(t, err)
	assert.Len(t, jobs, 2)
}
