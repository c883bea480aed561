package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/lokerhub/lokerhub-be/internal/models"
	"github.com/lokerhub/lokerhub-be/internal/services/lifecycle"
)

type JobHandler struct {
	DB        *gorm.DB
	Lifecycle *lifecycle.Service
}

func NewJobHandler(db *gorm.DB, lc *lifecycle.Service) *JobHandler {
	return &JobHandler{DB: db, Lifecycle: lc}
}

type JobReq struct {
	Title            string `json:"title"`
	Description      string `json:"description"`
	Requirements     string `json:"requirements"`
	Responsibilities string `json:"responsibilities"`
	Benefits         string `json:"benefits"`
	SalaryRange      string `json:"salary_range"`
	Location         string `json:"location"`
	JobType          string `json:"job_type"`
	Vacancies        int    `json:"vacancies"`
	Deadline         string `json:"deadline"` // 2006-01-02
}

func (r *JobReq) validate() FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(r.Title) == "" {
		errs.Add("title", "Judul wajib diisi")
	}
	if strings.TrimSpace(r.Description) == "" {
		errs.Add("description", "Deskripsi wajib diisi")
	}
	if r.Deadline != "" {
		if _, err := time.Parse("2006-01-02", r.Deadline); err != nil {
			errs.Add("deadline", "Format deadline harus YYYY-MM-DD")
		}
	}
	return errs
}

func (r *JobReq) apply(job *models.Job) {
	job.Title = strings.TrimSpace(r.Title)
	job.Description = strings.TrimSpace(r.Description)
	job.Requirements = r.Requirements
	job.Responsibilities = r.Responsibilities
	job.Benefits = r.Benefits
	job.SalaryRange = r.SalaryRange
	job.Location = r.Location
	job.JobType = r.JobType
	if r.Vacancies > 0 {
		job.Vacancies = r.Vacancies
	}
	if r.Deadline != "" {
		d, _ := time.Parse("2006-01-02", r.Deadline)
		job.Deadline = &d
	}
}

// ListActive is the public job board: approved and not yet expired.
func (h *JobHandler) ListActive(c *fiber.Ctx) error {
	jobs, err := h.Lifecycle.ActiveJobs()
	if err != nil {
		log.Error().Err(err).Msg("failed to list active jobs")
		return fail500(c, "Gagal memuat lowongan")
	}
	return c.JSON(fiber.Map{"success": true, "data": jobs})
}

// ListFeatured returns the manually promoted postings.
func (h *JobHandler) ListFeatured(c *fiber.Ctx) error {
	jobs, err := h.Lifecycle.FeaturedJobs()
	if err != nil {
		log.Error().Err(err).Msg("failed to list featured jobs")
		return fail500(c, "Gagal memuat lowongan")
	}
	return c.JSON(fiber.Map{"success": true, "data": jobs})
}

func (h *JobHandler) GetDetail(c *fiber.Ctx) error {
	jobID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	var job models.Job
	if err := h.DB.Preload("Detail").Preload("Creator").First(&job, "id = ?", jobID).Error; err != nil {
		return notFound(c, "Lowongan tidak ditemukan")
	}

	return c.JSON(fiber.Map{"success": true, "data": job})
}

// Create makes a new posting owned by the calling recruiter/admin. The job
// row and its draft workflow row are one unit of work.
func (h *JobHandler) Create(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	var req JobReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if errs := req.validate(); len(errs) > 0 {
		return validationFail(c, errs)
	}

	job := models.Job{CreatedBy: userID, Vacancies: 1}
	req.apply(&job)

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&job).Error; err != nil {
			return err
		}
		detail := models.JobPostDetail{
			JobID:          job.ID,
			ApprovalStatus: models.ApprovalDraft,
			DurationDays:   models.DefaultDurationDays,
		}
		return tx.Create(&detail).Error
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to create job")
		return fail500(c, "Gagal membuat lowongan")
	}

	h.DB.Preload("Detail").First(&job, "id = ?", job.ID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Lowongan dibuat",
		"data":    job,
	})
}

// ListMine returns postings created by the calling recruiter.
func (h *JobHandler) ListMine(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	var jobs []models.Job
	if err := h.DB.Preload("Detail").
		Where("created_by = ?", userID).
		Order("created_at DESC").
		Find(&jobs).Error; err != nil {
		return fail500(c, "Gagal memuat lowongan")
	}

	return c.JSON(fiber.Map{"success": true, "data": jobs})
}

// loadOwned fetches the job and checks the caller owns it (admins bypass).
func (h *JobHandler) loadOwned(c *fiber.Ctx) (*models.Job, error) {
	userID, err := getAuth(c)
	if err != nil {
		return nil, err
	}
	jobID, err := paramUUID(c, "id")
	if err != nil {
		return nil, err
	}

	var job models.Job
	if err := h.DB.First(&job, "id = ?", jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "lowongan tidak ditemukan")
		}
		return nil, err
	}

	if job.CreatedBy != userID && getRole(c) != models.RoleAdmin {
		return nil, fiber.NewError(fiber.StatusForbidden, "bukan lowongan kamu")
	}
	return &job, nil
}

func (h *JobHandler) Update(c *fiber.Ctx) error {
	job, err := h.loadOwned(c)
	if err != nil {
		return err
	}

	var req JobReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if errs := req.validate(); len(errs) > 0 {
		return validationFail(c, errs)
	}

	req.apply(job)
	if err := h.DB.Save(job).Error; err != nil {
		return fail500(c, "Gagal menyimpan perubahan")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Lowongan diperbarui",
		"data":    job,
	})
}

// Delete removes a posting; applications and the workflow row go with it.
func (h *JobHandler) Delete(c *fiber.Ctx) error {
	job, err := h.loadOwned(c)
	if err != nil {
		return err
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", job.ID).Delete(&models.Application{}).Error; err != nil {
			return err
		}
		if err := tx.Where("job_id = ?", job.ID).Delete(&models.JobPostDetail{}).Error; err != nil {
			return err
		}
		return tx.Delete(job).Error
	})
	if err != nil {
		return fail500(c, "Gagal menghapus lowongan")
	}

	return c.JSON(fiber.Map{"success": true, "message": "Lowongan dihapus"})
}

type submitReq struct {
	DurationDays int `json:"duration_days"`
}

// Submit sends the posting into the admin review queue.
func (h *JobHandler) Submit(c *fiber.Ctx) error {
	job, err := h.loadOwned(c)
	if err != nil {
		return err
	}

	var req submitReq
	_ = c.BodyParser(&req) // body opsional; default 30 hari

	detail, err := h.Lifecycle.Submit(job.ID, req.DurationDays)
	if err != nil {
		switch {
		case errors.Is(err, lifecycle.ErrAlreadySubmitted):
			return conflict(c, err.Error())
		case errors.Is(err, lifecycle.ErrJobNotFound):
			return notFound(c, err.Error())
		default:
			log.Error().Err(err).Msg("submit failed")
			return fail500(c, "Gagal mengajukan lowongan")
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Lowongan diajukan untuk review",
		"data":    detail,
	})
}
