package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/lokerhub/lokerhub-be/internal/models"
	"github.com/lokerhub/lokerhub-be/internal/services/intake"
)

type ApplicationHandler struct {
	DB     *gorm.DB
	Intake *intake.Service
}

func NewApplicationHandler(db *gorm.DB, in *intake.Service) *ApplicationHandler {
	return &ApplicationHandler{DB: db, Intake: in}
}

type applyReq struct {
	ResumeURL   string `json:"resume_url"`
	CoverLetter string `json:"cover_letter"`
}

// Apply submits the calling applicant to a job. A second submit on the same
// job is a conflict and writes nothing.
func (h *ApplicationHandler) Apply(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}
	jobID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	var req applyReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	resumeURL := strings.TrimSpace(req.ResumeURL)
	if resumeURL == "" {
		// fallback ke resume di profil pelamar
		var profile models.ApplicantProfile
		if err := h.DB.Where("user_id = ?", userID).First(&profile).Error; err == nil {
			resumeURL = profile.ResumeURL
		}
	}
	if resumeURL == "" {
		return fail200(c, "Resume wajib dilampirkan")
	}

	app, err := h.Intake.Submit(userID, jobID, resumeURL, req.CoverLetter)
	if err != nil {
		switch {
		case errors.Is(err, intake.ErrDuplicate):
			return conflict(c, err.Error())
		case errors.Is(err, intake.ErrJobNotOpen):
			return conflict(c, err.Error())
		case errors.Is(err, intake.ErrJobNotFound):
			return notFound(c, err.Error())
		default:
			log.Error().Err(err).Msg("application submit failed")
			return fail500(c, "Gagal mengirim lamaran")
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Lamaran terkirim",
		"data":    app,
	})
}

// Mine lists the calling applicant's submissions.
func (h *ApplicationHandler) Mine(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	apps, err := h.Intake.ForUser(userID)
	if err != nil {
		return fail500(c, "Gagal memuat lamaran")
	}

	return c.JSON(fiber.Map{"success": true, "data": apps})
}

// ForJob lists submissions on one posting, for its owner or an admin.
func (h *ApplicationHandler) ForJob(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}
	jobID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	var job models.Job
	if err := h.DB.First(&job, "id = ?", jobID).Error; err != nil {
		return notFound(c, "Lowongan tidak ditemukan")
	}
	if job.CreatedBy != userID && getRole(c) != models.RoleAdmin {
		return fiber.NewError(fiber.StatusForbidden, "bukan lowongan kamu")
	}

	apps, err := h.Intake.ForJob(jobID)
	if err != nil {
		return fail500(c, "Gagal memuat lamaran")
	}

	return c.JSON(fiber.Map{"success": true, "data": apps})
}

type reviewReq struct {
	Status string `json:"status"`
}

// Review moves an application through pending -> reviewed -> accepted/rejected.
func (h *ApplicationHandler) Review(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}
	appID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	var req reviewReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	to := models.ApplicationStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	switch to {
	case models.ApplicationReviewed, models.ApplicationAccepted, models.ApplicationRejected:
	default:
		return fail200(c, "Status tidak dikenal")
	}

	// hanya pemilik lowongan atau admin
	var app models.Application
	if err := h.DB.Preload("Job").First(&app, "id = ?", appID).Error; err != nil {
		return notFound(c, "Lamaran tidak ditemukan")
	}
	if app.Job == nil || (app.Job.CreatedBy != userID && getRole(c) != models.RoleAdmin) {
		return fiber.NewError(fiber.StatusForbidden, "bukan lowongan kamu")
	}

	updated, err := h.Intake.Review(appID, to)
	if err != nil {
		if errors.Is(err, intake.ErrBadTransition) {
			return conflict(c, err.Error())
		}
		log.Error().Err(err).Msg("application review failed")
		return fail500(c, "Gagal mengubah status lamaran")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Status lamaran diperbarui",
		"data":    updated,
	})
}
