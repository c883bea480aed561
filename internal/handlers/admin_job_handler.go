package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/lokerhub/lokerhub-be/internal/services/lifecycle"
)

// AdminJobHandler exposes the approval workflow to admins.
type AdminJobHandler struct {
	DB        *gorm.DB
	Lifecycle *lifecycle.Service
}

func NewAdminJobHandler(db *gorm.DB, lc *lifecycle.Service) *AdminJobHandler {
	return &AdminJobHandler{DB: db, Lifecycle: lc}
}

func (h *AdminJobHandler) mapErr(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, lifecycle.ErrAlreadyProcessed),
		errors.Is(err, lifecycle.ErrNotFeaturable):
		return conflict(c, err.Error())
	case errors.Is(err, lifecycle.ErrNoDetail):
		return conflict(c, err.Error())
	case errors.Is(err, lifecycle.ErrJobNotFound):
		return notFound(c, err.Error())
	default:
		log.Error().Err(err).Msg(fallback)
		return fail500(c, fallback)
	}
}

// Pending is the review queue.
func (h *AdminJobHandler) Pending(c *fiber.Ctx) error {
	jobs, err := h.Lifecycle.PendingJobs()
	if err != nil {
		return fail500(c, "Gagal memuat antrian review")
	}
	return c.JSON(fiber.Map{"success": true, "data": jobs})
}

// Active lists currently live postings for the admin dashboard.
func (h *AdminJobHandler) Active(c *fiber.Ctx) error {
	jobs, err := h.Lifecycle.ActiveJobs()
	if err != nil {
		return fail500(c, "Gagal memuat lowongan aktif")
	}
	return c.JSON(fiber.Map{"success": true, "data": jobs})
}

func (h *AdminJobHandler) Approve(c *fiber.Ctx) error {
	adminID, err := getAuth(c)
	if err != nil {
		return err
	}
	jobID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	detail, err := h.Lifecycle.Approve(jobID, adminID)
	if err != nil {
		return h.mapErr(c, err, "Gagal approve lowongan")
	}

	logActivity(h.DB, adminID, "job_approve", jobID.String())

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Lowongan disetujui",
		"data":    detail,
	})
}

type rejectReq struct {
	Reason string `json:"reason"`
}

func (h *AdminJobHandler) Reject(c *fiber.Ctx) error {
	adminID, err := getAuth(c)
	if err != nil {
		return err
	}
	jobID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	var req rejectReq
	_ = c.BodyParser(&req) // alasan boleh kosong, ada default

	detail, err := h.Lifecycle.Reject(jobID, adminID, req.Reason)
	if err != nil {
		return h.mapErr(c, err, "Gagal reject lowongan")
	}

	logActivity(h.DB, adminID, "job_reject", jobID.String())

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Lowongan ditolak",
		"data":    detail,
	})
}

func (h *AdminJobHandler) ToggleFeature(c *fiber.Ctx) error {
	adminID, err := getAuth(c)
	if err != nil {
		return err
	}
	jobID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	detail, err := h.Lifecycle.ToggleFeature(jobID)
	if err != nil {
		return h.mapErr(c, err, "Gagal mengubah featured")
	}

	logActivity(h.DB, adminID, "job_feature_toggle", jobID.String())

	msg := "Lowongan dijadikan featured"
	if !detail.IsFeatured {
		msg = "Featured dilepas"
	}
	return c.JSON(fiber.Map{"success": true, "message": msg, "data": detail})
}

// Hide pulls a posting off the board without deleting it.
func (h *AdminJobHandler) Hide(c *fiber.Ctx) error {
	adminID, err := getAuth(c)
	if err != nil {
		return err
	}
	jobID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	detail, err := h.Lifecycle.Hide(jobID)
	if err != nil {
		return h.mapErr(c, err, "Gagal menyembunyikan lowongan")
	}

	logActivity(h.DB, adminID, "job_hide", jobID.String())

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Lowongan disembunyikan",
		"data":    detail,
	})
}

// Reopen sends a posting back to the review queue.
func (h *AdminJobHandler) Reopen(c *fiber.Ctx) error {
	adminID, err := getAuth(c)
	if err != nil {
		return err
	}
	jobID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	detail, err := h.Lifecycle.Reopen(jobID)
	if err != nil {
		return h.mapErr(c, err, "Gagal membuka ulang lowongan")
	}

	logActivity(h.DB, adminID, "job_reopen", jobID.String())

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Lowongan dikembalikan ke antrian review",
		"data":    detail,
	})
}
