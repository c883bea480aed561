package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/lokerhub/lokerhub-be/internal/models"
)

type ContactHandler struct {
	DB *gorm.DB
}

func NewContactHandler(db *gorm.DB) *ContactHandler {
	return &ContactHandler{DB: db}
}

type contactReq struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (h *ContactHandler) Submit(c *fiber.Ctx) error {
	var req contactReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	errs := FieldErrors{}
	if strings.TrimSpace(req.Name) == "" {
		errs.Add("name", "Nama wajib diisi")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		errs.Add("email", "Email tidak valid")
	}
	if strings.TrimSpace(req.Message) == "" {
		errs.Add("message", "Pesan wajib diisi")
	}
	if len(errs) > 0 {
		return validationFail(c, errs)
	}

	entry := models.Contact{
		Name:    strings.TrimSpace(req.Name),
		Email:   email,
		Subject: strings.TrimSpace(req.Subject),
		Message: strings.TrimSpace(req.Message),
	}
	if err := h.DB.Create(&entry).Error; err != nil {
		return fail500(c, "Gagal mengirim pesan")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Pesan terkirim",
	})
}

// List is the admin inbox.
func (h *ContactHandler) List(c *fiber.Ctx) error {
	var entries []models.Contact
	if err := h.DB.Order("created_at DESC").Find(&entries).Error; err != nil {
		return fail500(c, "Gagal memuat pesan")
	}
	return c.JSON(fiber.Map{"success": true, "data": entries})
}
