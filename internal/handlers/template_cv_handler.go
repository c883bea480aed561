package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/lokerhub/lokerhub-be/internal/models"
)

type TemplateCVHandler struct {
	DB *gorm.DB
}

func NewTemplateCVHandler(db *gorm.DB) *TemplateCVHandler {
	return &TemplateCVHandler{DB: db}
}

// ListPublic shows active templates to everyone.
func (h *TemplateCVHandler) ListPublic(c *fiber.Ctx) error {
	var templates []models.TemplateCV
	if err := h.DB.Where("is_active = ?", true).
		Order("created_at DESC").Find(&templates).Error; err != nil {
		return fail500(c, "Gagal memuat template CV")
	}
	return c.JSON(fiber.Map{"success": true, "data": templates})
}

func (h *TemplateCVHandler) GetOne(c *fiber.Ctx) error {
	var tpl models.TemplateCV
	if err := h.DB.First(&tpl, "id = ?", c.Params("id")).Error; err != nil {
		return notFound(c, "Template tidak ditemukan")
	}
	return c.JSON(fiber.Map{"success": true, "data": tpl})
}

type templateCVReq struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	PreviewURL  string         `json:"preview_url"`
	Layout      datatypes.JSON `json:"layout"`
	IsActive    *bool          `json:"is_active"`
}

func (h *TemplateCVHandler) Create(c *fiber.Ctx) error {
	var req templateCVReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	if strings.TrimSpace(req.Name) == "" {
		return fail200(c, "Nama template wajib diisi")
	}

	tpl := models.TemplateCV{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		PreviewURL:  req.PreviewURL,
		Layout:      req.Layout,
		IsActive:    true,
	}
	if req.IsActive != nil {
		tpl.IsActive = *req.IsActive
	}

	if err := h.DB.Create(&tpl).Error; err != nil {
		return fail500(c, "Gagal membuat template")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Template dibuat",
		"data":    tpl,
	})
}

func (h *TemplateCVHandler) Update(c *fiber.Ctx) error {
	var tpl models.TemplateCV
	if err := h.DB.First(&tpl, "id = ?", c.Params("id")).Error; err != nil {
		return notFound(c, "Template tidak ditemukan")
	}

	var req templateCVReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		tpl.Name = name
	}
	if req.Description != "" {
		tpl.Description = req.Description
	}
	if req.PreviewURL != "" {
		tpl.PreviewURL = req.PreviewURL
	}
	if len(req.Layout) > 0 {
		tpl.Layout = req.Layout
	}
	if req.IsActive != nil {
		tpl.IsActive = *req.IsActive
	}

	if err := h.DB.Save(&tpl).Error; err != nil {
		return fail500(c, "Gagal menyimpan template")
	}

	return c.JSON(fiber.Map{"success": true, "message": "Template diperbarui", "data": tpl})
}

func (h *TemplateCVHandler) Delete(c *fiber.Ctx) error {
	var tpl models.TemplateCV
	if err := h.DB.First(&tpl, "id = ?", c.Params("id")).Error; err != nil {
		return notFound(c, "Template tidak ditemukan")
	}

	if err := h.DB.Delete(&tpl).Error; err != nil {
		return fail500(c, "Gagal menghapus template")
	}

	return c.JSON(fiber.Map{"success": true, "message": "Template dihapus"})
}
