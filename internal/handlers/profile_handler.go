package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lokerhub/lokerhub-be/internal/models"
	"github.com/lokerhub/lokerhub-be/internal/utils"
)

type ProfileHandler struct {
	DB            *gorm.DB
	UploadDir     string
	PublicBaseURL string
}

func NewProfileHandler(db *gorm.DB, uploadDir, publicBaseURL string) *ProfileHandler {
	return &ProfileHandler{DB: db, UploadDir: uploadDir, PublicBaseURL: publicBaseURL}
}

// findOrCreateProfile is the idempotent accessor for the 1:1 applicant
// extension: absence just means the user never touched their profile.
func (h *ProfileHandler) findOrCreateProfile(tx *gorm.DB, userID uuid.UUID) (*models.ApplicantProfile, error) {
	var p models.ApplicantProfile
	err := tx.Where("user_id = ?", userID).First(&p).Error
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	p = models.ApplicantProfile{
		UserID:          userID,
		InterviewStatus: models.InterviewNone,
	}
	if err := tx.Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	p, err := h.findOrCreateProfile(h.DB, userID)
	if err != nil {
		return fail500(c, "Gagal memuat profil")
	}

	return c.JSON(fiber.Map{"success": true, "data": p})
}

type updateProfileReq struct {
	Phone    string `json:"phone"`
	Position string `json:"position"`
}

func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	var req updateProfileReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	phone := strings.TrimSpace(req.Phone)
	if phone != "" && len(phone) < 8 {
		return fail200(c, "No. HP tidak valid")
	}

	tx := h.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	p, err := h.findOrCreateProfile(tx, userID)
	if err != nil {
		tx.Rollback()
		return fail500(c, "Gagal memuat profil")
	}

	if phone != "" {
		p.Phone = phone
	}
	if pos := strings.TrimSpace(req.Position); pos != "" {
		p.Position = pos
	}
	p.UpdatedAt = time.Now()

	if err := tx.Save(p).Error; err != nil {
		tx.Rollback()
		return fail500(c, "Gagal menyimpan profil")
	}

	tx.Commit()

	return c.JSON(fiber.Map{"success": true, "data": p})
}

// UploadResume stores a resume file (multipart field: resume). The file is
// written to disk first; only then is the referencing row committed.
func (h *ProfileHandler) UploadResume(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	file, err := c.FormFile("resume")
	if err != nil {
		return fail200(c, "resume is required (multipart field: resume)")
	}

	if !utils.AllowedExt(file.Filename, ".pdf", ".doc", ".docx") {
		return fail200(c, "resume must be pdf/doc/docx")
	}
	if file.Size > 5*1024*1024 {
		return fail200(c, "resume max size is 5MB")
	}

	publicURL, err := utils.SaveUpload(c, file, h.UploadDir, "resumes/"+userID.String(), h.PublicBaseURL)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to save file")
	}

	tx := h.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	p, err := h.findOrCreateProfile(tx, userID)
	if err != nil {
		tx.Rollback()
		return fail500(c, "Gagal memuat profil")
	}

	p.ResumeURL = publicURL
	p.UpdatedAt = time.Now()

	if err := tx.Save(p).Error; err != nil {
		tx.Rollback()
		return fail500(c, "Gagal menyimpan resume")
	}

	tx.Commit()

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Resume tersimpan",
		"data":    fiber.Map{"resume_url": publicURL},
	})
}

// UploadAvatar stores a profile picture (multipart field: avatar) and records
// it as a UserImage before pointing the user row at it.
func (h *ProfileHandler) UploadAvatar(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		return fail200(c, "avatar is required (multipart field: avatar)")
	}

	if !utils.AllowedExt(file.Filename, ".jpg", ".jpeg", ".png", ".gif") {
		return fail200(c, "avatar must be jpg/jpeg/png/gif")
	}
	if file.Size > 2*1024*1024 {
		return fail200(c, "avatar max size is 2MB")
	}

	publicURL, err := utils.SaveUpload(c, file, h.UploadDir, "avatars/"+userID.String(), h.PublicBaseURL)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to save file")
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		img := models.UserImage{
			UserID:       userID,
			URL:          publicURL,
			OriginalName: file.Filename,
		}
		if err := tx.Create(&img).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("avatar_url", publicURL).Error
	})
	if err != nil {
		return fail500(c, "Gagal menyimpan avatar")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Avatar tersimpan",
		"data":    fiber.Map{"avatar_url": publicURL},
	})
}
