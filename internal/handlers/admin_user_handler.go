package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/lokerhub/lokerhub-be/internal/models"
	"github.com/lokerhub/lokerhub-be/internal/utils"
)

// AdminUserHandler is the account provisioning surface: admins create
// recruiter and admin accounts here, public registration only makes
// applicants.
type AdminUserHandler struct {
	DB *gorm.DB
}

func NewAdminUserHandler(db *gorm.DB) *AdminUserHandler {
	return &AdminUserHandler{DB: db}
}

func (h *AdminUserHandler) List(c *fiber.Ctx) error {
	var users []models.User
	if err := h.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		return fail500(c, "Gagal memuat user")
	}
	return c.JSON(fiber.Map{"success": true, "data": users})
}

// Recruiters lists only accounts with the recruiter role.
func (h *AdminUserHandler) Recruiters(c *fiber.Ctx) error {
	var users []models.User
	if err := h.DB.Where("role = ?", models.RoleRecruiter).
		Order("created_at DESC").Find(&users).Error; err != nil {
		return fail500(c, "Gagal memuat recruiter")
	}
	return c.JSON(fiber.Map{"success": true, "data": users})
}

type adminUserReq struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func validRole(r models.Role) bool {
	return r == models.RoleAdmin || r == models.RoleRecruiter || r == models.RoleApplicant
}

func (h *AdminUserHandler) Create(c *fiber.Ctx) error {
	adminID, err := getAuth(c)
	if err != nil {
		return err
	}

	var req adminUserReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	fullName := strings.TrimSpace(req.FullName)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	password := strings.TrimSpace(req.Password)
	role := models.Role(strings.ToLower(strings.TrimSpace(req.Role)))

	errs := FieldErrors{}
	if fullName == "" {
		errs.Add("full_name", "Nama wajib diisi")
	}
	if email == "" || !strings.Contains(email, "@") {
		errs.Add("email", "Email tidak valid")
	}
	if len(password) < 6 {
		errs.Add("password", "Password minimal 6 karakter")
	}
	if !validRole(role) {
		errs.Add("role", "Role harus admin/recruiter/applicant")
	}
	if len(errs) > 0 {
		return validationFail(c, errs)
	}

	var existing models.User
	if err := h.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		return conflict(c, "Email sudah terdaftar")
	} else if err != gorm.ErrRecordNotFound {
		return fail500(c, "Terjadi kesalahan server")
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return fail500(c, "Gagal memproses password")
	}

	u := models.User{
		FullName: fullName,
		Email:    email,
		Password: hashed,
		Role:     role,
		IsActive: true,
	}
	if err := h.DB.Create(&u).Error; err != nil {
		log.Error().Err(err).Msg("admin user create failed")
		return fail500(c, "Gagal membuat akun")
	}

	logActivity(h.DB, adminID, "user_create", u.Email)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Akun dibuat",
		"data":    u,
	})
}

func (h *AdminUserHandler) Update(c *fiber.Ctx) error {
	adminID, err := getAuth(c)
	if err != nil {
		return err
	}
	userID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	var u models.User
	if err := h.DB.First(&u, "id = ?", userID).Error; err != nil {
		return notFound(c, "User tidak ditemukan")
	}

	var req adminUserReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	if fullName := strings.TrimSpace(req.FullName); fullName != "" {
		u.FullName = fullName
	}
	if email := strings.ToLower(strings.TrimSpace(req.Email)); email != "" && email != u.Email {
		var other models.User
		if err := h.DB.Where("email = ? AND id <> ?", email, u.ID).First(&other).Error; err == nil {
			return conflict(c, "Email sudah terdaftar")
		}
		u.Email = email
	}
	if role := models.Role(strings.ToLower(strings.TrimSpace(req.Role))); role != "" {
		if !validRole(role) {
			return fail200(c, "Role harus admin/recruiter/applicant")
		}
		u.Role = role
	}
	// password baru hanya kalau dikirim
	if password := strings.TrimSpace(req.Password); password != "" {
		if len(password) < 6 {
			return fail200(c, "Password minimal 6 karakter")
		}
		hashed, err := utils.HashPassword(password)
		if err != nil {
			return fail500(c, "Gagal memproses password")
		}
		u.Password = hashed
	}

	if err := h.DB.Save(&u).Error; err != nil {
		return fail500(c, "Gagal menyimpan perubahan")
	}

	logActivity(h.DB, adminID, "user_update", u.Email)

	return c.JSON(fiber.Map{"success": true, "message": "Akun diperbarui", "data": u})
}

// Delete removes an account and its dependents (applications, images, logs,
// profile) in one transaction.
func (h *AdminUserHandler) Delete(c *fiber.Ctx) error {
	adminID, err := getAuth(c)
	if err != nil {
		return err
	}
	userID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	var u models.User
	if err := h.DB.First(&u, "id = ?", userID).Error; err != nil {
		return notFound(c, "User tidak ditemukan")
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", u.ID).Delete(&models.Application{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", u.ID).Delete(&models.UserImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", u.ID).Delete(&models.ActivityLog{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", u.ID).Delete(&models.ApplicantProfile{}).Error; err != nil {
			return err
		}
		return tx.Delete(&u).Error
	})
	if err != nil {
		return fail500(c, "Gagal menghapus akun")
	}

	logActivity(h.DB, adminID, "user_delete", u.Email)

	return c.JSON(fiber.Map{"success": true, "message": "Akun dihapus"})
}

// ActivityLogs returns the latest audit entries.
func (h *AdminUserHandler) ActivityLogs(c *fiber.Ctx) error {
	var logs []models.ActivityLog
	if err := h.DB.Order("created_at DESC").Limit(200).Find(&logs).Error; err != nil {
		return fail500(c, "Gagal memuat log aktivitas")
	}
	return c.JSON(fiber.Map{"success": true, "data": logs})
}
