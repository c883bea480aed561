package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/lokerhub/lokerhub-be/internal/middleware"
	"github.com/lokerhub/lokerhub-be/internal/models"
	"github.com/lokerhub/lokerhub-be/internal/utils"
)

type AuthHandler struct {
	DB        *gorm.DB
	JWTSecret string
	Expires   int
}

type RegisterReq struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.CookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   false,
		SameSite: "Lax",
		MaxAge:   h.Expires * 60,
	})
}

// Register is public self-signup. The role is always applicant; recruiter and
// admin accounts only come from admin provisioning.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	fullName := strings.TrimSpace(req.FullName)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	password := strings.TrimSpace(req.Password)

	errors := FieldErrors{}
	if fullName == "" {
		errors.Add("full_name", "Nama wajib diisi")
	}
	if email == "" {
		errors.Add("email", "Email wajib diisi")
	} else if !strings.Contains(email, "@") {
		errors.Add("email", "Format email tidak valid")
	}
	if password == "" {
		errors.Add("password", "Password wajib diisi")
	} else if len(password) < 6 {
		errors.Add("password", "Password minimal 6 karakter")
	}
	if len(errors) > 0 {
		return validationFail(c, errors)
	}

	var existing models.User
	if err := h.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		errs := FieldErrors{}
		errs.Add("email", "Email sudah terdaftar")
		return validationFail(c, errs)
	} else if err != gorm.ErrRecordNotFound {
		return fail500(c, "Terjadi kesalahan server")
	}

	pw, err := utils.HashPassword(password)
	if err != nil {
		return fail500(c, "Gagal memproses password")
	}

	u := models.User{
		FullName: fullName,
		Email:    email,
		Password: pw,
		Role:     models.RoleApplicant,
		IsActive: true,
	}

	if err := h.DB.Create(&u).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Gagal register",
		})
	}

	token, err := utils.SignJWT(h.JWTSecret, u.ID.String(), string(u.Role), h.Expires)
	if err != nil {
		return fail500(c, "Gagal membuat token")
	}

	h.setSessionCookie(c, token)
	logActivity(h.DB, u.ID, "register", u.Email)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Register berhasil",
		"data": fiber.Map{
			"user": fiber.Map{
				"id":        u.ID,
				"full_name": u.FullName,
				"email":     u.Email,
				"role":      u.Role,
			},
		},
	})
}

type LoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login deliberately reports the same message for unknown email and wrong
// password so accounts cannot be enumerated.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginReq
	if err := c.BodyParser(&req); err != nil {
		return fail200(c, "Invalid body")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	password := strings.TrimSpace(req.Password)

	errors := FieldErrors{}
	if email == "" {
		errors.Add("email", "Email wajib diisi")
	}
	if password == "" {
		errors.Add("password", "Password wajib diisi")
	}
	if len(errors) > 0 {
		return validationFail(c, errors)
	}

	var u models.User
	if err := h.DB.Where("email = ?", email).First(&u).Error; err != nil {
		return fail200(c, "Email atau password salah")
	}

	if !u.IsActive {
		return fail200(c, "Akun tidak aktif")
	}

	if !utils.CheckPassword(u.Password, password) {
		return fail200(c, "Email atau password salah")
	}

	token, err := utils.SignJWT(h.JWTSecret, u.ID.String(), string(u.Role), h.Expires)
	if err != nil {
		return fail200(c, "Gagal membuat token")
	}

	h.setSessionCookie(c, token)
	logActivity(h.DB, u.ID, "login", "")

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Login berhasil",
		"data": fiber.Map{
			"user": fiber.Map{
				"id":        u.ID,
				"full_name": u.FullName,
				"email":     u.Email,
				"role":      u.Role,
			},
		},
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   false,
		SameSite: "Lax",
	})

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logout berhasil",
	})
}

// Me returns the authenticated actor.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "User tidak ditemukan",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":         user.ID,
			"full_name":  user.FullName,
			"email":      user.Email,
			"role":       user.Role,
			"avatar_url": user.AvatarURL,
		},
	})
}
