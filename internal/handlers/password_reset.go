package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/lokerhub/lokerhub-be/internal/models"
	"github.com/lokerhub/lokerhub-be/internal/utils"
)

// PasswordResetHandler issues and consumes signed, time-limited reset links.
// There is no real mail delivery; the link is returned in the response so the
// frontend (or a demo operator) can hand it over.
type PasswordResetHandler struct {
	DB              *gorm.DB
	RDB             *redis.Client
	JWTSecret       string
	TokenTTLSec     int
	FrontendBaseURL string
}

type forgotPasswordReq struct {
	Email string `json:"email"`
}

func (h *PasswordResetHandler) Forgot(c *fiber.Ctx) error {
	var req forgotPasswordReq
	if err := c.BodyParser(&req); err != nil {
		return fail200(c, "Invalid body")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return fail200(c, "Email wajib diisi")
	}

	var u models.User
	if err := h.DB.Where("email = ?", email).First(&u).Error; err != nil {
		return fail200(c, "Email tidak terdaftar")
	}

	token, err := utils.SignResetToken(h.JWTSecret, u.Email, h.TokenTTLSec)
	if err != nil {
		return fail500(c, "Gagal membuat token reset")
	}

	resetLink := fmt.Sprintf("%s/reset-password/%s",
		strings.TrimRight(h.FrontendBaseURL, "/"), token)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Link reset password sudah dibuat",
		"data": fiber.Map{
			"reset_link": resetLink,
			"expires_in": h.TokenTTLSec,
		},
	})
}

// Validate lets the frontend check a link before showing the form.
func (h *PasswordResetHandler) Validate(c *fiber.Ctx) error {
	claims, err := utils.VerifyResetToken(h.JWTSecret, c.Params("token"))
	if err != nil {
		return h.tokenFail(c, err)
	}
	if h.isUsed(claims.ID) {
		return fail200(c, "Link sudah pernah dipakai")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"email": claims.Email},
	})
}

type resetPasswordReq struct {
	Password string `json:"password"`
}

func (h *PasswordResetHandler) Reset(c *fiber.Ctx) error {
	claims, err := utils.VerifyResetToken(h.JWTSecret, c.Params("token"))
	if err != nil {
		return h.tokenFail(c, err)
	}
	if h.isUsed(claims.ID) {
		return fail200(c, "Link sudah pernah dipakai")
	}

	var req resetPasswordReq
	if err := c.BodyParser(&req); err != nil {
		return fail200(c, "Invalid body")
	}

	password := strings.TrimSpace(req.Password)
	if password == "" {
		return fail200(c, "Password baru wajib diisi")
	}
	if len(password) < 6 {
		return fail200(c, "Password minimal 6 karakter")
	}

	var u models.User
	if err := h.DB.Where("email = ?", claims.Email).First(&u).Error; err != nil {
		// token valid tapi usernya sudah tidak ada
		return fail200(c, "User tidak ditemukan")
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return fail500(c, "Gagal memproses password")
	}

	if err := h.DB.Model(&u).Update("password", hashed).Error; err != nil {
		return fail500(c, "Gagal menyimpan password baru")
	}

	h.markUsed(claims.ID)
	logActivity(h.DB, u.ID, "password_reset", "")

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Password sudah direset, silakan login",
	})
}

func (h *PasswordResetHandler) tokenFail(c *fiber.Ctx, err error) error {
	if errors.Is(err, utils.ErrResetTokenExpired) {
		return fail200(c, "Link sudah kedaluwarsa, silakan minta lagi")
	}
	return fail200(c, "Link tidak valid")
}

// Single-use guard: best effort via Redis. Without Redis the token still
// dies at its TTL.
func (h *PasswordResetHandler) isUsed(jti string) bool {
	if h.RDB == nil || jti == "" {
		return false
	}
	n, err := h.RDB.Exists(context.Background(), "pwreset:used:"+jti).Result()
	return err == nil && n > 0
}

func (h *PasswordResetHandler) markUsed(jti string) {
	if h.RDB == nil || jti == "" {
		return
	}
	ttl := time.Duration(h.TokenTTLSec) * time.Second
	if err := h.RDB.Set(context.Background(), "pwreset:used:"+jti, 1, ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("failed to mark reset token as used")
	}
}
