package main

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/lokerhub/lokerhub-be/internal/config"
	"github.com/lokerhub/lokerhub-be/internal/db"
	"github.com/lokerhub/lokerhub-be/internal/handlers"
	"github.com/lokerhub/lokerhub-be/internal/logging"
	"github.com/lokerhub/lokerhub-be/internal/middleware"
	"github.com/lokerhub/lokerhub-be/internal/models"
	"github.com/lokerhub/lokerhub-be/internal/services/intake"
	"github.com/lokerhub/lokerhub-be/internal/services/lifecycle"
)

func main() {
	_ = godotenv.Load()
	logging.Setup()

	cfg := config.Load()
	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database connect failed")
	}

	// Redis hanya dipakai sebagai cache listing + guard token reset; service
	// tetap jalan tanpa Redis.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Warn().Err(err).Msg("redis unavailable, listing cache disabled")
		rdb = nil
	}

	if err := gdb.AutoMigrate(
		&models.User{},
		&models.ApplicantProfile{},
		&models.Job{},
		&models.JobPostDetail{},
		&models.Application{},
		&models.ActivityLog{},
		&models.UserImage{},
		&models.Contact{},
		&models.TwoFactorAuth{},
		&models.TemplateCV{},
	); err != nil {
		log.Fatal().Err(err).Msg("automigrate failed")
	}

	lifecycleS := lifecycle.NewService(gdb, rdb)
	intakeS := intake.NewService(gdb)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendBaseURL,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "Content-Length",
		AllowCredentials: true,
	}))

	app.Options("/*", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	app.Static("/uploads", cfg.UploadDir)

	authH := &handlers.AuthHandler{
		DB:        gdb,
		JWTSecret: cfg.JWTSecret,
		Expires:   cfg.JWTExpiresMin,
	}
	googleH := &handlers.GoogleOAuthHandler{
		DB:              gdb,
		JWTSecret:       cfg.JWTSecret,
		Expires:         cfg.JWTExpiresMin,
		GoogleClientID:  cfg.GoogleClientID,
		GoogleSecret:    cfg.GoogleSecret,
		GoogleRedirect:  cfg.GoogleRedirect,
		FrontendBaseURL: cfg.FrontendBaseURL,
	}
	resetH := &handlers.PasswordResetHandler{
		DB:              gdb,
		RDB:             rdb,
		JWTSecret:       cfg.JWTSecret,
		TokenTTLSec:     cfg.ResetTokenTTLSec,
		FrontendBaseURL: cfg.FrontendBaseURL,
	}
	jobH := handlers.NewJobHandler(gdb, lifecycleS)
	adminJobH := handlers.NewAdminJobHandler(gdb, lifecycleS)
	appH := handlers.NewApplicationHandler(gdb, intakeS)
	profileH := handlers.NewProfileHandler(gdb, cfg.UploadDir, cfg.PublicBaseURL)
	adminUserH := handlers.NewAdminUserHandler(gdb)
	templateH := handlers.NewTemplateCVHandler(gdb)
	contactH := handlers.NewContactHandler(gdb)

	api := app.Group("/api")

	// public
	api.Post("/auth/register", authH.Register)
	api.Post("/auth/login", authH.Login)
	api.Post("/auth/logout", authH.Logout)
	api.Post("/auth/forgot-password", resetH.Forgot)
	api.Get("/auth/reset-password/:token", resetH.Validate)
	api.Post("/auth/reset-password/:token", resetH.Reset)
	api.Get("/auth/google/start", googleH.GoogleStart)
	api.Get("/auth/google/callback", googleH.GoogleCallback)

	api.Get("/jobs", jobH.ListActive)
	api.Get("/jobs/featured", jobH.ListFeatured)
	api.Get("/jobs/:id", jobH.GetDetail)

	api.Get("/cv-templates", templateH.ListPublic)
	api.Get("/cv-templates/:id", templateH.GetOne)

	api.Post("/contact", contactH.Submit)

	// protected (JWT dari cookie)
	protected := api.Group("/",
		middleware.JWTFromCookie(cfg.JWTSecret),
		middleware.AttachJWTLocals(),
	)

	protected.Get("/me", authH.Me)

	// applicant
	protected.Post("/jobs/:id/apply",
		middleware.RequireRoles("applicant"),
		appH.Apply,
	)
	protected.Get("/my-applications",
		middleware.RequireRoles("applicant"),
		appH.Mine,
	)
	protected.Get("/applicant/profile",
		middleware.RequireRoles("applicant"),
		profileH.Get,
	)
	protected.Patch("/applicant/profile",
		middleware.RequireRoles("applicant"),
		profileH.Update,
	)
	protected.Post("/applicant/resume",
		middleware.RequireRoles("applicant"),
		profileH.UploadResume,
	)
	protected.Post("/me/avatar", profileH.UploadAvatar)

	// recruiter (admin juga boleh)
	recruiter := protected.Group("/recruiter", middleware.RequireRoles("recruiter", "admin"))
	recruiter.Post("/jobs", jobH.Create)
	recruiter.Get("/jobs", jobH.ListMine)
	recruiter.Get("/jobs/:id", jobH.GetDetail)
	recruiter.Put("/jobs/:id", jobH.Update)
	recruiter.Delete("/jobs/:id", jobH.Delete)
	recruiter.Post("/jobs/:id/submit", jobH.Submit)
	recruiter.Get("/jobs/:id/applications", appH.ForJob)

	protected.Patch("/applications/:id/status",
		middleware.RequireRoles("recruiter", "admin"),
		appH.Review,
	)

	// admin only
	admin := protected.Group("/admin", middleware.RequireRoles("admin"))
	admin.Get("/jobs/pending", adminJobH.Pending)
	admin.Get("/jobs/active", adminJobH.Active)
	admin.Post("/jobs/:id/approve", adminJobH.Approve)
	admin.Post("/jobs/:id/reject", adminJobH.Reject)
	admin.Post("/jobs/:id/feature", adminJobH.ToggleFeature)
	admin.Post("/jobs/:id/hide", adminJobH.Hide)
	admin.Post("/jobs/:id/reopen", adminJobH.Reopen)

	admin.Get("/users", adminUserH.List)
	admin.Post("/users", adminUserH.Create)
	admin.Put("/users/:id", adminUserH.Update)
	admin.Delete("/users/:id", adminUserH.Delete)
	admin.Get("/recruiters", adminUserH.Recruiters)
	admin.Get("/activity-logs", adminUserH.ActivityLogs)

	admin.Post("/cv-templates", templateH.Create)
	admin.Put("/cv-templates/:id", templateH.Update)
	admin.Delete("/cv-templates/:id", templateH.Delete)

	admin.Get("/contacts", contactH.List)

	log.Info().Str("port", cfg.AppPort).Msg("listening")
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
