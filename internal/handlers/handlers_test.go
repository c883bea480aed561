package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/lokerhub/lokerhub-be/internal/handlers"
	"github.com/lokerhub/lokerhub-be/internal/middleware"
	"github.com/lokerhub/lokerhub-be/internal/models"
	"github.com/lokerhub/lokerhub-be/internal/services/intake"
	"github.com/lokerhub/lokerhub-be/internal/services/lifecycle"
	"github.com/lokerhub/lokerhub-be/internal/utils"
)

const (
	testSecret      = "handlers-test-secret"
	testExpiresMin  = 60
	testResetTTLSec = 1800
)

type testEnv struct {
	app *fiber.App
	db  *gorm.DB
}

// newTestEnv wires the same route table as cmd/api/main.go against an
// in-memory database, without Redis.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.ApplicantProfile{},
		&models.Job{},
		&models.JobPostDetail{},
		&models.Application{},
		&models.ActivityLog{},
		&models.UserImage{},
		&models.Contact{},
		&models.TemplateCV{},
	))

	lifecycleS := lifecycle.NewService(db, nil)
	intakeS := intake.NewService(db)

	authH := &handlers.AuthHandler{DB: db, JWTSecret: testSecret, Expires: testExpiresMin}
	resetH := &handlers.PasswordResetHandler{
		DB:              db,
		JWTSecret:       testSecret,
		TokenTTLSec:     testResetTTLSec,
		FrontendBaseURL: "http://localhost:3000",
	}
	jobH := handlers.NewJobHandler(db, lifecycleS)
	adminJobH := handlers.NewAdminJobHandler(db, lifecycleS)
	appH := handlers.NewApplicationHandler(db, intakeS)
	contactH := handlers.NewContactHandler(db)
	templateH := handlers.NewTemplateCVHandler(db)

	app := fiber.New()
	api := app.Group("/api")

	api.Post("/auth/register", authH.Register)
	api.Post("/auth/login", authH.Login)
	api.Post("/auth/logout", authH.Logout)
	api.Post("/auth/forgot-password", resetH.Forgot)
	api.Get("/auth/reset-password/:token", resetH.Validate)
	api.Post("/auth/reset-password/:token", resetH.Reset)

	api.Get("/jobs", jobH.ListActive)
	api.Get("/jobs/featured", jobH.ListFeatured)
	api.Get("/jobs/:id", jobH.GetDetail)
	api.Get("/cv-templates", templateH.ListPublic)
	api.Post("/contact", contactH.Submit)

	protected := api.Group("/",
		middleware.JWTFromCookie(testSecret),
		middleware.AttachJWTLocals(),
	)

	protected.Get("/me", authH.Me)
	protected.Post("/jobs/:id/apply", middleware.RequireRoles("applicant"), appH.Apply)
	protected.Get("/my-applications", middleware.RequireRoles("applicant"), appH.Mine)

	recruiter := protected.Group("/recruiter", middleware.RequireRoles("recruiter", "admin"))
	recruiter.Post("/jobs", jobH.Create)
	recruiter.Get("/jobs", jobH.ListMine)
	recruiter.Put("/jobs/:id", jobH.Update)
	recruiter.Delete("/jobs/:id", jobH.Delete)
	recruiter.Post("/jobs/:id/submit", jobH.Submit)
	recruiter.Get("/jobs/:id/applications", appH.ForJob)

	protected.Patch("/applications/:id/status",
		middleware.RequireRoles("recruiter", "admin"), appH.Review)

	admin := protected.Group("/admin", middleware.RequireRoles("admin"))
	admin.Get("/jobs/pending", adminJobH.Pending)
	admin.Get("/jobs/active", adminJobH.Active)
	admin.Post("/jobs/:id/approve", adminJobH.Approve)
	admin.Post("/jobs/:id/reject", adminJobH.Reject)
	admin.Post("/jobs/:id/feature", adminJobH.ToggleFeature)
	admin.Post("/jobs/:id/hide", adminJobH.Hide)
	admin.Post("/jobs/:id/reopen", adminJobH.Reopen)

	return &testEnv{app: app, db: db}
}

// seedUser inserts a user directly and returns a session token for them.
func (e *testEnv) seedUser(t *testing.T, role models.Role) (models.User, string) {
	t.Helper()
	hashed, err := utils.HashPassword("rahasia123")
	require.NoError(t, err)

	u := models.User{
		FullName: "User " + string(role),
		Email:    uuid.New().String() + "@test.local",
		Password: hashed,
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, e.db.Create(&u).Error)

	tok, err := utils.SignJWT(testSecret, u.ID.String(), string(u.Role), testExpiresMin)
	require.NoError(t, err)
	return u, tok
}

func (e *testEnv) request(t *testing.T, method, path string, body interface{}, token string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.CookieName, Value: token})
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
