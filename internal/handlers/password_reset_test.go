package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lokerhub/lokerhub-be/internal/models"
	"github.com/lokerhub/lokerhub-be/internal/utils"
)

func requestResetToken(t *testing.T, env *testEnv, email string) string {
	t.Helper()
	resp := env.request(t, http.MethodPost, "/api/auth/forgot-password",
		map[string]string{"email": email}, "")
	body := decodeBody(t, resp)
	require.Equal(t, true, body["success"])

	data := body["data"].(map[string]interface{})
	link := data["reset_link"].(string)
	parts := strings.Split(link, "/")
	return parts[len(parts)-1]
}

func TestPasswordResetFlow(t *testing.T) {
	env := newTestEnv(t)
	u, _ := env.seedUser(t, models.RoleApplicant)

	token := requestResetToken(t, env, u.Email)

	// link masih valid
	resp := env.request(t, http.MethodGet, "/api/auth/reset-password/"+token, nil, "")
	body := decodeBody(t, resp)
	require.Equal(t, true, body["success"])

	// reset ke password baru
	resp = env.request(t, http.MethodPost, "/api/auth/reset-password/"+token,
		map[string]string{"password": "baru-banget-123"}, "")
	body = decodeBody(t, resp)
	require.Equal(t, true, body["success"])

	// login pakai password baru
	resp = env.request(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    u.Email,
		"password": "baru-banget-123",
	}, "")
	body = decodeBody(t, resp)
	assert.Equal(t, true, body["success"])

	// password lama mati
	resp = env.request(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    u.Email,
		"password": "rahasia123",
	}, "")
	body = decodeBody(t, resp)
	assert.Equal(t, false, body["success"])
}

func TestExpiredResetTokenRejected(t *testing.T) {
	env := newTestEnv(t)
	u, _ := env.seedUser(t, models.RoleApplicant)

	// token yang sudah lewat masa berlakunya
	token, err := utils.SignResetToken(testSecret, u.Email, -10)
	require.NoError(t, err)

	resp := env.request(t, http.MethodPost, "/api/auth/reset-password/"+token,
		map[string]string{"password": "baru-banget-123"}, "")
	body := decodeBody(t, resp)
	assert.Equal(t, false, body["success"])
}

func TestResetTokenForUnknownUserRejected(t *testing.T) {
	env := newTestEnv(t)

	token, err := utils.SignResetToken(testSecret, "hilang@test.local", testResetTTLSec)
	require.NoError(t, err)

	resp := env.request(t, http.MethodPost, "/api/auth/reset-password/"+token,
		map[string]string{"password": "baru-banget-123"}, "")
	body := decodeBody(t, resp)
	assert.Equal(t, false, body["success"])
}

func TestGarbageResetTokenRejected(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodGet, "/api/auth/reset-password/bukan-token", nil, "")
	body := decodeBody(t, resp)
	assert.Equal(t, false, body["success"])
}

func TestSessionTokenNotUsableAsResetToken(t *testing.T) {
	env := newTestEnv(t)
	u, tok := env.seedUser(t, models.RoleApplicant)
	_ = u

	// JWT sesi punya purpose berbeda, harus ditolak
	resp := env.request(t, http.MethodPost, "/api/auth/reset-password/"+tok,
		map[string]string{"password": "baru-banget-123"}, "")
	body := decodeBody(t, resp)
	assert.Equal(t, false, body["success"])
}
