package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texnomart/catalog_api/internal/middleware"
	"github.com/texnomart/catalog_api/internal/models"
	"github.com/texnomart/catalog_api/internal/service"
	"github.com/texnomart/catalog_api/internal/utils"
)

// --- Fakes ---

type stubUserRepo struct {
	users map[string]*models.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*models.User)}
}

func (s *stubUserRepo) GetByUsername(username string) (*models.User, error) {
	u, ok := s.users[username]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return u, nil
}

func (s *stubUserRepo) UsernameExists(username string) (bool, error) {
	_, ok := s.users[username]
	return ok, nil
}

func (s *stubUserRepo) EmailExists(email string) (bool, error) {
	for _, u := range s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubUserRepo) Create(user *models.User) error {
	user.ID = len(s.users) + 1
	s.users[user.Username] = user
	return nil
}

type stubBlacklist struct {
	revoked map[string]bool
}

func (s *stubBlacklist) Revoke(_ context.Context, jti string, _ time.Time) error {
	s.revoked[jti] = true
	return nil
}

func (s *stubBlacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	return s.revoked[jti], nil
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	tokens := utils.NewTokenManager("test-secret", 30*time.Minute, 24*time.Hour)
	authSvc := service.NewAuthService(newStubUserRepo(), tokens, &stubBlacklist{revoked: make(map[string]bool)})
	h := NewAuthHandler(authSvc, middleware.NewLoginRateLimiter())

	router := gin.New()
	router.POST("/register/", h.Register)
	router.POST("/login/", h.Login)
	router.POST("/logout/", h.Logout)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func registerBody() gin.H {
	return gin.H{
		"username":  "alisher",
		"email":     "alisher@example.com",
		"password":  "s3cret-pass",
		"password2": "s3cret-pass",
	}
}

func responseData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data
}

// --- Tests ---

func TestRegisterEndpoint(t *testing.T) {
	router := newAuthRouter()

	w := postJSON(t, router, "/register/", registerBody())
	assert.Equal(t, http.StatusCreated, w.Code)

	data := responseData(t, w)
	assert.Equal(t, "alisher", data["username"])
	assert.NotEmpty(t, data["access"])
	assert.NotEmpty(t, data["refresh"])
}

func TestRegisterValidation(t *testing.T) {
	router := newAuthRouter()

	// Duplicate username
	w := postJSON(t, router, "/register/", registerBody())
	require.Equal(t, http.StatusCreated, w.Code)
	w = postJSON(t, router, "/register/", registerBody())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "USERNAME_TAKEN")

	// Password mismatch
	body := registerBody()
	body["username"] = "someone"
	body["email"] = "someone@example.com"
	body["password2"] = "different"
	w = postJSON(t, router, "/register/", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "PASSWORD_MISMATCH")

	// Missing fields
	w = postJSON(t, router, "/register/", gin.H{"username": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginEndpoint(t *testing.T) {
	router := newAuthRouter()

	w := postJSON(t, router, "/register/", registerBody())
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, router, "/login/", gin.H{"username": "alisher", "password": "s3cret-pass"})
	assert.Equal(t, http.StatusOK, w.Code)
	data := responseData(t, w)
	assert.NotEmpty(t, data["access"])
	assert.NotEmpty(t, data["refresh"])

	// Wrong password gets the generic rejection.
	w = postJSON(t, router, "/login/", gin.H{"username": "alisher", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_CREDENTIALS")
}

func TestLoginRateLimited(t *testing.T) {
	router := newAuthRouter()

	var last *httptest.ResponseRecorder
	for i := 0; i < 6; i++ {
		last = postJSON(t, router, "/login/", gin.H{"username": fmt.Sprintf("ghost%d", i), "password": "x"})
	}
	assert.Equal(t, http.StatusTooManyRequests, last.Code)
}

func TestLoginRateLimitIgnoresSuccesses(t *testing.T) {
	router := newAuthRouter()

	w := postJSON(t, router, "/register/", registerBody())
	require.Equal(t, http.StatusCreated, w.Code)

	// Valid logins never trip the limiter, however many in a row.
	for i := 0; i < 10; i++ {
		w = postJSON(t, router, "/login/", gin.H{"username": "alisher", "password": "s3cret-pass"})
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestLoginRateLimitResetsOnSuccess(t *testing.T) {
	router := newAuthRouter()

	w := postJSON(t, router, "/register/", registerBody())
	require.Equal(t, http.StatusCreated, w.Code)

	for i := 0; i < 4; i++ {
		w = postJSON(t, router, "/login/", gin.H{"username": "alisher", "password": "wrong"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w = postJSON(t, router, "/login/", gin.H{"username": "alisher", "password": "s3cret-pass"})
	assert.Equal(t, http.StatusOK, w.Code)

	// The success cleared the failure count, so more bad attempts fit in
	// the window before a 429.
	for i := 0; i < 5; i++ {
		w = postJSON(t, router, "/login/", gin.H{"username": "alisher", "password": "wrong"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
	w = postJSON(t, router, "/login/", gin.H{"username": "alisher", "password": "wrong"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestLogoutEndpoint(t *testing.T) {
	router := newAuthRouter()

	w := postJSON(t, router, "/register/", registerBody())
	require.Equal(t, http.StatusCreated, w.Code)
	refresh := responseData(t, w)["refresh"].(string)

	w = postJSON(t, router, "/logout/", gin.H{"refresh": refresh})
	assert.Equal(t, http.StatusOK, w.Code)

	// Replaying the revoked token gets the same generic rejection as garbage.
	w = postJSON(t, router, "/logout/", gin.H{"refresh": refresh})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")

	w = postJSON(t, router, "/logout/", gin.H{"refresh": "garbage"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
}
