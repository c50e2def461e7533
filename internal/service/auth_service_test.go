package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/texnomart/catalog_api/internal/models"
	"github.com/texnomart/catalog_api/internal/utils"
)

// --- Mocks ---

type mockUserRepo struct {
	users     map[string]*models.User
	nextID    int
	createErr error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*models.User), nextID: 1}
}

func (m *mockUserRepo) GetByUsername(username string) (*models.User, error) {
	u, ok := m.users[username]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) UsernameExists(username string) (bool, error) {
	_, ok := m.users[username]
	return ok, nil
}

func (m *mockUserRepo) EmailExists(email string) (bool, error) {
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) Create(user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = m.nextID
	m.nextID++
	m.users[user.Username] = user
	return nil
}

type mockBlacklist struct {
	revoked map[string]bool
}

func newMockBlacklist() *mockBlacklist {
	return &mockBlacklist{revoked: make(map[string]bool)}
}

func (m *mockBlacklist) Revoke(_ context.Context, jti string, _ time.Time) error {
	m.revoked[jti] = true
	return nil
}

func (m *mockBlacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	return m.revoked[jti], nil
}

func newTestAuthService() (*AuthService, *mockUserRepo, *mockBlacklist) {
	users := newMockUserRepo()
	blacklist := newMockBlacklist()
	tokens := utils.NewTokenManager("test-secret", 30*time.Minute, 24*time.Hour)
	return NewAuthService(users, tokens, blacklist), users, blacklist
}

func validRegisterRequest() *RegisterRequest {
	return &RegisterRequest{
		Username:  "alisher",
		Email:     "alisher@example.com",
		Password:  "s3cret-pass",
		Password2: "s3cret-pass",
	}
}

// --- Tests ---

func TestRegisterIssuesTokenPair(t *testing.T) {
	svc, users, _ := newTestAuthService()

	user, pair, err := svc.Register(validRegisterRequest())
	require.NoError(t, err)
	assert.Equal(t, "alisher", user.Username)
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)

	stored := users.users["alisher"]
	require.NotNil(t, stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret-pass")))
	assert.NotEqual(t, "s3cret-pass", stored.PasswordHash)
}

func TestRegisterRejectsTakenUsername(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, _, err := svc.Register(validRegisterRequest())
	require.NoError(t, err)

	req := validRegisterRequest()
	req.Email = "other@example.com"
	_, _, err = svc.Register(req)
	assert.ErrorIs(t, err, utils.ErrUsernameTaken)
}

func TestRegisterRejectsPasswordMismatch(t *testing.T) {
	svc, _, _ := newTestAuthService()

	req := validRegisterRequest()
	req.Password2 = "different"
	_, _, err := svc.Register(req)
	assert.ErrorIs(t, err, utils.ErrPasswordMismatch)
}

func TestRegisterRejectsTakenEmail(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, _, err := svc.Register(validRegisterRequest())
	require.NoError(t, err)

	req := validRegisterRequest()
	req.Username = "someone_else"
	_, _, err = svc.Register(req)
	assert.ErrorIs(t, err, utils.ErrEmailTaken)
}

func TestRegisterSurfacesInsertUniqueViolation(t *testing.T) {
	// A concurrent registration can slip past the existence checks; the
	// repository maps the resulting unique violation to the same sentinel.
	svc, users, _ := newTestAuthService()
	users.createErr = utils.ErrEmailTaken

	_, _, err := svc.Register(validRegisterRequest())
	assert.ErrorIs(t, err, utils.ErrEmailTaken)

	users.createErr = utils.ErrUsernameTaken
	_, _, err = svc.Register(validRegisterRequest())
	assert.ErrorIs(t, err, utils.ErrUsernameTaken)
}

func TestLoginSucceedsWithCorrectPassword(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, _, err := svc.Register(validRegisterRequest())
	require.NoError(t, err)

	user, pair, err := svc.Login("alisher", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "alisher", user.Username)
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)
}

func TestLoginCollapsesFailureModes(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, _, err := svc.Register(validRegisterRequest())
	require.NoError(t, err)

	// Unknown user and wrong password must be indistinguishable.
	_, _, err = svc.Login("nobody", "whatever")
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)

	_, _, err = svc.Login("alisher", "wrong-pass")
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	svc, _, blacklist := newTestAuthService()
	ctx := context.Background()

	_, pair, err := svc.Register(validRegisterRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, pair.Refresh))
	assert.Len(t, blacklist.revoked, 1)

	// A second logout with the same token is rejected.
	err = svc.Logout(ctx, pair.Refresh)
	assert.ErrorIs(t, err, utils.ErrTokenRevoked)
}

func TestLogoutRejectsAccessToken(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, pair, err := svc.Register(validRegisterRequest())
	require.NoError(t, err)

	err = svc.Logout(context.Background(), pair.Access)
	assert.ErrorIs(t, err, utils.ErrInvalidToken)
}

func TestLogoutRejectsGarbageToken(t *testing.T) {
	svc, _, _ := newTestAuthService()

	err := svc.Logout(context.Background(), "garbage")
	assert.ErrorIs(t, err, utils.ErrInvalidToken)
}
