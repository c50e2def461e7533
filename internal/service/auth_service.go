package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/texnomart/catalog_api/internal/models"
	"github.com/texnomart/catalog_api/internal/utils"
)

// AuthUserRepository is the account surface the auth service needs.
type AuthUserRepository interface {
	GetByUsername(username string) (*models.User, error)
	UsernameExists(username string) (bool, error)
	EmailExists(email string) (bool, error)
	Create(user *models.User) error
}

// TokenBlacklist tracks revoked refresh tokens.
type TokenBlacklist interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AuthService is the single token authority: registration, login and logout
// all flow through it, issuing and revoking one access/refresh pair scheme.
type AuthService struct {
	users     AuthUserRepository
	tokens    *utils.TokenManager
	blacklist TokenBlacklist
}

// NewAuthService constructs an AuthService.
func NewAuthService(users AuthUserRepository, tokens *utils.TokenManager, blacklist TokenBlacklist) *AuthService {
	return &AuthService{users: users, tokens: tokens, blacklist: blacklist}
}

// RegisterRequest carries the registration payload.
type RegisterRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password" binding:"required"`
	Password2 string `json:"password2" binding:"required"`
}

// TokenPair is the issued credential pair.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Register validates the registration payload, creates the user and issues a
// token pair immediately.
func (s *AuthService) Register(req *RegisterRequest) (*models.User, *TokenPair, error) {
	taken, err := s.users.UsernameExists(req.Username)
	if err != nil {
		return nil, nil, err
	}
	if taken {
		return nil, nil, utils.ErrUsernameTaken
	}

	if req.Password != req.Password2 {
		return nil, nil, utils.ErrPasswordMismatch
	}

	taken, err = s.users.EmailExists(req.Email)
	if err != nil {
		return nil, nil, err
	}
	if taken {
		return nil, nil, utils.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	}
	if err := s.users.Create(user); err != nil {
		return nil, nil, err
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, nil, err
	}

	log.Info().Str("username", user.Username).Msg("user registered")
	return user, pair, nil
}

// Login verifies credentials and issues a fresh token pair. All failure modes
// collapse into ErrInvalidCredentials so the response cannot be used for user
// enumeration.
func (s *AuthService) Login(username, password string) (*models.User, *TokenPair, error) {
	user, err := s.users.GetByUsername(username)
	if err != nil {
		return nil, nil, utils.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, utils.ErrInvalidCredentials
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, nil, err
	}

	log.Info().Str("username", username).Msg("login successful")
	return user, pair, nil
}

// Logout revokes the presented refresh token. A malformed or already revoked
// token is rejected without detail.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.tokens.ValidateType(refreshToken, utils.TokenTypeRefresh)
	if err != nil {
		return utils.ErrInvalidToken
	}

	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return err
	}
	if revoked {
		return utils.ErrTokenRevoked
	}

	return s.blacklist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

func (s *AuthService) issuePair(user *models.User) (*TokenPair, error) {
	access, refresh, err := s.tokens.GeneratePair(user.ID, user.Username, user.Email, user.IsSuperuser)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}
