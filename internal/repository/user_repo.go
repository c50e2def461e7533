package repository

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/texnomart/catalog_api/internal/models"
	"github.com/texnomart/catalog_api/internal/utils"
)

// UserRepository handles data access for user accounts.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByUsername returns a user by username.
func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Get(&user, `SELECT * FROM users WHERE username = $1`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID returns a user by id.
func (r *UserRepository) GetByID(id int) (*models.User, error) {
	var user models.User
	err := r.db.Get(&user, `SELECT * FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UsernameExists reports whether a username is already taken.
func (r *UserRepository) UsernameExists(username string) (bool, error) {
	var exists bool
	err := r.db.Get(&exists, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username)
	return exists, err
}

// EmailExists reports whether an email is already taken.
func (r *UserRepository) EmailExists(email string) (bool, error) {
	var exists bool
	err := r.db.Get(&exists, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
	return exists, err
}

// Create inserts a user and fills the generated fields. The unique indexes
// catch the race where two registrations pass the existence checks at once.
func (r *UserRepository) Create(user *models.User) error {
	const q = `
		INSERT INTO users (username, email, password_hash, first_name, last_name, is_staff, is_superuser)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowx(q,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.IsStaff,
		user.IsSuperuser,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if isUniqueViolation(err) {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && strings.Contains(pqErr.Constraint, "email") {
			return utils.ErrEmailTaken
		}
		return utils.ErrUsernameTaken
	}
	return err
}

// GetStaffSuperuserEmails returns the non-empty email addresses of accounts
// that are both staff and superuser. Recipients of product creation mail.
func (r *UserRepository) GetStaffSuperuserEmails() ([]string, error) {
	var emails []string
	err := r.db.Select(&emails, `
		SELECT email FROM users
		WHERE is_staff = true AND is_superuser = true AND email != ''`)
	if err != nil {
		return nil, err
	}
	return emails, nil
}
