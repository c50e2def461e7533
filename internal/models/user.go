package models

import "time"

// User represents a registered account. PasswordHash is a bcrypt hash and
// never leaves the server.
type User struct {
	ID           int       `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FirstName    string    `db:"first_name" json:"firstName,omitempty"`
	LastName     string    `db:"last_name" json:"lastName,omitempty"`
	IsStaff      bool      `db:"is_staff" json:"-"`
	IsSuperuser  bool      `db:"is_superuser" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"-"`
	UpdatedAt    time.Time `db:"updated_at" json:"-"`
}
