package models

import "time"

// Rating bounds for comments.
const (
	RatingMin = 0
	RatingMax = 5
)

// Comment is a user review of a product with a 0-5 rating.
type Comment struct {
	ID        int       `db:"id" json:"id"`
	ProductID int       `db:"product_id" json:"product_id"`
	UserID    int       `db:"user_id" json:"user_id"`
	Rating    int       `db:"rating" json:"rating"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}
