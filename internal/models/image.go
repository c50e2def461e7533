package models

import "time"

// Image is a product photo stored in the media bucket. At most one image per
// product should be primary; the upload path demotes the previous primary.
type Image struct {
	ID        int       `db:"id" json:"id"`
	ProductID int       `db:"product_id" json:"product_id"`
	URL       string    `db:"url" json:"url"`
	IsPrimary bool      `db:"is_primary" json:"is_primary"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}
