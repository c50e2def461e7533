package models

import "time"

// Category groups products. Slug is derived from the title on creation and
// both are unique.
type Category struct {
	ID        int       `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Slug      string    `db:"slug" json:"slug"`
	Image     string    `db:"image" json:"image"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CategorySummary is the list view of a category with product aggregates.
type CategorySummary struct {
	ID                   int       `db:"id" json:"id"`
	Title                string    `db:"title" json:"title"`
	Slug                 string    `db:"slug" json:"slug"`
	Image                string    `db:"image" json:"image_of_category"`
	ProductCount         int       `db:"product_count" json:"product_count"`
	TotalPriceOfProducts float64   `db:"total_price_of_products" json:"total_price_of_products"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
}
