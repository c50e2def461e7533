package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog product row. Slug is derived from the name
// with a counter suffix when the base slug is taken ("phone", "phone-2", ...).
type Product struct {
	ID          int       `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Slug        string    `db:"slug" json:"slug"`
	Price       float64   `db:"price" json:"price"`
	Description string    `db:"description" json:"description"`
	Discount    float64   `db:"discount" json:"discount"`
	CategoryID  int       `db:"category_id" json:"category_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// DiscountedPrice returns price reduced by the discount percentage, or the
// plain price when no discount is set.
func (p *Product) DiscountedPrice() float64 {
	return discountedPrice(p.Price, p.Discount)
}

// MonthlyPay formats a 24-month installment for the discounted price,
// e.g. "10.0 sum / 24 months". Nil when the discounted price is zero.
func (p *Product) MonthlyPay() *string {
	return monthlyPay(p.DiscountedPrice())
}

func discountedPrice(price, discount float64) float64 {
	if discount <= 0 {
		return price
	}
	d := decimal.NewFromFloat(price).Mul(
		decimal.NewFromInt(1).Sub(decimal.NewFromFloat(discount).Div(decimal.NewFromInt(100))),
	)
	f, _ := d.Float64()
	return f
}

func monthlyPay(discounted float64) *string {
	if discounted == 0 {
		return nil
	}
	monthly := decimal.NewFromFloat(discounted).Div(decimal.NewFromInt(24))
	s := fmt.Sprintf("%s sum / 24 months", monthly.StringFixed(1))
	return &s
}

// ProductSummary is the denormalized list view of a product: category title,
// primary image URL and the per-request like flag are already resolved.
type ProductSummary struct {
	ID              int       `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Slug            string    `db:"slug" json:"slug"`
	Price           float64   `db:"price" json:"price"`
	DiscountedPrice float64   `db:"-" json:"discounted_price"`
	Discount        float64   `db:"discount" json:"discount"`
	UserLikes       bool      `db:"-" json:"user_likes"`
	Image           *string   `db:"image" json:"image"`
	MonthlyPay      *string   `db:"-" json:"monthly_pay"`
	Category        string    `db:"category" json:"category"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// ComputeDerived fills the price-derived fields from the raw columns.
func (s *ProductSummary) ComputeDerived() {
	s.DiscountedPrice = discountedPrice(s.Price, s.Discount)
	s.MonthlyPay = monthlyPay(s.DiscountedPrice)
}

// CommentView is a single comment keyed by the author's username, mirroring
// the detail payload shape.
type CommentView map[string]CommentBody

// CommentBody carries the visible comment fields.
type CommentBody struct {
	Content string    `json:"content"`
	Time    time.Time `json:"time"`
	Rating  int       `json:"rating"`
}

// ProductDetail is the full product view: primary image URLs, comments with
// authors, flattened attributes and the average rating across comments.
type ProductDetail struct {
	ID              int               `json:"id"`
	Name            string            `json:"name"`
	Slug            string            `json:"slug"`
	Price           float64           `json:"price"`
	DiscountedPrice float64           `json:"discounted_price"`
	Discount        float64           `json:"discount"`
	Description     string            `json:"description"`
	MonthlyPay      *string           `json:"monthly_pay"`
	Category        string            `json:"category"`
	Images          []string          `json:"images"`
	UserLikes       bool              `json:"user_likes"`
	Comments        []CommentView     `json:"comments"`
	Rating          *float64          `json:"rating"`
	Attributes      map[string]string `json:"attributes"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}
