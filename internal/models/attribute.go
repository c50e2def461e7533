package models

import "time"

// AttributeKey is a reusable attribute name ("color", "memory", ...).
type AttributeKey struct {
	ID        int       `db:"id" json:"id"`
	Key       string    `db:"key" json:"key"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

// AttributeValue is a reusable attribute value ("black", "256GB", ...).
type AttributeValue struct {
	ID        int       `db:"id" json:"id"`
	Value     string    `db:"value" json:"value"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

// Attribute joins a product to one key/value pair.
type Attribute struct {
	ID        int       `db:"id" json:"id"`
	ProductID int       `db:"product_id" json:"product_id"`
	KeyID     int       `db:"key_id" json:"key_id"`
	ValueID   int       `db:"value_id" json:"value_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}
