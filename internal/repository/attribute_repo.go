package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/texnomart/catalog_api/internal/models"
)

// AttributeRepository handles data access for the attribute lookup tables and
// the product/attribute join.
type AttributeRepository struct {
	db *sqlx.DB
}

// NewAttributeRepository creates a new AttributeRepository.
func NewAttributeRepository(db *sqlx.DB) *AttributeRepository {
	return &AttributeRepository{db: db}
}

// ListKeys returns all attribute keys, newest first.
func (r *AttributeRepository) ListKeys() ([]models.AttributeKey, error) {
	keys := []models.AttributeKey{}
	if err := r.db.Select(&keys, `SELECT * FROM attribute_keys ORDER BY created_at DESC`); err != nil {
		return nil, err
	}
	return keys, nil
}

// ListValues returns all attribute values, newest first.
func (r *AttributeRepository) ListValues() ([]models.AttributeValue, error) {
	values := []models.AttributeValue{}
	if err := r.db.Select(&values, `SELECT * FROM attribute_values ORDER BY created_at DESC`); err != nil {
		return nil, err
	}
	return values, nil
}

// MapForProduct returns the flattened key→value attribute map of a product,
// used for deletion snapshots.
func (r *AttributeRepository) MapForProduct(productID int) (map[string]string, error) {
	var rows []struct {
		Key   string `db:"key"`
		Value string `db:"value"`
	}
	err := r.db.Select(&rows, `
		SELECT k.key, v.value
		FROM attributes a
		JOIN attribute_keys k ON k.id = a.key_id
		JOIN attribute_values v ON v.id = a.value_id
		WHERE a.product_id = $1`, productID)
	if err != nil {
		return nil, err
	}
	attributes := make(map[string]string, len(rows))
	for _, row := range rows {
		attributes[row.Key] = row.Value
	}
	return attributes, nil
}
