package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/texnomart/catalog_api/internal/models"
)

// ImageRepository handles data access for product images.
type ImageRepository struct {
	db *sqlx.DB
}

// NewImageRepository creates a new ImageRepository.
func NewImageRepository(db *sqlx.DB) *ImageRepository {
	return &ImageRepository{db: db}
}

// Create inserts an image. When the new image is primary, any previous
// primary image of the product is demoted in the same transaction so at most
// one primary exists per product.
func (r *ImageRepository) Create(image *models.Image) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if image.IsPrimary {
		_, err = tx.Exec(`
			UPDATE images SET is_primary = false, updated_at = NOW()
			WHERE product_id = $1 AND is_primary = true`, image.ProductID)
		if err != nil {
			return err
		}
	}

	const q = `
		INSERT INTO images (product_id, url, is_primary)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`
	err = tx.QueryRowx(q, image.ProductID, image.URL, image.IsPrimary).
		Scan(&image.ID, &image.CreatedAt, &image.UpdatedAt)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// ListByProduct returns all images of a product, newest first.
func (r *ImageRepository) ListByProduct(productID int) ([]models.Image, error) {
	images := []models.Image{}
	err := r.db.Select(&images, `
		SELECT * FROM images WHERE product_id = $1 ORDER BY created_at DESC`, productID)
	if err != nil {
		return nil, err
	}
	return images, nil
}
