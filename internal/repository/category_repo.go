package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/texnomart/catalog_api/internal/models"
	"github.com/texnomart/catalog_api/internal/utils"
)

// uniqueViolation is the PostgreSQL error code for unique constraint breaches.
const uniqueViolation = "23505"

// CategoryRepository handles data access for categories.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// ListWithStats returns all categories with product count and total product
// price, newest first. Optional title search.
func (r *CategoryRepository) ListWithStats(search string) ([]models.CategorySummary, error) {
	const q = `
		SELECT c.id, c.title, c.slug, c.image, c.created_at,
		       COUNT(p.id) AS product_count,
		       COALESCE(SUM(p.price), 0) AS total_price_of_products
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id
		WHERE ($1 = '' OR c.title ILIKE '%' || $1 || '%')
		GROUP BY c.id
		ORDER BY c.created_at DESC`

	categories := []models.CategorySummary{}
	if err := r.db.Select(&categories, q, search); err != nil {
		return nil, err
	}
	return categories, nil
}

// GetBySlug returns a single category by slug.
func (r *CategoryRepository) GetBySlug(slug string) (*models.Category, error) {
	var c models.Category
	err := r.db.Get(&c, `SELECT * FROM categories WHERE slug = $1`, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a category. A duplicate title or slug maps to
// utils.ErrDuplicateTitle.
func (r *CategoryRepository) Create(category *models.Category) error {
	const q = `
		INSERT INTO categories (title, slug, image)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowx(q, category.Title, category.Slug, category.Image).
		Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
	if isUniqueViolation(err) {
		return utils.ErrDuplicateTitle
	}
	return err
}

// Update updates title, slug and image of a category identified by its
// current slug.
func (r *CategoryRepository) Update(currentSlug string, category *models.Category) error {
	const q = `
		UPDATE categories
		SET title = $1, slug = $2, image = $3, updated_at = NOW()
		WHERE slug = $4
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowx(q, category.Title, category.Slug, category.Image, currentSlug).
		Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return utils.ErrNotFound
	}
	if isUniqueViolation(err) {
		return utils.ErrDuplicateTitle
	}
	return err
}

// Delete removes a category; products and their children go with it via
// ON DELETE CASCADE.
func (r *CategoryRepository) Delete(id int) error {
	res, err := r.db.Exec(`DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return utils.ErrNotFound
	}
	return nil
}

// ProductNames returns the names of all products in a category, used for the
// deletion snapshot.
func (r *CategoryRepository) ProductNames(categoryID int) ([]string, error) {
	names := []string{}
	err := r.db.Select(&names, `
		SELECT name FROM products WHERE category_id = $1 ORDER BY created_at DESC`, categoryID)
	if err != nil {
		return nil, err
	}
	return names, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}
