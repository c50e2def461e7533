package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gosimple/slug"
	"github.com/jmoiron/sqlx"

	"github.com/texnomart/catalog_api/internal/models"
	"github.com/texnomart/catalog_api/internal/utils"
)

// ProductRepository handles data access for products, likes and the
// denormalized read views.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// summarySelect is the shared projection for product list views: category
// title joined in, primary image resolved by subquery.
const summarySelect = `
	SELECT p.id, p.name, p.slug, p.price, p.discount, p.created_at,
	       c.title AS category,
	       (SELECT i.url FROM images i
	        WHERE i.product_id = p.id AND i.is_primary = true
	        ORDER BY i.created_at DESC LIMIT 1) AS image
	FROM products p
	JOIN categories c ON c.id = p.category_id`

// Create inserts a product, deriving a unique slug from the name inside the
// same transaction. An advisory lock on the base slug serializes concurrent
// creations with the same name, so the counter-based suffix rule
// ("phone", "phone-2", "phone-3", ...) cannot assign the same slug twice.
func (r *ProductRepository) Create(product *models.Product) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if product.Slug == "" {
		base := slug.Make(product.Name)
		if _, err := tx.Exec(`SELECT pg_advisory_xact_lock(hashtext($1))`, base); err != nil {
			return err
		}

		var similar int
		if err := tx.Get(&similar, `SELECT COUNT(1) FROM products WHERE slug LIKE $1 || '%'`, base); err != nil {
			return err
		}
		if similar == 0 {
			product.Slug = base
		} else {
			product.Slug = fmt.Sprintf("%s-%d", base, similar+1)
		}
	}

	const q = `
		INSERT INTO products (name, slug, price, description, discount, category_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`
	err = tx.QueryRowx(q,
		product.Name,
		product.Slug,
		product.Price,
		product.Description,
		product.Discount,
		product.CategoryID,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// GetByID returns a single product by id.
func (r *ProductRepository) GetByID(id int) (*models.Product, error) {
	var p models.Product
	err := r.db.Get(&p, `SELECT * FROM products WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Update updates the mutable fields of a product.
func (r *ProductRepository) Update(product *models.Product) error {
	const q = `
		UPDATE products
		SET name = $1, price = $2, description = $3, discount = $4, category_id = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING slug, created_at, updated_at`
	err := r.db.QueryRowx(q,
		product.Name,
		product.Price,
		product.Description,
		product.Discount,
		product.CategoryID,
		product.ID,
	).Scan(&product.Slug, &product.CreatedAt, &product.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return utils.ErrNotFound
	}
	return err
}

// Delete removes a product; images, attributes, comments and likes cascade.
func (r *ProductRepository) Delete(id int) error {
	res, err := r.db.Exec(`DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return utils.ErrNotFound
	}
	return nil
}

// ListSummaries returns product summaries newest first, optionally filtered
// by a name search.
func (r *ProductRepository) ListSummaries(search string) ([]models.ProductSummary, error) {
	q := summarySelect + `
	WHERE ($1 = '' OR p.name ILIKE '%' || $1 || '%')
	ORDER BY p.created_at DESC`

	products := []models.ProductSummary{}
	if err := r.db.Select(&products, q, search); err != nil {
		return nil, err
	}
	for i := range products {
		products[i].ComputeDerived()
	}
	return products, nil
}

// ListByCategorySlug returns product summaries of one category, newest first.
func (r *ProductRepository) ListByCategorySlug(categorySlug string) ([]models.ProductSummary, error) {
	q := summarySelect + `
	WHERE c.slug = $1
	ORDER BY p.created_at DESC`

	products := []models.ProductSummary{}
	if err := r.db.Select(&products, q, categorySlug); err != nil {
		return nil, err
	}
	for i := range products {
		products[i].ComputeDerived()
	}
	return products, nil
}

// GetDetail assembles the full product view: category title, primary image
// URLs, comments with author usernames, the flattened attribute map and the
// average rating. The like flag is left false; personalization happens after
// cache retrieval.
func (r *ProductRepository) GetDetail(id int) (*models.ProductDetail, error) {
	var row struct {
		models.Product
		Category string   `db:"category"`
		Rating   *float64 `db:"rating"`
	}
	err := r.db.Get(&row, `
		SELECT p.*, c.title AS category,
		       (SELECT AVG(rating) FROM comments WHERE product_id = p.id) AS rating
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	images, err := r.PrimaryImageURLs(id)
	if err != nil {
		return nil, err
	}

	var commentRows []struct {
		Username  string    `db:"username"`
		Content   string    `db:"content"`
		Rating    int       `db:"rating"`
		CreatedAt time.Time `db:"created_at"`
	}
	err = r.db.Select(&commentRows, `
		SELECT u.username, cm.content, cm.rating, cm.created_at
		FROM comments cm
		JOIN users u ON u.id = cm.user_id
		WHERE cm.product_id = $1
		ORDER BY cm.created_at DESC`, id)
	if err != nil {
		return nil, err
	}

	comments := make([]models.CommentView, 0, len(commentRows))
	for _, cr := range commentRows {
		comments = append(comments, models.CommentView{
			cr.Username: models.CommentBody{
				Content: cr.Content,
				Time:    cr.CreatedAt,
				Rating:  cr.Rating,
			},
		})
	}

	var attrRows []struct {
		Key   string `db:"key"`
		Value string `db:"value"`
	}
	err = r.db.Select(&attrRows, `
		SELECT k.key, v.value
		FROM attributes a
		JOIN attribute_keys k ON k.id = a.key_id
		JOIN attribute_values v ON v.id = a.value_id
		WHERE a.product_id = $1`, id)
	if err != nil {
		return nil, err
	}
	attributes := make(map[string]string, len(attrRows))
	for _, ar := range attrRows {
		attributes[ar.Key] = ar.Value
	}

	detail := &models.ProductDetail{
		ID:              row.ID,
		Name:            row.Name,
		Slug:            row.Slug,
		Price:           row.Price,
		DiscountedPrice: row.DiscountedPrice(),
		Discount:        row.Discount,
		Description:     row.Description,
		MonthlyPay:      row.MonthlyPay(),
		Category:        row.Category,
		Images:          images,
		Comments:        comments,
		Rating:          row.Rating,
		Attributes:      attributes,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
	return detail, nil
}

// PrimaryImageURLs returns the primary image URLs of a product, newest
// first. The detail payload shows only primary images.
func (r *ProductRepository) PrimaryImageURLs(productID int) ([]string, error) {
	urls := []string{}
	err := r.db.Select(&urls, `
		SELECT url FROM images
		WHERE product_id = $1 AND is_primary = true
		ORDER BY created_at DESC`, productID)
	if err != nil {
		return nil, err
	}
	return urls, nil
}

// ImageURLs returns all image URLs of a product, newest first. Used for the
// deletion snapshot, which archives every image.
func (r *ProductRepository) ImageURLs(productID int) ([]string, error) {
	urls := []string{}
	err := r.db.Select(&urls, `
		SELECT url FROM images WHERE product_id = $1 ORDER BY created_at DESC`, productID)
	if err != nil {
		return nil, err
	}
	return urls, nil
}

// LikedProductIDs returns the set of product ids the user has liked.
func (r *ProductRepository) LikedProductIDs(userID int) (map[int]bool, error) {
	var ids []int
	err := r.db.Select(&ids, `SELECT product_id FROM product_likes WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	liked := make(map[int]bool, len(ids))
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

// UserLikesProduct reports whether the user liked the product.
func (r *ProductRepository) UserLikesProduct(userID, productID int) (bool, error) {
	var exists bool
	err := r.db.Get(&exists, `
		SELECT EXISTS(SELECT 1 FROM product_likes WHERE user_id = $1 AND product_id = $2)`,
		userID, productID)
	return exists, err
}

// ToggleLike flips the like state of a product for a user and returns the new
// state.
func (r *ProductRepository) ToggleLike(productID, userID int) (bool, error) {
	res, err := r.db.Exec(`
		DELETE FROM product_likes WHERE product_id = $1 AND user_id = $2`, productID, userID)
	if err != nil {
		return false, err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return false, nil
	}
	_, err = r.db.Exec(`
		INSERT INTO product_likes (product_id, user_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, productID, userID)
	if err != nil {
		return false, err
	}
	return true, nil
}
