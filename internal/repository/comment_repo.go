package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/texnomart/catalog_api/internal/models"
)

// CommentRepository handles data access for product comments.
type CommentRepository struct {
	db *sqlx.DB
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(db *sqlx.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create inserts a comment and fills the generated fields.
func (r *CommentRepository) Create(comment *models.Comment) error {
	const q = `
		INSERT INTO comments (product_id, user_id, rating, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`
	return r.db.QueryRowx(q,
		comment.ProductID,
		comment.UserID,
		comment.Rating,
		comment.Content,
	).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
}

// ListByProduct returns all comments of a product, newest first.
func (r *CommentRepository) ListByProduct(productID int) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := r.db.Select(&comments, `
		SELECT * FROM comments WHERE product_id = $1 ORDER BY created_at DESC`, productID)
	if err != nil {
		return nil, err
	}
	return comments, nil
}
