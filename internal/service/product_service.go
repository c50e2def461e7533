package service

import (
	"context"
	"fmt"

	"github.com/texnomart/catalog_api/internal/models"
	"github.com/texnomart/catalog_api/internal/utils"
)

// ProductStore is the product write surface.
type ProductStore interface {
	Create(product *models.Product) error
	GetByID(id int) (*models.Product, error)
	Update(product *models.Product) error
	Delete(id int) error
	GetDetail(id int) (*models.ProductDetail, error)
	ImageURLs(productID int) ([]string, error)
	ToggleLike(productID, userID int) (bool, error)
}

// ImageStore records uploaded product images.
type ImageStore interface {
	Create(image *models.Image) error
}

// AttributeLookup provides the flattened attribute map for snapshots.
type AttributeLookup interface {
	MapForProduct(productID int) (map[string]string, error)
}

// CommentStore records product comments.
type CommentStore interface {
	Create(comment *models.Comment) error
}

// ImageUploader stores image bytes and returns their public URL. Satisfied
// by MediaService.
type ImageUploader interface {
	UploadProductImage(ctx context.Context, productID int, filename string, data []byte, contentType string) (string, error)
}

// ProductService handles product writes, comments, likes and image uploads,
// plus the post-commit side effects (creation mail, pre-delete snapshots).
type ProductService struct {
	products   ProductStore
	images     ImageStore
	attributes AttributeLookup
	comments   CommentStore
	notifier   *NotificationService
	snapshots  *SnapshotService
	media      ImageUploader
}

// NewProductService constructs a ProductService.
func NewProductService(
	products ProductStore,
	images ImageStore,
	attributes AttributeLookup,
	comments CommentStore,
	notifier *NotificationService,
	snapshots *SnapshotService,
	media ImageUploader,
) *ProductService {
	return &ProductService{
		products:   products,
		images:     images,
		attributes: attributes,
		comments:   comments,
		notifier:   notifier,
		snapshots:  snapshots,
		media:      media,
	}
}

// ProductRequest carries the product create/update payload.
type ProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Price       float64 `json:"price" binding:"required"`
	Description string  `json:"description"`
	Discount    float64 `json:"discount"`
	CategoryID  int     `json:"category_id" binding:"required"`
}

// Create inserts a product (slug derived and de-duplicated in the
// repository) and mails staff superusers after the commit.
func (s *ProductService) Create(req *ProductRequest) (*models.Product, error) {
	product := &models.Product{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Discount:    req.Discount,
		CategoryID:  req.CategoryID,
	}
	if err := s.products.Create(product); err != nil {
		return nil, err
	}

	s.notifier.ProductCreated(product.Name)
	return product, nil
}

// Get returns a product row by id.
func (s *ProductService) Get(id int) (*models.Product, error) {
	return s.products.GetByID(id)
}

// Update changes the mutable fields of a product. The slug is stable across
// renames.
func (s *ProductService) Update(id int, req *ProductRequest) (*models.Product, error) {
	product := &models.Product{
		ID:          id,
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Discount:    req.Discount,
		CategoryID:  req.CategoryID,
	}
	if err := s.products.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// ProductPatch carries the optional fields of a partial product update.
type ProductPatch struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Description *string  `json:"description"`
	Discount    *float64 `json:"discount"`
	CategoryID  *int     `json:"category_id"`
}

// Patch applies a partial update: absent fields keep their stored values.
func (s *ProductService) Patch(id int, patch *ProductPatch) (*models.Product, error) {
	product, err := s.products.GetByID(id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		product.Name = *patch.Name
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.Discount != nil {
		product.Discount = *patch.Discount
	}
	if patch.CategoryID != nil {
		product.CategoryID = *patch.CategoryID
	}

	if err := s.products.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete snapshots the denormalized product to disk and then removes the row.
// The snapshot archives every image, not just the primary ones the detail
// payload shows. A failed snapshot aborts the delete.
func (s *ProductService) Delete(id int) error {
	product, err := s.products.GetByID(id)
	if err != nil {
		return err
	}

	detail, err := s.products.GetDetail(id)
	if err != nil {
		return err
	}

	images, err := s.products.ImageURLs(id)
	if err != nil {
		return err
	}

	attributes, err := s.attributes.MapForProduct(id)
	if err != nil {
		return err
	}

	if err := s.snapshots.WriteProduct(product, detail.Category, images, attributes); err != nil {
		return err
	}

	return s.products.Delete(id)
}

// AddComment attaches a rated comment to a product.
func (s *ProductService) AddComment(productID, userID, rating int, content string) (*models.Comment, error) {
	if rating < models.RatingMin || rating > models.RatingMax {
		return nil, utils.ErrInvalidRating
	}
	if _, err := s.products.GetByID(productID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ProductID: productID,
		UserID:    userID,
		Rating:    rating,
		Content:   content,
	}
	if err := s.comments.Create(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ToggleLike flips the user's like on a product and returns the new state.
func (s *ProductService) ToggleLike(productID, userID int) (bool, error) {
	if _, err := s.products.GetByID(productID); err != nil {
		return false, err
	}
	return s.products.ToggleLike(productID, userID)
}

// UploadImage stores a product photo in the media bucket and records it. A
// primary upload demotes the previous primary image.
func (s *ProductService) UploadImage(ctx context.Context, productID int, filename string, data []byte, contentType string, isPrimary bool) (*models.Image, error) {
	if _, err := s.products.GetByID(productID); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image upload")
	}

	url, err := s.media.UploadProductImage(ctx, productID, filename, data, contentType)
	if err != nil {
		return nil, err
	}

	image := &models.Image{
		ProductID: productID,
		URL:       url,
		IsPrimary: isPrimary,
	}
	if err := s.images.Create(image); err != nil {
		return nil, err
	}
	return image, nil
}
