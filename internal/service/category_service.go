package service

import (
	"github.com/gosimple/slug"

	"github.com/texnomart/catalog_api/internal/models"
)

// CategoryStore is the category write surface.
type CategoryStore interface {
	Create(category *models.Category) error
	GetBySlug(slug string) (*models.Category, error)
	Update(currentSlug string, category *models.Category) error
	Delete(id int) error
	ProductNames(categoryID int) ([]string, error)
}

// CategoryService handles category writes and their post-commit side
// effects: creation mail (best-effort) and pre-delete snapshots
// (failure aborts the delete).
type CategoryService struct {
	categories CategoryStore
	notifier   *NotificationService
	snapshots  *SnapshotService
}

// NewCategoryService constructs a CategoryService.
func NewCategoryService(categories CategoryStore, notifier *NotificationService, snapshots *SnapshotService) *CategoryService {
	return &CategoryService{categories: categories, notifier: notifier, snapshots: snapshots}
}

// CategoryRequest carries the category create/update payload.
type CategoryRequest struct {
	Title string `json:"title" binding:"required"`
	Slug  string `json:"slug"`
	Image string `json:"image"`
}

// Create inserts a category, deriving the slug from the title when not given,
// and notifies the configured recipient after the commit.
func (s *CategoryService) Create(req *CategoryRequest) (*models.Category, error) {
	category := &models.Category{
		Title: req.Title,
		Slug:  req.Slug,
		Image: req.Image,
	}
	if category.Slug == "" {
		category.Slug = slug.Make(category.Title)
	}

	if err := s.categories.Create(category); err != nil {
		return nil, err
	}

	s.notifier.CategoryCreated(category.Title)
	return category, nil
}

// Get returns a category by slug.
func (s *CategoryService) Get(categorySlug string) (*models.Category, error) {
	return s.categories.GetBySlug(categorySlug)
}

// Update changes title, slug and image of the category identified by
// currentSlug. The slug is kept unless explicitly replaced.
func (s *CategoryService) Update(currentSlug string, req *CategoryRequest) (*models.Category, error) {
	category := &models.Category{
		Title: req.Title,
		Slug:  req.Slug,
		Image: req.Image,
	}
	if category.Slug == "" {
		category.Slug = currentSlug
	}

	if err := s.categories.Update(currentSlug, category); err != nil {
		return nil, err
	}
	return category, nil
}

// CategoryPatch carries the optional fields of a partial category update.
type CategoryPatch struct {
	Title *string `json:"title"`
	Slug  *string `json:"slug"`
	Image *string `json:"image"`
}

// Patch applies a partial update: absent fields keep their stored values.
func (s *CategoryService) Patch(currentSlug string, patch *CategoryPatch) (*models.Category, error) {
	category, err := s.categories.GetBySlug(currentSlug)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		category.Title = *patch.Title
	}
	if patch.Slug != nil {
		category.Slug = *patch.Slug
	}
	if patch.Image != nil {
		category.Image = *patch.Image
	}

	if err := s.categories.Update(currentSlug, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete snapshots the category to disk and then removes it. Products and
// their children go with it via cascade. A failed snapshot aborts the delete.
func (s *CategoryService) Delete(categorySlug string) error {
	category, err := s.categories.GetBySlug(categorySlug)
	if err != nil {
		return err
	}

	productNames, err := s.categories.ProductNames(category.ID)
	if err != nil {
		return err
	}

	if err := s.snapshots.WriteCategory(category, productNames); err != nil {
		return err
	}

	return s.categories.Delete(category.ID)
}
