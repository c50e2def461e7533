package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/texnomart/catalog_api/internal/models"
)

// SnapshotService writes a JSON snapshot of an entity to local disk before it
// is deleted, as an ad-hoc audit trail. Write failures propagate and abort
// the delete.
type SnapshotService struct {
	dir string
}

// NewSnapshotService creates a SnapshotService writing into dir.
func NewSnapshotService(dir string) *SnapshotService {
	return &SnapshotService{dir: dir}
}

// productSnapshot is the denormalized product payload written on deletion.
type productSnapshot struct {
	ID              int               `json:"id"`
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	Price           float64           `json:"price"`
	Images          []string          `json:"images"`
	Category        string            `json:"category"`
	Attributes      map[string]string `json:"attributes"`
	Discount        float64           `json:"discount"`
	DiscountedPrice float64           `json:"discounted_price"`
	MonthlyPay      *string           `json:"monthly_pay"`
}

// categorySnapshot is the category payload written on deletion.
type categorySnapshot struct {
	ID       int      `json:"id"`
	Title    string   `json:"title"`
	Products []string `json:"products"`
	Slug     string   `json:"slug"`
}

// WriteProduct snapshots a product with its denormalized relations.
func (s *SnapshotService) WriteProduct(p *models.Product, categoryTitle string, images []string, attributes map[string]string) error {
	snap := productSnapshot{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		Price:           p.Price,
		Images:          images,
		Category:        categoryTitle,
		Attributes:      attributes,
		Discount:        p.Discount,
		DiscountedPrice: p.DiscountedPrice(),
		MonthlyPay:      p.MonthlyPay(),
	}
	return s.write(p.Name, p.ID, snap)
}

// WriteCategory snapshots a category with the names of its products.
func (s *SnapshotService) WriteCategory(c *models.Category, productNames []string) error {
	snap := categorySnapshot{
		ID:       c.ID,
		Title:    c.Title,
		Products: productNames,
		Slug:     c.Slug,
	}
	return s.write(c.Title, c.ID, snap)
}

func (s *SnapshotService) write(name string, id int, payload interface{}) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	filePath := filepath.Join(s.dir, fmt.Sprintf("%s_id_%d.json", name, id))
	data, err := json.MarshalIndent(payload, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	log.Info().Str("file", filePath).Msg("deletion snapshot written")
	return nil
}
