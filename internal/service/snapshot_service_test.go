package service

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texnomart/catalog_api/internal/models"
)

func TestWriteProductSnapshot(t *testing.T) {
	dir := t.TempDir()
	svc := NewSnapshotService(dir)

	product := &models.Product{
		ID:          14,
		Name:        "phone",
		Description: "flagship",
		Price:       240,
		Discount:    50,
	}
	images := []string{"https://cdn.example.com/a.jpg"}
	attributes := map[string]string{"color": "black"}

	require.NoError(t, svc.WriteProduct(product, "Phones", images, attributes))

	data, err := os.ReadFile(filepath.Join(dir, "phone_id_14.json"))
	require.NoError(t, err)

	var snap map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Equal(t, "phone", snap["name"])
	assert.Equal(t, "Phones", snap["category"])
	assert.Equal(t, float64(120), snap["discounted_price"])
	assert.Equal(t, "5.0 sum / 24 months", snap["monthly_pay"])
	assert.Equal(t, []interface{}{"https://cdn.example.com/a.jpg"}, snap["images"])

	// Snapshots are written indented for human inspection.
	assert.Contains(t, string(data), "\n    \"name\"")
}

func TestWriteCategorySnapshot(t *testing.T) {
	dir := t.TempDir()
	svc := NewSnapshotService(dir)

	category := &models.Category{ID: 3, Title: "Phones", Slug: "phones"}
	require.NoError(t, svc.WriteCategory(category, []string{"phone", "phone-2"}))

	data, err := os.ReadFile(filepath.Join(dir, "Phones_id_3.json"))
	require.NoError(t, err)

	var snap categorySnapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Equal(t, 3, snap.ID)
	assert.Equal(t, "phones", snap.Slug)
	assert.Equal(t, []string{"phone", "phone-2"}, snap.Products)
}

func TestWriteSnapshotCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "deleted")
	svc := NewSnapshotService(dir)

	require.NoError(t, svc.WriteCategory(&models.Category{ID: 1, Title: "TVs", Slug: "tvs"}, nil))

	_, err := os.Stat(filepath.Join(dir, "TVs_id_1.json"))
	assert.NoError(t, err)
}
