package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Catalog cache keys. Each read endpoint owns one fixed key (plus one key per
// category slug for the category product listing).
const (
	KeyAllProducts     = "catalog:products"
	KeyCategoryList    = "catalog:categories"
	KeyAttributeKeys   = "catalog:attribute-keys"
	KeyAttributeValues = "catalog:attribute-values"
)

// KeyCategoryProducts returns the cache key for products of one category.
func KeyCategoryProducts(slug string) string {
	return fmt.Sprintf("catalog:category:%s:products", slug)
}

// CatalogCache is the short-TTL read cache for catalog list payloads. Values
// are the serialized JSON bodies handed back to clients, so a hit is returned
// verbatim and stays byte-identical for the TTL window. Writes never
// invalidate; stale reads inside the TTL are accepted behavior.
type CatalogCache struct {
	store Store
}

// NewCatalogCache creates a CatalogCache on top of the given store.
func NewCatalogCache(store Store) *CatalogCache {
	return &CatalogCache{store: store}
}

// GetOrSet returns the cached payload for key, or computes it, stores it with
// the given TTL, and returns it. A failed store is logged and does not fail
// the read; concurrent computes race benignly (last writer wins, values are
// reconstructable).
func (c *CatalogCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, compute func() ([]byte, error)) ([]byte, error) {
	if cached, err := c.store.Get(ctx, key); err == nil {
		return []byte(cached), nil
	}

	payload, err := compute()
	if err != nil {
		return nil, err
	}

	if err := c.store.Set(ctx, key, string(payload), ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to store catalog cache entry")
	}
	return payload, nil
}
