package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/texnomart/catalog_api/internal/cache"
	"github.com/texnomart/catalog_api/internal/config"
	"github.com/texnomart/catalog_api/internal/models"
)

// CatalogProductRepository is the product read surface of the catalog.
type CatalogProductRepository interface {
	ListSummaries(search string) ([]models.ProductSummary, error)
	ListByCategorySlug(categorySlug string) ([]models.ProductSummary, error)
	GetDetail(id int) (*models.ProductDetail, error)
	LikedProductIDs(userID int) (map[int]bool, error)
	UserLikesProduct(userID, productID int) (bool, error)
}

// CatalogCategoryRepository is the category read surface of the catalog.
type CatalogCategoryRepository interface {
	ListWithStats(search string) ([]models.CategorySummary, error)
}

// CatalogAttributeRepository is the attribute lookup surface of the catalog.
type CatalogAttributeRepository interface {
	ListKeys() ([]models.AttributeKey, error)
	ListValues() ([]models.AttributeValue, error)
}

// CatalogService serves the read path. List and detail payloads are cached as
// serialized JSON under fixed keys with short TTLs; per-user like flags are
// applied after retrieval so the cached bytes stay user-independent. Search
// queries bypass the cache because the fixed keys only cover the unfiltered
// shape.
type CatalogService struct {
	products   CatalogProductRepository
	categories CatalogCategoryRepository
	attributes CatalogAttributeRepository
	cache      *cache.CatalogCache
	ttl        config.CacheConfig
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(
	products CatalogProductRepository,
	categories CatalogCategoryRepository,
	attributes CatalogAttributeRepository,
	catalogCache *cache.CatalogCache,
	ttl config.CacheConfig,
) *CatalogService {
	return &CatalogService{
		products:   products,
		categories: categories,
		attributes: attributes,
		cache:      catalogCache,
		ttl:        ttl,
	}
}

// keyProductDetail returns the cache key of one product detail payload.
func keyProductDetail(id int) string {
	return fmt.Sprintf("catalog:product:%d", id)
}

// ListProducts returns the serialized product listing, personalized for
// userID when > 0.
func (s *CatalogService) ListProducts(ctx context.Context, search string, userID int) ([]byte, error) {
	payload, err := s.listPayload(ctx, cache.KeyAllProducts, s.ttl.ProductTTL, search, func() ([]models.ProductSummary, error) {
		return s.products.ListSummaries(search)
	})
	if err != nil {
		return nil, err
	}
	return s.personalizeList(payload, userID)
}

// ListCategoryProducts returns the serialized product listing of one
// category. An unknown slug yields an empty list, not a 404.
func (s *CatalogService) ListCategoryProducts(ctx context.Context, categorySlug string, userID int) ([]byte, error) {
	payload, err := s.listPayload(ctx, cache.KeyCategoryProducts(categorySlug), s.ttl.CategoryTTL, "", func() ([]models.ProductSummary, error) {
		return s.products.ListByCategorySlug(categorySlug)
	})
	if err != nil {
		return nil, err
	}
	return s.personalizeList(payload, userID)
}

// ListCategories returns the serialized category listing with aggregates.
// Within the TTL window repeated calls return byte-identical payloads even if
// rows changed in between.
func (s *CatalogService) ListCategories(ctx context.Context, search string) ([]byte, error) {
	if search != "" {
		categories, err := s.categories.ListWithStats(search)
		if err != nil {
			return nil, err
		}
		return json.Marshal(categories)
	}
	return s.cache.GetOrSet(ctx, cache.KeyCategoryList, s.ttl.CategoryTTL, func() ([]byte, error) {
		categories, err := s.categories.ListWithStats("")
		if err != nil {
			return nil, err
		}
		return json.Marshal(categories)
	})
}

// GetProductDetail returns the serialized product detail, personalized for
// userID when > 0.
func (s *CatalogService) GetProductDetail(ctx context.Context, id, userID int) ([]byte, error) {
	payload, err := s.cache.GetOrSet(ctx, keyProductDetail(id), s.ttl.ProductTTL, func() ([]byte, error) {
		detail, err := s.products.GetDetail(id)
		if err != nil {
			return nil, err
		}
		return json.Marshal(detail)
	})
	if err != nil {
		return nil, err
	}

	if userID <= 0 {
		return payload, nil
	}

	var detail models.ProductDetail
	if err := json.Unmarshal(payload, &detail); err != nil {
		return nil, err
	}
	liked, err := s.products.UserLikesProduct(userID, detail.ID)
	if err != nil {
		return nil, err
	}
	detail.UserLikes = liked
	return json.Marshal(detail)
}

// ListAttributeKeys returns the serialized attribute key lookup.
func (s *CatalogService) ListAttributeKeys(ctx context.Context) ([]byte, error) {
	return s.cache.GetOrSet(ctx, cache.KeyAttributeKeys, s.ttl.ProductTTL, func() ([]byte, error) {
		keys, err := s.attributes.ListKeys()
		if err != nil {
			return nil, err
		}
		return json.Marshal(keys)
	})
}

// ListAttributeValues returns the serialized attribute value lookup.
func (s *CatalogService) ListAttributeValues(ctx context.Context) ([]byte, error) {
	return s.cache.GetOrSet(ctx, cache.KeyAttributeValues, s.ttl.CategoryTTL, func() ([]byte, error) {
		values, err := s.attributes.ListValues()
		if err != nil {
			return nil, err
		}
		return json.Marshal(values)
	})
}

// listPayload returns the serialized product list for key, bypassing the
// cache when a search filter is present.
func (s *CatalogService) listPayload(ctx context.Context, key string, ttl time.Duration, search string, load func() ([]models.ProductSummary, error)) ([]byte, error) {
	if search != "" {
		products, err := load()
		if err != nil {
			return nil, err
		}
		return json.Marshal(products)
	}
	return s.cache.GetOrSet(ctx, key, ttl, func() ([]byte, error) {
		products, err := load()
		if err != nil {
			return nil, err
		}
		return json.Marshal(products)
	})
}

// personalizeList sets the like flags of a cached product listing for one
// user. The anonymous payload passes through untouched.
func (s *CatalogService) personalizeList(payload []byte, userID int) ([]byte, error) {
	if userID <= 0 {
		return payload, nil
	}

	var products []models.ProductSummary
	if err := json.Unmarshal(payload, &products); err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return payload, nil
	}

	liked, err := s.products.LikedProductIDs(userID)
	if err != nil {
		return nil, err
	}
	for i := range products {
		products[i].UserLikes = liked[products[i].ID]
	}
	return json.Marshal(products)
}
