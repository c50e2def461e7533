package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texnomart/catalog_api/internal/cache"
	"github.com/texnomart/catalog_api/internal/config"
	"github.com/texnomart/catalog_api/internal/models"
	"github.com/texnomart/catalog_api/internal/utils"
)

// --- Fakes ---

type fakeStore struct {
	data map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string)}
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", cache.ErrMiss
	}
	return v, nil
}

func (f *fakeStore) Set(_ context.Context, key string, value string, _ time.Duration) error {
	f.data[key] = value
	return nil
}

func (f *fakeStore) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

func (f *fakeStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := f.data[key]
	return ok, nil
}

type fakeCatalogRepo struct {
	summaries []models.ProductSummary
	detail    *models.ProductDetail
	likes     map[int]map[int]bool // userID -> productID -> liked

	listCalls   int
	detailCalls int
	lastSearch  string
	lastSlug    string
}

func (f *fakeCatalogRepo) ListSummaries(search string) ([]models.ProductSummary, error) {
	f.listCalls++
	f.lastSearch = search
	return f.summaries, nil
}

func (f *fakeCatalogRepo) ListByCategorySlug(categorySlug string) ([]models.ProductSummary, error) {
	f.listCalls++
	f.lastSlug = categorySlug
	return f.summaries, nil
}

func (f *fakeCatalogRepo) GetDetail(id int) (*models.ProductDetail, error) {
	f.detailCalls++
	if f.detail == nil || f.detail.ID != id {
		return nil, utils.ErrNotFound
	}
	return f.detail, nil
}

func (f *fakeCatalogRepo) LikedProductIDs(userID int) (map[int]bool, error) {
	return f.likes[userID], nil
}

func (f *fakeCatalogRepo) UserLikesProduct(userID, productID int) (bool, error) {
	return f.likes[userID][productID], nil
}

type fakeCategoryRepo struct {
	summaries []models.CategorySummary
	calls     int
}

func (f *fakeCategoryRepo) ListWithStats(search string) ([]models.CategorySummary, error) {
	f.calls++
	return f.summaries, nil
}

type fakeAttributeRepo struct {
	keys   []models.AttributeKey
	values []models.AttributeValue
}

func (f *fakeAttributeRepo) ListKeys() ([]models.AttributeKey, error) {
	return f.keys, nil
}

func (f *fakeAttributeRepo) ListValues() ([]models.AttributeValue, error) {
	return f.values, nil
}

func newTestCatalogService(products *fakeCatalogRepo, categories *fakeCategoryRepo) *CatalogService {
	return NewCatalogService(
		products,
		categories,
		&fakeAttributeRepo{},
		cache.NewCatalogCache(newFakeStore()),
		config.CacheConfig{ProductTTL: 11 * time.Minute, CategoryTTL: 15 * time.Minute},
	)
}

func summary(id int, name string) models.ProductSummary {
	s := models.ProductSummary{ID: id, Name: name, Slug: name, Price: 100}
	s.ComputeDerived()
	return s
}

// --- Tests ---

func TestListProductsServesCachedBytes(t *testing.T) {
	repo := &fakeCatalogRepo{summaries: []models.ProductSummary{summary(1, "phone")}}
	svc := newTestCatalogService(repo, &fakeCategoryRepo{})
	ctx := context.Background()

	first, err := svc.ListProducts(ctx, "", 0)
	require.NoError(t, err)

	// Rows change underneath, but the cached payload stays byte-identical.
	repo.summaries = append(repo.summaries, summary(2, "tablet"))
	second, err := svc.ListProducts(ctx, "", 0)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.listCalls)
}

func TestListProductsSearchBypassesCache(t *testing.T) {
	repo := &fakeCatalogRepo{summaries: []models.ProductSummary{summary(1, "phone")}}
	svc := newTestCatalogService(repo, &fakeCategoryRepo{})
	ctx := context.Background()

	_, err := svc.ListProducts(ctx, "pho", 0)
	require.NoError(t, err)
	_, err = svc.ListProducts(ctx, "pho", 0)
	require.NoError(t, err)

	assert.Equal(t, 2, repo.listCalls)
	assert.Equal(t, "pho", repo.lastSearch)
}

func TestListProductsPersonalizesLikes(t *testing.T) {
	repo := &fakeCatalogRepo{
		summaries: []models.ProductSummary{summary(1, "phone"), summary(2, "tablet")},
		likes:     map[int]map[int]bool{7: {2: true}},
	}
	svc := newTestCatalogService(repo, &fakeCategoryRepo{})
	ctx := context.Background()

	anon, err := svc.ListProducts(ctx, "", 0)
	require.NoError(t, err)

	payload, err := svc.ListProducts(ctx, "", 7)
	require.NoError(t, err)

	var products []models.ProductSummary
	require.NoError(t, json.Unmarshal(payload, &products))
	require.Len(t, products, 2)
	assert.False(t, products[0].UserLikes)
	assert.True(t, products[1].UserLikes)

	// The anonymous payload in the cache keeps all flags false.
	var anonProducts []models.ProductSummary
	require.NoError(t, json.Unmarshal(anon, &anonProducts))
	assert.False(t, anonProducts[1].UserLikes)
	assert.Equal(t, 1, repo.listCalls)
}

func TestListCategoryProductsUnknownSlugYieldsEmptyList(t *testing.T) {
	repo := &fakeCatalogRepo{}
	svc := newTestCatalogService(repo, &fakeCategoryRepo{})

	payload, err := svc.ListCategoryProducts(context.Background(), "no-such-category", 0)
	require.NoError(t, err)
	assert.Equal(t, "no-such-category", repo.lastSlug)

	var products []models.ProductSummary
	require.NoError(t, json.Unmarshal(payload, &products))
	assert.Empty(t, products)
}

func TestListCategoriesCachesAggregates(t *testing.T) {
	categories := &fakeCategoryRepo{summaries: []models.CategorySummary{
		{ID: 1, Title: "Phones", Slug: "phones", ProductCount: 3, TotalPriceOfProducts: 2500},
	}}
	svc := newTestCatalogService(&fakeCatalogRepo{}, categories)
	ctx := context.Background()

	first, err := svc.ListCategories(ctx, "")
	require.NoError(t, err)
	second, err := svc.ListCategories(ctx, "")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, categories.calls)

	// Search goes to the database every time.
	_, err = svc.ListCategories(ctx, "pho")
	require.NoError(t, err)
	assert.Equal(t, 2, categories.calls)
}

func TestGetProductDetailCachesAnonymousPayload(t *testing.T) {
	repo := &fakeCatalogRepo{
		detail: &models.ProductDetail{ID: 5, Name: "phone", Price: 100},
		likes:  map[int]map[int]bool{7: {5: true}},
	}
	svc := newTestCatalogService(repo, &fakeCategoryRepo{})
	ctx := context.Background()

	anon, err := svc.GetProductDetail(ctx, 5, 0)
	require.NoError(t, err)

	liked, err := svc.GetProductDetail(ctx, 5, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.detailCalls)

	var detail models.ProductDetail
	require.NoError(t, json.Unmarshal(liked, &detail))
	assert.True(t, detail.UserLikes)

	require.NoError(t, json.Unmarshal(anon, &detail))
	assert.False(t, detail.UserLikes)
}

func TestGetProductDetailNotFound(t *testing.T) {
	svc := newTestCatalogService(&fakeCatalogRepo{}, &fakeCategoryRepo{})

	_, err := svc.GetProductDetail(context.Background(), 99, 0)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}
