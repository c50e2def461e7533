package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/texnomart/catalog_api/internal/middleware"
	"github.com/texnomart/catalog_api/internal/service"
	"github.com/texnomart/catalog_api/internal/utils"
)

const jsonContentType = "application/json; charset=utf-8"

// CatalogHandler serves the cached catalog read endpoints. Payloads come back
// from the service already serialized, so cache hits are written verbatim.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListProducts handles GET /
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	payload, err := h.catalog.ListProducts(c.Request.Context(), c.Query("search"), middleware.UserID(c))
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve products")
		return
	}
	c.Data(200, jsonContentType, payload)
}

// ListCategories handles GET /categories/
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	payload, err := h.catalog.ListCategories(c.Request.Context(), c.Query("search"))
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve categories")
		return
	}
	c.Data(200, jsonContentType, payload)
}

// ListCategoryProducts handles GET /category/:slug/
func (h *CatalogHandler) ListCategoryProducts(c *gin.Context) {
	payload, err := h.catalog.ListCategoryProducts(c.Request.Context(), c.Param("slug"), middleware.UserID(c))
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve products")
		return
	}
	c.Data(200, jsonContentType, payload)
}

// ProductDetail handles GET /product/detail/:id/
func (h *CatalogHandler) ProductDetail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid product ID")
		return
	}

	payload, err := h.catalog.GetProductDetail(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve product")
		return
	}
	c.Data(200, jsonContentType, payload)
}

// ListAttributeKeys handles GET /attribute-key/
func (h *CatalogHandler) ListAttributeKeys(c *gin.Context) {
	payload, err := h.catalog.ListAttributeKeys(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve attribute keys")
		return
	}
	c.Data(200, jsonContentType, payload)
}

// ListAttributeValues handles GET /attribute-value/
func (h *CatalogHandler) ListAttributeValues(c *gin.Context) {
	payload, err := h.catalog.ListAttributeValues(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve attribute values")
		return
	}
	c.Data(200, jsonContentType, payload)
}
