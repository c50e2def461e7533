package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/texnomart/catalog_api/internal/service"
	"github.com/texnomart/catalog_api/internal/utils"
)

// CategoryHandler handles category write endpoints.
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler constructs a CategoryHandler.
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// Create handles POST /category/add/
func (h *CategoryHandler) Create(c *gin.Context) {
	var req service.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	category, err := h.categoryService.Create(&req)
	if err != nil {
		if errors.Is(err, utils.ErrDuplicateTitle) {
			utils.Error(c, 400, "DUPLICATE_TITLE", "Category with this title already exists")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create category")
		return
	}

	utils.Success(c, 201, "Category created successfully", category)
}

// Get handles the retrieve side of the delete and edit endpoints.
func (h *CategoryHandler) Get(c *gin.Context) {
	category, err := h.categoryService.Get(c.Param("slug"))
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			utils.Error(c, 404, "CATEGORY_NOT_FOUND", "Category not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve category")
		return
	}
	utils.Success(c, 200, "Category retrieved", category)
}

// Update handles PUT /category/:slug/edit/
func (h *CategoryHandler) Update(c *gin.Context) {
	var req service.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	category, err := h.categoryService.Update(c.Param("slug"), &req)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			utils.Error(c, 404, "CATEGORY_NOT_FOUND", "Category not found")
			return
		}
		if errors.Is(err, utils.ErrDuplicateTitle) {
			utils.Error(c, 400, "DUPLICATE_TITLE", "Category with this title already exists")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to update category")
		return
	}

	utils.Success(c, 200, "Category updated successfully", category)
}

// Patch handles PATCH /category/:slug/edit/. Absent fields keep their stored
// values.
func (h *CategoryHandler) Patch(c *gin.Context) {
	var patch service.CategoryPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	category, err := h.categoryService.Patch(c.Param("slug"), &patch)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			utils.Error(c, 404, "CATEGORY_NOT_FOUND", "Category not found")
			return
		}
		if errors.Is(err, utils.ErrDuplicateTitle) {
			utils.Error(c, 400, "DUPLICATE_TITLE", "Category with this title already exists")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to update category")
		return
	}

	utils.Success(c, 200, "Category updated successfully", category)
}

// Delete handles DELETE /category/:slug/delete/. The category is snapshotted
// to disk first; a failed snapshot aborts the delete.
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.categoryService.Delete(c.Param("slug")); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			utils.Error(c, 404, "CATEGORY_NOT_FOUND", "Category not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to delete category")
		return
	}

	utils.Success(c, 200, "Category deleted successfully", nil)
}
