package handler

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/texnomart/catalog_api/internal/middleware"
	"github.com/texnomart/catalog_api/internal/service"
	"github.com/texnomart/catalog_api/internal/utils"
)

// maxImageUploadBytes caps multipart image uploads at 10 MB.
const maxImageUploadBytes = 10 << 20

// ProductHandler handles product write endpoints: CRUD, comments, likes and
// image uploads.
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// Create handles POST /product/add/
func (h *ProductHandler) Create(c *gin.Context) {
	var req service.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	product, err := h.productService.Create(&req)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create product")
		return
	}

	utils.Success(c, 201, "Product created successfully", product)
}

// Get handles the retrieve side of the delete and edit endpoints.
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	product, err := h.productService.Get(id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve product")
		return
	}
	utils.Success(c, 200, "Product retrieved", product)
}

// Update handles PUT /product/:id/edit/
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	var req service.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	product, err := h.productService.Update(id, &req)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to update product")
		return
	}

	utils.Success(c, 200, "Product updated successfully", product)
}

// Patch handles PATCH /product/:id/edit/. Absent fields keep their stored
// values.
func (h *ProductHandler) Patch(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	var patch service.ProductPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	product, err := h.productService.Patch(id, &patch)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to update product")
		return
	}

	utils.Success(c, 200, "Product updated successfully", product)
}

// Delete handles DELETE /product/:id/delete/. The denormalized product is
// snapshotted to disk first; a failed snapshot aborts the delete.
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	if err := h.productService.Delete(id); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to delete product")
		return
	}

	utils.Success(c, 200, "Product deleted successfully", nil)
}

type commentRequest struct {
	Content string `json:"content" binding:"required"`
	Rating  int    `json:"rating"`
}

// AddComment handles POST /product/:id/comment/
func (h *ProductHandler) AddComment(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	comment, err := h.productService.AddComment(id, middleware.UserID(c), req.Rating, req.Content)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
			return
		}
		if errors.Is(err, utils.ErrInvalidRating) {
			utils.Error(c, 400, "INVALID_RATING", "Rating must be between 0 and 5")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to add comment")
		return
	}

	utils.Success(c, 201, "Comment added successfully", comment)
}

// ToggleLike handles POST /product/:id/like/
func (h *ProductHandler) ToggleLike(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	liked, err := h.productService.ToggleLike(id, middleware.UserID(c))
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to toggle like")
		return
	}

	message := "Product unliked"
	if liked {
		message = "Product liked"
	}
	utils.Success(c, 200, message, gin.H{"liked": liked})
}

// UploadImage handles POST /product/:id/image/ with a multipart "image" file.
func (h *ProductHandler) UploadImage(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Missing image file")
		return
	}
	if fileHeader.Size > maxImageUploadBytes {
		utils.Error(c, 400, "FILE_TOO_LARGE", "Image must be under 10MB")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to read image")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to read image")
		return
	}

	isPrimary := c.PostForm("is_primary") == "true"
	contentType := fileHeader.Header.Get("Content-Type")

	image, err := h.productService.UploadImage(c.Request.Context(), id, fileHeader.Filename, data, contentType, isPrimary)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to upload image")
		return
	}

	utils.Success(c, 201, "Image uploaded successfully", image)
}

func productID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		utils.Error(c, 400, "INVALID_ID", "Invalid product id")
		return 0, false
	}
	return id, true
}
