package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mezshop/shop-api/internal/application"
	"github.com/mezshop/shop-api/internal/domain/entity"
	"github.com/mezshop/shop-api/internal/interface/middleware"
	"github.com/mezshop/shop-api/pkg/response"
	"github.com/mezshop/shop-api/pkg/validation"
)

type ProductHandler struct {
	Svc    *application.CatalogService
	Logger *logrus.Logger
}

func NewProductHandler(svc *application.CatalogService, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{Svc: svc, Logger: logger}
}

type productRequest struct {
	Title       string `json:"title" binding:"required,min=3"`
	Description string `json:"description" binding:"required,min=5"`
	PriceCents  int64  `json:"price_cents" binding:"required,gt=0"`
}

func productView(p *entity.Product) gin.H {
	return gin.H{
		"id":          p.ID,
		"owner_id":    p.OwnerID,
		"title":       p.Title,
		"description": p.Description,
		"price_cents": p.PriceCents,
		"image_url":   p.ImageURL,
		"created_at":  p.CreatedAt,
		"updated_at":  p.UpdatedAt,
	}
}

func productViews(ps []*entity.Product) []gin.H {
	out := make([]gin.H, 0, len(ps))
	for _, p := range ps {
		out = append(out, productView(p))
	}
	return out
}

// respondCatalogError maps catalog errors to statuses. Ownership mismatches
// come out as 403 without detail about the resource.
func (h *ProductHandler) respondCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, application.ErrNotFound):
		response.Error[any](c, http.StatusNotFound, "product not found", nil)
	case errors.Is(err, application.ErrForbidden):
		response.Error[any](c, http.StatusForbidden, "forbidden", nil)
	default:
		h.Logger.WithError(err).Error("catalog operation failed")
		response.Error[any](c, http.StatusInternalServerError, "something went wrong", nil)
	}
}

// List GET /api/products
func (h *ProductHandler) List(c *gin.Context) {
	ps, err := h.Svc.List(c.Request.Context())
	if err != nil {
		h.respondCatalogError(c, err)
		return
	}
	response.Success(c, http.StatusOK, productViews(ps), "products", nil)
}

// Get GET /api/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondCatalogError(c, err)
		return
	}
	response.Success(c, http.StatusOK, productView(p), "product", nil)
}

// Search GET /api/products/search?q=...&size=...
func (h *ProductHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"q": "is required"})
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		h.Logger.WithError(err).Warn("product search failed")
		response.Error[any](c, http.StatusInternalServerError, "search unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", map[string]any{"count": len(hits)})
}

// ListMine GET /api/admin/products
func (h *ProductHandler) ListMine(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	ps, err := h.Svc.ListByOwner(c.Request.Context(), uid)
	if err != nil {
		h.respondCatalogError(c, err)
		return
	}
	response.Success(c, http.StatusOK, productViews(ps), "your products", nil)
}

// Create POST /api/admin/products
func (h *ProductHandler) Create(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid := c.GetString(middleware.CtxUserIDKey)
	p, err := h.Svc.Create(c.Request.Context(), uid, application.ProductInput{
		Title:       req.Title,
		Description: req.Description,
		PriceCents:  req.PriceCents,
	})
	if err != nil {
		h.respondCatalogError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, productView(p), "product created", nil)
}

// Update PUT /api/admin/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid := c.GetString(middleware.CtxUserIDKey)
	p, err := h.Svc.Update(c.Request.Context(), uid, c.Param("id"), application.ProductInput{
		Title:       req.Title,
		Description: req.Description,
		PriceCents:  req.PriceCents,
	})
	if err != nil {
		h.respondCatalogError(c, err)
		return
	}
	response.Success(c, http.StatusOK, productView(p), "product updated", nil)
}

// Delete DELETE /api/admin/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Svc.Delete(c.Request.Context(), uid, c.Param("id")); err != nil {
		h.respondCatalogError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "product deleted", nil)
}

// UploadImage POST /api/admin/products/:id/image (multipart field "image")
func (h *ProductHandler) UploadImage(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"image": "is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "could not read upload", nil)
		return
	}
	defer func() { _ = f.Close() }()

	uid := c.GetString(middleware.CtxUserIDKey)
	p, err := h.Svc.UploadImage(c.Request.Context(), uid, c.Param("id"), f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		if errors.Is(err, application.ErrNotFound) || errors.Is(err, application.ErrForbidden) {
			h.respondCatalogError(c, err)
			return
		}
		response.Error[any](c, http.StatusUnprocessableEntity, "attached file is not an image", nil)
		return
	}
	response.Success(c, http.StatusOK, productView(p), "image uploaded", nil)
}
