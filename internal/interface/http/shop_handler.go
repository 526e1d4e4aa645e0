package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mezshop/shop-api/internal/application"
	"github.com/mezshop/shop-api/internal/domain/entity"
	"github.com/mezshop/shop-api/internal/interface/middleware"
	"github.com/mezshop/shop-api/pkg/response"
	"github.com/mezshop/shop-api/pkg/validation"
)

// ShopHandler serves the cart, order placement, and invoice downloads.
type ShopHandler struct {
	Svc    *application.OrderService
	Logger *logrus.Logger
}

func NewShopHandler(svc *application.OrderService, logger *logrus.Logger) *ShopHandler {
	return &ShopHandler{Svc: svc, Logger: logger}
}

func orderView(o *entity.Order) gin.H {
	items := make([]gin.H, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, gin.H{
			"product_id":       it.ProductID,
			"title":            it.Title,
			"unit_price_cents": it.UnitPriceCents,
			"quantity":         it.Quantity,
		})
	}
	return gin.H{
		"id":          o.ID,
		"total_cents": o.TotalCents,
		"items":       items,
		"created_at":  o.CreatedAt,
	}
}

// GetCart GET /api/cart
func (h *ShopHandler) GetCart(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	items, err := h.Svc.GetCart(c.Request.Context(), uid)
	if err != nil {
		h.Logger.WithError(err).Error("cart read failed")
		response.Error[any](c, http.StatusInternalServerError, "something went wrong", nil)
		return
	}
	var total int64
	views := make([]gin.H, 0, len(items))
	for _, it := range items {
		total += it.PriceCents * int64(it.Quantity)
		views = append(views, gin.H{
			"product_id":  it.ProductID,
			"title":       it.Title,
			"price_cents": it.PriceCents,
			"quantity":    it.Quantity,
		})
	}
	response.Success(c, http.StatusOK, views, "cart", map[string]any{"total_cents": total})
}

type cartRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
}

// AddToCart POST /api/cart
func (h *ShopHandler) AddToCart(c *gin.Context) {
	var req cartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Svc.AddToCart(c.Request.Context(), uid, req.ProductID); err != nil {
		if errors.Is(err, application.ErrNotFound) {
			response.Error[any](c, http.StatusNotFound, "product not found", nil)
			return
		}
		h.Logger.WithError(err).Error("cart add failed")
		response.Error[any](c, http.StatusInternalServerError, "something went wrong", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"added": true}, "added to cart", nil)
}

// RemoveFromCart DELETE /api/cart/:productId
func (h *ShopHandler) RemoveFromCart(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Svc.RemoveFromCart(c.Request.Context(), uid, c.Param("productId")); err != nil {
		h.Logger.WithError(err).Error("cart remove failed")
		response.Error[any](c, http.StatusInternalServerError, "something went wrong", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"removed": true}, "removed from cart", nil)
}

// PlaceOrder POST /api/orders
func (h *ShopHandler) PlaceOrder(c *gin.Context) {
	u, _ := middleware.UserFrom(c)
	o, err := h.Svc.PlaceOrder(c.Request.Context(), u)
	if err != nil {
		if errors.Is(err, application.ErrEmptyCart) {
			response.Error[any](c, http.StatusBadRequest, "cart is empty", nil)
			return
		}
		h.Logger.WithError(err).Error("order placement failed")
		response.Error[any](c, http.StatusInternalServerError, "something went wrong", nil)
		return
	}
	response.Success(c, http.StatusCreated, orderView(o), "order placed", nil)
}

// ListOrders GET /api/orders
func (h *ShopHandler) ListOrders(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	orders, err := h.Svc.ListOrders(c.Request.Context(), uid)
	if err != nil {
		h.Logger.WithError(err).Error("order list failed")
		response.Error[any](c, http.StatusInternalServerError, "something went wrong", nil)
		return
	}
	views := make([]gin.H, 0, len(orders))
	for _, o := range orders {
		views = append(views, gin.H{"id": o.ID, "total_cents": o.TotalCents, "created_at": o.CreatedAt})
	}
	response.Success(c, http.StatusOK, views, "orders", nil)
}

// GetOrder GET /api/orders/:id
func (h *ShopHandler) GetOrder(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	o, err := h.Svc.GetOrder(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			response.Error[any](c, http.StatusNotFound, "order not found", nil)
			return
		}
		h.Logger.WithError(err).Error("order read failed")
		response.Error[any](c, http.StatusInternalServerError, "something went wrong", nil)
		return
	}
	response.Success(c, http.StatusOK, orderView(o), "order", nil)
}

// InvoiceLink GET /api/orders/:id/invoice-link
func (h *ShopHandler) InvoiceLink(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	link, err := h.Svc.InvoiceLink(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			response.Error[any](c, http.StatusNotFound, "order not found", nil)
			return
		}
		h.Logger.WithError(err).Error("invoice link failed")
		response.Error[any](c, http.StatusInternalServerError, "something went wrong", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"invoice_link": link}, "invoice link", nil)
}

// DownloadInvoice GET /api/invoices?token=...
// Sessionless: the signed token is the whole authorization.
func (h *ShopHandler) DownloadInvoice(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"token": "is required"})
		return
	}
	text, err := h.Svc.RenderInvoice(c.Request.Context(), token)
	if err != nil {
		response.Error[any](c, http.StatusUnprocessableEntity, "invalid or expired token", nil)
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}
