package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mezshop/shop-api/internal/container"
	handlers "github.com/mezshop/shop-api/internal/interface/http"
	"github.com/mezshop/shop-api/internal/interface/middleware"
)

// ShopModule wires the cart, order, and invoice endpoints.
type ShopModule struct {
	handler *handlers.ShopHandler
}

func NewShopModule(h *handlers.ShopHandler) *ShopModule {
	return &ShopModule{handler: h}
}

func (m *ShopModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	allow := middleware.AllowPrivateIP()

	authed := rg.Group("")
	authed.Use(middleware.RequireUser())
	authed.Use(middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), allow))

	authed.GET("/cart", m.handler.GetCart)
	authed.POST("/cart", m.handler.AddToCart)
	authed.DELETE("/cart/:productId", m.handler.RemoveFromCart)

	authed.POST("/orders", m.handler.PlaceOrder)
	authed.GET("/orders", m.handler.ListOrders)
	authed.GET("/orders/:id", m.handler.GetOrder)
	authed.GET("/orders/:id/invoice-link", m.handler.InvoiceLink)

	// Invoice downloads are authorized by the signed token in the query
	// string, so the route stays outside the session guard.
	rg.GET("/invoices",
		middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByIP(), allow),
		m.handler.DownloadInvoice)
}
