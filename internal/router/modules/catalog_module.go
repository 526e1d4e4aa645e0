package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mezshop/shop-api/internal/container"
	handlers "github.com/mezshop/shop-api/internal/interface/http"
	"github.com/mezshop/shop-api/internal/interface/middleware"
)

// CatalogModule exposes the public product catalog and the owner-scoped
// admin endpoints for managing products.
type CatalogModule struct {
	handler *handlers.ProductHandler
}

func NewCatalogModule(h *handlers.ProductHandler) *CatalogModule {
	return &CatalogModule{handler: h}
}

func (m *CatalogModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	allow := middleware.AllowPrivateIP()

	public := rg.Group("/products")
	public.Use(middleware.RateLimit(rdb, 300, time.Minute, middleware.KeyByIP(), allow))
	public.GET("", m.handler.List)
	public.GET("/search", m.handler.Search)
	public.GET("/:id", m.handler.Get)

	admin := rg.Group("/admin/products")
	admin.Use(middleware.RequireUser())
	admin.Use(middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), allow))
	admin.GET("", m.handler.ListMine)
	admin.POST("", m.handler.Create)
	admin.PUT("/:id", m.handler.Update)
	admin.DELETE("/:id", m.handler.Delete)
	admin.POST("/:id/image",
		middleware.RateLimit(rdb, 30, time.Minute, middleware.KeyByUserID(), allow),
		m.handler.UploadImage)
}
