package api

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RouterConfig tunes the middleware stack.
type RouterConfig struct {
	Release   bool
	RateLimit float64
	RateBurst int
}

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg RouterConfig, handler *Handler) *gin.Engine {
	if cfg.Release {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	if cfg.RateLimit > 0 {
		router.Use(RateLimitMiddleware(NewClientLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)))
	}

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/categories", handler.ListCategories)
		v1.GET("/categories/:id/products", handler.CategoryProducts)

		products := v1.Group("/products")
		{
			products.GET("/search", handler.SearchProducts)
			products.GET("/gpu", handler.SearchGPU)
			products.GET("/cpu", handler.SearchCPU)
			products.GET("/ram", handler.SearchRAM)
			products.GET("/ssd", handler.SearchSSD)
			products.GET("/motherboard", handler.SearchMotherboard)
			products.GET("/case", handler.SearchCase)
			products.GET("/model/:model", handler.ProductByModel)
		}
	}

	return router
}
