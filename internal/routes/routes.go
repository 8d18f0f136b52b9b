package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"product-gateway/internal/handlers"
	"product-gateway/internal/metrics"
	"product-gateway/internal/middleware"
	"product-gateway/internal/repository"
)

// NewRouter wires middleware, the product routes, health and metrics.
func NewRouter(store repository.ProductStore, h *handlers.ProductHandler, m *metrics.Metrics, logger *zap.Logger) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(ginzap.GinzapWithConfig(logger, &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		SkipPaths:  []string{"/health", "/metrics"},
		Context: func(c *gin.Context) []zapcore.Field {
			return []zapcore.Field{zap.String("request_id", middleware.GetRequestID(c))}
		},
	}))
	router.Use(ginzap.RecoveryWithZap(logger, true))
	// Metrics runs ahead of CORS so aborted preflights are still counted.
	if m != nil {
		router.Use(middleware.Metrics(m))
	}
	router.Use(cors.Default())

	router.GET("/health", handlers.Health(store, logger))
	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}
	RegisterRoutes(router, h)

	return router
}

func RegisterRoutes(router *gin.Engine, h *handlers.ProductHandler) {
	api := router.Group("/api")
	{
		api.POST("/products", h.CreateProduct)
		api.GET("/products", h.ListProducts)
		api.GET("/products/:id", h.GetProduct)
		api.PUT("/products/:id", h.UpdateProduct)
		api.DELETE("/products/:id", h.DeleteProduct)
	}
}
