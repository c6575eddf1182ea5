package routers

import (
	"ecommerce-backend/apperr"
	"ecommerce-backend/cache"
	"ecommerce-backend/handlers"
	"ecommerce-backend/jwt"
	"ecommerce-backend/middleware"
	"ecommerce-backend/store"
	"github.com/gin-gonic/gin"
	"net/http"
)

// SetupRouters builds the gin engine. pc may be nil to disable caching; verifier may be nil
// to leave write routes open.
func SetupRouters(s store.Store, pc *cache.ProductCache, verifier *jwt.Verifier) *gin.Engine {
	router := gin.Default()
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")
		c.Next()
	})
	router.Use(middleware.RequestIDMiddleware())
	_ = router.SetTrustedProxies(nil)

	router.OPTIONS("/*path", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.NoRoute(func(c *gin.Context) {
		apperr.Respond(c, apperr.NotFound("wrong route"))
	})

	// health check
	router.GET("/healthz", func(c *gin.Context) {
		handlers.HealthHandler(c, s)
	})

	// Write routes require an admin token once a verifier is configured.
	var writeGuard []gin.HandlerFunc
	if verifier != nil {
		router.Use(middleware.AuthMiddleware(verifier))
		writeGuard = []gin.HandlerFunc{
			middleware.CheckLoginMiddleware(),
			middleware.CheckAdminPermissionMiddleware(),
		}
	}

	api := router.Group("/api")

	products := api.Group("/products")
	{
		// product list
		products.GET("", func(c *gin.Context) {
			handlers.GetProductListHandler(c, s, pc)
		})
		// product detail
		products.GET("/:id", func(c *gin.Context) {
			handlers.GetProductDataHandler(c, s, pc)
		})

		writes := products.Group("", writeGuard...)
		// create product
		writes.POST("", func(c *gin.Context) {
			handlers.CreateProductHandler(c, s, pc)
		})
		// update product and reconcile its tags
		writes.PUT("/:id", func(c *gin.Context) {
			handlers.UpdateProductHandler(c, s, pc)
		})
		// delete product
		writes.DELETE("/:id", func(c *gin.Context) {
			handlers.DeleteProductHandler(c, s, pc)
		})
	}

	categories := api.Group("/categories")
	{
		// category list
		categories.GET("", func(c *gin.Context) {
			handlers.GetCategoryListHandler(c, s)
		})
		// category detail
		categories.GET("/:id", func(c *gin.Context) {
			handlers.GetCategoryDataHandler(c, s)
		})

		writes := categories.Group("", writeGuard...)
		// create category
		writes.POST("", func(c *gin.Context) {
			handlers.CreateCategoryHandler(c, s)
		})
		// rename category
		writes.PUT("/:id", func(c *gin.Context) {
			handlers.UpdateCategoryHandler(c, s, pc)
		})
		// delete category
		writes.DELETE("/:id", func(c *gin.Context) {
			handlers.DeleteCategoryHandler(c, s, pc)
		})
	}

	tags := api.Group("/tags")
	{
		// tag list
		tags.GET("", func(c *gin.Context) {
			handlers.GetTagListHandler(c, s)
		})
		// tag detail
		tags.GET("/:id", func(c *gin.Context) {
			handlers.GetTagDataHandler(c, s)
		})

		writes := tags.Group("", writeGuard...)
		// create tag
		writes.POST("", func(c *gin.Context) {
			handlers.CreateTagHandler(c, s)
		})
		// rename tag
		writes.PUT("/:id", func(c *gin.Context) {
			handlers.UpdateTagHandler(c, s, pc)
		})
		// delete tag
		writes.DELETE("/:id", func(c *gin.Context) {
			handlers.DeleteTagHandler(c, s, pc)
		})
	}

	return router
}
