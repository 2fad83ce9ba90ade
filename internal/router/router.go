package router

import (
	"github.com/avlawson/candyshop-backend/config"
	"github.com/avlawson/candyshop-backend/internal/app/controller"
	"github.com/avlawson/candyshop-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authController     *controller.AuthController
	quoteController    *controller.QuoteController
	orderController    *controller.OrderController
	paymentController  *controller.PaymentController
	scheduleController *controller.ScheduleController
	calendarController *controller.CalendarController
	settingsController *controller.SettingsController
	catalogController  *controller.CatalogController
	platformController *controller.PlatformController
	uploadController   *controller.UploadController
	authMiddleware     *middleware.AuthMiddleware
	config             *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	quoteController *controller.QuoteController,
	orderController *controller.OrderController,
	paymentController *controller.PaymentController,
	scheduleController *controller.ScheduleController,
	calendarController *controller.CalendarController,
	settingsController *controller.SettingsController,
	catalogController *controller.CatalogController,
	platformController *controller.PlatformController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:     authController,
		quoteController:    quoteController,
		orderController:    orderController,
		paymentController:  paymentController,
		scheduleController: scheduleController,
		calendarController: calendarController,
		settingsController: settingsController,
		catalogController:  catalogController,
		platformController: platformController,
		uploadController:   uploadController,
		authMiddleware:     authMiddleware,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Candy shop API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		// Storefront endpoints, no auth.
		v1.POST("/quote", r.quoteController.Quote)
		v1.GET("/categories", r.catalogController.ListCategories)
		v1.GET("/categories/:id/packaging", r.catalogController.ListPackagingForCategory)
		v1.GET("/calendar/availability", r.calendarController.Availability)
		v1.GET("/platform/categories", r.platformController.Categories)

		orders := v1.Group("/orders")
		{
			orders.POST("", r.orderController.PlaceOrder)
			orders.GET("/:number", r.orderController.GetOrderByNumber)
		}

		payments := v1.Group("/payments")
		{
			payments.POST("/square", r.paymentController.CaptureSquare)
			payments.POST("/paypal", r.paymentController.CapturePayPal)
		}

		uploads := v1.Group("/uploads")
		{
			uploads.POST("/design", r.uploadController.GenerateDesignUploadURL)
		}

		admin := v1.Group("/admin")
		{
			admin.POST("/login", r.authController.Login)

			authed := admin.Group("")
			authed.Use(r.authMiddleware.Authenticate())
			{
				authed.GET("/orders", r.orderController.ListOrders)
				authed.GET("/orders/:id", r.orderController.GetOrder)
				authed.PATCH("/orders/:id", r.orderController.UpdateOrder)
				authed.POST("/orders/:id/ship", r.orderController.MarkShipped)
				authed.POST("/orders/:id/archive", r.orderController.Archive)
				authed.POST("/orders/:id/refund", r.paymentController.Refund)
				authed.POST("/orders/:id/sync", r.platformController.SyncOrder)

				authed.POST("/schedule/assign", r.scheduleController.Assign)
				authed.DELETE("/schedule/assignments/:id", r.scheduleController.Unassign)
				authed.GET("/schedule/board", r.scheduleController.Board)
				authed.GET("/schedule/export", r.scheduleController.Export)

				authed.GET("/calendar/production-blocks", r.calendarController.ListProductionBlocks)
				authed.POST("/calendar/production-blocks", r.calendarController.CreateProductionBlock)
				authed.DELETE("/calendar/production-blocks/:id", r.calendarController.DeleteProductionBlock)
				authed.GET("/calendar/quote-blocks", r.calendarController.ListQuoteBlocks)
				authed.POST("/calendar/quote-blocks", r.calendarController.CreateQuoteBlock)
				authed.DELETE("/calendar/quote-blocks/:id", r.calendarController.DeleteQuoteBlock)

				authed.GET("/settings", r.settingsController.Get)
				authed.PUT("/settings", r.settingsController.Update)

				authed.POST("/categories", r.catalogController.CreateCategory)
				authed.PUT("/categories/:id", r.catalogController.UpdateCategory)
				authed.DELETE("/categories/:id", r.catalogController.DeleteCategory)
				authed.POST("/tiers", r.catalogController.CreateTier)
				authed.PUT("/tiers/:id", r.catalogController.UpdateTier)
				authed.DELETE("/tiers/:id", r.catalogController.DeleteTier)
				authed.GET("/packaging", r.catalogController.ListPackaging)
				authed.POST("/packaging", r.catalogController.CreatePackaging)
				authed.PUT("/packaging/:id", r.catalogController.UpdatePackaging)
				authed.DELETE("/packaging/:id", r.catalogController.DeletePackaging)
				authed.GET("/labels", r.catalogController.ListLabelRanges)
				authed.POST("/labels", r.catalogController.CreateLabelRange)
				authed.PUT("/labels/:id", r.catalogController.UpdateLabelRange)
				authed.DELETE("/labels/:id", r.catalogController.DeleteLabelRange)

				authed.DELETE("/platform/categories/cache", r.platformController.BustCategoryCache)
			}
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
