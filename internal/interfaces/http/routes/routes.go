// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/cart"
	"github.com/your-org/bookstore-backend/internal/domain/catalog"
	"github.com/your-org/bookstore-backend/internal/domain/order"
	"github.com/your-org/bookstore-backend/internal/domain/wishlist"
	"github.com/your-org/bookstore-backend/internal/interfaces/http/handlers"
	"github.com/your-org/bookstore-backend/internal/interfaces/http/middleware"
	"github.com/your-org/bookstore-backend/internal/pkg/email"
	"github.com/your-org/bookstore-backend/internal/pkg/invoice"
	"gorm.io/gorm"
)

// SetupRoutes wires all API routes. Services are constructed once here so
// the order service shares the cart service and the email notification
// gateway.
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) {
	catalogService := catalog.NewService(db, cfg)
	cartService := cart.NewService(db, redisClient, cfg, logger)
	emailService := email.NewService(cfg, db, logger)
	orderService := order.NewService(db, cfg, cartService, emailService, logger)
	wishlistService := wishlist.NewService(db, cfg)
	invoiceService := invoice.NewService(cfg)

	authHandler := handlers.NewAuthHandler(db, cfg)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService, invoiceService)
	wishlistHandler := handlers.NewWishlistHandler(wishlistService)

	setupAuthRoutes(rg, authHandler, cfg)
	setupCatalogRoutes(rg, catalogHandler, cfg)
	setupCartRoutes(rg, cartHandler, cfg)
	setupOrderRoutes(rg, orderHandler, cfg)
	setupWishlistRoutes(rg, wishlistHandler, cfg)
	setupAdminRoutes(rg, catalogHandler, orderHandler, cfg)
}

func setupAuthRoutes(rg *gin.RouterGroup, h *handlers.AuthHandler, cfg *config.Config) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.RefreshToken)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.GET("/profile", h.GetProfile)
			protected.PUT("/profile", h.UpdateProfile)
		}
	}
}

func setupCatalogRoutes(rg *gin.RouterGroup, h *handlers.CatalogHandler, cfg *config.Config) {
	books := rg.Group("/books")
	books.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		books.GET("", h.GetBooks)
		books.GET("/categories", h.GetCategories)
		books.GET("/authors", h.GetAuthors)
		books.GET("/publishers", h.GetPublishers)
		books.GET("/slug/:slug", h.GetBookBySlug)
		books.GET("/:id", h.GetBook)

		reviews := books.Group("")
		reviews.Use(middleware.AuthMiddleware(cfg))
		{
			reviews.POST("/:id/reviews", h.CreateReview)
		}
	}
}

func setupCartRoutes(rg *gin.RouterGroup, h *handlers.CartHandler, cfg *config.Config) {
	// Cart routes work for guest sessions as well as authenticated users.
	cartGroup := rg.Group("/cart")
	cartGroup.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		cartGroup.GET("", h.GetCart)
		cartGroup.POST("/items", h.AddToCart)
		cartGroup.PUT("/items/:book_id", h.UpdateCartItem)
		cartGroup.DELETE("/items/:book_id", h.RemoveFromCart)
		cartGroup.DELETE("", h.ClearCart)
		cartGroup.POST("/price", h.PriceCart)

		protected := cartGroup.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.POST("/merge", h.MergeGuestCart)
			protected.POST("/sync", h.SyncCart)
		}
	}
}

func setupOrderRoutes(rg *gin.RouterGroup, h *handlers.OrderHandler, cfg *config.Config) {
	orders := rg.Group("/orders")
	orders.Use(middleware.AuthMiddleware(cfg))
	{
		orders.GET("", h.GetOrders)
		orders.POST("", h.CreateOrder)
		orders.GET("/ref/:reference", h.GetOrderByReference)
		orders.GET("/:id", h.GetOrder)
		orders.GET("/:id/invoice", h.GetInvoice)
	}
}

func setupWishlistRoutes(rg *gin.RouterGroup, h *handlers.WishlistHandler, cfg *config.Config) {
	wl := rg.Group("/wishlist")
	wl.Use(middleware.AuthMiddleware(cfg))
	{
		wl.GET("", h.GetWishlist)
		wl.POST("", h.AddToWishlist)
		wl.DELETE("/:book_id", h.RemoveFromWishlist)
	}
}

func setupAdminRoutes(rg *gin.RouterGroup, catalogHandler *handlers.CatalogHandler, orderHandler *handlers.OrderHandler, cfg *config.Config) {
	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg))
	admin.Use(middleware.AdminMiddleware())
	{
		// Discount management
		admin.POST("/discounts", catalogHandler.AdminCreateDiscount)
		admin.GET("/books/:id/discount", catalogHandler.AdminGetDiscount)
		admin.DELETE("/books/:id/discount", catalogHandler.AdminDeleteDiscount)

		// Order management
		orders := admin.Group("/orders")
		{
			orders.GET("", orderHandler.AdminGetOrders)
			orders.PUT("/:id/status", orderHandler.AdminUpdateStatus)
			orders.PUT("/:id/payment", orderHandler.AdminConfirmPayment)
		}
	}
}
