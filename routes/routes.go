package routes

import (
	"time"

	"tienda-gateway/cart"
	"tienda-gateway/catalog"
	"tienda-gateway/checkout"
	"tienda-gateway/handlers"
	"tienda-gateway/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, store *cart.Store, snapshot *catalog.Snapshot, coordinator *checkout.Coordinator) {
	// Initialize handlers
	sessionHandler := &handlers.SessionHandler{}
	productHandler := &handlers.ProductHandler{Snapshot: snapshot}
	cartHandler := &handlers.CartHandler{Store: store, Snapshot: snapshot}
	checkoutHandler := &handlers.CheckoutHandler{Coordinator: coordinator}

	// Public routes
	api := r.Group("/api")
	{
		api.POST("/session", sessionHandler.Create)

		api.GET("/products", productHandler.GetProducts)
		api.GET("/products/:id", productHandler.GetProduct)
	}

	// Session-scoped routes (require a session token)
	session := api.Group("")
	session.Use(middleware.SessionMiddleware())
	{
		session.GET("/cart", cartHandler.GetCart)
		session.GET("/cart/totals", cartHandler.GetTotals)
		session.POST("/cart", cartHandler.AddToCart)
		session.PUT("/cart/:productId", cartHandler.UpdateCartItem)
		session.DELETE("/cart/:productId", cartHandler.RemoveFromCart)
		session.DELETE("/cart", cartHandler.ClearCart)

		// Checkout hammering would hit the upstream catalog directly.
		checkoutLimiter := middleware.NewRateLimiter(10, time.Minute)
		session.POST("/checkout", checkoutLimiter.Middleware(), checkoutHandler.Checkout)
	}
}
