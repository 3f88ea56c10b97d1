package routes

import (
	"time"

	"salonify/config"
	"salonify/handlers"
	"salonify/middleware"
	"salonify/models"
	"salonify/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers sign-up, sign-in and session endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", hb.Auth.RegisterHandler)
		api.POST("/login", hb.Auth.LoginHandler)

		// Protected routes (Require Authentication)
		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware(hb.Sessions, hb.CookieName))
		protected.POST("/logout", hb.Auth.LogoutHandler)
		protected.GET("/me", hb.Auth.MeHandler)
	}
}

// RegisterCatalogRoutes registers public catalog reads.
func RegisterCatalogRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.GET("/branches", hb.Catalog.ListBranchesHandler)
		api.GET("/branches/:id", hb.Catalog.GetBranchHandler)
		api.GET("/services", hb.Catalog.ListServicesHandler)
		api.GET("/services/:id", hb.Catalog.GetServiceHandler)
		api.GET("/stylists", hb.Catalog.ListStylistsHandler)
		api.GET("/stylists/:id", hb.Catalog.GetStylistHandler)
	}
}

// RegisterBookingRoutes registers promotions, reservations and payments for signed-in users.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	auth := middleware.JWTAuthMiddleware(hb.Sessions, hb.CookieName)

	promotions := r.Group("/api/promotions", auth)
	promotions.POST("/validate", hb.Promotions.ValidateHandler)

	reservations := r.Group("/api/reservations", auth)
	{
		reservations.POST("", hb.Reservations.CreateHandler)
		reservations.GET("", hb.Reservations.ListHandler)
		reservations.GET("/:id", hb.Reservations.GetHandler)
		reservations.POST("/:id/cancel", hb.Reservations.CancelHandler)
	}

	payments := r.Group("/api/payments")
	{
		// Stripe authenticates the webhook with its signature, not a session.
		payments.POST("/webhook", hb.Payments.WebhookHandler)
		payments.POST("/intents", auth, hb.Payments.CreateIntentHandler)
		payments.POST("/confirm", auth, hb.Payments.ConfirmHandler)
	}
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.JWTAuthMiddleware(hb.Sessions, hb.CookieName), middleware.RequireRole(models.RoleAdmin))
		adminGroup.POST("/branches", hb.Catalog.CreateBranchHandler)
		adminGroup.POST("/services", hb.Catalog.CreateServiceHandler)
		adminGroup.POST("/stylists", hb.Catalog.CreateStylistHandler)
		adminGroup.POST("/promotions", hb.Promotions.CreateHandler)
		adminGroup.GET("/promotions", hb.Promotions.ListHandler)
		adminGroup.GET("/audit-log", hb.Admin.AuditLogHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	origins := config.AppConfig.CORSOriginList()
	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		// Credentials cannot be combined with a wildcard origin.
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = origins
		corsCfg.AllowCredentials = true
	}
	r.Use(cors.New(corsCfg))

	RegisterAuthRoutes(r, hb)
	RegisterCatalogRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterHealthRoute(r, hb)

	r.NoRoute(utils.NoRoute)
}
