package routes

import (
	"net/http"
	"time"

	"vaultguard/handlers"
	"vaultguard/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers the authentication endpoints. Setup, confirm
// and login-verify are distinct operations with their own paths, not actions
// multiplexed behind a query parameter.
func RegisterAuthRoutes(r *gin.Engine) {
	api := r.Group("/api/auth")
	{
		api.POST("/signup", handlers.SignupHandler)
		api.POST("/login", handlers.LoginHandler)
		api.POST("/verify-otp", handlers.VerifyOTPHandler)
		api.POST("/logout", handlers.LogoutHandler)

		// TOTP enrollment requires an authenticated session.
		protected := api.Group("/2fa")
		protected.Use(middleware.SessionAuthMiddleware())
		protected.POST("/setup", handlers.SetupTwoFactorHandler)
		protected.POST("/verify", handlers.ConfirmTwoFactorHandler)
	}
}

// RegisterVaultRoutes registers the vault item endpoints.
func RegisterVaultRoutes(r *gin.Engine) {
	api := r.Group("/api/vault")
	{
		api.Use(middleware.SessionAuthMiddleware())
		api.GET("", handlers.ListVaultItemsHandler)
		api.POST("", handlers.CreateVaultItemHandler)
		api.PUT("/:id", handlers.UpdateVaultItemHandler)
		api.DELETE("/:id", handlers.DeleteVaultItemHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes sets up CORS and all route groups.
func RegisterRoutes(r *gin.Engine) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterAuthRoutes(r)
	RegisterVaultRoutes(r)
}
