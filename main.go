package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vaultguard/config"
	"vaultguard/database"
	accountRepoPkg "vaultguard/database/repository/account"
	vaultRepoPkg "vaultguard/database/repository/vault"
	"vaultguard/handlers"
	"vaultguard/middleware"
	"vaultguard/routes"
	"vaultguard/services/auth"
	"vaultguard/services/vault"
	"vaultguard/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitAuthCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// Repositories.
	accountRepo := accountRepoPkg.NewMongoAccountRepo()
	vaultRepo := vaultRepoPkg.NewMongoVaultRepo()

	// Services.
	mailer := utils.NewSMTPMailer()
	otpTTL := time.Duration(config.AppConfig.OTPTTLMinutes) * time.Minute
	authService := auth.NewDefaultAuthService(accountRepo, mailer, otpTTL, config.AppConfig.RequireEmailOTP)
	vaultService := &vault.DefaultVaultService{Repo: vaultRepo}

	handlers.SetAuthService(authService)
	handlers.SetVaultService(vaultService)

	// Register routes.
	routes.RegisterRoutes(router)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
