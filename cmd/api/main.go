package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"authservice/internal/config"
	"authservice/internal/database"
	"authservice/internal/middleware"
	"authservice/internal/modules/auth"
	"authservice/internal/pkg/cookies"
	"authservice/internal/pkg/logger"
	"authservice/internal/pkg/token"
	"authservice/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zlog, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zlog.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("db connect failed", zap.Error(err))
	}

	tokenService, err := token.New(token.Config{
		PrivateKey:    cfg.PrivateKey,
		RefreshSecret: cfg.RefreshTokenSecret,
		Issuer:        cfg.ServiceName,
	})
	if err != nil {
		zlog.Fatal("token service init failed", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(db)
	refreshRepo := repository.NewRefreshTokenRepository(db)

	authService := auth.NewService(userRepo, refreshRepo, tokenService)
	cookieManager := cookies.NewManager(cfg.CookieDomain, cfg.CookieSecure)
	authHandler := auth.NewHandler(authService, cookieManager, zlog)

	r := gin.New()
	r.Use(middleware.RequestLogger(zlog))
	r.Use(middleware.ErrorHandler(zlog))

	// public
	authHandler.RegisterPublicRoutes(&r.RouterGroup)

	// protected
	protected := r.Group("/")
	protected.Use(middleware.Authenticate(tokenService))
	authHandler.RegisterProtectedRoutes(protected)

	zlog.Info("listening", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
