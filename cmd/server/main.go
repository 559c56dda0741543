package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"mobile-verify.backend/internal/config"
	"mobile-verify.backend/internal/infrastructure/jobs"
	"mobile-verify.backend/internal/infrastructure/models"
	"mobile-verify.backend/internal/infrastructure/notifier"
	"mobile-verify.backend/internal/infrastructure/repositories"
	"mobile-verify.backend/internal/interfaces/http/handlers"
	"mobile-verify.backend/internal/interfaces/http/middleware"
	"mobile-verify.backend/internal/interfaces/http/response"
	"mobile-verify.backend/internal/usecases"
	"mobile-verify.backend/pkg/jwt"
	"mobile-verify.backend/pkg/logger"
	"mobile-verify.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{TranslateError: true})
	}
	newSessionStore = redis.NewSessionStore
	newSNSNotifier  = func(ctx context.Context, region, senderID string) (notifier.Notifier, error) {
		return notifier.NewSNSNotifier(ctx, region, senderID)
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := loadCfg()

	// Initialize Logger
	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	// Initialize Redis
	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database using GORM
	db, err := openDB(cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("⚠️ Database not available: %v (endpoints will return errors)", err)
	} else {
		log.Println("✅ Connected to PostgreSQL via GORM")
		if err := db.AutoMigrate(&models.User{}, &models.MobileVerificationToken{}); err != nil {
			log.Printf("⚠️ Auto-migration failed: %v", err)
		}
	}

	// Initialize JWT service
	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	tokenRepo := repositories.NewVerificationTokenRepository(db)

	// Initialize Session Store
	sessionStore, err := newSessionStore(cfg.Security.SessionEncryptionKey)
	if err != nil {
		return fmt.Errorf("failed to initialize session store: %w", err)
	}

	// Initialize SMS notifier
	var smsNotifier notifier.Notifier
	if cfg.SMS.Enabled {
		smsNotifier, err = newSNSNotifier(context.Background(), cfg.SMS.Region, cfg.SMS.SenderID)
		if err != nil {
			return fmt.Errorf("failed to initialize SNS notifier: %w", err)
		}
	} else {
		log.Println("📴 SMS delivery disabled, tokens are logged only")
		smsNotifier = notifier.NewLogNotifier()
	}

	// Initialize token broker and usecases
	broker := usecases.NewVerificationTokenBroker(tokenRepo, usecases.BrokerOptions{
		TokenLength:        cfg.Verification.TokenLength,
		TokenLifetime:      cfg.Verification.TokenLifetime,
		InvalidatePrevious: cfg.Verification.InvalidatePrevious,
	})
	authUsecase := usecases.NewAuthUsecase(userRepo, broker, smsNotifier, jwtService)
	verificationUsecase := usecases.NewVerificationUsecase(userRepo, broker, smsNotifier)

	// Initialize response shaping for browser flows
	flashStore := redis.NewFlashStore(0)
	redirector := response.NewRedirector(flashStore, cfg.Verification.VerifiedURL)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authUsecase, sessionStore)
	verificationHandler := handlers.NewVerificationHandler(verificationUsecase, redirector)

	authMiddleware := middleware.AuthMiddleware(jwtService, sessionStore)

	// Start background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cleanupJob := jobs.NewTokenCleanupJob(tokenRepo, cfg.Verification.CleanupInterval)
	go cleanupJob.Start(ctx)

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		authHandler:         authHandler,
		verificationHandler: verificationHandler,
		authMiddleware:      authMiddleware,
	})

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("🛑 Shutting down server...")
		cleanupJob.Stop()
		cancel()
	}()

	// Start server
	log.Printf("🚀 Mobile verification backend starting on port %s", cfg.Server.Port)
	log.Printf("📚 API: http://localhost:%s/api/v1", cfg.Server.Port)
	log.Printf("❤️ Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
