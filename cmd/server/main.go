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

	"blockbustre.backend/internal/config"
	"blockbustre.backend/internal/infrastructure/blockchain"
	"blockbustre.backend/internal/infrastructure/jobs"
	"blockbustre.backend/internal/infrastructure/mail"
	"blockbustre.backend/internal/infrastructure/repositories"
	"blockbustre.backend/internal/interfaces/http/handlers"
	"blockbustre.backend/internal/interfaces/http/middleware"
	"blockbustre.backend/internal/usecases"
	"blockbustre.backend/pkg/crypto"
	"blockbustre.backend/pkg/jwt"
	"blockbustre.backend/pkg/logger"
	"blockbustre.backend/pkg/redis"
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
		}), &gorm.Config{
			PrepareStmt: false,
		})
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
	dsn := cfg.Database.URL()
	db, err := openDB(dsn)
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
	}

	// Initialize JWT service
	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	profileRepo := repositories.NewUserProfileRepository(db)
	roleRepo := repositories.NewRoleRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)
	attemptRepo := repositories.NewLoginAttemptRepository(db)
	contractRepo := repositories.NewContractRepository(db)
	categoryRepo := repositories.NewContractCategoryRepository(db)
	templateRepo := repositories.NewContractTemplateRepository(db)
	deploymentLogRepo := repositories.NewDeploymentLogRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)
	paymentMethodRepo := repositories.NewPaymentMethodRepository(db)
	subscriptionRepo := repositories.NewSubscriptionRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// Initialize blockchain client factory
	clientFactory := blockchain.NewClientFactory(cfg.Blockchain.RPCURLs())

	// Initialize mail and token blacklist
	mailer := mail.NewSMTPMailer(mail.SMTPConfig{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
	})
	blacklist := redis.NewTokenBlacklist()

	// Initialize usecases
	authUsecase := usecases.NewAuthUsecase(userRepo, profileRepo, sessionRepo, attemptRepo, uow, blacklist, mailer, jwtService, usecases.AuthOptions{
		PasswordPolicy:    crypto.PasswordPolicy{MinLength: cfg.Security.PasswordMinLength},
		FrontendBaseURL:   cfg.Security.FrontendBaseURL,
		ActionTokenExpiry: cfg.JWT.ActionExpiry,
	})
	accountUsecase := usecases.NewAccountUsecase(userRepo, profileRepo, contractRepo, transactionRepo)
	roleUsecase := usecases.NewRoleUsecase(roleRepo)
	contractUsecase := usecases.NewContractUsecase(contractRepo, categoryRepo, templateRepo, deploymentLogRepo, userRepo, clientFactory)
	transactionUsecase := usecases.NewTransactionUsecase(transactionRepo, contractRepo)
	billingUsecase := usecases.NewBillingUsecase(paymentMethodRepo, subscriptionRepo, userRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authUsecase)
	accountHandler := handlers.NewAccountHandler(accountUsecase)
	roleHandler := handlers.NewRoleHandler(roleUsecase)
	contractHandler := handlers.NewContractHandler(contractUsecase)
	categoryHandler := handlers.NewCategoryHandler(contractUsecase)
	transactionHandler := handlers.NewTransactionHandler(transactionUsecase)
	billingHandler := handlers.NewBillingHandler(billingUsecase)

	authMiddleware := middleware.AuthMiddleware(jwtService, userRepo)

	// Start background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	expiryJob := jobs.NewSubscriptionExpiryJob(subscriptionRepo, userRepo, cfg.Jobs.SubscriptionExpiryInterval)
	go expiryJob.Start(ctx)

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
		authHandler:        authHandler,
		accountHandler:     accountHandler,
		roleHandler:        roleHandler,
		contractHandler:    contractHandler,
		categoryHandler:    categoryHandler,
		transactionHandler: transactionHandler,
		billingHandler:     billingHandler,
		authMiddleware:     authMiddleware,
	})

	// Print all registered routes for debugging
	log.Println("📋 Registered Routes:")
	for _, route := range r.Routes() {
		log.Printf("   %s %s", route.Method, route.Path)
	}

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("🛑 Shutting down server...")
		expiryJob.Stop()
		cancel()
	}()

	// Start server
	log.Printf("🚀 BlockBustre Backend starting on port %s", cfg.Server.Port)
	log.Printf("📚 API: http://localhost:%s/api/v1", cfg.Server.Port)
	log.Printf("❤️ Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
