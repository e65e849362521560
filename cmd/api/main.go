package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/kiramedia/checkout-api/internal/application/service"
	"github.com/kiramedia/checkout-api/internal/config"
	"github.com/kiramedia/checkout-api/internal/domain/repository"
	"github.com/kiramedia/checkout-api/internal/infrastructure/database"
	"github.com/kiramedia/checkout-api/internal/infrastructure/gateway"
	infraRepo "github.com/kiramedia/checkout-api/internal/infrastructure/repository"
	"github.com/kiramedia/checkout-api/internal/infrastructure/session"
	"github.com/kiramedia/checkout-api/internal/presentation/http/handler"
	"github.com/kiramedia/checkout-api/internal/presentation/http/routes"
	"github.com/kiramedia/checkout-api/pkg/email"
	"github.com/kiramedia/checkout-api/pkg/resilience"
	"github.com/kiramedia/checkout-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Storage: Postgres when configured, in-memory otherwise (local dev and
	// sandbox demos run without external services)
	var (
		orderRepo       repository.OrderRepository
		voucherRepo     repository.VoucherRepository
		transactionRepo repository.TransactionRepository
		idempotencyRepo repository.IdempotencyRepository
	)
	if cfg.Database.Host != "" {
		db, err := database.NewPostgresDB(&cfg.Database)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		orderRepo = infraRepo.NewOrderRepository(db)
		voucherRepo = infraRepo.NewVoucherRepository(db)
		transactionRepo = infraRepo.NewTransactionRepository(db)
		idempotencyRepo = infraRepo.NewIdempotencyRepository(db)
	} else {
		log.Println("DB_HOST not set, using in-memory storage")
		orderRepo = infraRepo.NewMemoryOrderRepository()
		voucherRepo = infraRepo.NewMemoryVoucherRepository()
		transactionRepo = infraRepo.NewMemoryTransactionRepository()
		idempotencyRepo = infraRepo.NewMemoryIdempotencyRepository()
	}

	// Checkout sessions: Redis when configured, in-memory otherwise
	var sessionStore session.Store
	if cfg.Redis.URL != "" {
		store, err := session.NewRedisStore(cfg.Redis.URL, cfg.Redis.SessionTTL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		sessionStore = store
	} else {
		log.Println("REDIS_URL not set, using in-memory sessions")
		sessionStore = session.NewMemoryStore(cfg.Redis.SessionTTL)
	}

	// Gateway client behind a circuit breaker
	breaker := resilience.NewCircuitBreaker(resilience.BreakerConfig{
		Name:             "payment-gateway",
		FailureThreshold: cfg.Breaker.FailureThreshold,
		SuccessThreshold: cfg.Breaker.SuccessThreshold,
		ResetTimeout:     cfg.Breaker.ResetTimeout,
	})
	gatewayClient := gateway.NewSnapClient(gateway.Config{
		BaseURL:     cfg.Gateway.BaseURL,
		ServerKey:   cfg.Gateway.ServerKey,
		CallTimeout: cfg.Gateway.CallTimeout,
	}, breaker)

	gatewayRetry := resilience.RetryPolicy{
		MaxRetries: cfg.Gateway.MaxRetries,
		BaseDelay:  cfg.Gateway.RetryBase,
		Multiplier: 2,
		MaxDelay:   cfg.Gateway.CallTimeout,
	}
	webhookRetry := resilience.RetryPolicy{
		MaxRetries: cfg.Webhook.MaxRetries,
		BaseDelay:  cfg.Webhook.RetryBase,
		Multiplier: 2,
		MaxDelay:   cfg.Gateway.CallTimeout,
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Initialize email service
	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
	})

	// Initialize services
	voucherService := service.NewVoucherService(voucherRepo)
	orderService := service.NewOrderService(orderRepo, voucherService, cfg.Payment)
	effects := service.NewPaymentEffects(voucherService, emailService)
	checkoutService := service.NewCheckoutService(
		orderRepo,
		transactionRepo,
		orderService,
		gatewayClient,
		sessionStore,
		effects,
		gatewayRetry,
		cfg.Payment.MaxPaymentRetries,
	)
	notificationService := service.NewNotificationService(
		orderRepo,
		transactionRepo,
		gatewayClient,
		effects,
		webhookRetry,
	)
	statsService := service.NewStatsService(transactionRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:     handler.NewAuthHandler(jwtManager, cfg.Admin),
		Checkout: handler.NewCheckoutHandler(checkoutService, orderService),
		Webhook:  handler.NewWebhookHandler(notificationService),
		Order:    handler.NewOrderHandler(orderService),
		Voucher:  handler.NewVoucherHandler(voucherService),
		Stats:    handler.NewStatsHandler(statsService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
