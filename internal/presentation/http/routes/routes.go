package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kiramedia/checkout-api/internal/config"
	domainRepo "github.com/kiramedia/checkout-api/internal/domain/repository"
	"github.com/kiramedia/checkout-api/internal/presentation/http/handler"
	"github.com/kiramedia/checkout-api/internal/presentation/http/middleware"
	"github.com/kiramedia/checkout-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	Checkout *handler.CheckoutHandler
	Webhook  *handler.WebhookHandler
	Order    *handler.OrderHandler
	Voucher  *handler.VoucherHandler
	Stats    *handler.StatsHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// Public endpoints share a per-client rate limiter: the checkout form and
	// the webhook ingress are both reachable without credentials.
	rateLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
		BurstSize:         deps.Cfg.RateLimit.Requests,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          10 * time.Minute,
	})

	v1 := router.Group("/api/v1")
	{
		public := v1.Group("")
		public.Use(rateLimiter.Middleware())
		registerPublicRoutes(public, h, deps)

		admin := v1.Group("/admin")
		admin.Use(middleware.AdminAuthMiddleware(deps.JWTManager))
		registerAdminRoutes(admin, h)
	}

	return router
}

func registerPublicRoutes(public *gin.RouterGroup, h *Handlers, deps *Deps) {
	public.POST("/auth/login", h.Auth.Login)

	checkout := public.Group("/checkout")
	{
		checkout.POST("/quote", h.Checkout.Quote)
		// Checkout creation uses idempotency middleware so a double submit
		// never creates two orders
		checkout.POST("", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Checkout.Begin)
		checkout.POST("/:orderNumber/callback", h.Checkout.Callback)
		checkout.POST("/:orderNumber/retry", h.Checkout.Retry)
		checkout.GET("/:orderNumber/status", h.Checkout.Status)
	}

	public.POST("/vouchers/validate", h.Voucher.Validate)

	public.POST("/payments/notification",
		middleware.WebhookGuard(deps.Cfg.Webhook),
		h.Webhook.Notify)
}

func registerAdminRoutes(admin *gin.RouterGroup, h *Handlers) {
	orders := admin.Group("/orders")
	{
		orders.GET("", h.Order.List)
		orders.GET("/:id", h.Order.Get)
		orders.GET("/:id/transaction", h.Stats.GetOrderTransaction)
		orders.PUT("/:id/status", h.Order.UpdateStatus)
		orders.POST("/:id/cancel", h.Order.Cancel)
	}

	vouchers := admin.Group("/vouchers")
	{
		vouchers.GET("", h.Voucher.List)
		vouchers.POST("", h.Voucher.Create)
		vouchers.GET("/:id", h.Voucher.Get)
		vouchers.PUT("/:id", h.Voucher.Update)
		vouchers.DELETE("/:id", h.Voucher.Delete)
	}

	// Separate prefix: a static "number" segment under /orders would
	// conflict with the :id wildcard in gin's routing tree
	admin.GET("/order-by-number/:orderNumber", h.Order.GetByNumber)

	admin.GET("/transactions", h.Stats.ListTransactions)
	admin.GET("/stats", h.Stats.Stats)
}
