package http

import (
	"github.com/gin-gonic/gin"

	"quickpay/internal/application/payment/usecases"
	"quickpay/internal/infrastructure/config"
	"quickpay/internal/infrastructure/idempotency"
	"quickpay/internal/infrastructure/ratelimit"
	"quickpay/internal/interfaces/http/handlers"
	"quickpay/internal/interfaces/http/middleware"
	"quickpay/internal/shared/logger"
)

// Router represents the HTTP router configuration
type Router struct {
	engine           *gin.Engine
	cfg              *config.Config
	orderHandler     *handlers.OrderHandler
	healthHandler    *handlers.HealthHandler
	rateLimiter      *middleware.RateLimiter
	idempotencyStore *idempotency.MemoryStore
	logger           logger.Interface
}

// RouterDeps holds the collaborators wired into the router. Limiter and
// IdempotencyStore are optional.
type RouterDeps struct {
	Config           *config.Config
	CreateOrder      *usecases.CreateOrderUseCase
	GatewayName      string
	Limiter          ratelimit.RateLimiter
	IdempotencyStore *idempotency.MemoryStore
	Logger           logger.Interface
}

// NewRouter creates a new HTTP router with all dependencies
func NewRouter(deps RouterDeps) *Router {
	r := &Router{
		engine:           gin.New(),
		cfg:              deps.Config,
		orderHandler:     handlers.NewOrderHandler(deps.CreateOrder, deps.Logger),
		healthHandler:    handlers.NewHealthHandler(deps.GatewayName),
		idempotencyStore: deps.IdempotencyStore,
		logger:           deps.Logger,
	}

	if deps.Limiter != nil {
		r.rateLimiter = middleware.NewRateLimiter(deps.Limiter, ratelimit.Limits{
			RequestsPerMinute: deps.Config.RateLimit.RequestsPerMinute,
			RequestsPerHour:   deps.Config.RateLimit.RequestsPerHour,
		}, deps.Logger)
	}

	return r
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Logger(r.logger))
	r.engine.Use(middleware.Recovery(r.logger))
	r.engine.Use(middleware.SecurityHeaders())
	r.engine.Use(middleware.CORS(r.cfg.Server.AllowedOrigins))

	r.engine.GET("/health", r.healthHandler.HealthCheck)

	orderChain := []gin.HandlerFunc{}
	if r.rateLimiter != nil {
		orderChain = append(orderChain, r.rateLimiter.Limit())
	}
	if r.idempotencyStore != nil {
		orderChain = append(orderChain, middleware.Idempotency(r.idempotencyStore, r.logger))
	}
	orderChain = append(orderChain, r.orderHandler.CreateOrder)

	r.engine.POST("/create-order", orderChain...)
}

// GetEngine returns the underlying gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
