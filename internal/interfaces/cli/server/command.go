package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"quickpay/internal/application/payment/paymentgateway"
	"quickpay/internal/application/payment/usecases"
	"quickpay/internal/domain/payment"
	"quickpay/internal/infrastructure/config"
	"quickpay/internal/infrastructure/idempotency"
	"quickpay/internal/infrastructure/payment/razorpay"
	"quickpay/internal/infrastructure/ratelimit"
	httpRouter "quickpay/internal/interfaces/http"
	"quickpay/internal/shared/logger"
)

const (
	mockKeyID = "rzp_test_mock"

	redisPingTimeout = 3 * time.Second
	shutdownTimeout  = 30 * time.Second
)

var env string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the order-creation HTTP server",
		Long:  `Start the quickpay HTTP server exposing POST /create-order and GET /health.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	ginMode := mapEnvToGinMode(env)

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.ValidateGateway(&cfg.Razorpay); err != nil {
		return err
	}

	cfg.Server.Mode = ginMode

	if err := logger.Init(&cfg.Logger, ginMode == gin.DebugMode); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gateway, keyID := newGateway(cfg, log)

	limiter, closeRedis := newLimiter(ctx, cfg, log)
	defer closeRedis()

	var store *idempotency.MemoryStore
	if cfg.Idempotency.Enabled {
		store = idempotency.NewMemoryStore(time.Duration(cfg.Idempotency.TTLMinutes)*time.Minute, log.Named("idempotency"))
		store.StartSweeper(ctx, time.Duration(cfg.Idempotency.SweepIntervalS)*time.Second)
	}

	createOrderUC := usecases.NewCreateOrderUseCase(
		gateway,
		payment.NewReceiptGenerator(),
		log.Named("orders"),
		usecases.OrderConfig{
			KeyID: keyID,
			Notes: cfg.Razorpay.Notes,
		},
	)

	router := httpRouter.NewRouter(httpRouter.RouterDeps{
		Config:           cfg,
		CreateOrder:      createOrderUC,
		GatewayName:      gateway.Name(),
		Limiter:          limiter,
		IdempotencyStore: store,
		Logger:           log,
	})
	router.SetupRoutes()

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router.GetEngine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infow("server starting",
			"address", cfg.Server.GetAddr(),
			"mode", cfg.Server.Mode,
			"gateway", gateway.Name(),
			"environment", env)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Infow("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}

	log.Infow("server exited gracefully")
	return nil
}

// newGateway returns the order gateway and the publishable key sent to clients.
func newGateway(cfg *config.Config, log logger.Interface) (paymentgateway.OrderGateway, string) {
	if cfg.Razorpay.Mock {
		keyID := cfg.Razorpay.KeyID
		if keyID == "" {
			keyID = mockKeyID
		}
		log.Warnw("using mock payment gateway, orders are not sent to Razorpay")
		return paymentgateway.NewMockGateway(true), keyID
	}
	return razorpay.NewGateway(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, log.Named("razorpay")), cfg.Razorpay.KeyID
}

// newLimiter connects to Redis when rate limiting is enabled. An unreachable
// Redis disables rate limiting instead of failing startup.
func newLimiter(ctx context.Context, cfg *config.Config, log logger.Interface) (ratelimit.RateLimiter, func()) {
	noop := func() {}
	if !cfg.RateLimit.Enabled {
		return nil, noop
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warnw("redis unavailable, rate limiting disabled", "error", err, "address", cfg.Redis.GetAddr())
		_ = client.Close()
		return nil, noop
	}
	log.Infow("redis connection established", "address", cfg.Redis.GetAddr())

	return ratelimit.NewRedisRateLimiter(client), func() {
		if err := client.Close(); err != nil {
			log.Warnw("failed to close redis client", "error", err)
		}
	}
}

func mapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return gin.ReleaseMode
	case "test", "testing":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}
