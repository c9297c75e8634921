// Package api wires the order engine into a runnable HTTP process.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpapi "github.com/marketfront/orderflow/internal/domains/orders/adapters/http"
	ordersmemory "github.com/marketfront/orderflow/internal/domains/orders/adapters/memory"
	ordersobs "github.com/marketfront/orderflow/internal/domains/orders/adapters/observability"
	"github.com/marketfront/orderflow/internal/domains/orders/adapters/push"
	ordersapp "github.com/marketfront/orderflow/internal/domains/orders/application"
	"github.com/marketfront/orderflow/internal/domains/orders/domain"
	"github.com/marketfront/orderflow/internal/identity"
	platformobservability "github.com/marketfront/orderflow/internal/platform/observability"
	"github.com/marketfront/orderflow/internal/pubsub"
)

// Run boots the order API with observability, the seeded repository,
// and the push hub wired.
func Run(ctx context.Context) error {
	const serviceName = "marketfront-orders-api"
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	domainBus := pubsub.NewBus(pubsub.WithLogger[domain.Event](logger))
	repo := ordersmemory.NewRepository(ordersmemory.WithBus(domainBus))
	repo.Seed(cfg.SeedCount)
	logger.Info("order repository seeded", slog.Int("count", repo.Len()))

	var serviceOpts []ordersapp.Option
	if cfg.StrictTransitions {
		serviceOpts = append(serviceOpts, ordersapp.WithStrictTransitions())
		logger.Info("strict status transitions enabled")
	}
	orderService := ordersobs.New(
		ordersapp.NewService(repo, serviceOpts...),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	verifier := identity.NewVerifier(cfg.SessionSecret)
	handler := httpapi.NewHandler(
		orderService,
		httpapi.WithVerifier(verifier, cfg.SessionCookie),
		httpapi.WithRequireVerifiedCaller(cfg.RequireVerifiedCaller),
		httpapi.WithLogger(logger),
	)

	hub := push.NewHub(domainBus, logger)
	go hub.Run()
	defer hub.Close()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	handler.Register(router)
	router.GET("/api/orders/stream", func(c *gin.Context) {
		hub.Serve(c.Writer, c.Request)
	})

	addr := ":" + cfg.Port
	logger.Info("order API listening",
		slog.String("addr", addr),
		slog.Bool("requireVerifiedCaller", cfg.RequireVerifiedCaller),
	)
	if err := router.Run(addr); err != nil {
		logger.Error("order API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}
