// Command simulator drives several realtime views against a running
// order API. It exercises polling reconciliation, optimistic mutation
// with rollback, and cross-view convergence over the shared client bus.
package main

import (
	"context"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marketfront/orderflow/internal/domains/orders/domain"
	"github.com/marketfront/orderflow/internal/pubsub"
	"github.com/marketfront/orderflow/internal/realtime"
)

var statuses = []domain.Status{
	domain.StatusPending,
	domain.StatusProcessing,
	domain.StatusFulfilled,
	domain.StatusCancelled,
}

func main() {
	baseURL := flag.String("base-url", "http://localhost:8080", "order API base URL")
	viewCount := flag.Int("views", 3, "number of concurrent views")
	mutateEvery := flag.Duration("mutate-every", 5*time.Second, "delay between status mutations")
	pollInterval := flag.Duration("poll-interval", realtime.DefaultPollInterval, "view poll interval")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	gateway, err := realtime.NewHTTPGateway(*baseURL, nil)
	if err != nil {
		logger.Error("invalid gateway configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	clientBus := pubsub.NewBus(pubsub.WithLogger[domain.Event](logger))
	clientBus.On(domain.EventOrderStatusFailed, func(event domain.Event) {
		if failed, ok := event.(domain.OrderStatusFailed); ok {
			logger.Warn("status change rolled back",
				slog.String("order.id", failed.OrderID),
				slog.String("message", failed.Message),
			)
		}
	})

	views := make([]*realtime.View, 0, *viewCount)
	for i := 0; i < *viewCount; i++ {
		view := realtime.NewView(gateway, clientBus,
			realtime.WithPollInterval(*pollInterval),
			realtime.WithViewLogger(logger),
		)
		if err := view.Start(ctx); err != nil {
			logger.Error("initial fetch failed", slog.String("view.id", view.ID()), slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer view.Close()
		views = append(views, view)
		logger.Info("view started", slog.String("view.id", view.ID()), slog.Int("orders", len(view.Orders())))
	}

	ticker := time.NewTicker(*mutateEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			view := views[rand.Intn(len(views))]
			orders := view.Orders()
			if len(orders) == 0 {
				continue
			}
			target := orders[rand.Intn(len(orders))]
			next := statuses[rand.Intn(len(statuses))]
			if err := view.SetStatus(ctx, target.ID, next); err != nil {
				logger.Warn("mutation failed",
					slog.String("view.id", view.ID()),
					slog.String("order.id", target.ID),
					slog.String("error", err.Error()),
				)
				continue
			}
			logger.Info("mutation confirmed",
				slog.String("view.id", view.ID()),
				slog.String("order.id", target.ID),
				slog.String("status", string(next)),
			)
		case <-ctx.Done():
			logger.Info("simulator stopping")
			return
		}
	}
}
