// Package server boots the full application: configuration, storage
// backends, background workers, event listeners and the HTTP server with
// graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/furnistor/app/jobs"
	"github.com/shashiranjanraj/furnistor/app/models"
	"github.com/shashiranjanraj/furnistor/app/notifications"
	"github.com/shashiranjanraj/furnistor/app/repositories"
	"github.com/shashiranjanraj/furnistor/app/routes"
	"github.com/shashiranjanraj/furnistor/app/services"
	"github.com/shashiranjanraj/furnistor/config"
	"github.com/shashiranjanraj/furnistor/pkg/cache"
	"github.com/shashiranjanraj/furnistor/pkg/database"
	"github.com/shashiranjanraj/furnistor/pkg/event"
	"github.com/shashiranjanraj/furnistor/pkg/logger"
	"github.com/shashiranjanraj/furnistor/pkg/middleware"
	"github.com/shashiranjanraj/furnistor/pkg/notification"
	"github.com/shashiranjanraj/furnistor/pkg/payment"
	"github.com/shashiranjanraj/furnistor/pkg/queue"
	"github.com/shashiranjanraj/furnistor/pkg/router"
	"github.com/shashiranjanraj/furnistor/pkg/schedule"
	"github.com/shashiranjanraj/furnistor/pkg/storage"
	"github.com/shashiranjanraj/furnistor/pkg/ws"
)

// Start boots everything and blocks until SIGINT or SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bootCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if err := database.Connect(bootCtx); err != nil {
		return err
	}
	defer database.Disconnect(context.Background()) //nolint:errcheck

	if err := database.EnsureIndexes(bootCtx); err != nil {
		return err
	}

	// Optionally mirror logs into a capped mongo collection.
	if col := config.Get("LOG_COLLECTION", ""); col != "" {
		mh := logger.NewMongoHandler(database.Collection(col))
		defer mh.Close()
		logger.L = slog.New(logger.NewMultiHandler(logger.L.Handler(), mh))
		slog.SetDefault(logger.L)
	}

	if err := cache.Connect(); err != nil {
		// The cache and the redis queue driver are optional; everything
		// falls back to in-process equivalents.
		logger.Warn("server: redis unavailable, using in-memory fallbacks", "error", err)
	}
	defer cache.Close()

	storage.Connect()

	if cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	} else {
		queue.SetDriver(queue.NewMemoryDriver())
	}
	queue.UseCollection(database.Collection("failed_jobs"))
	jobs.RegisterAll()
	queue.StartWorkers(ctx, runtime.NumCPU())

	userRepo := repositories.NewUserRepository(database.DB())
	productRepo := repositories.NewProductRepository(database.DB())
	orderRepo := repositories.NewOrderRepository(database.DB())

	middleware.SetPrincipalResolver(principalResolver(userRepo))

	svcs := routes.Services{
		Auth:     services.NewAuthService(userRepo),
		Users:    services.NewUserService(userRepo),
		Products: services.NewProductService(productRepo, orderRepo),
		Orders:   services.NewOrderService(orderRepo, productRepo, userRepo),
		Checkout: services.NewCheckoutService(payment.NewClient(), orderRepo, productRepo, userRepo),
		Feed:     ws.NewHub(),
	}
	go svcs.Feed.Run()

	notification.SetSlackWebhook(config.Get("SLACK_WEBHOOK_URL", ""))
	registerListeners(svcs.Feed, userRepo)

	schedule.Daily().Name("auth:purge-verification-tokens").Run(func() {
		purgeCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		n, err := userRepo.PurgeExpiredVerificationTokens(purgeCtx)
		if err != nil {
			logger.Error("server: purge verification tokens", "error", err)
			return
		}
		if n > 0 {
			logger.Info("server: purged expired verification tokens", "count", n)
		}
	})
	schedule.Start(ctx)

	r := router.New()
	routes.RegisterAPI(r, svcs)

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server: listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("server: shutting down")
	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}

// principalResolver loads the live account behind each authenticated request,
// so deleted users are rejected and role changes apply without waiting for
// the token to expire.
func principalResolver(users repositories.UserRepository) middleware.PrincipalResolver {
	return func(ctx context.Context, id string) (*middleware.Principal, error) {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, nil
		}
		u, err := users.FindByID(ctx, oid)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &middleware.Principal{ID: id, Role: string(u.Role)}, nil
	}
}

// registerListeners wires the order lifecycle events to the admin websocket
// feed and the status notification emails.
func registerListeners(feed *ws.Hub, users repositories.UserRepository) {
	event.Listen(services.EventOrderCreated, func(payload interface{}) {
		order, ok := payload.(*models.Order)
		if !ok {
			return
		}
		feed.BroadcastJSON(map[string]interface{}{
			"event": services.EventOrderCreated,
			"order": orderSummary(order),
		})
		if config.Get("SLACK_WEBHOOK_URL", "") != "" {
			notification.SendAsync("", &notifications.OrderPlaced{Order: order})
		}
	})

	event.Listen(services.EventOrderStatusChanged, func(payload interface{}) {
		order, ok := payload.(*models.Order)
		if !ok {
			return
		}
		feed.BroadcastJSON(map[string]interface{}{
			"event": services.EventOrderStatusChanged,
			"order": orderSummary(order),
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		user, err := users.FindByID(ctx, order.User)
		if err != nil {
			logger.Warn("server: status email: lookup user", "error", err, "order", order.ID.Hex())
			return
		}
		err = queue.Dispatch(&jobs.OrderStatusEmailJob{
			Email:   user.Email,
			Name:    user.Name,
			OrderID: order.ID.Hex(),
			Status:  string(order.Status),
		})
		if err != nil {
			logger.Warn("server: status email: dispatch", "error", err)
		}
	})
}

func orderSummary(o *models.Order) map[string]interface{} {
	return map[string]interface{}{
		"id":            o.ID.Hex(),
		"user":          o.User.Hex(),
		"total":         o.Total,
		"status":        o.Status,
		"paymentMethod": o.PaymentMethod,
		"createdAt":     o.CreatedAt,
	}
}
