// Package server boots the API: configuration, Mongo, Redis, storage,
// background workers, event listeners and the HTTP server with graceful
// shutdown.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/granthkosh/granthkosh/app/controllers"
	appgraphql "github.com/granthkosh/granthkosh/app/graphql"
	"github.com/granthkosh/granthkosh/app/jobs"
	"github.com/granthkosh/granthkosh/app/models"
	"github.com/granthkosh/granthkosh/app/repositories"
	"github.com/granthkosh/granthkosh/app/routes"
	"github.com/granthkosh/granthkosh/app/services"
	"github.com/granthkosh/granthkosh/config"
	"github.com/granthkosh/granthkosh/pkg/cache"
	"github.com/granthkosh/granthkosh/pkg/cart"
	"github.com/granthkosh/granthkosh/pkg/database"
	"github.com/granthkosh/granthkosh/pkg/event"
	"github.com/granthkosh/granthkosh/pkg/logger"
	"github.com/granthkosh/granthkosh/pkg/queue"
	"github.com/granthkosh/granthkosh/pkg/storage"
	"github.com/granthkosh/granthkosh/pkg/ws"
)

const shutdownTimeout = 10 * time.Second

// Start boots every subsystem and blocks serving HTTP until SIGINT or
// SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	if config.LogToMongo() {
		if err := logger.EnableMongoSink(config.MongoURI(), config.MongoDB(), "logs"); err != nil {
			logger.Warn("server: mongo log sink disabled", "error", err)
		}
	}

	bootCtx, cancelBoot := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelBoot()

	if err := database.Connect(bootCtx); err != nil {
		return err
	}

	// Redis is optional: carts fall back to memory, the cache no-ops and
	// the queue stays in-process.
	if err := cache.Connect(bootCtx); err != nil {
		logger.Warn("server: redis unavailable, using in-process fallbacks", "error", err)
	}

	storage.Connect()

	bookRepo := repositories.NewBookRepository(database.DB())
	orderRepo := repositories.NewOrderRepository(database.DB())
	userRepo := repositories.NewUserRepository(database.DB())
	for name, fn := range map[string]func(context.Context) error{
		"books":  bookRepo.EnsureIndexes,
		"orders": orderRepo.EnsureIndexes,
		"users":  userRepo.EnsureIndexes,
	} {
		if err := fn(bootCtx); err != nil {
			logger.Warn("server: ensure indexes failed", "collection", name, "error", err)
		}
	}

	var cartStore cart.Store
	if cache.RDB != nil {
		cartStore = cart.NewRedisStore(cache.RDB)
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	} else {
		cartStore = cart.NewMemoryStore()
	}

	jobs.Register()
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	queue.StartWorkers(workerCtx, 4)

	orderHub := ws.NewHub()
	go orderHub.Run()
	registerListeners(orderHub)

	authService := services.NewAuthService(userRepo)
	catalogService := services.NewCatalogService(bookRepo)
	checkoutService := services.NewCheckoutService(orderRepo, bookRepo)
	orderService := services.NewOrderService(orderRepo, bookRepo)
	userService := services.NewUserService(userRepo, orderRepo, bookRepo)

	graphqlHandler, err := appgraphql.NewHandler(catalogService)
	if err != nil {
		return err
	}

	router := routes.New(routes.Controllers{
		Auth:     controllers.NewAuthController(authService),
		Products: controllers.NewProductController(catalogService),
		Cart:     controllers.NewCartController(cartStore, catalogService),
		Orders:   controllers.NewOrderController(checkoutService, orderService, cartStore),
		Users:    controllers.NewUserController(userService),
		GraphQL:  graphqlHandler,
		OrderHub: orderHub,
	})

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server: listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("server: shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server: shutdown", "error", err)
	}
	stopWorkers()
	if err := database.Disconnect(shutdownCtx); err != nil {
		logger.Error("server: mongo disconnect", "error", err)
	}
	return nil
}

// registerListeners wires the domain events fired by the services into the
// websocket feed and the mail queue.
func registerListeners(hub *ws.Hub) {
	event.Listen(event.OrderCreated, func(payload interface{}) {
		order, ok := payload.(models.Order)
		if !ok {
			return
		}
		hub.Publish(event.OrderCreated, order)
		if err := queue.Dispatch(jobs.NewOrderConfirmation(order)); err != nil {
			logger.Error("server: dispatch confirmation email", "order", order.OrderNumber, "error", err)
		}
	})

	event.Listen(event.OrderStatusChanged, func(payload interface{}) {
		if order, ok := payload.(models.Order); ok {
			hub.Publish(event.OrderStatusChanged, order)
		}
	})
}
