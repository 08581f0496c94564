package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pva-store/internal/cartcache"
	"pva-store/internal/config"
	"pva-store/internal/database"
	"pva-store/internal/handler"
	"pva-store/internal/inventory"
	"pva-store/internal/ordernum"
	"pva-store/internal/repository"
	"pva-store/internal/router"
	"pva-store/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting pva-store API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Apply pending schema migrations before opening the pool
	if err := database.Migrate(cfg.Database.ConnectionString(), logger); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	customerRepo := repository.NewCustomerRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	kitRepo := repository.NewKitRepository(pool, logger)

	// Initialize the stock ledger and order number generator
	ledger := inventory.NewLedger(pool, logger)
	numbers := ordernum.NewGenerator(orderRepo, ordernum.Strategy(cfg.Orders.NumberStrategy), logger)

	// Initialize the cart summary cache
	cache := cartcache.New(cfg.Cart.CacheMaxEntries, cfg.Cart.CacheTTL, logger)

	// Initialize services
	productService := service.NewProductService(productRepo, ledger, logger)
	customerService := service.NewCustomerService(customerRepo, logger)
	cartService := service.NewCartService(cartRepo, productRepo, ledger, cache, logger)
	kitService := service.NewKitService(kitRepo, productRepo, logger)
	orderService := service.NewOrderService(orderRepo, cartRepo, productRepo, ledger, numbers, cache, logger)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService, logger)
	customerHandler := handler.NewCustomerHandler(customerService, logger)
	cartHandler := handler.NewCartHandler(cartService, logger)
	kitHandler := handler.NewKitHandler(kitService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)

	// Initialize router
	mux := router.New(productHandler, customerHandler, cartHandler, kitHandler, orderHandler, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
