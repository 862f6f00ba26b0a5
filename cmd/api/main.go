package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/audit"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/discount"
	"storefront/internal/handler"
	"storefront/internal/inventory"
	"storefront/internal/objectstore"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/service"
	"storefront/internal/wallet"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting storefront API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, pool, logger); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	// Product images live in S3 or on local disk
	images := objectstore.New(ctx, cfg.Storage, logger)

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	categoryRepo := repository.NewCategoryRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	discountRepo := repository.NewDiscountRepository(pool, logger)
	addressRepo := repository.NewAddressRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	auditRepo := repository.NewAuditRepository(pool, logger)

	// Initialize order pipeline components
	recorder := audit.NewRecorder(auditRepo, logger)
	resolver := discount.NewResolver(discountRepo, logger)
	stock := inventory.NewManager(productRepo, recorder, logger)
	ledger := wallet.NewLedger(userRepo, recorder, logger)

	// Initialize services
	productService := service.NewProductService(productRepo, categoryRepo, recorder, images, logger)
	categoryService := service.NewCategoryService(categoryRepo, productRepo, logger)
	cartService := service.NewCartService(cartRepo, productRepo, resolver, logger)
	discountService := service.NewDiscountService(discountRepo, resolver, logger)
	addressService := service.NewAddressService(addressRepo, recorder, logger)
	walletService := service.NewWalletService(userRepo, ledger, logger)
	orderService := service.NewOrderService(orderRepo, userRepo, cartRepo, addressRepo, resolver, stock, ledger, recorder, logger)
	auditService := service.NewAuditService(auditRepo, logger)

	// Initialize HTTP handlers and router
	mux := router.New(router.Handlers{
		Product:  handler.NewProductHandler(productService, logger),
		Category: handler.NewCategoryHandler(categoryService, logger),
		Cart:     handler.NewCartHandler(cartService, logger),
		Discount: handler.NewDiscountHandler(discountService, logger),
		Address:  handler.NewAddressHandler(addressService, logger),
		Wallet:   handler.NewWalletHandler(walletService, logger),
		Order:    handler.NewOrderHandler(orderService, logger),
		Audit:    handler.NewAuditHandler(auditService, logger),
	}, cfg.Auth.APIKey, cfg.Auth.JWTSecret, logger)

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
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// In-flight order submissions finish or roll back before the pool closes
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
