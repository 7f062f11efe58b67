package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"

	"github.com/vitrine-app/vitrine/internal/app"
	"github.com/vitrine-app/vitrine/internal/auth"
	"github.com/vitrine-app/vitrine/internal/cashflow"
	"github.com/vitrine-app/vitrine/internal/catalog"
	"github.com/vitrine-app/vitrine/internal/customers"
	"github.com/vitrine-app/vitrine/internal/platform/db"
	"github.com/vitrine-app/vitrine/internal/reports"
	"github.com/vitrine-app/vitrine/internal/sales"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	validate := validator.New()
	sessions := auth.NewSessionStore(redisClient, cfg.SessionCookie, cfg.SessionTTL, cfg.IsProduction())

	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, sessions, validate)

	customerRepo := customers.NewRepository(pool)
	customerService := customers.NewService(customerRepo)
	customerHandler := customers.NewHandler(logger, customerService, validate)

	saleRepo := sales.NewRepository(pool)
	saleService := sales.NewService(saleRepo)
	saleHandler := sales.NewHandler(logger, saleService, validate)

	cashflowRepo := cashflow.NewRepository(pool)
	cashflowService := cashflow.NewService(cashflowRepo)
	cashflowHandler := cashflow.NewHandler(logger, cashflowService, validate)

	catalogRepo := catalog.NewRepository(pool)
	catalogService := catalog.NewService(catalogRepo)
	catalogHandler := catalog.NewHandler(logger, catalogService, validate)

	reportsRepo := reports.NewRepository(pool)
	reportsCache := reports.NewCache(redisClient, cfg.ChartCacheTTL)
	reportsService := reports.NewService(reportsRepo, reportsCache)
	reportsHandler := reports.NewHandler(logger, reportsService)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		Sessions:         sessions,
		AuthHandler:      authHandler,
		CustomersHandler: customerHandler,
		SalesHandler:     saleHandler,
		CashflowHandler:  cashflowHandler,
		CatalogHandler:   catalogHandler,
		ReportsHandler:   reportsHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
