package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"time"

	"github.com/ksenchy/exchange-deals/internal/adapters/nbrb"
	portssvc "github.com/ksenchy/exchange-deals/internal/core/ports/services"
	"github.com/ksenchy/exchange-deals/internal/core/services"
	"github.com/ksenchy/exchange-deals/internal/handlers"
	"github.com/ksenchy/exchange-deals/internal/metrics"
	"github.com/ksenchy/exchange-deals/internal/middleware"
	"github.com/ksenchy/exchange-deals/internal/platform/config"
	"github.com/ksenchy/exchange-deals/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS, rate limiting)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery(), cors.Default())

	limiterRate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid rate limit configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	r.Use(middleware.RateLimit(limiter.New(memorystore.NewStore(), limiterRate)))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dealMetrics := metrics.NewDealMetrics()
	rateSource := nbrb.NewClient(cfg.RateSourceURL)
	svcs := services.NewServiceContainer(dbPool, rateSource, dealMetrics, services.ContainerConfig{
		RateRefreshCooldown: cfg.RateRefreshCooldown,
		DealConfirmTTL:      cfg.DealConfirmTTL,
	}, logger)

	handlers.RegisterRoutes(r, svcs)

	// Refresh rates at startup and on an interval, off the serving path.
	// A failed fetch is logged inside the service and last-known rates are kept.
	go refreshRatesLoop(svcs.Rate, cfg.RateRefreshInterval, logger)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations using a temporary
// standard sql.DB connection compatible with the main pgx pool.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	upErr := m.Up()
	if upErr != nil && upErr != migrate.ErrNoChange {
		return upErr
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if upErr == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

// refreshRatesLoop refreshes reference rates once at startup and then on
// every tick. The cooldown inside the rate service makes concurrent and
// repeated attempts cheap no-ops.
func refreshRatesLoop(rateSvc portssvc.RateRefresherSvc, interval time.Duration, logger *slog.Logger) {
	refresh := func() {
		if _, err := rateSvc.RefreshRates(context.Background()); err != nil {
			logger.Error("Rate refresh failed", slog.String("error", err.Error()))
		}
	}

	refresh()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		refresh()
	}
}
