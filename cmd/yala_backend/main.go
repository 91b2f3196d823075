package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/yalapay/yala_backend/internal/adapters/exchange"
	"github.com/yalapay/yala_backend/internal/core/services"
	"github.com/yalapay/yala_backend/internal/handlers"
	"github.com/yalapay/yala_backend/internal/middleware"
	"github.com/yalapay/yala_backend/internal/notification"
	"github.com/yalapay/yala_backend/internal/platform/seed"
	"github.com/yalapay/yala_backend/internal/repositories/database/pgsql"
	"github.com/yalapay/yala_backend/pkg/config"
	"github.com/yalapay/yala_backend/pkg/database"

	portssvc "github.com/yalapay/yala_backend/internal/core/ports/services"
)

// @title YalaPay Backend API
// @version 1.0
// @description Multi-currency wallet backend with exchange rate resolution.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established")

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos := pgsql.NewRepositoryProvider(dbPool)

	if err := seed.Run(context.Background(), cfg, repos, logger); err != nil {
		logger.Error("Failed to seed initial data", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var notifier portssvc.NotifierSvc
	if cfg.SMTPHost != "" {
		emailNotifier := notification.NewEmailNotifier(cfg, logger)
		defer emailNotifier.Close()
		notifier = emailNotifier
	} else {
		logger.Warn("SMTP not configured, email notifications are disabled")
		notifier = notification.NewNoopNotifier(logger)
	}

	primary := exchange.NewExchangeRateAPIProvider(cfg.ExchangeRateAPIKey, cfg.SupportedCurrencies)
	standby := exchange.NewCurrencyConverterProvider(cfg.CurrencyConverterAPIKey, cfg.SupportedCurrencies)

	serviceContainer := services.NewServiceContainer(cfg, repos, primary, standby, notifier)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations through a short-lived
// database/sql connection using the pgx stdlib driver.
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
	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if upErr != nil && upErr != migrate.ErrNoChange {
		return upErr
	}
	if upErr == migrate.ErrNoChange {
		logger.Info("No new migrations to apply")
	} else {
		logger.Info("Database migrations applied successfully")
	}
	return nil
}
