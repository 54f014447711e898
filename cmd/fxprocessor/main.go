package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"fx-payment-processor/internal/adapters/database/memory"
	"fx-payment-processor/internal/adapters/database/pgsql"
	"fx-payment-processor/internal/core/domain"
	portsrepo "fx-payment-processor/internal/core/ports/repositories"
	"fx-payment-processor/internal/core/services"
	"fx-payment-processor/internal/handlers"
	"fx-payment-processor/internal/middleware"
	"fx-payment-processor/internal/platform/config"
	"fx-payment-processor/pkg/database"
	"fx-payment-processor/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	limitmem "github.com/ulule/limiter/v3/drivers/store/memory"

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

	currencies := domain.NewCurrencyRegistry(config.SupportedCurrencies())
	rates, err := config.ParseRates(cfg.FXRates)
	if err != nil {
		logger.Error("Failed to parse exchange rate configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	collector := metrics.NewMetricsCollector(logger)

	// The durable transaction log is optional. When enabled, previously
	// persisted transactions are replayed so balances and the ledger
	// counter survive a restart.
	var txLog portsrepo.TransactionLog
	var walletRepo *memory.WalletRepository
	var ledgerRepo *memory.LedgerRepository

	if cfg.EnableDurableLog {
		dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
		if err != nil {
			logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer database.ClosePgxPool(dbPool)

		if err := runMigrations(logger, cfg.DatabaseURL); err != nil {
			logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}

		logRepo := pgsql.NewTransactionLogRepository(dbPool)
		txLog = logRepo

		history, err := logRepo.LoadTransactions(context.Background())
		if err != nil {
			logger.Error("Failed to load transaction history", slog.String("error", err.Error()))
			os.Exit(1)
		}
		walletRepo = memory.NewWalletRepositoryFromBalances(services.ReplayBalancesByUser(history))
		ledgerRepo = memory.NewLedgerRepositoryFromHistory(history)
		logger.Info("Rebuilt state from transaction log", slog.Int("transactions", len(history)))
	} else {
		walletRepo = memory.NewWalletRepository()
		ledgerRepo = memory.NewLedgerRepository()
	}

	serviceContainer, err := services.NewServiceContainer(walletRepo, ledgerRepo, txLog, currencies, rates, collector)
	if err != nil {
		logger.Error("Failed to initialize services", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	limiterInstance, err := newRateLimiter(cfg.RateLimit)
	if err != nil {
		logger.Error("Failed to configure rate limiter", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, collector, limiterInstance)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// newRateLimiter builds an in-memory IP rate limiter from a formatted
// rate such as "100-M".
func newRateLimiter(formatted string) (*limiter.Limiter, error) {
	if formatted == "" {
		return nil, nil
	}
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, err
	}
	return limiter.New(limitmem.NewStore(), rate), nil
}

// runMigrations applies all pending "up" migrations using a temporary
// database/sql connection so the main pgx pool stays untouched.
func runMigrations(logger *slog.Logger, databaseURL string) error {
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply")
	} else {
		logger.Info("Database migrations applied")
	}
	return nil
}
