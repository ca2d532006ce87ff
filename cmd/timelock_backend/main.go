package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/stelvault/timelock_app/internal/adapters/settlement/stellar"
	"github.com/stelvault/timelock_app/internal/core/services"
	"github.com/stelvault/timelock_app/internal/handlers"
	"github.com/stelvault/timelock_app/internal/middleware"
	"github.com/stelvault/timelock_app/internal/repositories/database/pgsql"
	"github.com/stelvault/timelock_app/pkg/config"
	"github.com/stelvault/timelock_app/pkg/database"
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
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if err := runMigrations(logger, cfg.DatabaseURL); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Build the settlement client with the configured signing strategy. Signing
	// happens entirely inside the adapter; the rest of the application only ever
	// handles settlement references.
	signer, err := buildSigner(cfg)
	if err != nil {
		logger.Error("Failed to initialize transaction signer", slog.String("error", err.Error()))
		os.Exit(1)
	}
	settlementClient := stellar.NewClient(cfg.HorizonURL, signer, cfg.VaultAddress, cfg.NetworkPassphrase, cfg.SettlementTimeout)

	repos := pgsql.NewRepositoryProvider(dbPool)
	serviceContainer, reconciler := services.NewContainer(&repos, settlementClient, cfg.ReconcileInterval)

	// The reconciler replays settled-but-unrecorded ledger writes in the background.
	reconcilerCtx, cancelReconciler := context.WithCancel(context.Background())
	defer cancelReconciler()
	reconciler.Start(reconcilerCtx)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.StructuredLoggingMiddleware(logger))

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Starting server", slog.String("port", cfg.Port), slog.String("signing_mode", cfg.SigningMode))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func buildSigner(cfg *config.Config) (stellar.TransactionSigner, error) {
	if cfg.SigningMode == config.SigningModeDelegated {
		return stellar.NewDelegatedSigner(cfg.VaultAddress, cfg.SignerURL), nil
	}
	return stellar.NewLocalSigner(cfg.VaultSecretKey, cfg.NetworkPassphrase)
}

func runMigrations(logger *slog.Logger, databaseURL string) error {
	logger.Info("Running database migrations...")

	// Open a temporary standard sql.DB connection for migrations
	// Using pgx/v5/stdlib driver to be compatible with the main pool
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

	logger.Info("Database migrations applied.")
	return nil
}
