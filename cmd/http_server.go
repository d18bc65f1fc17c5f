package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/dues-management/internal"
	"github.com/frahmantamala/dues-management/internal/auth"
	authPostgres "github.com/frahmantamala/dues-management/internal/auth/postgres"
	"github.com/frahmantamala/dues-management/internal/backup"
	backupPostgres "github.com/frahmantamala/dues-management/internal/backup/postgres"
	"github.com/frahmantamala/dues-management/internal/core/events"
	"github.com/frahmantamala/dues-management/internal/dues"
	duesPostgres "github.com/frahmantamala/dues-management/internal/dues/postgres"
	"github.com/frahmantamala/dues-management/internal/resident"
	residentPostgres "github.com/frahmantamala/dues-management/internal/resident/postgres"
	"github.com/frahmantamala/dues-management/internal/settings"
	settingsPostgres "github.com/frahmantamala/dues-management/internal/settings/postgres"
	"github.com/frahmantamala/dues-management/internal/transaction"
	transactionPostgres "github.com/frahmantamala/dues-management/internal/transaction/postgres"
	"github.com/frahmantamala/dues-management/internal/transport/rest"
	"github.com/frahmantamala/dues-management/internal/user"
	userPostgres "github.com/frahmantamala/dues-management/internal/user/postgres"
	"github.com/frahmantamala/dues-management/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server that records dues and keeps the cash book`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if sqlDB, err := deps.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				slog.Error("Database close error", "error", err)
			}
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) {
	lg := deps.Logger
	eventBus := events.NewEventBus(lg)
	registerAuditSubscribers(eventBus, lg)

	// Repositories
	authRepo := authPostgres.NewRepository(deps.DB)
	userRepo := userPostgres.NewRepository(deps.DB)
	residentRepo := residentPostgres.NewResidentRepository(deps.DB)
	ledgerRepo := duesPostgres.NewLedgerRepository(deps.DB)
	transactionRepo := transactionPostgres.NewTransactionRepository(deps.DB)
	settingsRepo := settingsPostgres.NewSettingsRepository(deps.DB)
	backupStore := backupPostgres.NewBackupStore(deps.DB)

	// Services
	tokenGen := auth.NewJWTTokenGenerator(
		deps.Config.Security.AccessTokenSecret,
		deps.Config.Security.RefreshTokenSecret,
	)
	authService := auth.NewService(authRepo, tokenGen)
	userService := user.NewService(userRepo)
	settingsService := settings.NewService(settingsRepo, deps.Config.Dues.DefaultDailyRate, lg)
	residentService := resident.NewService(residentRepo, lg)
	transactionService := transaction.NewService(transactionRepo, eventBus, lg)
	duesService := dues.NewService(ledgerRepo, residentService, settingsService, transactionService, eventBus, lg)
	backupService := backup.NewService(backupStore, residentService, transactionService, duesService, eventBus, lg)

	// Handlers
	authHandler := auth.NewHandler(authService)
	userHandler := user.NewHandler(userService)
	residentHandler := resident.NewHandler(residentService)
	duesHandler := dues.NewHandler(duesService)
	transactionHandler := transaction.NewHandler(transactionService)
	settingsHandler := settings.NewHandler(settingsService)
	backupHandler := backup.NewHandler(backupService)

	sqlDB, err := deps.DB.DB()
	if err != nil {
		slog.Error("failed to unwrap sql.DB for health checks", "error", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, sqlDB, authHandler, authService, userHandler, residentHandler, duesHandler, transactionHandler, settingsHandler, backupHandler, lg)
}

// registerAuditSubscribers writes an audit line for every money
// movement so the committee can reconstruct who changed what.
func registerAuditSubscribers(bus *events.EventBus, lg *slog.Logger) {
	bus.Subscribe(events.EventTypePaymentRecorded, func(ctx context.Context, event events.Event) error {
		lg.Info("audit: dues payment recorded", "event_id", event.EventID(), "payload", event.Payload())
		return nil
	})
	bus.Subscribe(events.EventTypeTransactionRecorded, func(ctx context.Context, event events.Event) error {
		lg.Info("audit: cash transaction recorded", "event_id", event.EventID(), "payload", event.Payload())
		return nil
	})
	bus.Subscribe(events.EventTypeBackupImported, func(ctx context.Context, event events.Event) error {
		lg.Warn("audit: backup imported, previous state replaced", "event_id", event.EventID(), "payload", event.Payload())
		return nil
	})
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	router := chi.NewRouter()

	return &Dependencies{
		Config: config,
		Logger: logger.LoggerWrapper(),
		DB:     db,
		Router: router,
	}, nil
}

// initDB opens the backing store: Postgres when a source DSN is
// configured, otherwise a local SQLite file so the service still runs
// without any external database.
func initDB(cfg internal.DatabaseConfig) (*gorm.DB, error) {
	if cfg.UseLocalStore() {
		db, err := gorm.Open(sqlite.Open(cfg.LocalPath), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to open local store: %w", err)
		}
		return db, nil
	}

	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: dbConn.DB}), &gorm.Config{})
	if err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to wrap db connection: %w", err)
	}
	return db, nil
}
