package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	coreport "github.com/amirhossein-jamali/staff-registry/internal/domain/port/core"
	"github.com/amirhossein-jamali/staff-registry/internal/domain/port/storage"
	"github.com/amirhossein-jamali/staff-registry/internal/domain/usecase/ingest"
	"github.com/amirhossein-jamali/staff-registry/internal/domain/usecase/record"
	"github.com/amirhossein-jamali/staff-registry/internal/domain/usecase/upload"
	"github.com/amirhossein-jamali/staff-registry/internal/domain/usecase/uploadlock"
	"github.com/amirhossein-jamali/staff-registry/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/staff-registry/internal/infrastructure/adapter/api/routes"
	"github.com/amirhossein-jamali/staff-registry/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/staff-registry/internal/infrastructure/adapter/database/migration"
	"github.com/amirhossein-jamali/staff-registry/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/staff-registry/internal/infrastructure/adapter/metrics"
	"github.com/amirhossein-jamali/staff-registry/internal/infrastructure/adapter/sequence"
	"github.com/amirhossein-jamali/staff-registry/internal/infrastructure/adapter/storage/filesystem"
	timeProvider "github.com/amirhossein-jamali/staff-registry/internal/infrastructure/adapter/time"
	"github.com/amirhossein-jamali/staff-registry/internal/infrastructure/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger := logger.NewZapLogger(cfg.Environment == config.Production)
	appLogger.SetLevel(coreport.ParseLogLevel(cfg.Logger.Level))
	defer func() { _ = appLogger.Flush() }()

	tp := timeProvider.NewRealTimeProvider()
	recorder := metrics.NewRecorder()

	var dbOptions []database.Option
	if cfg.Metrics.Enabled {
		dbOptions = append(dbOptions,
			database.WithQueryObserver(recorder),
			database.WithPoolObserver(recorder, cfg.Metrics.PoolInterval()))
	}

	dbConfig := database.CreateConfigFromViperConfig(cfg)
	if err := dbConfig.Validate(); err != nil {
		appLogger.Error("Invalid database configuration", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	dbManager := database.NewManager(dbConfig, appLogger, tp, dbOptions...)
	if _, err := dbManager.Connect(); err != nil {
		appLogger.Error("Failed to connect to database", map[string]any{
			"error":  err.Error(),
			"driver": dbConfig.Driver,
		})
		os.Exit(1)
	}
	defer dbManager.Close()

	bootCtx, cancelBoot := context.WithTimeout(context.Background(), time.Minute)
	defer cancelBoot()

	if err := dbManager.MigrationManager().MigrateAll(bootCtx); err != nil {
		appLogger.Error("Failed to run migrations", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	lock := uploadlock.NewLock(dbManager.CreateUploadLockRepository(), tp, appLogger, cfg.Upload.LockTimeout())
	if err := migration.SeedUploadLock(bootCtx, lock); err != nil {
		appLogger.Error("Failed to seed upload lock", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	store, err := filesystem.NewStore(cfg.Upload.Dir, appLogger)
	if err != nil {
		appLogger.Error("Failed to prepare upload directory", map[string]any{
			"error": err.Error(),
			"dir":   cfg.Upload.Dir,
		})
		os.Exit(1)
	}

	reassembler := upload.NewReassembler(lock, store, appLogger)
	if cfg.Upload.StrictSequencing {
		tracker, closeTracker, err := newSequenceTracker(bootCtx, cfg.Upload, tp)
		if err != nil {
			appLogger.Error("Failed to create chunk sequence tracker", map[string]any{
				"error": err.Error(),
				"store": cfg.Upload.SequenceStore,
			})
			os.Exit(1)
		}
		defer closeTracker()
		reassembler.WithSequencer(tracker)
		appLogger.Info("Strict chunk sequencing enabled", map[string]any{"store": cfg.Upload.SequenceStore})
	}

	uow := dbManager.CreateUnitOfWork()
	ingester := ingest.NewService(uow, store, tp, appLogger).WithStallTimeout(cfg.Ingest.StallTimeout())
	records := record.NewService(uow, tp, appLogger).WithMaxLimit(cfg.Query.MaxLimit)

	uploadOptions := []handler.UploadOption{
		handler.WithMaxChunkBytes(cfg.Upload.MaxChunkBytes),
		handler.WithLockTimeout(lock.Timeout()),
	}
	middlewareOptions := routes.MiddlewareOptions{
		Logger:         appLogger,
		TimeProvider:   tp,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}
	handlers := routes.Handlers{
		Record: handler.NewRecordHandler(records, appLogger).WithDefaultLimit(cfg.Query.DefaultLimit),
		Health: handler.NewHealthHandler(dbManager.HealthChecker()),
	}
	if cfg.Metrics.Enabled {
		uploadOptions = append(uploadOptions, handler.WithObserver(recorder))
		middlewareOptions.Observer = recorder
		handlers.Metrics = promhttp.Handler()
	}
	handlers.Upload = handler.NewUploadHandler(reassembler, ingester, lock, tp, appLogger, uploadOptions...)

	router := gin.New()
	routes.SetupMiddlewares(router, middlewareOptions)
	routes.SetupRoutes(router, handlers)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		appLogger.Info("Starting server", map[string]any{
			"addr":        server.Addr,
			"env":         cfg.Environment,
			"upload_dir":  store.Dir(),
			"db_driver":   dbConfig.Driver,
			"strict_mode": cfg.Upload.StrictSequencing,
		})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Failed to start server", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	// free the slot held by an upload the shutdown interrupted
	lock.Release(ctx)

	appLogger.Info("Server exited gracefully", nil)
}

// newSequenceTracker builds the tracker selected by upload.sequenceStore
func newSequenceTracker(ctx context.Context, cfg config.UploadConfig, tp coreport.TimeProvider) (storage.SequenceTracker, func(), error) {
	switch strings.ToLower(cfg.SequenceStore) {
	case "", "memory":
		return sequence.NewMemoryTracker(tp, cfg.SessionTTL()), func() {}, nil
	case "redis":
		client, err := sequence.NewRedisClient(ctx, sequence.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		tracker := sequence.NewRedisTracker(client, cfg.Redis.KeyPrefix, cfg.SessionTTL())
		return tracker, func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown sequence store %q", cfg.SequenceStore)
	}
}

// validateConfig ensures all required configuration values are present
func validateConfig(cfg *config.Config) error {
	var missingConfigs []string

	if cfg.Server.Port == 0 {
		missingConfigs = append(missingConfigs, "server.port")
	}
	if cfg.Server.ReadTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.readTimeout")
	}
	if cfg.Server.WriteTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.writeTimeout")
	}
	if cfg.Server.ShutdownTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.shutdownTimeout")
	}

	// networked databases need credentials, sqlite only needs its file
	if cfg.Database.Driver != database.DriverSQLite {
		required := map[string]string{
			"database.host":     cfg.Database.Host,
			"database.port":     cfg.Database.Port,
			"database.username": cfg.Database.Username,
			"database.password": cfg.Database.Password,
			"database.database": cfg.Database.Database,
		}
		for key, value := range required {
			if value == "" {
				missingConfigs = append(missingConfigs, key)
			}
		}
	} else if cfg.Database.Path == "" {
		missingConfigs = append(missingConfigs, "database.path")
	}
	if cfg.Database.QueryTimeout == 0 {
		missingConfigs = append(missingConfigs, "database.queryTimeout")
	}

	if cfg.Upload.Dir == "" {
		missingConfigs = append(missingConfigs, "upload.dir")
	}
	if cfg.Upload.LockTimeoutMs <= 0 {
		missingConfigs = append(missingConfigs, "upload.lockTimeoutMs")
	}
	if cfg.Upload.MaxChunkBytes <= 0 {
		missingConfigs = append(missingConfigs, "upload.maxChunkBytes")
	}
	if cfg.Upload.StrictSequencing && strings.EqualFold(cfg.Upload.SequenceStore, "redis") && cfg.Upload.Redis.Addr == "" {
		missingConfigs = append(missingConfigs, "upload.redis.addr")
	}
	if cfg.Ingest.StallTimeoutMs <= 0 {
		missingConfigs = append(missingConfigs, "ingest.stallTimeoutMs")
	}

	if cfg.Environment == "" {
		missingConfigs = append(missingConfigs, "environment")
	} else if cfg.Environment != config.Development &&
		cfg.Environment != config.Production &&
		cfg.Environment != config.Test {
		return fmt.Errorf("invalid environment value: %s, must be one of: %s, %s, or %s",
			cfg.Environment, config.Development, config.Production, config.Test)
	}

	if cfg.Logger.Level == "" {
		missingConfigs = append(missingConfigs, "logger.level")
	}

	if len(missingConfigs) > 0 {
		return fmt.Errorf("missing required configurations: %v", missingConfigs)
	}

	if cfg.Environment == config.Production {
		var warnings []string

		sslMode := strings.ToLower(cfg.Database.SSLMode)
		if cfg.Database.Driver == database.DriverPostgres &&
			sslMode != "require" && sslMode != "verify-ca" && sslMode != "verify-full" {
			warnings = append(warnings, "database.sslMode should be set to 'require', 'verify-ca', or 'verify-full' in production")
		}
		if cfg.Database.Driver == database.DriverSQLite {
			warnings = append(warnings, "database.driver sqlite serializes every request in production")
		}
		if cfg.Upload.StrictSequencing && !strings.EqualFold(cfg.Upload.SequenceStore, "redis") {
			warnings = append(warnings, "upload.sequenceStore memory forgets sequences on restart")
		}
		if cfg.Server.WriteTimeout < 5*time.Second {
			warnings = append(warnings, "server.writeTimeout is too low for production")
		}

		if len(warnings) > 0 {
			log.Printf("Warning: potential issues in production configuration: %v", warnings)
		}
	}

	return nil
}
