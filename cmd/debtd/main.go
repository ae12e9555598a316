package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/bibbank/debt-service/internal/application/usecase"
	"github.com/bibbank/debt-service/internal/domain/port"
	"github.com/bibbank/debt-service/internal/infrastructure/config"
	"github.com/bibbank/debt-service/internal/infrastructure/kafka"
	"github.com/bibbank/debt-service/internal/infrastructure/lock"
	"github.com/bibbank/debt-service/internal/infrastructure/metrics"
	"github.com/bibbank/debt-service/internal/infrastructure/persistence/memory"
	pgRepo "github.com/bibbank/debt-service/internal/infrastructure/persistence/postgres"
	"github.com/bibbank/debt-service/internal/infrastructure/system"
	grpcPresentation "github.com/bibbank/debt-service/internal/presentation/grpc"
	"github.com/bibbank/debt-service/internal/presentation/rest"
	"github.com/bibbank/debt-service/migrations"
	pkgkafka "github.com/bibbank/debt-service/pkg/kafka"
	"github.com/bibbank/debt-service/pkg/observability"
	pkgpostgres "github.com/bibbank/debt-service/pkg/postgres"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

type store interface {
	port.DebtRepository
	port.UnitOfWork
}

func main() {
	configPath := flag.String("config", "", "path to an optional YAML configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("debt-service failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := observability.InitLogger(observability.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	logger.Info("starting debt-service",
		"version", version,
		"storage", cfg.Storage,
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
	)

	// Initialize tracing.
	shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: version,
		Endpoint:       cfg.Tracing.Endpoint,
		Insecure:       cfg.Tracing.Insecure,
		SampleRatio:    cfg.Tracing.SampleRatio,
	})
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer func() {
			flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer flushCancel()
			_ = shutdownTracer(flushCtx) //nolint:errcheck // best-effort tracer shutdown
		}()
	}

	// Metrics share one registry between promauto collectors and otel.
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	_, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: cfg.ServiceName,
		Registerer:  registry,
		Gatherer:    registry,
	})
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	serviceMetrics := metrics.New(registry)

	// Storage.
	st, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// Events.
	publisher, closePublisher, err := openPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer closePublisher()

	// Per-debt locking.
	locker, closeLocker, err := openLocker(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeLocker()

	// Wire use cases.
	deps := usecase.Dependencies{
		Repo:      st,
		UoW:       st,
		Locker:    locker,
		Publisher: publisher,
		Clock:     system.Clock{},
		IDs:       system.UUIDGenerator{},
		Logger:    logger,
		Metrics:   serviceMetrics,
	}
	useCases := grpcPresentation.NewUseCases(deps, cfg.Delinquency.GraceWindow, cfg.Delinquency.BatchSize)

	// gRPC server.
	grpcServer, err := grpcPresentation.NewServer(grpcPresentation.NewDebtHandler(useCases), grpcPresentation.ServerConfig{
		ServiceName: cfg.ServiceName,
		TLSCertFile: cfg.GRPC.TLSCertFile,
		TLSKeyFile:  cfg.GRPC.TLSKeyFile,
		Reflection:  cfg.GRPC.Reflection,
	}, serviceMetrics, logger)
	if err != nil {
		return fmt.Errorf("create gRPC server: %w", err)
	}

	// HTTP server (health checks and metrics).
	mux := http.NewServeMux()
	rest.NewHealthHandler(cfg.ServiceName, st, metricsHandler, logger).RegisterRoutes(mux)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start servers.
	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "addr", cfg.HTTPAddr())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for shutdown signal.
	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case serveErr = <-errCh:
		logger.Error("server error", "error", serveErr)
	}

	// Graceful shutdown.
	grpcServer.GracefulStop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("debt-service stopped")
	return serveErr
}

func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (store, func(), error) {
	if cfg.Storage == config.StorageMemory {
		logger.Warn("using in-memory storage, data is lost on exit")
		return memory.NewStore(), func() {}, nil
	}

	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	pgCfg := cfg.DB.Postgres()
	pool, err := pkgpostgres.NewPool(dbCtx, pgCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	logger.Info("connected to database")

	if cfg.DB.Migrate {
		if err := pkgpostgres.RunMigrations(pgCfg.DSN(), migrations.FS); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("run migrations: %w", err)
		}
		logger.Info("database migrations applied")
	}
	return pgRepo.NewDebtRepo(pool), pool.Close, nil
}

func openPublisher(cfg config.Config, logger *slog.Logger) (port.EventPublisher, func(), error) {
	if len(cfg.Kafka.Brokers) == 0 {
		logger.Warn("no Kafka brokers configured, domain events are only logged")
		return kafka.NewLogEventPublisher(logger), func() {}, nil
	}

	producer, err := pkgkafka.NewProducer(pkgkafka.Config{
		Brokers:       cfg.Kafka.Brokers,
		TLS:           cfg.Kafka.TLS,
		SASLEnabled:   cfg.Kafka.SASLEnabled,
		SASLMechanism: cfg.Kafka.SASLMechanism,
		SASLUsername:  cfg.Kafka.SASLUsername,
		SASLPassword:  cfg.Kafka.SASLPassword,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create kafka producer: %w", err)
	}
	closeFn := func() {
		if err := producer.Close(); err != nil {
			logger.Error("kafka producer close error", "error", err)
		}
	}
	return kafka.NewKafkaEventPublisher(producer, cfg.Kafka.Topic, nil, logger), closeFn, nil
}

func openLocker(ctx context.Context, cfg config.Config, logger *slog.Logger) (port.DebtLocker, func(), error) {
	if cfg.Redis.Addr == "" {
		logger.Info("no Redis configured, locking debts in-process")
		return lock.NewKeyedMutex(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to redis", "addr", cfg.Redis.Addr)

	locker := lock.NewRedisLocker(client, lock.RedisConfig{
		TTL:     cfg.Redis.LockTTL,
		MaxWait: cfg.Redis.LockWait,
	}, logger)
	return locker, func() { _ = client.Close() }, nil
}
