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

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/hassanjava2/bi-ledger/internal/adapter/http"
	"github.com/hassanjava2/bi-ledger/internal/adapter/http/handler"
	"github.com/hassanjava2/bi-ledger/internal/adapter/http/middleware"
	"github.com/hassanjava2/bi-ledger/internal/adapter/idgen"
	"github.com/hassanjava2/bi-ledger/internal/adapter/repository/memory"
	postgresRepo "github.com/hassanjava2/bi-ledger/internal/adapter/repository/postgres"
	redisRepo "github.com/hassanjava2/bi-ledger/internal/adapter/repository/redis"
	"github.com/hassanjava2/bi-ledger/internal/infrastructure/auth"
	"github.com/hassanjava2/bi-ledger/internal/infrastructure/config"
	"github.com/hassanjava2/bi-ledger/internal/infrastructure/eventpublisher"
	"github.com/hassanjava2/bi-ledger/internal/infrastructure/logger"
	"github.com/hassanjava2/bi-ledger/internal/infrastructure/metrics"
	"github.com/hassanjava2/bi-ledger/internal/infrastructure/postgres"
	"github.com/hassanjava2/bi-ledger/internal/infrastructure/redis"
	"github.com/hassanjava2/bi-ledger/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

// storage bundles the repositories of one storage driver.
type storage struct {
	txManager   usecase.TransactionManager
	accountRepo usecase.AccountRepository
	entryRepo   usecase.EntryRepository
	ledgerRepo  usecase.LedgerRepository
	periodRepo  usecase.PeriodLockRepository
	outboxRepo  usecase.OutboxRepository
	auditRepo   usecase.AuditRepository
	retrier     usecase.Retrier
	ping        handler.Pinger
}

// app is the wired server: an HTTP handler plus the background workers
// that must run alongside it.
type app struct {
	handler     http.Handler
	publisher   *eventpublisher.EventPublisher
	rateLimiter *middleware.RateLimiter
	closers     []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()

	go func() {
		if err := a.publisher.Start(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("event publisher stopped")
		}
	}()
	go a.rateLimiter.Run(workerCtx, time.Minute)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:           a.handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Str("storage", cfg.StorageDriver).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}

func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app, error) {
	a := &app{}

	store, err := openStorage(ctx, cfg, log, a)
	if err != nil {
		a.Close()
		return nil, err
	}

	var redisClient *goredis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.closers = append(a.closers, func() { _ = redisClient.Close() })
		log.Info().Msg("connected to redis")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	var (
		balanceCache     usecase.BalanceCache
		idempotencyStore usecase.IdempotencyStore
		eventSink        eventpublisher.Publisher = eventpublisher.NewLogPublisher(log)
		redisPing        handler.Pinger
	)
	if redisClient != nil {
		balanceCache = redisRepo.NewBalanceCache(redisClient)
		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		eventSink = eventpublisher.NewStreamPublisher(redisClient, cfg.EventStreamName, cfg.EventStreamMaxLen)
		redisPing = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	idGen := idgen.NewULIDGenerator()

	accountUC := usecase.NewAccountUseCase(store.txManager, store.accountRepo, store.outboxRepo, store.auditRepo, idGen, m, log)
	journalUC := usecase.NewJournalUseCase(usecase.JournalConfig{
		TxManager:     store.txManager,
		AccountRepo:   store.accountRepo,
		EntryRepo:     store.entryRepo,
		LedgerRepo:    store.ledgerRepo,
		PeriodRepo:    store.periodRepo,
		OutboxRepo:    store.outboxRepo,
		AuditRepo:     store.auditRepo,
		BalanceCache:  balanceCache,
		Retrier:       store.retrier,
		IDGen:         idGen,
		Metrics:       m,
		Logger:        log,
		CurrencyScale: cfg.CurrencyScale,
	})
	ledgerUC := usecase.NewLedgerUseCase(usecase.LedgerConfig{
		LedgerRepo:  store.ledgerRepo,
		AccountRepo: store.accountRepo,
		EntryRepo:   store.entryRepo,
		Cache:       balanceCache,
		CacheTTL:    cfg.BalanceCacheTTL,
		Metrics:     m,
		Logger:      log,
	})
	periodUC := usecase.NewPeriodUseCase(store.txManager, store.periodRepo, store.outboxRepo, store.auditRepo, idGen, log)

	a.publisher = eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: store.outboxRepo,
		Publisher:  eventSink,
		Metrics:    m,
		Logger:     log,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxPollInterval,
		Retention:  cfg.OutboxRetention,
	})
	a.rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m)

	routerCfg := httpAdapter.RouterConfig{
		AccountHandler: handler.NewAccountHandler(accountUC),
		EntryHandler:   handler.NewEntryHandler(journalUC, cfg.CurrencyScale),
		LedgerHandler:  handler.NewLedgerHandler(ledgerUC, cfg.CurrencyScale),
		PeriodHandler:  handler.NewPeriodHandler(periodUC),
		HealthHandler: handler.NewHealthHandler(map[string]handler.Pinger{
			cfg.StorageDriver: store.ping,
			"redis":           redisPing,
		}),
		Logger:             log,
		Metrics:            m,
		Gatherer:           reg,
		IdempotencyStore:   idempotencyStore,
		IdempotencyTTL:     cfg.IdempotencyTTL,
		RateLimiter:        a.rateLimiter,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}
	if cfg.AuthEnabled {
		routerCfg.Verifier = auth.NewJWTVerifier(cfg.JWTSecret)
	}
	a.handler = httpAdapter.NewRouter(routerCfg)

	return a, nil
}

func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger, a *app) (*storage, error) {
	if cfg.StorageDriver == config.StorageMemory {
		log.Warn().Msg("using in-memory storage; data is lost on restart")
		s := memory.NewStore()
		return &storage{
			txManager:   memory.NewTxManager(s),
			accountRepo: memory.NewAccountRepository(s),
			entryRepo:   memory.NewEntryRepository(s),
			ledgerRepo:  memory.NewLedgerRepository(s),
			periodRepo:  memory.NewPeriodLockRepository(s),
			outboxRepo:  memory.NewOutboxRepository(s),
			auditRepo:   memory.NewAuditRepository(s),
		}, nil
	}

	if cfg.AutoMigrate {
		if err := postgres.NewMigrator(cfg.DatabaseURL, cfg.MigrationsPath, log).Up(); err != nil {
			return nil, err
		}
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.DatabaseTimeout)
	defer cancel()

	pool, err := postgres.NewPool(connectCtx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	a.closers = append(a.closers, pool.Close)
	log.Info().Msg("connected to postgres")

	return postgresStorage(pool, log), nil
}

func postgresStorage(pool *pgxpool.Pool, log zerolog.Logger) *storage {
	return &storage{
		txManager:   postgresRepo.NewTxManager(pool),
		accountRepo: postgresRepo.NewAccountRepository(pool),
		entryRepo:   postgresRepo.NewEntryRepository(pool),
		ledgerRepo:  postgresRepo.NewLedgerRepository(pool),
		periodRepo:  postgresRepo.NewPeriodLockRepository(pool),
		outboxRepo:  postgresRepo.NewOutboxRepository(pool),
		auditRepo:   postgresRepo.NewAuditRepository(pool),
		retrier:     postgresRepo.NewRetrier(log),
		ping:        pool.Ping,
	}
}
