// Package app assembles the service from configuration: storage backend,
// caches, notifier, domain services and the HTTP router.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"inventrack/internal/config"
	"inventrack/internal/core/idempotency"
	"inventrack/internal/core/security"
	"inventrack/internal/domain/analytics"
	"inventrack/internal/domain/audit"
	"inventrack/internal/domain/auth"
	"inventrack/internal/domain/catalogs/category"
	"inventrack/internal/domain/catalogs/product"
	"inventrack/internal/domain/catalogs/supplier"
	"inventrack/internal/domain/documents/supply_request"
	"inventrack/internal/domain/notify"
	"inventrack/internal/domain/payment"
	"inventrack/internal/domain/registers/stock"
	"inventrack/internal/infrastructure/cache"
	v1 "inventrack/internal/infrastructure/http/v1"
	"inventrack/internal/infrastructure/http/v1/handlers"
	"inventrack/internal/infrastructure/mail"
	"inventrack/internal/infrastructure/storage/memory"
	"inventrack/internal/infrastructure/storage/postgres"
	"inventrack/internal/infrastructure/storage/postgres/migrations"
	"inventrack/pkg/logger"
)

// Version is reported by the liveness probe.
const Version = "0.3.0"

// App is a fully wired service.
type App struct {
	Router   *gin.Engine
	Services v1.Services

	pool    *postgres.Pool
	redis   *redis.Client
	closers []func() error
}

// New builds the service. An empty database URL selects the in-memory store
// and an empty Redis address selects in-process caches.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	a := &App{}
	checks := map[string]handlers.Pinger{}

	var (
		repos      repositories
		idemStore  idempotency.Store
		revoker    auth.TokenRevoker
		guard      payment.DeliveryGuard
		notifier   notify.Notifier = notify.LogNotifier{}
		authorizer                 = security.DefaultPolicy()
	)

	if cfg.Database.URL != "" {
		if cfg.Database.AutoMigrate {
			if err := migrate(cfg.Database.URL, log); err != nil {
				return nil, err
			}
		}

		poolCfg := postgres.DefaultPoolConfig(cfg.Database.URL)
		poolCfg.MaxConns = cfg.Database.MaxConns
		poolCfg.MinConns = cfg.Database.MinConns
		pool, err := postgres.NewPool(ctx, poolCfg)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		a.pool = pool
		a.closers = append(a.closers, func() error { pool.Close(); return nil })
		checks["database"] = pool

		txm := postgres.NewTxManager(pool).WithStatementTimeout(cfg.Database.StatementTimeout)
		repos = postgresRepositories(txm)
		idemStore = postgres.NewIdempotencyStore(txm, cfg.HTTP.IdempotencyTTL)
		log.Infow("using postgres storage", "max_conns", poolCfg.MaxConns)
	} else {
		repos = memoryRepositories(memory.New())
		idemStore = cache.NewMemoryIdempotencyStore(cfg.HTTP.IdempotencyTTL)
		log.Warn("database.url is empty, using in-memory storage")
	}

	if cfg.Redis.Addr != "" {
		client, err := cache.NewRedisClient(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.redis = client
		a.closers = append(a.closers, client.Close)
		checks["redis"] = handlers.PingFunc(func(ctx context.Context) error { return client.Ping(ctx).Err() })
		revoker = cache.NewRedisTokenBlacklist(client)
		guard = cache.NewRedisDeliveryGuard(client)
	} else {
		revoker = cache.NewMemoryTokenBlacklist()
		guard = cache.NewMemoryDeliveryGuard()
	}

	if cfg.Mail.Host != "" {
		notifier = mail.NewSMTPNotifier(mail.Config{
			Host:       cfg.Mail.Host,
			Port:       cfg.Mail.Port,
			Username:   cfg.Mail.Username,
			Password:   cfg.Mail.Password,
			From:       cfg.Mail.From,
			RequireTLS: cfg.Mail.RequireTLS,
		})
	}

	jwtConfig := auth.DefaultJWTConfig(cfg.JWT.Secret)
	jwtConfig.Issuer = cfg.JWT.Issuer
	jwtConfig.AccessTokenTTL = cfg.JWT.AccessTokenTTL
	jwtService := auth.NewJWTService(jwtConfig, revoker)

	authConfig := auth.DefaultServiceConfig()
	authConfig.AllowAdminSignup = cfg.Auth.AllowAdminSignup
	authConfig.PasswordMinLength = cfg.Auth.PasswordMinLength
	authConfig.RefreshTokenExpiry = cfg.JWT.RefreshTokenExpiry
	authConfig.PhoneRegion = cfg.Mpesa.PhoneRegion

	engine := stock.NewEngine(repos.ledger, repos.txm)
	a.Services = v1.Services{
		Auth:       auth.NewService(repos.accounts, repos.tokens, revoker, repos.txm, jwtService, authorizer, notifier, authConfig),
		Journal:    audit.NewJournal(repos.journal, repos.ledger, repos.txm, authorizer),
		Categories: category.NewService(repos.categories, repos.txm),
		Products:   product.NewService(repos.products, repos.categories, repos.txm),
		Suppliers:  supplier.NewService(repos.suppliers, repos.ledger, repos.txm),
		Stock:      engine,
		Supply:     supply_request.NewWorkflow(repos.supply, repos.ledger, repos.accounts, engine, repos.txm, authorizer),
		Payments: payment.NewReconciler(repos.payments, repos.ledger, repos.accounts, guard, repos.txm, authorizer, payment.Config{
			PhoneRegion: cfg.Mpesa.PhoneRegion,
			DedupeTTL:   cfg.Mpesa.DedupeTTL,
		}),
		Analytics: analytics.NewService(repos.reader, repos.txm),
	}

	routerCfg := v1.RouterConfig{
		Logger:         log,
		TokenValidator: jwtService,
		Authorizer:     authorizer,
		HealthChecks:   checks,
		Version:        Version,
		Debug:          !cfg.App.IsProduction(),
		Services:       a.Services,
	}
	if cfg.HTTP.IdempotencyEnabled {
		routerCfg.IdempotencyStore = idemStore
	}
	a.Router = v1.NewRouter(routerCfg)

	return a, nil
}

// Close releases connections in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func migrate(databaseURL string, log *logger.Logger) error {
	m, err := migrations.New(databaseURL, log.Desugar())
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	defer m.Close()
	if err := m.Up(); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
