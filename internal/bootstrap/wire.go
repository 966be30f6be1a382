package bootstrap

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/baechuer/lease-service/internal/application/auth"
	"github.com/baechuer/lease-service/internal/application/lease"
	"github.com/baechuer/lease-service/internal/config"
	"github.com/baechuer/lease-service/internal/domain"
	"github.com/baechuer/lease-service/internal/infrastructure/bank"
	"github.com/baechuer/lease-service/internal/infrastructure/db/postgres"
	"github.com/baechuer/lease-service/internal/infrastructure/memory"
	"github.com/baechuer/lease-service/internal/infrastructure/redis"
	"github.com/baechuer/lease-service/internal/infrastructure/security"
	"github.com/baechuer/lease-service/internal/logger"
	http_handlers "github.com/baechuer/lease-service/internal/transport/http/handlers"
	mw "github.com/baechuer/lease-service/internal/transport/http/middleware"
	"github.com/baechuer/lease-service/internal/transport/http/response"
	"github.com/baechuer/lease-service/internal/transport/http/router"
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewDB   func(addr string, debug bool) (*sql.DB, error)
	Migrate func(ctx context.Context, db *sql.DB) error

	// NewRedis is optional; without it rate limits run in-process.
	NewRedis func(addr, password string, db int) RedisClient

	NewRouter func(router.Deps) (http.Handler, error)

	// BankHTTP overrides the http.Client used for bank calls.
	BankHTTP *http.Client
}

type RedisClient interface {
	Ping(ctx context.Context) error
	Close() error
}

type stores struct {
	users    auth.UserRepo
	vehicles lease.VehicleReader
	leases   lease.Repository
	checks   []http_handlers.HealthCheck
}

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	var cleanupFns []func()

	// 1) storage
	st, err := openStores(cfg, deps, &cleanupFns)
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 2) redis (best-effort)
	var redisCli RedisClient
	if deps.NewRedis != nil && cfg.RedisAddr != "" {
		c := deps.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := c.Ping(ctx)
		cancel()

		if err != nil {
			logger.Logger.Warn().Err(err).Msg("redis unavailable; using in-process rate limits")
			_ = c.Close()
		} else {
			logger.Logger.Info().Msg("redis connected")
			redisCli = c
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
			st.checks = append(st.checks, http_handlers.HealthCheck{Name: "redis", Ping: c.Ping, Optional: true})
		}
	}

	// 3) security
	logger.Logger.Info().Str("issuer", cfg.JWTIssuer).Msg("initializing jwt signer")
	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	signer := security.NewJWTSigner(cfg.JWTSecret, cfg.JWTIssuer)

	// 4) bank
	bankClient := bank.NewClient(bank.Config{
		URL:             cfg.BankURL,
		APIKey:          cfg.BankAPIKey,
		Timeout:         cfg.BankTimeout,
		BreakerFailures: cfg.BankBreakerFailures,
		BreakerReset:    cfg.BankBreakerReset,
	}, deps.BankHTTP)

	// 5) services
	authSvc := auth.NewService(st.users, hasher, signer, auth.Config{TokenTTL: cfg.TokenTTL}).
		WithAudit(logger.Audit)
	leaseSvc := lease.NewService(st.leases, st.vehicles, bankClient).
		WithAudit(logger.Audit)

	// 6) handlers + middleware
	authMW := mw.Auth(signer, response.WriteError)
	dealerMW := mw.RequireRole(response.WriteError, domain.RoleDealer)

	// rate limit (fail-open)
	var fwLimiter *redis.FixedWindowLimiter
	if c, ok := redisCli.(*redis.Client); ok {
		fwLimiter = redis.NewFixedWindowLimiter(c)
	}

	rl := func(key string, limit int, window time.Duration) func(http.Handler) http.Handler {
		if fwLimiter == nil {
			return mw.RateLimitByIP(key, cfg.RLLimit, cfg.RLWindow, response.WriteError)
		}
		return mw.RateLimitFixedWindow(
			fwLimiter,
			mw.FixedWindowConfig{
				RouteKey: key,
				Limit:    limit,
				Window:   window,
			},
			response.WriteError,
		)
	}

	// 7) router
	mux, err := deps.NewRouter(router.Deps{
		Health:   http_handlers.NewHealthHandler(st.checks...),
		Auth:     http_handlers.NewAuthHandler(authSvc),
		Lease:    http_handlers.NewLeaseHandler(leaseSvc),
		Vehicles: http_handlers.NewVehicleHandler(leaseSvc),
		Global: []router.Middleware{
			mw.RequestID,
			middleware.RealIP,
			mw.SecurityHeaders,
			mw.AccessLog,
			mw.Metrics,
		},
		AuthMW:   authMW,
		DealerMW: dealerMW,

		RLRegister:    rl("lease.auth.register", 3, time.Minute),
		RLLogin:       rl("lease.auth.login", 5, time.Minute),
		RLCreditCheck: rl("lease.credit_check", 10, time.Minute),

		Metrics: router.MetricsHandler(),
	})
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 8) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		runCleanup(cleanupFns)
	}

	return srv, cleanup, nil
}

func openStores(cfg *config.Config, deps Deps, cleanupFns *[]func()) (stores, error) {
	if cfg.Store == config.StoreMemory {
		logger.Logger.Warn().Msg("using in-memory store; data is lost on restart")
		vehicles := memory.NewVehicleRepo(memory.DevVehicles()...)
		return stores{
			users:    memory.NewUserRepo(),
			vehicles: vehicles,
			leases:   memory.NewLeaseRepo(vehicles),
		}, nil
	}

	db, err := deps.NewDB(cfg.DBAddr, cfg.DBDebug)
	if err != nil {
		return stores{}, domain.ErrDBUnavailable(err)
	}
	*cleanupFns = append(*cleanupFns, func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if cfg.DBMigrate && deps.Migrate != nil {
		if err := deps.Migrate(ctx, db); err != nil {
			return stores{}, err
		}
	}

	vehicles := postgres.NewVehicleRepo(db)
	// seed (dev only)
	if cfg.Env == "dev" {
		postgres.SeedVehicles(ctx, vehicles, memory.DevVehicles())
	}

	return stores{
		users:    postgres.NewUserRepo(db),
		vehicles: vehicles,
		leases:   postgres.NewLeaseRepo(db),
		checks:   []http_handlers.HealthCheck{{Name: "db", Ping: db.PingContext}},
	}, nil
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewDB:      config.NewDB,
		Migrate:    postgres.Migrate,
		NewRedis: func(addr, password string, db int) RedisClient {
			return redis.New(addr, password, db)
		},
		NewRouter: router.New,
	}
}

/*
========================
 helpers
========================
*/

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
