package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/Cheertaboi/Ecommerce-voucher-microservice/internal/api"
	"github.com/Cheertaboi/Ecommerce-voucher-microservice/internal/api/handlers"
	"github.com/Cheertaboi/Ecommerce-voucher-microservice/internal/api/middleware"
	"github.com/Cheertaboi/Ecommerce-voucher-microservice/internal/cache"
	"github.com/Cheertaboi/Ecommerce-voucher-microservice/internal/config"
	"github.com/Cheertaboi/Ecommerce-voucher-microservice/internal/repository"
	"github.com/Cheertaboi/Ecommerce-voucher-microservice/internal/service"
	"github.com/Cheertaboi/Ecommerce-voucher-microservice/pkg/db"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	log := newLogger(cfg)
	log.Info().Str("environment", cfg.App.Environment).Msg("starting voucher-service")

	conn, err := db.NewPostgresConnection(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	defer conn.Close()

	if err := db.Migrate(ctx, conn); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}

	// With no Redis address configured the caches run in-process. They are
	// advisory either way; only the throttle scope changes.
	var cooldown cache.CooldownStore
	var terms cache.TermsStore
	if cfg.Redis.Addr != "" {
		client, err := db.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("redis connect")
		}
		defer client.Close()
		cooldown = cache.NewRedisCooldownStore(client)
		terms = cache.NewRedisTermsStore(client)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("using redis cache stores")
	} else {
		cooldown = cache.NewInMemoryCooldownStore()
		terms = cache.NewInMemoryTermsStore()
		log.Warn().Msg("no redis address configured, using in-memory cache stores")
	}

	castRepo := repository.NewCastRepo()
	ledgerRepo := repository.NewLedgerRepo()
	runTx := repository.TxRunnerFor(conn)

	allocation := service.NewAllocationService(conn, runTx, castRepo, ledgerRepo, cooldown, cfg.Voucher.CooldownTTL, log)
	redemption := service.NewRedemptionService(conn, castRepo, ledgerRepo, terms, cfg.Voucher.ValidationTTL, log)
	casts := service.NewCastService(conn, castRepo, log)

	limiter := middleware.NewClaimLimiter(cfg.Voucher.ClaimsPerMinute, cfg.Voucher.ClaimBurst, handlers.CustomerIDHeader)

	r := chi.NewRouter()
	r.Use(middleware.Logger(log))
	r.Mount("/", api.NewRouter(api.Deps{
		Allocation: allocation,
		Redemption: redemption,
		CastAdmin:  casts,
		Limiter:    limiter,
		DB:         conn,
		Log:        log,
	}))

	srv := &http.Server{
		Addr:         cfg.Server.GetServerAddr(),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// graceful shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("HTTP server shutdown")
		}
		close(idleConnsClosed)
	}()

	log.Info().Str("addr", srv.Addr).Msg("listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("listen")
	}

	<-idleConnsClosed
	log.Info().Msg("server stopped")
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	if cfg.App.IsDevelopment() {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return log
}
