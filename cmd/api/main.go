package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/orionjupiterai/finbrain-api/internal/auth"
	"github.com/orionjupiterai/finbrain-api/internal/config"
	"github.com/orionjupiterai/finbrain-api/internal/db"
	httpx "github.com/orionjupiterai/finbrain-api/internal/http"
	"github.com/orionjupiterai/finbrain-api/internal/http/handlers"
	"github.com/orionjupiterai/finbrain-api/internal/notifications"
	"github.com/orionjupiterai/finbrain-api/internal/observability"
	"github.com/orionjupiterai/finbrain-api/internal/redisclient"
	"github.com/orionjupiterai/finbrain-api/internal/store"
	"github.com/orionjupiterai/finbrain-api/internal/store/memory"
	pgstore "github.com/orionjupiterai/finbrain-api/internal/store/postgres"
	redisstore "github.com/orionjupiterai/finbrain-api/internal/store/redis"
)

func main() {
	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	// tracing is opt-in: no endpoint, no exporter
	var traceShutdown func(context.Context) error
	if cfg.OTLPEndpoint != "" {
		shutdown, err := observability.InitTracer(context.Background(), "finbrain-api", cfg.OTLPEndpoint)
		if err != nil {
			log.Error("tracer init failed", "err", err)
		} else {
			traceShutdown = shutdown
		}
	}

	registry := prometheus.NewRegistry()
	prom := observability.NewProm(registry)

	var (
		users    store.Users
		accounts store.Accounts
		sessions store.Sessions
		checks   []handlers.ReadyCheck
	)

	switch cfg.StoreBackend {
	case config.StoreBackendPostgres:
		pool, err := db.NewPool(cfg.DBURL)
		if err != nil {
			log.Error("db connect failed", "err", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := pgstore.EnsureSchema(context.Background(), pool); err != nil {
			log.Error("db schema setup failed", "err", err)
			os.Exit(1)
		}

		users = pgstore.NewUsersStore(pool, prom)
		accounts = pgstore.NewAccountsStore(pool, prom)
		checks = append(checks, handlers.ReadyCheck{Name: "postgres", Ping: pool.Ping})
	default:
		users = memory.NewUsersStore()
		accounts = memory.NewAccountsStore()
	}

	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		rc := redisclient.New(redisclient.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rc.Close()

		sessions = redisstore.NewSessionsStore(rc.Raw(), prom)
		checks = append(checks, handlers.ReadyCheck{Name: "redis", Ping: rc.Ping})
	default:
		sessions = memory.NewSessionsStore()
	}

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 5*time.Second)
	if err := store.EnsureOfficerUser(seedCtx, users, cfg); err != nil {
		log.Error("officer seed failed", "err", err)
	} else if cfg.SeedOfficerEmail != "" {
		log.Info("officer user present", "email", cfg.SeedOfficerEmail)
	}
	cancelSeed()

	notifier := notifications.NewProtectedNotifier(
		notifications.NewLogNotifier(),
		notifications.ProtectedNotifierConfig{},
	)

	router := httpx.NewRouter(httpx.Deps{
		Cfg:         cfg,
		Users:       users,
		Sessions:    sessions,
		Accounts:    accounts,
		Tokens:      auth.RandomTokenSource{},
		Notifier:    notifier,
		Prom:        prom,
		Metrics:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		ReadyChecks: checks,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting",
			"port", cfg.Port,
			"env", cfg.Env,
			"store_backend", cfg.StoreBackend,
			"session_backend", cfg.SessionBackend,
		)
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})
	go func() {
		defer close(shutdownCh)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
			return
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")
	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}

	if traceShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := traceShutdown(ctx); err != nil {
			log.Error("tracer shutdown failed", "err", err)
		}
		cancel()
	}
}
