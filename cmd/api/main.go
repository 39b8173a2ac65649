// Package main is the entry point for the Frotalog store API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/frotalog/frotalog/internal/config"
	"github.com/frotalog/frotalog/internal/events"
	"github.com/frotalog/frotalog/internal/handler"
	"github.com/frotalog/frotalog/internal/middleware"
	"github.com/frotalog/frotalog/internal/repo"
	"github.com/frotalog/frotalog/internal/service"
	"github.com/frotalog/frotalog/migrations"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// --- Logger -----------------------------------------------------------
	// JSON handler writes machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database ---------------------------------------------------------
	if err := migrate(ctx, cfg.DatabaseURL); err != nil {
		return err
	}

	// New() does not open connections immediately; the first query does.
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(ctx); err != nil {
		return err
	}
	slog.Info("database connection established")

	// --- Events -----------------------------------------------------------
	// Writes publish trip events on an in-process bus; the audit subscriber
	// turns them into audit_logs rows.
	store := repo.NewStore(pool)
	bus := events.NewBus(logger)
	inflight := &events.Inflight{}

	router, err := events.NewRouter(bus, store.Repos().Audit, inflight, logger)
	if err != nil {
		return err
	}

	// --- Services ---------------------------------------------------------
	trips := service.NewTripService(store, store.Repos(), events.NewPublisher(bus, inflight),
		service.WithLogger(logger),
		service.WithLocation(loc),
	)
	srv := handler.NewServer(trips, service.NewExportService(store.Repos().Trips), service.NewAuditService(store.Repos().Audit), logger)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID, RealIP, Logger, Recoverer, CORS.
	// RequestID generates a unique trace ID per request.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP (safe behind a proxy).
	// SlogLogger writes one structured JSON log line per request.
	// Recoverer catches panics and returns HTTP 500 instead of crashing.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))

	// Writes are rate limited per client IP and capped in size.
	r.Mount("/", handler.Handler(srv,
		middleware.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
		middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes),
	))

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ln, err := net.Listen("tcp", httpSrv.Addr)
	if err != nil {
		return err
	}

	if err := serve(ctx, httpSrv, ln, router, inflight, bus); err != nil {
		return err
	}
	slog.Info("server stopped")
	return nil
}

// serve runs the HTTP server and the event router until ctx ends or either
// fails. Shutdown order: HTTP drains first so nothing publishes any more,
// then the audit backlog settles, then the router stops and bus is closed.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, router *message.Router, inflight *events.Inflight, bus io.Closer) error {
	// The router outlives ctx; it is stopped below once HTTP has drained.
	routerCtx, stopRouter := context.WithCancel(context.WithoutCancel(ctx))
	defer stopRouter()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return router.Run(routerCtx)
	})

	g.Go(func() error {
		// Events published before the audit handler subscribes would be lost.
		select {
		case <-router.Running():
		case <-gctx.Done():
			return ln.Close()
		}
		slog.Info("server starting", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// and their audit events up to 15 seconds to complete.
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		if werr := inflight.Wait(shutdownCtx); werr != nil {
			slog.Warn("audit events still pending at shutdown", "error", werr)
		}
		stopRouter()
		return err
	})

	err := g.Wait()
	if cerr := bus.Close(); err == nil {
		err = cerr
	}
	return err
}

// migrate applies pending migrations. goose needs database/sql, so it gets
// its own short-lived connection instead of the pool.
func migrate(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := migrations.Up(ctx, db)
	if err != nil {
		return err
	}
	slog.Info("migrations applied", "count", n)
	return nil
}
