package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"feed_csrf/internal/config"
	"feed_csrf/internal/handlers"
	"feed_csrf/internal/logger"
	"feed_csrf/internal/repository"
	"feed_csrf/internal/repository/db"
	"feed_csrf/internal/server"
	"feed_csrf/internal/service"
	"feed_csrf/internal/session"

	"github.com/redis/go-redis/v9"
)

const (
	shutdownTimeout = 10 * time.Second
	redisPingWait   = 3 * time.Second
)

func main() {
	cfg, err := config.Load(config.New())
	if err != nil {
		logger.Get("feed-app", logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.Get("feed-app", cfg.Feed.LogLevel)

	ctx := context.Background()
	repos, closer, err := openRepository(ctx, cfg.Feed.Storage)
	if err != nil {
		log.Fatalw("failed to open storage", "driver", cfg.Feed.Storage.Driver, "err", err)
	}
	defer func() {
		if cerr := closer.Close(); cerr != nil {
			log.Errorw("failed to close storage", "err", cerr)
		}
	}()
	if err := repository.Seed(ctx, repos.Users, repository.DefaultUsers()); err != nil {
		log.Fatalw("failed to seed users", "err", err)
	}

	// wire dependencies
	services := service.NewService(repos, cfg.Feed.ExploitURL)
	sessOpts := session.Options{}
	if cfg.Feed.Security.Hardened {
		sessOpts.SameSite = http.SameSiteLaxMode
	}
	sessions := session.NewManager(cfg.Feed.SecretKey, sessOpts)
	apiHandler := handlers.NewHandler(services, sessions, log, handlers.Options{
		Hardened:       cfg.Feed.Security.Hardened,
		AllowedOrigins: cfg.Feed.CORS.AllowedOrigins,
	})

	addr := server.Addr(cfg.Feed.Host, cfg.Feed.Port)
	log.Infow("starting feed app",
		"addr", addr,
		"storage", cfg.Feed.Storage.Driver,
		"hardened", cfg.Feed.Security.Hardened,
	)
	if cfg.Feed.Security.Hardened && len(cfg.Feed.CORS.AllowedOrigins) > 0 {
		log.Warnw("cors allowlist ignored in hardened mode", "origins", cfg.Feed.CORS.AllowedOrigins)
	}
	if !cfg.Feed.Security.Hardened {
		log.Warnw("csrf protections disabled; /delete-account accepts cross-site GET")
	}

	srv := &server.Server{}
	go func() {
		if err := srv.Run(addr, apiHandler.HTTPHandler()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()

	waitForShutdown(srv, log)
}

// openRepository picks the user store. The returned closer releases the
// underlying connection.
func openRepository(ctx context.Context, st config.Storage) (*repository.Repository, io.Closer, error) {
	switch st.Driver {
	case config.DriverMemory, "":
		return repository.NewMemoryRepository(), closerFunc(func() error { return nil }), nil
	case config.DriverSQLite:
		sqlDB, err := db.InitDB(st.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewSQLiteRepository(sqlDB), sqlDB, nil
	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{Addr: st.RedisAddr})
		pingCtx, cancel := context.WithTimeout(ctx, redisPingWait)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("ping redis at %s: %w", st.RedisAddr, err)
		}
		return repository.NewRedisRepository(client), client, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", st.Driver)
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
