package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"feed_csrf/internal/config"
	"feed_csrf/internal/exploit"
	"feed_csrf/internal/logger"
	"feed_csrf/internal/server"
)

func main() {
	cfg, err := config.Load(config.New())
	if err != nil {
		logger.Get("malicious-app", logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.Get("malicious-app", cfg.Malicious.LogLevel)

	h := exploit.NewHandler(cfg.Malicious.TargetURL, log)
	addr := server.Addr(cfg.Malicious.Host, cfg.Malicious.Port)
	log.Infow("starting malicious app", "addr", addr, "target", cfg.Malicious.TargetURL)

	srv := &server.Server{}
	go func() {
		if err := srv.Run(addr, h.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Infow("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
