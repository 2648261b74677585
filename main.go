package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mseongj/jiga-news/config"
	"github.com/mseongj/jiga-news/gnews"
	"github.com/mseongj/jiga-news/handlers"
	"github.com/mseongj/jiga-news/logger"
	"github.com/mseongj/jiga-news/routes"
)

func main() {
	cfg := config.Load()
	log := logger.NewLogger("jiga-news", cfg.LogLevel)

	client := gnews.NewClient(gnews.ClientConfig{
		BaseURL:   cfg.GNewsBaseURL,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.UpstreamTimeout,
	}, log)
	newsHandler := handlers.NewNewsHandler(client, log, cfg.UpstreamTimeout)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.SetupRoutes(newsHandler, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Infof("Server is running on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// SIGINT/SIGTERM 받으면 진행 중인 요청을 마치고 종료
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), cfg.UpstreamTimeout+5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
	log.LogMetrics()
	log.Info("server stopped")
}
