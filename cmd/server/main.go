package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/DSafr2506/agent-for-chat-MAX/internal/api"
	"github.com/DSafr2506/agent-for-chat-MAX/internal/app"
	"github.com/DSafr2506/agent-for-chat-MAX/internal/config"
)

func main() {
	cfg := config.Load()
	a, err := app.New(cfg, app.Options{})
	if err != nil {
		log.Fatalf("failed to init app: %v", err)
	}
	defer a.Close()
	logger := a.Logger()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), api.RequestIDMiddleware(), api.BodyLimitMiddleware(api.MaxBodyBytes), a.Metrics().GinMiddleware())
	api.Register(r, a)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("Server running on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), cfg.NarrativeTimeout+5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("shutdown error: %v", err)
	}
	logger.Info("server stopped")
}
