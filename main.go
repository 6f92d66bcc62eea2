package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"employee-records/internal/auth"
	"employee-records/internal/config"
	"employee-records/internal/handlers"
	"employee-records/internal/router"
	"employee-records/internal/service"
	"employee-records/internal/store"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config error", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Connect(ctx, cfg, log)
	if err != nil {
		log.Fatal("store connection failed", zap.Error(err))
	}

	guards := st.EnsureGuards(ctx)
	log.Info("store ready",
		zap.Bool("index_ready", guards.IndexReady),
		zap.Bool("validator_ready", guards.ValidatorReady))

	principals, err := auth.NewStaticPrincipals(cfg.AuthUsername, cfg.AuthPassword)
	if err != nil {
		log.Fatal("seed principal registry failed", zap.Error(err))
	}
	authService := auth.NewService(principals, cfg.JWTSecret, cfg.TokenTTL)
	employeeService := service.NewEmployeeService(st, log)

	r := gin.Default()
	router.Setup(r, router.Deps{
		Auth:      handlers.NewAuthHandler(authService, log),
		Employees: handlers.NewEmployeeHandler(employeeService, log),
		Health:    handlers.NewHealthHandler(st),
		Verifier:  authService,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("listening", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", zap.Error(err))
	}
	if err := st.Close(shutdownCtx); err != nil {
		log.Error("store close", zap.Error(err))
	}
}
