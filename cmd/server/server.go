// @title        Timberyard storefront API
// @version      1.0
// @description  Витрина лесного склада: каталог, корзина, оформление заказа и админка.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/RoGogDBD/timberyard/docs" // регистрация swagger документации
	"github.com/RoGogDBD/timberyard/internal/app"
	"github.com/RoGogDBD/timberyard/internal/config"
	"github.com/RoGogDBD/timberyard/internal/logger"
	"github.com/RoGogDBD/timberyard/internal/telemetry"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Флаги
	flags, err := config.ParseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		return err
	}
	flags.Apply(cfg)

	log, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	providers, err := telemetry.Init(ctx, cfg.Telemetry, log.Named("telemetry"))
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}

	application := app.NewApp(cfg, log)
	if err := application.Init(); err != nil {
		application.Close()
		return fmt.Errorf("init app: %w", err)
	}

	// Инициализация chi роутера и middlewares
	r := chi.NewRouter()
	config.SetupMiddlewares(r, log.Named("http"))
	if h := providers.MetricsHandler(); h != nil {
		r.Handle(cfg.Telemetry.MetricsPath, h)
	}
	application.Routes(r)

	// Конфигурация и запуск сервера
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server started", zap.String("addr", srv.Addr), zap.String("backend", cfg.Backend.BaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			application.Close()
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown", zap.Error(err))
	}
	application.Close()
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Warn("telemetry shutdown", zap.Error(err))
	}
	return nil
}
