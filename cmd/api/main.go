package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/casa80eventos/casa80-backend/api/routes"
	"github.com/casa80eventos/casa80-backend/internal/auth"
	"github.com/casa80eventos/casa80-backend/internal/clients"
	"github.com/casa80eventos/casa80-backend/internal/dashboard"
	"github.com/casa80eventos/casa80-backend/internal/events"
	"github.com/casa80eventos/casa80-backend/internal/exports"
	"github.com/casa80eventos/casa80-backend/internal/inventory"
	"github.com/casa80eventos/casa80-backend/internal/seed"
	"github.com/casa80eventos/casa80-backend/internal/users"
	"github.com/casa80eventos/casa80-backend/pkg/auth/session"
	"github.com/casa80eventos/casa80-backend/pkg/config"
	"github.com/casa80eventos/casa80-backend/pkg/db"
	"github.com/casa80eventos/casa80-backend/pkg/logger"
	"github.com/casa80eventos/casa80-backend/pkg/mail"
	"github.com/casa80eventos/casa80-backend/pkg/metrics"
	"github.com/casa80eventos/casa80-backend/pkg/migrate"
	"github.com/casa80eventos/casa80-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	mailer := mail.NewMailer(cfg.SMTP, cfg.Company, logg)

	usersRepo := users.NewRepository(dbClient.DB())

	authService, err := auth.NewService(usersRepo, sessionManager, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}
	usersService, err := users.NewService(usersRepo, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}
	inventoryService, err := inventory.NewService(inventory.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}
	eventsService, err := events.NewService(events.NewRepository(dbClient.DB()), dbClient, mailer)
	if err != nil {
		logg.Error(context.Background(), "failed to create events service", err)
		os.Exit(1)
	}
	clientsService, err := clients.NewService(clients.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create clients service", err)
		os.Exit(1)
	}
	dashboardService, err := dashboard.NewService(dashboard.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create dashboard service", err)
		os.Exit(1)
	}
	exportsService, err := exports.NewService(exports.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create exports service", err)
		os.Exit(1)
	}
	seedService, err := seed.NewService(dbClient.DB())
	if err != nil {
		logg.Error(context.Background(), "failed to create seed service", err)
		os.Exit(1)
	}

	router := routes.NewRouter(routes.Deps{
		Config:    cfg,
		Logger:    logg,
		DB:        dbClient,
		Redis:     redisClient,
		Sessions:  sessionManager,
		Registry:  registry,
		HTTP:      httpMetrics,
		Auth:      authService,
		Inventory: inventoryService,
		Events:    eventsService,
		Clients:   clientsService,
		Users:     usersService,
		UsersRepo: usersRepo,
		Dashboard: dashboardService,
		Exports:   exportsService,
		Seed:      seedService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	signals, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-signals.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancelShutdown()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
