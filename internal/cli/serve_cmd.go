package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"proservis/internal/app"
	"proservis/internal/infra/config"
	idb "proservis/internal/infra/database"
	"proservis/internal/infra/httpapi"
	"proservis/internal/infra/logger"
	"proservis/internal/infra/scheduler"
	"proservis/internal/infra/telegram"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/telebot.v3"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot, the reminder scheduler and the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("could not load application configuration: %w", err)
			}
			logger.Init(cfg)
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(parent context.Context, cfg *config.AppConfig) error {
	mainLogger := logger.Component("main")
	mainLogger.WithFields(logrus.Fields{
		"log_level":   cfg.LogLevel,
		"environment": cfg.Environment,
		"admin_id":    cfg.AdminTelegramID,
	}).Info("Configuration loaded")

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := idb.NewPostgresConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("could not connect to database: %w", err)
	}
	defer db.Close()
	if err := idb.EnsureSchema(ctx, db); err != nil {
		return err
	}
	mainLogger.Info("Database connection established")

	technicianRepo := idb.NewPostgresTechnicianRepository(db)
	serviceRepo := idb.NewPostgresServiceRepository(db)

	bot, err := telebot.NewBot(telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) {
			entry := logger.Component("telebot").WithError(err)
			if c != nil && c.Sender() != nil {
				entry = entry.WithField("sender_id", c.Sender().ID)
			}
			entry.Error("Telegram handler error")
		},
	})
	if err != nil {
		return fmt.Errorf("could not create Telegram bot: %w", err)
	}

	adminService := app.NewAdminService(technicianRepo, cfg.AdminTelegramID)
	maintenanceService := app.NewMaintenanceServiceImpl(
		serviceRepo,
		technicianRepo,
		telegram.NewTelebotAdapter(bot),
		logger.Component("maintenance_service"),
	)

	botLogger := logger.Component("telegram")
	telegram.RegisterBotCommands(ctx, bot, adminService, botLogger)
	telegram.RegisterAdminHandlers(ctx, bot, adminService, botLogger)
	telegram.RegisterTechnicianHandlers(ctx, bot, maintenanceService, botLogger)

	dueScheduler := scheduler.NewMaintenanceScheduler(maintenanceService, logger.Component("scheduler"), cfg.CronSpecDueCheck)
	if err := dueScheduler.Start(); err != nil {
		return err
	}
	defer dueScheduler.Stop()

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(httpapi.NewHandler(maintenanceService, logger.Component("http")), cfg.CORSAllowedOrigins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		mainLogger.WithField("addr", cfg.HTTPAddr).Info("HTTP API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	go bot.Start()
	mainLogger.Info("Bot and scheduler running")

	select {
	case <-ctx.Done():
	case err = <-serverErr:
		mainLogger.WithError(err).Error("HTTP server failed")
	}

	mainLogger.Info("Shutting down...")
	bot.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
		mainLogger.WithError(shutdownErr).Error("HTTP server forced to shutdown")
	}

	mainLogger.Info("Application shut down gracefully")
	return err
}
