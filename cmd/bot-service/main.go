package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"forex-signal-relay/internal/bot/config"
	deliveryhttp "forex-signal-relay/internal/bot/delivery/http"
	deliverytg "forex-signal-relay/internal/bot/delivery/telegram"
	"forex-signal-relay/internal/bot/repository"
	"forex-signal-relay/internal/bot/service"
	"forex-signal-relay/internal/bot/store"
	"forex-signal-relay/pkg/logger"
	"forex-signal-relay/pkg/postgres"
	redisPkg "forex-signal-relay/pkg/redis"
	"forex-signal-relay/pkg/telegram"
	"forex-signal-relay/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the signal relay bot",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Signal Relay Bot", logger.Field("name", cfg.App.Name))

	loc := utils.MustLoadLocation(cfg.Bot.Timezone)

	// Initialize the document persistence backend
	var docStore repository.DocumentStore
	switch cfg.Storage.Driver {
	case "file":
		docStore = repository.NewFileDocumentStore(cfg.Storage.FilePath)
	case "redis":
		redisClient, err := redisPkg.NewClient(redisPkg.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
		}
		defer redisClient.Close()
		docStore = repository.NewRedisDocumentStore(redisClient, cfg.Storage.RedisKey)
	default:
		appLogger.Fatal("Unknown storage driver", logger.StringField("driver", cfg.Storage.Driver))
	}

	// Initialize the optional journal archive
	var archiveRepo repository.JournalArchiveRepository
	if cfg.Journal.ArchiveEnabled {
		db, err := postgres.NewDB(postgres.Config{
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			User:            cfg.Database.User,
			Password:        cfg.Database.Password,
			DBName:          cfg.Database.DBName,
			SSLMode:         cfg.Database.SSLMode,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		})
		if err != nil {
			appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
		}
		if sqlDB, err := db.DB.DB(); err == nil {
			defer sqlDB.Close()
		}
		archiveRepo = repository.NewJournalArchiveRepository(db.DB)
	}

	// Load the persisted document, seeding owners on first run
	st := store.New(docStore, appLogger)
	if err := st.Load(ctx, cfg.Telegram.InitialOwnerIDs); err != nil {
		appLogger.Fatal("Failed to load persisted state", logger.ErrorField(err))
	}

	// Initialize the Telegram transport
	botClient, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChannelID, cfg.Telegram.ChannelUsername)
	if err != nil {
		appLogger.Fatal("Failed to initialize Telegram client", logger.ErrorField(err))
	}

	// Initialize services
	lifecycleSvc := service.NewLifecycleService(st, archiveRepo, appLogger, loc, service.ClosingPolicy(cfg.Bot.ClosingPolicy))
	journalSvc := service.NewJournalService(st, botClient, appLogger, loc)

	// Daily journal broadcast
	scheduler := cron.New(cron.WithLocation(loc))
	if _, err := scheduler.AddFunc(cfg.Journal.CronSpec, func() {
		journalSvc.SendDailyReport(ctx)
	}); err != nil {
		appLogger.Fatal("Invalid journal cron spec", logger.ErrorField(err), logger.StringField("cron_spec", cfg.Journal.CronSpec))
	}
	scheduler.Start()

	// Admin API
	e := echo.New()
	e.HideBanner = true
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	signalHandler := deliveryhttp.NewSignalHandler(st, archiveRepo, appLogger)
	signalHandler.RegisterRoutes(e.Group("/api/v1"))

	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop()
		}
	}()

	// Inbound update loop; one update at a time
	handler := deliverytg.NewHandler(botClient, st, lifecycleSvc, journalSvc, appLogger, loc)
	go handler.Run(ctx)

	appLogger.Info("Signal relay bot started. Waiting for updates...")

	<-ctx.Done()

	appLogger.Info("Shutting down...")
	botClient.Stop()
	cronCtx := scheduler.Stop()
	<-cronCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Signal relay bot stopped")
}

func main() {
	rootCmd := &cobra.Command{Use: "bot-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-bot.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing bot-service CLI: %s\n", err)
		os.Exit(1)
	}
}
