package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/leitner-vocab-bot/internal/config"
	"github.com/aliskhannn/leitner-vocab-bot/internal/delivery/telegram"
	"github.com/aliskhannn/leitner-vocab-bot/internal/domain/leitner"
	"github.com/aliskhannn/leitner-vocab-bot/internal/infra/postgres"
	pgrepo "github.com/aliskhannn/leitner-vocab-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/leitner-vocab-bot/internal/infra/sqlite"
	"github.com/aliskhannn/leitner-vocab-bot/internal/logger"
	"github.com/aliskhannn/leitner-vocab-bot/internal/repository"
	"github.com/aliskhannn/leitner-vocab-bot/internal/service"
	"github.com/aliskhannn/leitner-vocab-bot/internal/storage"
)

func main() {
	// .env is optional: in production the variables come from the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	if err := run(cfg, lg); err != nil {
		lg.Fatal("bot stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	clock := service.NewClock(loc)

	catalog, err := repository.NewCatalogRepository(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	lg.Info("catalog loaded",
		zap.String("path", cfg.CatalogPath),
		zap.Int("items", len(catalog.Items())),
		zap.Int("categories", len(catalog.Categories())),
	)

	store, closeStore, err := openStore(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer closeStore()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}
	bot.Debug = !cfg.IsProduction()
	lg.Info("authorized", zap.String("account", bot.Self.UserName))

	if _, err := bot.Request(tgbotapi.NewSetMyCommands(botCommands()...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	levelOpts := leitner.LevelOptions{
		MasteryThreshold: cfg.Level.MasteryThreshold,
		MasteryBox:       cfg.Level.MasteryBox,
		MaxLevel:         cfg.Level.MaxLevel,
	}

	canBoost := func(userID int64) bool {
		return !cfg.IsProduction() && cfg.Admin.IsAdmin(userID)
	}

	selector := leitner.NewSelector(nil, leitner.WithShuffleAttempts(cfg.Session.MaxShuffleAttempts))

	progressService := service.NewProgressService(store, catalog, levelOpts, clock, canBoost, lg)
	sessionService := service.NewSessionService(store, catalog, levelOpts, clock, selector, cfg.Session.Size)
	reminderService := service.NewReminderService(store, catalog, levelOpts, clock, cfg.Reminders.Cron, lg)

	handler := telegram.NewHandler(
		bot,
		lg,
		progressService,
		sessionService,
		service.NewAnswerValidator(),
		catalog,
		storage.NewSessionStorage(),
		storage.NewReminderStorage(),
	)
	reminderService.SetNotifier(handler)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return handler.Run(gctx)
	})

	if cfg.Reminders.Enabled {
		g.Go(func() error {
			return reminderService.Start(gctx)
		})
	}

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		lg.Info("shutdown signal received")
		return nil
	}
	return err
}

// openStore connects the configured progress backend.
func openStore(ctx context.Context, cfg *config.Config, lg *zap.Logger) (service.ProgressStore, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		lg.Info("using sqlite storage", zap.String("path", cfg.Storage.SQLitePath))
		return sqlite.NewProgressStore(db), func() { _ = db.Close() }, nil

	default:
		dsn, err := cfg.DB.DSN()
		if err != nil {
			return nil, nil, err
		}

		pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
			MaxConns:        int32(cfg.DB.MaxConnections),
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}

		if err := postgres.Migrate(ctx, pool, lg); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}

		lg.Info("using postgres storage")
		return pgrepo.NewProgressStore(pool), pool.Close, nil
	}
}

func botCommands() []tgbotapi.BotCommand {
	return []tgbotapi.BotCommand{
		{Command: "start", Description: "Запустить бота"},
		{Command: "practice", Description: "Начать практику"},
		{Command: "stats", Description: "Статистика"},
		{Command: "level", Description: "Уровень и открытые категории"},
		{Command: "export", Description: "Скачать резервную копию"},
		{Command: "import", Description: "Восстановить из копии"},
		{Command: "reset", Description: "Сбросить прогресс"},
		{Command: "help", Description: "Помощь"},
	}
}
