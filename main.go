package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/raine/telegram-wallapop-bot/internal/bot"
	"github.com/raine/telegram-wallapop-bot/internal/config"
	"github.com/raine/telegram-wallapop-bot/internal/metrics"
	"github.com/raine/telegram-wallapop-bot/internal/money"
	"github.com/raine/telegram-wallapop-bot/internal/storage"
	"github.com/raine/telegram-wallapop-bot/internal/wallapop"
	"github.com/raine/telegram-wallapop-bot/internal/watcher"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const logFileName = "wallbot.log"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Try to load existing .env file
	config.LoadEnvFile()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	// JOURNAL_STREAM is set by systemd when running as a service.
	// Skip file logging under systemd, journald already keeps the logs.
	if _, underSystemd := os.LookupEnv("JOURNAL_STREAM"); !underSystemd {
		logPath := filepath.Join(cfg.Bot.LogDir, logFileName)
		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Fatal().Err(err).Str("logFile", logPath).Msg("failed to open log file")
		}
		defer logFile.Close()

		consoleWriter := zerolog.ConsoleWriter{Out: os.Stderr}
		fileWriter := zerolog.ConsoleWriter{Out: logFile, NoColor: true}
		log.Logger = log.Output(io.MultiWriter(consoleWriter, fileWriter))

		log.Info().Str("logFile", logPath).Msg("logging to file")
	}

	log.Info().Str("version", bot.Version).Str("buildTime", bot.BuildTime).Msg("starting wallbot")

	store, err := storage.NewSQLiteStore(cfg.Bot.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize store")
	}
	defer store.Close()
	log.Info().Str("dbPath", cfg.Bot.DBPath).Msg("store initialized")

	formatter, err := money.NewFormatter(cfg.Watcher.Locale, cfg.Watcher.CurrencySymbol)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create price formatter")
	}

	client := wallapop.NewClient(wallapop.Options{
		BaseURL:   cfg.Wallapop.BaseURL,
		Timeout:   cfg.Wallapop.Timeout,
		RateLimit: cfg.Wallapop.RateLimit,
	})

	tg, err := tgbotapi.NewBotAPI(cfg.Bot.Token)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telegram bot")
	}
	tg.Debug = false
	log.Info().Str("username", tg.Self.UserName).Msg("authorized on account")

	// Register bot commands for Telegram's command menu
	bot.RegisterCommands(tg)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(reg)

	// Create context that cancels on SIGINT or SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b := bot.NewBot(tg, store, bot.Options{MaxSubscriptions: cfg.Bot.MaxSubscriptions})
	defer b.Shutdown()

	watcherService := watcher.NewService(store, client, tg, formatter, watcher.Options{
		Interval:     cfg.Watcher.PollInterval,
		StartupDelay: watcher.StartupDelay,
		SellerLookup: cfg.Wallapop.SellerInfo,
		WebBaseURL:   cfg.Wallapop.WebURL,
	}, collector)

	g, ctx := errgroup.WithContext(ctx)

	// Run bot update loop. The process ends with it.
	g.Go(func() error {
		defer stop()
		return bot.RunListener(ctx, tg, b)
	})

	// Run the poll scheduler
	g.Go(func() error {
		watcherService.Run(ctx)
		return nil
	})

	if cfg.Metrics.Addr != "" {
		g.Go(func() error {
			return metrics.Serve(ctx, cfg.Metrics.Addr, reg)
		})
	}

	if err := g.Wait(); err != nil && err != context.Canceled {
		log.Error().Err(err).Msg("shutdown with error")
	} else {
		log.Info().Msg("shutdown complete")
	}
}
