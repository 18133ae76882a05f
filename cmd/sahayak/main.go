// Package main contains the entrypoint for the Krishi-Sahayak advisory bot.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"

	"github.com/krishisahayak/sahayak/internal/advisor"
	"github.com/krishisahayak/sahayak/internal/bot"
	"github.com/krishisahayak/sahayak/internal/bot/handlers"
	"github.com/krishisahayak/sahayak/internal/bot/tasks"
	"github.com/krishisahayak/sahayak/internal/config"
	"github.com/krishisahayak/sahayak/internal/database"
	"github.com/krishisahayak/sahayak/internal/gemini"
	"github.com/krishisahayak/sahayak/internal/intent"
	"github.com/krishisahayak/sahayak/internal/logger"
	"github.com/krishisahayak/sahayak/internal/pipeline"
	"github.com/krishisahayak/sahayak/internal/speech"
	"github.com/krishisahayak/sahayak/internal/telegram"
	"github.com/krishisahayak/sahayak/internal/weather"

	_ "modernc.org/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes and starts all application components, handles graceful
// shutdown, and returns an exit code (0 for success, 1 for failure).
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		return 1
	}
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	// A missing Gemini credential keeps the bot up; each advisory turn then
	// reports the credential failure instead of the process refusing to start.
	var model gemini.Client
	if cfg.Gemini.APIKey == "" {
		log.Warn("Gemini API key not configured; advisory turns will report a credential error")
	} else {
		model, err = gemini.NewClient(ctx, cfg.Gemini, log)
		if err != nil {
			log.Error("Failed to initialize Gemini client", "error", err)
			return 1
		}
	}

	forecasts := weather.NewClient(cfg.Weather.APIKey, cfg.Weather.BaseURL, cfg.Weather.Timeout, log)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	pipe := pipeline.New(
		model,
		forecasts,
		store,
		intent.NewKeywordClassifier(),
		advisor.NewCropAdvisor(rng),
		advisor.NewMarketAdvisor(rng),
		advisor.NewHealthAdvisor(rng),
		log,
	)

	var synth *speech.Synthesizer
	if cfg.Speech.Enabled {
		synth = speech.NewSynthesizer(cfg.Speech.BaseURL, log)
	}

	hDeps := handlers.HandlerDeps{
		Logger:      log,
		Config:      cfg,
		Store:       store,
		Pipeline:    pipe,
		Synthesizer: synth,
		Sessions:    handlers.NewSessions(),
	}

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(handlers.LogUpdates(log)),
		tgbot.WithDefaultHandler(handlers.NewAdviceHandler(hDeps)),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	if err := telegram.RegisterHandlers(tg, log, handlers.RegisterAllCommands(hDeps)); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}

	tDeps := tasks.TaskDeps{
		Logger:    log,
		Config:    cfg,
		Store:     store,
		Forecasts: forecasts,
		TgBot:     tg,
	}

	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	app := bot.NewBot(log, tg, sched)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)
	log.Info("Bot run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	time.Sleep(time.Second)
	return 0
}
