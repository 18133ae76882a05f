// Package telegram handles the setup and registration of Telegram bot
// handlers.
package telegram

import (
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"

	"github.com/krishisahayak/sahayak/internal/bot/handlers"
)

// NewTelegramBot creates a new Telegram bot instance.
func NewTelegramBot(token string, logger *slog.Logger, opts ...bot.Option) (*bot.Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "telegram_bot")

	b, err := bot.New(token, opts...)
	if err != nil {
		log.Error("Failed to create Telegram bot instance", "error", err)
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	log.Info("Telegram bot instance created successfully")
	return b, nil
}

// RegisterHandlers registers all command and message handlers with the bot
// instance, applying each handler's middleware first in the slice outermost.
func RegisterHandlers(b *bot.Bot, logger *slog.Logger, registered map[string]handlers.RegisteredHandler) error {
	if b == nil {
		return fmt.Errorf("bot instance cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "handler_registry")

	for name, reg := range registered {
		if reg.Handler == nil {
			log.Warn("Skipping registration for nil handler", "name", name)
			continue
		}

		handler := reg.Handler
		for i := len(reg.Middleware) - 1; i >= 0; i-- {
			handler = reg.Middleware[i](handler)
		}

		b.RegisterHandler(reg.HandlerType, reg.Pattern, reg.MatchType, handler)
		log.Debug("Registered handler", "name", name, "pattern", reg.Pattern)
	}

	log.Info("Registered Telegram handlers successfully", "count", len(registered))
	return nil
}
