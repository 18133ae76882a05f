package handlers

import (
	"context"
	"log/slog"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// LogUpdates creates a middleware that logs every handled update with its
// chat and processing duration.
func LogUpdates(logger *slog.Logger) tgbot.Middleware {
	log := logger.With("component", "update_logger")

	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			start := time.Now()
			next(ctx, bot, update)

			if update.Message != nil {
				log.DebugContext(ctx, "Handled update",
					"update_id", update.ID,
					"chat_id", update.Message.Chat.ID,
					"duration", time.Since(start))
			}
		}
	}
}
