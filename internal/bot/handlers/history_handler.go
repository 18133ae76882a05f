package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const defaultHistoryCount = 5

// NewHistoryHandler returns a handler for the /history command.
func NewHistoryHandler(deps HandlerDeps) bot.HandlerFunc {
	return historyHandler{deps}.Handle
}

type historyHandler struct {
	deps HandlerDeps
}

// Handle shows the farmer's most recent logged interactions, newest first.
// "/history 10" adjusts the count.
func (h historyHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "history")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "History handler received update with nil message or sender", "update_id", update.ID)
		return
	}
	chatID := update.Message.Chat.ID

	farmerName := h.deps.Sessions.FarmerName(chatID)
	if farmerName == "" {
		h.reply(ctx, b, chatID, "No profile linked to this chat yet. Use /register <name> first.")
		return
	}

	limit := defaultHistoryCount
	if arg := strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "/history")); arg != "" {
		if n, err := strconv.Atoi(arg); err == nil && n > 0 {
			limit = n
		}
	}

	interactions, err := h.deps.Store.GetInteractions(ctx, farmerName, limit)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load interactions", "name", farmerName, "error", err)
		h.reply(ctx, b, chatID, "Could not load your history. Please try again.")
		return
	}

	if len(interactions) == 0 {
		h.reply(ctx, b, chatID, "No past questions on record yet. Just ask me something!")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Your last %d interactions:\n", len(interactions)))
	for _, rec := range interactions {
		sb.WriteString(fmt.Sprintf("\n[%s]\nQ: %s\nA: %s\n",
			rec.Timestamp.Format("2006-01-02 15:04:05"), rec.Query, rec.Response))
	}

	h.reply(ctx, b, chatID, sb.String())
}

func (h historyHandler) reply(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		h.deps.Logger.ErrorContext(ctx, "Failed to send history reply", "error", err, "chat_id", chatID)
	}
}
