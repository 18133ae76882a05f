package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/krishisahayak/sahayak/internal/database"
	"github.com/krishisahayak/sahayak/internal/pipeline"
)

// NewAdviceHandler returns the default handler that runs non-command
// messages through the advisory pipeline.
func NewAdviceHandler(deps HandlerDeps) bot.HandlerFunc {
	return adviceHandler{deps}.Handle
}

type adviceHandler struct {
	deps HandlerDeps
}

func (h adviceHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "advice")

	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID

	query := strings.TrimSpace(update.Message.Text)
	if query == "" || strings.HasPrefix(query, "/") {
		// Commands are handled elsewhere; this handler matches everything.
		return
	}

	farmerName := h.deps.Sessions.FarmerName(chatID)
	if farmerName == "" {
		h.reply(ctx, b, chatID, "Please register first so I know your farm: /register <name>")
		return
	}

	farmer, err := h.deps.Store.FindFarmer(ctx, farmerName)
	if err != nil || farmer == nil {
		log.ErrorContext(ctx, "Failed to load farmer profile", "name", farmerName, "error", err)
		h.reply(ctx, b, chatID, "Could not load your profile. Please /register again.")
		return
	}

	log.InfoContext(ctx, "Handling advisory turn", "name", farmer.Name, "chat_id", chatID)

	result := h.deps.Pipeline.HandleTurn(ctx, farmer, query, h.deps.Sessions.History(chatID))

	if result.Status == pipeline.StatusOK {
		h.deps.Sessions.AppendTurn(chatID, database.Interaction{
			FarmerName: farmer.Name,
			Language:   farmer.Language,
			Query:      query,
			Response:   result.Response,
		})
	}

	h.reply(ctx, b, chatID, result.Response)
}

func (h adviceHandler) reply(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		h.deps.Logger.ErrorContext(ctx, "Failed to send advisory reply", "error", err, "chat_id", chatID)
	}
}
