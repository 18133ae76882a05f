package handlers

import (
	"bytes"
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/krishisahayak/sahayak/internal/speech"
)

// NewSpeakHandler returns a handler for the /speak command.
func NewSpeakHandler(deps HandlerDeps) bot.HandlerFunc {
	return speakHandler{deps}.Handle
}

type speakHandler struct {
	deps HandlerDeps
}

// Handle replays the last successful answer as a voice note. Languages
// without a voice skip synthesis silently.
func (h speakHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "speak")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Speak handler received update with nil message or sender", "update_id", update.ID)
		return
	}
	chatID := update.Message.Chat.ID

	if h.deps.Synthesizer == nil {
		h.reply(ctx, b, chatID, "Voice notes are disabled on this deployment.")
		return
	}

	farmerName := h.deps.Sessions.FarmerName(chatID)
	if farmerName == "" {
		h.reply(ctx, b, chatID, "No profile linked to this chat yet. Use /register <name> first.")
		return
	}

	lastReply := h.deps.Sessions.LastReply(chatID)
	if lastReply == "" {
		h.reply(ctx, b, chatID, "Nothing to read out yet. Ask me a question first.")
		return
	}

	farmer, err := h.deps.Store.FindFarmer(ctx, farmerName)
	if err != nil || farmer == nil {
		log.ErrorContext(ctx, "Failed to load farmer profile", "name", farmerName, "error", err)
		h.reply(ctx, b, chatID, "Could not load your profile. Please /register again.")
		return
	}

	if !speech.Supported(farmer.Language) {
		log.InfoContext(ctx, "Skipping speech for unsupported language",
			"name", farmer.Name, "language", farmer.Language)
		return
	}

	audio, err := h.deps.Synthesizer.Synthesize(ctx, lastReply, farmer.Language)
	if err != nil {
		log.ErrorContext(ctx, "Speech synthesis failed", "name", farmer.Name, "error", err)
		h.reply(ctx, b, chatID, "Could not generate the voice note. Please try again.")
		return
	}

	_, err = b.SendVoice(ctx, &bot.SendVoiceParams{
		ChatID: chatID,
		Voice:  &models.InputFileUpload{Filename: "advice.mp3", Data: bytes.NewReader(audio)},
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send voice note", "error", err, "chat_id", chatID)
	}
}

func (h speakHandler) reply(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		h.deps.Logger.ErrorContext(ctx, "Failed to send speak reply", "error", err, "chat_id", chatID)
	}
}
