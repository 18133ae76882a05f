package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/krishisahayak/sahayak/internal/database"
)

// NewRegisterHandler returns a handler for the /register command.
func NewRegisterHandler(deps HandlerDeps) bot.HandlerFunc {
	return registerHandler{deps}.Handle
}

type registerHandler struct {
	deps HandlerDeps
}

// Handle creates a farmer profile for "/register <name>", or resumes the
// existing one when the name is already known. Either way the chat is bound
// to the profile and the session starts fresh.
func (h registerHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "register")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Register handler received update with nil message or sender", "update_id", update.ID)
		return
	}
	chatID := update.Message.Chat.ID

	name := strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "/register"))
	if name == "" {
		h.reply(ctx, b, chatID, "Please provide your name: /register <name>")
		return
	}

	farmer, err := h.deps.Store.FindFarmer(ctx, name)
	if err != nil {
		log.ErrorContext(ctx, "Failed to look up farmer", "name", name, "error", err)
		h.reply(ctx, b, chatID, "Something went wrong looking up that name. Please try again.")
		return
	}

	if farmer == nil {
		farmer = &database.Farmer{Name: name, ChatID: chatID, Language: "English"}
	} else {
		farmer.ChatID = chatID
	}

	if err := h.deps.Store.SaveFarmer(ctx, farmer); err != nil {
		if errors.Is(err, database.ErrEmptyFarmerName) {
			h.reply(ctx, b, chatID, "Please provide your name: /register <name>")
			return
		}
		log.ErrorContext(ctx, "Failed to save farmer profile", "name", name, "error", err)
		h.reply(ctx, b, chatID, "Could not save your profile. Please try again.")
		return
	}

	h.deps.Sessions.Bind(chatID, farmer.Name)
	log.InfoContext(ctx, "Farmer registered", "name", farmer.Name, "chat_id", chatID)

	h.reply(ctx, b, chatID, fmt.Sprintf(
		"Welcome, %s! Your profile is ready (language: %s, soil: %s, farm size: %.2f ha).\nUse /profile to update it, then ask me anything about your farm.",
		farmer.Name, farmer.Language, farmer.SoilType, farmer.FarmSizeHa))
}

func (h registerHandler) reply(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		h.deps.Logger.ErrorContext(ctx, "Failed to send register reply", "error", err, "chat_id", chatID)
	}
}
