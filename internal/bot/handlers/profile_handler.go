package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/krishisahayak/sahayak/internal/database"
)

// NewProfileHandler returns a handler for the /profile command.
func NewProfileHandler(deps HandlerDeps) bot.HandlerFunc {
	return profileHandler{deps}.Handle
}

type profileHandler struct {
	deps HandlerDeps
}

const profileUsage = `Usage:
/profile - show your profile
/profile language <English|Hindi|Tamil|Bengali|Telugu|Marathi>
/profile soil <soil type>
/profile size <hectares>
/profile location <latitude> <longitude>`

// Handle shows the bound profile with no arguments, or edits one field.
// Edits clear the session history so the next prompt reflects the change.
func (h profileHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "profile")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Profile handler received update with nil message or sender", "update_id", update.ID)
		return
	}
	chatID := update.Message.Chat.ID

	farmerName := h.deps.Sessions.FarmerName(chatID)
	if farmerName == "" {
		h.reply(ctx, b, chatID, "No profile linked to this chat yet. Use /register <name> first.")
		return
	}

	farmer, err := h.deps.Store.FindFarmer(ctx, farmerName)
	if err != nil || farmer == nil {
		log.ErrorContext(ctx, "Failed to load farmer profile", "name", farmerName, "error", err)
		h.reply(ctx, b, chatID, "Could not load your profile. Please /register again.")
		return
	}

	args := strings.Fields(strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "/profile")))
	if len(args) == 0 {
		h.reply(ctx, b, chatID, formatProfile(farmer))
		return
	}

	field := strings.ToLower(args[0])
	values := args[1:]

	switch field {
	case "language":
		if len(values) != 1 {
			h.reply(ctx, b, chatID, profileUsage)
			return
		}
		farmer.Language = values[0]

	case "soil":
		if len(values) == 0 {
			h.reply(ctx, b, chatID, "Soil types: "+strings.Join(database.SoilTypes, ", "))
			return
		}
		farmer.SoilType = strings.Join(values, " ")

	case "size":
		if len(values) != 1 {
			h.reply(ctx, b, chatID, profileUsage)
			return
		}
		size, err := strconv.ParseFloat(values[0], 64)
		if err != nil {
			h.reply(ctx, b, chatID, "Farm size must be a number of hectares, e.g. /profile size 2.5")
			return
		}
		farmer.FarmSizeHa = size

	case "location":
		if len(values) != 2 {
			h.reply(ctx, b, chatID, profileUsage)
			return
		}
		lat, latErr := strconv.ParseFloat(values[0], 64)
		lon, lonErr := strconv.ParseFloat(values[1], 64)
		if latErr != nil || lonErr != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			h.reply(ctx, b, chatID, "Location must be '/profile location <latitude> <longitude>' with valid coordinates.")
			return
		}
		farmer.Latitude = lat
		farmer.Longitude = lon

	default:
		h.reply(ctx, b, chatID, profileUsage)
		return
	}

	if err := h.deps.Store.SaveFarmer(ctx, farmer); err != nil {
		log.ErrorContext(ctx, "Failed to save farmer profile", "name", farmer.Name, "error", err)
		h.reply(ctx, b, chatID, "Could not save your profile. Please try again.")
		return
	}

	h.deps.Sessions.ClearHistory(chatID)
	log.InfoContext(ctx, "Farmer profile updated", "name", farmer.Name, "field", field)

	h.reply(ctx, b, chatID, "Profile updated.\n\n"+formatProfile(farmer))
}

func formatProfile(f *database.Farmer) string {
	location := "not set"
	if f.HasCoordinates() {
		location = fmt.Sprintf("%.4f, %.4f", f.Latitude, f.Longitude)
	}
	return fmt.Sprintf("Name: %s\nLanguage: %s\nSoil: %s\nFarm size: %.2f ha\nLocation: %s",
		f.Name, f.Language, f.SoilType, f.FarmSizeHa, location)
}

func (h profileHandler) reply(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		h.deps.Logger.ErrorContext(ctx, "Failed to send profile reply", "error", err, "chat_id", chatID)
	}
}
