// Package handlers implements the Telegram command and message handlers
// for the advisory bot.
package handlers

import (
	"log/slog"

	"github.com/krishisahayak/sahayak/internal/config"
	"github.com/krishisahayak/sahayak/internal/database"
	"github.com/krishisahayak/sahayak/internal/pipeline"
	"github.com/krishisahayak/sahayak/internal/speech"
)

// HandlerDeps provides dependencies for Telegram handlers.
type HandlerDeps struct {
	Logger      *slog.Logger
	Config      *config.Config
	Store       database.Store
	Pipeline    *pipeline.Pipeline
	Synthesizer *speech.Synthesizer
	Sessions    *Sessions
}
