// Package tasks implements the scheduled background tasks: database
// maintenance and the daily weather-alert broadcast.
package tasks

import (
	"log/slog"

	tgbot "github.com/go-telegram/bot"

	"github.com/krishisahayak/sahayak/internal/config"
	"github.com/krishisahayak/sahayak/internal/database"
	"github.com/krishisahayak/sahayak/internal/pipeline"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger    *slog.Logger
	Config    *config.Config
	Store     database.Store
	Forecasts pipeline.ForecastProvider
	TgBot     *tgbot.Bot
}
