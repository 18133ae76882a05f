package tasks

import (
	"context"
	"fmt"
	"strings"

	tgbot "github.com/go-telegram/bot"
)

// newWeatherAlertTask creates the daily broadcast task: for every farmer
// with coordinates and a known chat, fetch the forecast and push a message
// when any day carries alerts. Farmers without alerts hear nothing.
func newWeatherAlertTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "weather_alerts")

	return func(ctx context.Context) error {
		farmers, err := deps.Store.ListFarmers(ctx)
		if err != nil {
			return fmt.Errorf("failed to list farmers for weather alerts: %w", err)
		}

		var failures int
		var notified int
		for _, farmer := range farmers {
			if !farmer.HasCoordinates() || farmer.ChatID == 0 {
				continue
			}

			forecast, err := deps.Forecasts.Forecast(ctx, farmer.Latitude, farmer.Longitude)
			if err != nil {
				log.WarnContext(ctx, "Forecast fetch failed during alert broadcast",
					"farmer", farmer.Name, "error", err)
				failures++
				continue
			}

			var alertDays []string
			for _, day := range forecast.Days {
				if strings.Contains(day, "Alerts:") {
					alertDays = append(alertDays, "- "+day)
				}
			}
			if len(alertDays) == 0 {
				continue
			}

			msg := fmt.Sprintf("Weather alerts for %s:\n%s",
				forecast.Location, strings.Join(alertDays, "\n"))

			_, err = deps.TgBot.SendMessage(ctx, &tgbot.SendMessageParams{
				ChatID: farmer.ChatID,
				Text:   msg,
			})
			if err != nil {
				log.ErrorContext(ctx, "Failed to send weather alert",
					"farmer", farmer.Name, "chat_id", farmer.ChatID, "error", err)
				failures++
				continue
			}
			notified++
		}

		log.InfoContext(ctx, "Weather alert broadcast finished",
			"farmers", len(farmers), "notified", notified, "failures", failures)

		if failures > 0 {
			return fmt.Errorf("weather alert broadcast had %d failures", failures)
		}
		return nil
	}
}
