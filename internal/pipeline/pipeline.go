// Package pipeline turns one farmer query into one advisory reply: validate,
// classify, fetch supporting data, assemble context, invoke the model once,
// scan the reply, and log the turn.
package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/krishisahayak/sahayak/internal/advisor"
	"github.com/krishisahayak/sahayak/internal/database"
	"github.com/krishisahayak/sahayak/internal/gemini"
	"github.com/krishisahayak/sahayak/internal/intent"
	"github.com/krishisahayak/sahayak/internal/weather"
)

// Status tags a turn outcome.
type Status string

// Turn outcomes.
const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// TurnResult is the outcome of one advisory turn.
type TurnResult struct {
	Status         Status
	Intent         intent.Intent
	Response       string
	InternalPrompt string
}

// ForecastProvider fetches a condensed multi-day forecast for coordinates.
type ForecastProvider interface {
	Forecast(ctx context.Context, lat, lon float64) (*weather.Forecast, error)
}

// defaultMarketName stands in until real mandi selection exists.
const defaultMarketName = "Nearby Mandi"

// Farmer-facing failure messages. Each carries an error marker so the
// response scan and the log prefix rule agree on the outcome.
const (
	msgProfileMissing = "Error: No registered farmer profile found. Please register before asking for advice."
	msgEmptyQuery     = "Error: Please ask a question first."
	msgModelNotReady  = "Error: Advisor unavailable. API key validation failed or credential missing."
	msgCredential     = "Error: The AI service rejected the configured credential. Invalid API key or insufficient permission."
	msgQuota          = "Error: The AI service quota is exhausted. Please try again later."
	msgContentBlocked = "Error: The response was blocked by content filters. Please rephrase the question."
	msgModelFailure   = "Error: Could not process the request due to an internal error. Please try again."
)

// errorMarkers are the lowercase substrings that flag a reply as a failure.
// This scan is a known-imperfect contract: a legitimate answer discussing,
// say, drip filters will be tagged as an error.
var errorMarkers = []string{
	"error:", "sorry, i cannot", "warning:", "could not process",
	"internal error", "invalid api key", "exception:", "blocked by content",
	"filter", "unable to", "failed to", "api key validation failed",
}

// Pipeline orchestrates advisory turns. The model may be nil when no
// credential is configured; every turn then reports the credential failure
// instead of the process refusing to start.
type Pipeline struct {
	model      gemini.Client
	forecasts  ForecastProvider
	store      database.Store
	classifier intent.Classifier
	crops      *advisor.CropAdvisor
	markets    *advisor.MarketAdvisor
	health     *advisor.HealthAdvisor
	logger     *slog.Logger
	now        func() time.Time
}

// New creates a pipeline. All collaborators except model are required.
func New(
	model gemini.Client,
	forecasts ForecastProvider,
	store database.Store,
	classifier intent.Classifier,
	crops *advisor.CropAdvisor,
	markets *advisor.MarketAdvisor,
	health *advisor.HealthAdvisor,
	logger *slog.Logger,
) *Pipeline {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Pipeline{
		model:      model,
		forecasts:  forecasts,
		store:      store,
		classifier: classifier,
		crops:      crops,
		markets:    markets,
		health:     health,
		logger:     logger.With("component", "pipeline"),
		now:        time.Now,
	}
}

// HandleTurn processes one query for a registered farmer. History is the
// session's prior turns, oldest first. Every turn with a usable profile is
// appended to the interaction log, successes and failures alike; a turn
// without one is rejected before any fetch or model call and cannot be
// attributed in the log.
func (p *Pipeline) HandleTurn(ctx context.Context, farmer *database.Farmer, query string, history []database.Interaction) TurnResult {
	if farmer == nil || strings.TrimSpace(farmer.Name) == "" {
		p.logger.WarnContext(ctx, "Advisory turn without a usable farmer profile")
		return TurnResult{Status: StatusError, Intent: intent.General, Response: msgProfileMissing}
	}

	query = strings.TrimSpace(query)

	if query == "" {
		result := TurnResult{Status: StatusError, Intent: intent.General, Response: msgEmptyQuery}
		p.logTurn(ctx, farmer, query, result)
		return result
	}

	if p.model == nil {
		result := TurnResult{Status: StatusError, Intent: intent.General, Response: msgModelNotReady}
		p.logTurn(ctx, farmer, query, result)
		return result
	}

	it := p.classifier.Classify(query)
	data := p.gather(ctx, farmer, query, it)

	internalPrompt := strings.Join(BuildContext(farmer, query, it, data), "\n")

	result := TurnResult{Status: StatusOK, Intent: it, InternalPrompt: internalPrompt}

	reply, err := p.model.GenerateAdvice(ctx, farmer.Language, history, internalPrompt)
	switch {
	case err != nil:
		p.logger.ErrorContext(ctx, "Model invocation failed",
			"farmer", farmer.Name, "intent", it, "error", err)
		result.Status = StatusError
		result.Response = messageForModelError(err)

	case containsErrorMarker(reply):
		p.logger.WarnContext(ctx, "Model reply carries an error marker",
			"farmer", farmer.Name, "intent", it)
		result.Status = StatusError
		result.Response = reply

	default:
		result.Response = reply
	}

	p.logTurn(ctx, farmer, query, result)
	return result
}

// gather runs the fetch stage for the classified intent. Forecast failures
// are folded into the context rather than aborting the turn.
func (p *Pipeline) gather(ctx context.Context, farmer *database.Farmer, query string, it intent.Intent) AdvisoryData {
	var data AdvisoryData

	switch it {
	case intent.Weather:
		data.Forecast, data.ForecastErr = p.forecasts.Forecast(ctx, farmer.Latitude, farmer.Longitude)
		if data.ForecastErr != nil {
			p.logger.WarnContext(ctx, "Forecast unavailable",
				"farmer", farmer.Name, "error", data.ForecastErr)
		}

	case intent.Crop:
		season := advisor.CurrentSeason(p.now())
		avgTemp, avgRain := p.crops.EstimateClimate()
		soil := farmer.SoilType
		if soil == "" {
			soil = "Unknown"
		}
		data.Crop = &CropFactors{
			Soil:   soil,
			Season: season,
			Crops:  p.crops.Suggest(soil, avgTemp, avgRain, season),
		}

	case intent.Market:
		data.Market = p.markets.Forecast(intent.DetectCrop(query), defaultMarketName)

	case intent.Health:
		assessment := p.health.Diagnose()
		data.Health = &assessment
	}

	return data
}

func messageForModelError(err error) string {
	switch {
	case errors.Is(err, gemini.ErrCredential):
		return msgCredential
	case errors.Is(err, gemini.ErrQuota):
		return msgQuota
	case errors.Is(err, gemini.ErrContentBlocked):
		return msgContentBlocked
	default:
		return msgModelFailure
	}
}

func containsErrorMarker(reply string) bool {
	lower := strings.ToLower(reply)
	for _, marker := range errorMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// logTurn appends the turn to the interaction log. Failed turns get a
// "System Error: " prefix unless the response is already marked as one.
func (p *Pipeline) logTurn(ctx context.Context, farmer *database.Farmer, query string, result TurnResult) {
	response := result.Response
	if result.Status == StatusError {
		lower := strings.ToLower(response)
		if !strings.HasPrefix(lower, "system error:") && !strings.HasPrefix(lower, "error:") {
			response = "System Error: " + response
		}
	}

	rec := &database.Interaction{
		Timestamp:      p.now().UTC(),
		FarmerName:     farmer.Name,
		Language:       farmer.Language,
		Query:          query,
		Response:       response,
		InternalPrompt: result.InternalPrompt,
	}

	if err := p.store.AppendInteraction(ctx, rec); err != nil {
		p.logger.ErrorContext(ctx, "Failed to append interaction",
			"farmer", farmer.Name, "error", err)
	}
}
