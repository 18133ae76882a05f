// Package gemini implements the Google Gemini backend for advisory replies.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/krishisahayak/sahayak/internal/config"
	"github.com/krishisahayak/sahayak/internal/database"
)

// Typed failure categories. Callers pick a farmer-facing message with
// errors.Is instead of parsing SDK error text themselves.
var (
	ErrCredential     = errors.New("model credential rejected or missing")
	ErrQuota          = errors.New("model quota exhausted")
	ErrContentBlocked = errors.New("model response blocked by safety filter")
)

// Client defines the model operations used by the advisory pipeline.
type Client interface {
	// GenerateAdvice sends the assembled prompt plus prior turns to the
	// model and returns the reply text. The call is made exactly once;
	// failures are classified and surfaced, never retried.
	GenerateAdvice(ctx context.Context, outputLanguage string, history []database.Interaction, internalPrompt string) (string, error)
}

type sdkClient struct {
	genaiClient *genai.Client
	log         *slog.Logger
	modelName   string
	temperature float32
	timeout     time.Duration
}

// NewClient creates a new Gemini client. The API key must be present; a
// deployment without one runs the pipeline with a nil model and reports a
// credential failure per turn instead.
func NewClient(ctx context.Context, cfg config.GeminiConfig, log *slog.Logger) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: %w", ErrCredential)
	}

	gi, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	logger := log.With("component", "gemini_client")
	logger.Info("Gemini client initialized successfully", "model", cfg.ModelName)

	return &sdkClient{
		genaiClient: gi,
		log:         logger,
		modelName:   cfg.ModelName,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
	}, nil
}

func (c *sdkClient) GenerateAdvice(ctx context.Context, outputLanguage string, history []database.Interaction, internalPrompt string) (string, error) {
	c.log.DebugContext(ctx, "Generating advice", "history_turns", len(history), "language", outputLanguage)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var contents []*genai.Content
	for _, turn := range history {
		contents = append(contents, genai.NewContentFromText(turn.Query, genai.RoleUser))
		contents = append(contents, genai.NewContentFromText(turn.Response, genai.RoleModel))
	}
	contents = append(contents, genai.NewContentFromText(internalPrompt, genai.RoleUser))

	temperature := c.temperature
	cfg := &genai.GenerateContentConfig{
		Temperature: &temperature,
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: fmt.Sprintf(advisorSystemInstruction, outputLanguage)}},
		},
		SafetySettings: []*genai.SafetySetting{
			{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockNone},
		},
	}

	resp, err := c.genaiClient.Models.GenerateContent(ctx, c.modelName, contents, cfg)
	if err != nil {
		c.log.ErrorContext(ctx, "Gemini API call failed", "error", err)
		return "", classifyFailure(err)
	}

	return c.extractTextFromResponse(ctx, resp)
}

// classifyFailure maps an SDK error onto one of the typed failure
// categories by scanning its message. Unrecognized errors pass through
// wrapped.
func classifyFailure(err error) error {
	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "api key") ||
		strings.Contains(msg, "permission") ||
		strings.Contains(msg, "denied") ||
		strings.Contains(msg, "authenticate"):
		return fmt.Errorf("%w: %w", ErrCredential, err)

	case strings.Contains(msg, "quota") ||
		strings.Contains(msg, "resource has been exhausted"):
		return fmt.Errorf("%w: %w", ErrQuota, err)

	case strings.Contains(msg, "safety") || strings.Contains(msg, "blocked"):
		return fmt.Errorf("%w: %w", ErrContentBlocked, err)
	}

	return fmt.Errorf("gemini API call failed: %w", err)
}

func (c *sdkClient) extractTextFromResponse(ctx context.Context, resp *genai.GenerateContentResponse) (string, error) {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockedReasonUnspecified {
		reasonMsg := fmt.Sprintf("%v", resp.PromptFeedback.BlockReason)
		if resp.PromptFeedback.BlockReasonMessage != "" {
			reasonMsg = resp.PromptFeedback.BlockReasonMessage
		}
		c.log.ErrorContext(ctx, "Gemini request blocked", "reason", reasonMsg)
		return "", fmt.Errorf("%w: %s", ErrContentBlocked, reasonMsg)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		finishReason := "unknown"
		if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != genai.FinishReasonUnspecified {
			finishReason = fmt.Sprintf("%v", resp.Candidates[0].FinishReason)
		}
		c.log.WarnContext(ctx, "Gemini response missing candidates or content", "finish_reason", finishReason)
		return "", fmt.Errorf("model returned no content, finish reason: %s", finishReason)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("model returned empty text")
	}

	return text, nil
}
