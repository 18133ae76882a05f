// Package speech synthesizes short voice notes for advisory replies using
// the Google Translate TTS endpoint.
package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// ErrUnsupportedLanguage is returned when the farmer's language has no
// voice. Callers skip synthesis silently on it.
var ErrUnsupportedLanguage = errors.New("language not supported for speech")

// languageCodes maps supported profile languages to TTS voice codes.
var languageCodes = map[string]string{
	"English": "en",
	"Hindi":   "hi",
	"Tamil":   "ta",
	"Bengali": "bn",
	"Telugu":  "te",
	"Marathi": "mr",
}

// maxUtteranceRunes bounds one synthesis request; the endpoint rejects
// longer inputs.
const maxUtteranceRunes = 200

// Synthesizer converts reply text into MP3 voice notes.
type Synthesizer struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewSynthesizer creates a speech synthesizer against the given endpoint.
func NewSynthesizer(baseURL string, logger *slog.Logger) *Synthesizer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Synthesizer{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		logger:     logger.With("component", "speech"),
	}
}

// Supported reports whether the language has a voice.
func Supported(language string) bool {
	_, ok := languageCodes[language]
	return ok
}

// Synthesize returns MP3 audio for the text in the given profile language.
// Text beyond the utterance limit is truncated.
func (s *Synthesizer) Synthesize(ctx context.Context, text, language string) ([]byte, error) {
	code, ok := languageCodes[language]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, language)
	}

	runes := []rune(text)
	if len(runes) > maxUtteranceRunes {
		text = string(runes[:maxUtteranceRunes])
	}

	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", code)
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build speech request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speech request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("speech service returned status %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read speech response: %w", err)
	}

	s.logger.DebugContext(ctx, "Synthesized voice note", "language", language, "bytes", len(audio))
	return audio, nil
}
