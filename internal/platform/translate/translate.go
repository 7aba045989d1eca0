// Package translate provides comment translation through the Google
// Translate v2 REST endpoint. The Translator interface keeps services
// independent of the HTTP client; tests substitute fakes.
package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/taskhive/taskhive-api/internal/config"
)

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("translation is not configured")

// Translator converts text into a target language.
type Translator interface {
	// Translate returns the text translated into the target language code
	// (for example "es" or "de"). The source language is auto-detected.
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// GoogleTranslator implements Translator against the Google Translate v2
// REST API.
type GoogleTranslator struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

const defaultEndpoint = "https://translation.googleapis.com/language/translate/v2"

// NewGoogleTranslator creates a Translator using the configured API key.
func NewGoogleTranslator(cfg config.TranslateConfig, logger *slog.Logger) *GoogleTranslator {
	if logger == nil {
		logger = slog.Default()
	}

	return &GoogleTranslator{
		apiKey:   cfg.APIKey,
		endpoint: defaultEndpoint,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger.With(slog.String("component", "google_translator")),
	}
}

// Ensure GoogleTranslator implements Translator
var _ Translator = (*GoogleTranslator)(nil)

// Translate implements Translator.Translate
func (t *GoogleTranslator) Translate(ctx context.Context, text, targetLang string) (string, error) {
	if t.apiKey == "" {
		return "", ErrNotConfigured
	}

	form := url.Values{}
	form.Set("q", text)
	form.Set("target", targetLang)
	form.Set("format", "text")
	form.Set("key", t.apiKey)

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		t.endpoint,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return "", fmt.Errorf("failed to build translation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("translation request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			t.logger.Error("failed to close response body", slog.String("error", err.Error()))
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read translation response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.logger.Warn("translation endpoint returned error",
			slog.Int("status", resp.StatusCode))
		return "", fmt.Errorf("translation endpoint returned status %d", resp.StatusCode)
	}

	var parsed struct {
		Data struct {
			Translations []struct {
				TranslatedText string `json:"translatedText"`
			} `json:"translations"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode translation response: %w", err)
	}

	if len(parsed.Data.Translations) == 0 {
		return "", fmt.Errorf("translation response contained no translations")
	}

	return parsed.Data.Translations[0].TranslatedText, nil
}
