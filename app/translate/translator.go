package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

// Translator converts article text into the configured target language.
// Translation failures propagate: a stored article without a translation
// would be useless to post generation.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

var _ Translator = (*HTTPTranslator)(nil)

// HTTPTranslator calls a LibreTranslate-compatible endpoint.
type HTTPTranslator struct {
	endpoint   string
	targetLang string
	httpClient *http.Client
}

// NewHTTPTranslator validates the target language tag up front so a typo in
// configuration fails at startup, not on the first article.
func NewHTTPTranslator(endpoint, targetLang string, httpClient *http.Client) (*HTTPTranslator, error) {
	if _, err := language.Parse(targetLang); err != nil {
		return nil, fmt.Errorf("invalid target language %q: %w", targetLang, err)
	}

	return &HTTPTranslator{
		endpoint:   strings.TrimRight(endpoint, "/"),
		targetLang: targetLang,
		httpClient: httpClient,
	}, nil
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
}

func (t *HTTPTranslator) Translate(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(translateRequest{
		Q:      text,
		Source: "auto",
		Target: t.targetLang,
		Format: "text",
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal translate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint+"/translate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create translate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("translation service call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("translation service returned status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var parsed translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode translate response: %w", err)
	}

	if strings.TrimSpace(parsed.TranslatedText) == "" {
		return "", fmt.Errorf("translation service returned empty text")
	}

	return parsed.TranslatedText, nil
}
