package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"travel-advisory-service/internal/domain/repository"
	"travel-advisory-service/pkg/logger"
	"travel-advisory-service/pkg/metrics"
)

// HTTPLLMGateway calls a Gemini-style generateContent endpoint
type HTTPLLMGateway struct {
	apiURL  string
	apiKey  string
	client  *http.Client
	logger  logger.Logger
	metrics *metrics.Metrics
}

// NewHTTPLLMGateway creates a new language model gateway. An empty apiKey
// disables every call.
func NewHTTPLLMGateway(apiURL, apiKey string, timeout time.Duration, logger logger.Logger, metrics *metrics.Metrics) repository.LLMGateway {
	return &HTTPLLMGateway{
		apiURL:  apiURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
		metrics: metrics,
	}
}

type generateRequest struct {
	Contents []generateContent `json:"contents"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generatePart struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content *generateContent `json:"content"`
	} `json:"candidates"`
}

// Reason sends the prompt and returns the first candidate's text. Bodies in
// any other shape are returned verbatim.
func (g *HTTPLLMGateway) Reason(ctx context.Context, prompt string) (string, bool) {
	if g.apiKey == "" {
		g.logger.Debug("No language model API key configured, skipping call")
		g.metrics.GatewayCalls.WithLabelValues(metrics.OutcomeNoKey).Inc()
		return "", false
	}

	text, err := g.call(ctx, prompt)
	if err != nil {
		g.logger.Error("Language model call failed", "error", err)
		g.metrics.GatewayCalls.WithLabelValues(metrics.OutcomeUnavailable).Inc()
		return "", false
	}

	g.metrics.GatewayCalls.WithLabelValues(metrics.OutcomeAnswered).Inc()
	return text, true
}

func (g *HTTPLLMGateway) call(ctx context.Context, prompt string) (string, error) {
	jsonData, err := json.Marshal(generateRequest{
		Contents: []generateContent{{Parts: []generatePart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	targetURL, err := g.targetURL()
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, targetURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if !g.usesKeyParam() {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("language model returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	return extractCandidateText(body), nil
}

// Google endpoints take the key as a query parameter; anything else gets a bearer token
func (g *HTTPLLMGateway) usesKeyParam() bool {
	return strings.Contains(g.apiURL, "googleapis.com")
}

func (g *HTTPLLMGateway) targetURL() (string, error) {
	if !g.usesKeyParam() {
		return g.apiURL, nil
	}
	u, err := url.Parse(g.apiURL)
	if err != nil {
		return "", fmt.Errorf("invalid language model url: %w", err)
	}
	q := u.Query()
	q.Set("key", g.apiKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func extractCandidateText(body []byte) string {
	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err == nil &&
		len(parsed.Candidates) > 0 &&
		parsed.Candidates[0].Content != nil &&
		len(parsed.Candidates[0].Content.Parts) > 0 {
		return parsed.Candidates[0].Content.Parts[0].Text
	}
	return string(body)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
