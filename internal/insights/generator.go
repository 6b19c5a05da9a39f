package insights

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"task-planner-api/internal/engine"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"
	defaultTimeout = 30 * time.Second

	maxAttempts  = 3
	retryBackoff = 500 * time.Millisecond
)

// Config carries the generator's mode and, for remote generation, its
// endpoint credentials.
type Config struct {
	Mode    Mode
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Generator produces Insights from a TaskAnalysisData bundle.
type Generator struct {
	cfg    Config
	client *http.Client
	log    *zap.SugaredLogger
}

// New constructs a generator. Missing remote settings fall back to
// sane defaults; a remote mode without an API key degrades to local.
func New(cfg Config, log *zap.SugaredLogger) *Generator {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Generator{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    log,
	}
}

// Generate builds the insight bundle. In remote mode any transport or
// parse failure falls through to the deterministic local strategy, so
// the call never fails outright.
func (g *Generator) Generate(ctx context.Context, data engine.TaskAnalysisData) (*Insights, error) {
	if g.cfg.Mode == ModeRemote && g.cfg.APIKey != "" {
		out, err := g.generateRemote(ctx, data)
		if err == nil {
			return out, nil
		}
		g.log.Warnw("remote insight generation failed, using local strategy", "error", err)
	}
	return localInsights(data), nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (g *Generator) generateRemote(ctx context.Context, data engine.TaskAnalysisData) (*Insights, error) {
	body, err := json.Marshal(chatRequest{
		Model: g.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(data)},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryBackoff * time.Duration(attempt-1)):
			}
		}

		out, retryable, err := g.doRequest(ctx, body)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}
	return nil, lastErr
}

func (g *Generator) doRequest(ctx context.Context, body []byte) (*Insights, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, true, fmt.Errorf("insights API returned status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("insights API returned status %d: %s", resp.StatusCode, raw)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, false, fmt.Errorf("decode chat response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, false, fmt.Errorf("chat response has no choices")
	}

	var out Insights
	content := stripCodeFence(parsed.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return nil, false, fmt.Errorf("parse insight payload: %w", err)
	}
	return &out, false, nil
}

const systemPrompt = `You are a productivity analyst. Reply with a single JSON object matching the schema the user describes. No prose outside the JSON.`

// buildPrompt serializes the statistics bundle into the model prompt,
// including the exact output shape expected back.
func buildPrompt(data engine.TaskAnalysisData) string {
	stats, _ := json.Marshal(data)
	var sb strings.Builder
	sb.WriteString("Analyze these task statistics and respond with JSON of the shape:\n")
	sb.WriteString(`{"bestLevel":{"level":0,"completionRate":0,"analysis":""},` +
		`"timeDistribution":{"busiestMonth":"","quietestMonth":"","analysis":""},` +
		`"urgency":{"urgentCount":0,"recommendations":[],"analysis":""},` +
		`"productivityTrend":{"trend":"","strengths":[],"improvements":[],"analysis":""}}`)
	sb.WriteString("\n\nStatistics:\n")
	sb.Write(stats)
	return sb.String()
}

// stripCodeFence removes a surrounding markdown code fence that chat
// models often wrap JSON replies in.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
