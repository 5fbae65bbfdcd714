package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"helphive-gateway/internal/metrics"
	"helphive-gateway/pkg/types"

	"go.uber.org/zap"
)

const (
	anthropicVersion = "2023-06-01"

	maxRequestSize = 2 * 1024 * 1024 // 2MB total JSON payload
	maxInputSize   = 512 * 1024      // 512KB of raw user text
)

// Wire shapes for the messages API.
type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type messagesResponse struct {
	ID         string         `json:"id"`
	Model      string         `json:"model"`
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason,omitempty"`
	Usage      *messagesUsage `json:"usage,omitempty"`
	Error      *apiError      `json:"error,omitempty"`
}

type messagesUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Understand sends the raw request text upstream and returns the
// reply text, expected to contain one JSON object.
func (c *client) Understand(ctx context.Context, kind types.Kind, input string) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", fmt.Errorf("llmclient: input is empty")
	}
	if len(input) > maxInputSize {
		return "", fmt.Errorf("llmclient: input too large (%d bytes, max %d)", len(input), maxInputSize)
	}

	return c.complete(ctx, "understand", messagesRequest{
		Model:     c.cfg.Model,
		MaxTokens: c.cfg.MaxTokens,
		System:    understandSystemPrompt,
		Messages: []message{
			{Role: "user", Content: understandUserPrompt(kind, input)},
		},
	})
}

// RankTasks sends the summarized task list upstream and returns the
// reply text, expected to contain one JSON array of ids.
func (c *client) RankTasks(ctx context.Context, summaries []types.TaskSummary) (string, error) {
	if len(summaries) == 0 {
		return "", fmt.Errorf("llmclient: no tasks to rank")
	}

	userPrompt, err := rankUserPrompt(summaries)
	if err != nil {
		return "", fmt.Errorf("llmclient: %w", err)
	}

	return c.complete(ctx, "rank", messagesRequest{
		Model:     c.cfg.RankModel,
		MaxTokens: c.cfg.RankMaxTokens,
		System:    rankSystemPrompt,
		Messages: []message{
			{Role: "user", Content: userPrompt},
		},
	})
}

// complete performs one messages-API round trip with retry and
// returns the concatenated text blocks of the reply.
func (c *client) complete(parentCtx context.Context, operation string, reqBody messagesRequest) (string, error) {
	start := time.Now()

	c.logger.Debug("upstream request starting",
		zap.String("operation", operation),
		zap.String("model", reqBody.Model),
		zap.Int("max_tokens", reqBody.MaxTokens),
	)

	// Per-request timeout (0 = only use parentCtx).
	var ctx context.Context
	var cancel context.CancelFunc
	if c.cfg.UpstreamTimeout > 0 {
		ctx, cancel = context.WithTimeout(parentCtx, c.cfg.UpstreamTimeout)
	} else {
		ctx, cancel = context.WithCancel(parentCtx)
	}
	defer cancel()

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("llmclient: marshal request: %w", err)
	}
	if len(bodyBytes) > maxRequestSize {
		return "", fmt.Errorf("llmclient: request too large (%d bytes, max %d)", len(bodyBytes), maxRequestSize)
	}

	url := c.cfg.BaseURL + "/v1/messages"

	// doOnce builds a fresh *http.Request for each attempt.
	doOnce := func(ctx context.Context, body []byte) (*http.Response, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("llmclient: build HTTP request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("x-api-key", c.cfg.APIKey)
		httpReq.Header.Set("anthropic-version", anthropicVersion)
		return c.httpClient.Do(httpReq)
	}

	resp, err := c.doWithRetry(ctx, bodyBytes, doOnce)
	if err != nil {
		c.logger.Error("upstream request failed",
			zap.String("operation", operation),
			zap.Error(err),
			zap.Duration("duration", time.Since(start)),
		)
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)

		var errResp messagesResponse
		if uerr := json.Unmarshal(body, &errResp); uerr == nil && errResp.Error != nil {
			c.logger.Error("upstream provider error",
				zap.Int("status", resp.StatusCode),
				zap.String("error_type", errResp.Error.Type),
				zap.String("error_message", errResp.Error.Message),
			)
			return "", fmt.Errorf("llmclient: upstream %d: %s (%s)",
				resp.StatusCode, errResp.Error.Message, errResp.Error.Type)
		}

		c.logger.Error("upstream error",
			zap.Int("status", resp.StatusCode),
			zap.String("body", truncate(string(body), 200)),
		)
		return "", fmt.Errorf("llmclient: upstream %d: %s",
			resp.StatusCode, truncate(string(body), 200))
	}

	var mResp messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&mResp); err != nil {
		return "", fmt.Errorf("llmclient: decode upstream response: %w", err)
	}
	if mResp.Error != nil {
		return "", fmt.Errorf("llmclient: upstream error: %s (%s)", mResp.Error.Message, mResp.Error.Type)
	}

	var sb strings.Builder
	for _, block := range mResp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("llmclient: upstream returned no text content")
	}

	metrics.UpstreamLatencySeconds.WithLabelValues(operation).Observe(time.Since(start).Seconds())

	fields := []zap.Field{
		zap.String("operation", operation),
		zap.String("model", mResp.Model),
		zap.Int("reply_len", len(text)),
		zap.Duration("duration", time.Since(start)),
	}
	if mResp.Usage != nil {
		fields = append(fields,
			zap.Int("input_tokens", mResp.Usage.InputTokens),
			zap.Int("output_tokens", mResp.Usage.OutputTokens),
		)
	}
	c.logger.Info("upstream request completed", fields...)

	return text, nil
}

// truncate limits string length for logging.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
