// Package llm implements the language-model capability and the generic
// answer pathway built on it: prompt assembly, completion calls with
// model rotation, and free-form response parsing.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"QuizSolver/internal/config"
	"QuizSolver/internal/ports"
)

const systemPrompt = "You are a helpful assistant that solves quiz questions. Answer concisely and accurately. Provide only the answer without explanation unless specifically asked."

// Client talks to a Groq-compatible chat-completions API. Rate-limit
// shaped failures rotate through the configured model list with a
// bounded, jittered retry.
type Client struct {
	endpoint    string
	apiKey      string
	models      []string
	maxAttempts int
	httpClient  *http.Client
	logger      *slog.Logger

	mu      sync.Mutex
	current int
}

var _ ports.Completer = (*Client)(nil)

// NewClient builds a client from configuration. maxAttempts bounds the
// completion retries on rate-limit errors.
func NewClient(cfg config.LLMConfig, maxAttempts int, logger *slog.Logger) *Client {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Client{
		endpoint:    cfg.Endpoint,
		apiKey:      cfg.APIKey,
		models:      cfg.Models,
		maxAttempts: maxAttempts,
		httpClient:  &http.Client{Timeout: 60 * time.Second},
		logger:      logger,
	}
}

// Complete sends the prompt and returns the completion text. Non
// rate-limit errors are returned immediately; rate-limit errors rotate
// the model and retry until the attempt cap.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" || c.endpoint == "" || len(c.models) == 0 {
		return "", fmt.Errorf("llm client misconfigured")
	}

	var lastErr error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := time.Second + time.Duration(rand.Int63n(int64(500*time.Millisecond)))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		text, err := c.complete(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if !isRateLimited(err) {
			return "", err
		}
		c.rotateModel()
	}

	return "", fmt.Errorf("rate limit exceeded after %d attempts: %w", c.maxAttempts, lastErr)
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(map[string]any{
		"model": c.currentModel(),
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": prompt},
		},
		"temperature": 0.1,
		"max_tokens":  500,
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request completion: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("completion error %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode completion: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

func (c *Client) currentModel() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.models[c.current]
}

func (c *Client) rotateModel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = (c.current + 1) % len(c.models)
	if c.logger != nil {
		c.logger.Info("rotated model", "model", c.models[c.current])
	}
}

func isRateLimited(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "rate limit")
}
