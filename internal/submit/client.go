// Package submit posts formatted answers to quiz submission endpoints
// and normalizes responses into a uniform outcome shape. Failures of
// any kind become failed outcomes, never errors.
package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"QuizSolver/internal/domain"
	"QuizSolver/internal/ports"
)

// maxPayloadBytes caps the serialized submission body.
const maxPayloadBytes = 1 << 20

// Client implements ports.Submitter over HTTP POST.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
}

var _ ports.Submitter = (*Client)(nil)

// NewClient wires an HTTP client; nil gets a 30s-timeout default.
func NewClient(httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{httpClient: httpClient, logger: logger}
}

// Submit serializes and posts the answer. Oversize payloads are
// rejected locally without a network call.
func (c *Client) Submit(ctx context.Context, submitURL string, creds ports.Credentials, quizURL string, answer domain.Answer) domain.SubmissionOutcome {
	payload := map[string]any{
		"email":  creds.Email,
		"secret": creds.Secret,
		"url":    quizURL,
		"answer": FormatAnswer(answer),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return failed(fmt.Sprintf("marshal payload: %v", err))
	}
	if len(body) > maxPayloadBytes {
		return failed(fmt.Sprintf("payload too large: %d bytes exceeds 1MB limit", len(body)))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, submitURL, bytes.NewReader(body))
	if err != nil {
		return failed(fmt.Sprintf("build request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return failed(fmt.Sprintf("request failed: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return failed(fmt.Sprintf("request failed: endpoint returned %s", resp.Status))
	}

	var parsed struct {
		Correct *bool   `json:"correct"`
		URL     *string `json:"url"`
		Reason  *string `json:"reason"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return failed(fmt.Sprintf("decode response: %v", err))
	}

	outcome := domain.SubmissionOutcome{}
	if parsed.Correct != nil {
		outcome.Correct = *parsed.Correct
	}
	if parsed.URL != nil {
		outcome.NextURL = *parsed.URL
	}
	if parsed.Reason != nil {
		outcome.Reason = *parsed.Reason
	}
	if outcome.Correct && outcome.Reason != "" && c.logger != nil {
		c.logger.Warn("endpoint sent a reason with a correct answer", "reason", outcome.Reason)
	}
	return outcome
}

func failed(reason string) domain.SubmissionOutcome {
	return domain.SubmissionOutcome{Correct: false, Reason: reason}
}

// FormatAnswer converts a typed answer into its wire value. Sequences
// and mappings are walked recursively: non-finite numbers become null
// and unrecognized types are stringified.
func FormatAnswer(a domain.Answer) any {
	switch a.Kind {
	case domain.KindNone:
		return nil
	case domain.KindText:
		return a.Text
	case domain.KindNumber:
		return sanitize(a.Number)
	case domain.KindBool:
		return a.Bool
	case domain.KindRows:
		return a.Rows
	case domain.KindJSON:
		return sanitize(a.JSON)
	default:
		return fmt.Sprintf("%v", a)
	}
}

func sanitize(value any) any {
	switch v := value.(type) {
	case nil, string, bool, int, int64:
		return v
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		return v
	case float32:
		return sanitize(float64(v))
	case map[string]any:
		cleaned := make(map[string]any, len(v))
		for key, item := range v {
			cleaned[key] = sanitize(item)
		}
		return cleaned
	case []any:
		cleaned := make([]any, len(v))
		for i, item := range v {
			cleaned[i] = sanitize(item)
		}
		return cleaned
	default:
		return fmt.Sprintf("%v", v)
	}
}
