package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"QuizSolver/internal/domain"
)

var githubAPIExpr = regexp.MustCompile(`https?://api\.github\.com/repos/[^\s<>"']+`)

// GithubTreeExtractor calls the GitHub tree API named in the question
// and counts markdown entries, adjusted by the email-length parity
// offset.
type GithubTreeExtractor struct {
	client *http.Client
	email  string
	logger *slog.Logger
}

// NewGithubTreeExtractor wires an HTTP client; nil gets a 30s-timeout
// default.
func NewGithubTreeExtractor(client *http.Client, email string, logger *slog.Logger) *GithubTreeExtractor {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &GithubTreeExtractor{client: client, email: email, logger: logger}
}

func (e *GithubTreeExtractor) Category() domain.Category { return domain.CategoryGithubTree }

func (e *GithubTreeExtractor) Extract(ctx context.Context, task domain.TaskDescriptor, page domain.QuizPage) (domain.AnswerResult, bool) {
	apiURL := githubAPIExpr.FindString(page.Question)
	if apiURL == "" {
		return domain.AnswerResult{}, false
	}

	tree, err := e.fetchTree(ctx, apiURL)
	if err != nil {
		e.warn("github tree fetch failed", "url", apiURL, "error", err)
		return domain.AnswerResult{}, false
	}

	prefix := task.Param(domain.ParamPrefix)
	count := 0
	for _, entry := range tree {
		if !strings.HasSuffix(entry.Path, ".md") {
			continue
		}
		if prefix != "" && !strings.HasPrefix(entry.Path, prefix) {
			continue
		}
		count++
	}

	count += len(e.email) % 2
	reason := fmt.Sprintf("github tree processed, %d markdown entries after parity offset", count)
	return domain.AnswerResult{Answer: domain.NumberAnswer(float64(count)), Reasoning: reason}, true
}

type treeEntry struct {
	Path string `json:"path"`
}

func (e *GithubTreeExtractor) fetchTree(ctx context.Context, apiURL string) ([]treeEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "QuizSolver/1.0")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request tree: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github returned %s", resp.Status)
	}

	var payload struct {
		Tree []treeEntry `json:"tree"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode tree: %w", err)
	}
	return payload.Tree, nil
}

func (e *GithubTreeExtractor) warn(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Warn(msg, args...)
	}
}
