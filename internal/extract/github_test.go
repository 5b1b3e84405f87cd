package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"QuizSolver/internal/domain"
)

func TestGithubTreeCount(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "application/vnd.github.v3+json" {
			t.Errorf("unexpected Accept header: %s", got)
		}
		_, _ = w.Write([]byte(`{"tree":[
			{"path":"docs/a.md"},
			{"path":"docs/b.md"},
			{"path":"src/main.go"},
			{"path":"README.md"}
		]}`))
	}))
	defer server.Close()

	// Route api.github.com requests to the test server.
	client := &http.Client{Transport: rewriteHost{target: server}}

	e := NewGithubTreeExtractor(client, "ab@c.de", nil)
	task := domain.TaskDescriptor{
		Category: domain.CategoryGithubTree,
		Params:   map[string]string{domain.ParamPrefix: "docs/"},
	}
	page := domain.QuizPage{
		Question: `Count markdown files with prefix "docs/" using https://api.github.com/repos/org/repo/git/trees/main`,
	}

	result, ok := e.Extract(context.Background(), task, page)
	if !ok {
		t.Fatal("expected extraction to succeed")
	}
	// Two docs/*.md entries, even email length keeps the parity offset
	// at zero.
	if result.Answer.Number != 2 {
		t.Fatalf("unexpected count: %v", result.Answer.Number)
	}
}

type rewriteHost struct {
	target *httptest.Server
}

func (rt rewriteHost) RoundTrip(req *http.Request) (*http.Response, error) {
	rewritten := req.Clone(req.Context())
	targetURL, err := url.Parse(rt.target.URL)
	if err != nil {
		return nil, err
	}
	rewritten.URL.Scheme = targetURL.Scheme
	rewritten.URL.Host = targetURL.Host
	return rt.target.Client().Transport.RoundTrip(rewritten)
}

func TestGithubTreeParityOffset(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tree":[{"path":"a.md"},{"path":"b.md"},{"path":"c.md"}]}`))
	}))
	defer server.Close()

	client := &http.Client{Transport: rewriteHost{target: server}}

	// Odd-length email adds one to the markdown count.
	e := NewGithubTreeExtractor(client, "a@b.c", nil)
	task := domain.TaskDescriptor{Category: domain.CategoryGithubTree, Params: map[string]string{}}
	page := domain.QuizPage{
		Question: "Count markdown files using https://api.github.com/repos/org/repo/git/trees/main",
	}

	result, ok := e.Extract(context.Background(), task, page)
	if !ok {
		t.Fatal("expected extraction to succeed")
	}
	if result.Answer.Number != 4 {
		t.Fatalf("unexpected count: %v", result.Answer.Number)
	}
}

func TestGithubTreeNoAPIURL(t *testing.T) {
	t.Parallel()

	e := NewGithubTreeExtractor(nil, "a@b.c", nil)
	task := domain.TaskDescriptor{Category: domain.CategoryGithubTree, Params: map[string]string{}}
	page := domain.QuizPage{Question: "Count the markdown files somewhere"}

	if _, ok := e.Extract(context.Background(), task, page); ok {
		t.Fatal("expected extraction to fall through without an API URL")
	}
}

func TestMarkdownLinkPrefersRootedPath(t *testing.T) {
	t.Parallel()

	page := domain.QuizPage{
		Question: "Links: /other/readme.md and /project2/docs/guide.md - pick the markdown one",
	}
	result, ok := MarkdownLinkExtractor{}.Extract(context.Background(), domain.TaskDescriptor{}, page)
	if !ok {
		t.Fatal("expected extraction to succeed")
	}
	if result.Answer.Text != "/project2/docs/guide.md" {
		t.Fatalf("unexpected markdown path: %s", result.Answer.Text)
	}
}

func TestMarkdownLinkFallbackPath(t *testing.T) {
	t.Parallel()

	page := domain.QuizPage{Question: "The markdown link is /files/notes.md"}
	result, ok := MarkdownLinkExtractor{}.Extract(context.Background(), domain.TaskDescriptor{}, page)
	if !ok {
		t.Fatal("expected extraction to succeed")
	}
	if result.Answer.Text != "/files/notes.md" {
		t.Fatalf("unexpected markdown path: %s", result.Answer.Text)
	}
}

func TestAudioResolveURL(t *testing.T) {
	t.Parallel()

	task := domain.TaskDescriptor{
		Category: domain.CategoryAudio,
		Params:   map[string]string{domain.ParamFilePath: "/project2/clip.opus"},
	}
	page := domain.QuizPage{URL: "https://x.test/project2/q5"}

	got := AudioExtractor{}.ResolveURL(task, page)
	if got != "https://x.test/project2/clip.opus" {
		t.Fatalf("unexpected audio URL: %s", got)
	}

	if got := (AudioExtractor{}).ResolveURL(domain.TaskDescriptor{}, page); got != "" {
		t.Fatalf("expected empty URL without a file path, got %s", got)
	}
}
