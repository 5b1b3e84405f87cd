// Package fetcher implements the page-fetcher capability over plain
// HTTP plus DOM extraction: it renders a quiz URL into question text
// and a resolved submission URL.
package fetcher

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"QuizSolver/internal/domain"
	"QuizSolver/internal/ports"
)

const userAgent = "QuizSolver/1.0"

var (
	atobExpr        = regexp.MustCompile("atob\\(['\"`]([^'\"`]+)['\"`]\\)")
	submitURLExpr   = regexp.MustCompile("https?://[^\\s<>\"'`]+/submit[^\\s<>\"'`]*")
	relSubmitExpr   = regexp.MustCompile("[\"']?/submit[^\\s<>\"'`]*[\"']?")
	scriptBlockExpr = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	brExpr          = regexp.MustCompile(`(?i)<br\s*/?>`)
	tagExpr         = regexp.MustCompile(`<[^>]+>`)
)

// HTTPFetcher fetches quiz pages and extracts their question payload.
type HTTPFetcher struct {
	client *http.Client
	logger *slog.Logger
}

var _ ports.PageFetcher = (*HTTPFetcher)(nil)

// New wires an HTTP client; nil gets a 30s-timeout default.
func New(client *http.Client, logger *slog.Logger) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPFetcher{client: client, logger: logger}
}

// Fetch retrieves the page and extracts the question text and submit
// URL, applying the base64 script fallback when the DOM carries no
// readable question.
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) (domain.QuizPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return domain.QuizPage{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return domain.QuizPage{}, fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.QuizPage{}, fmt.Errorf("page returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.QuizPage{}, fmt.Errorf("read page: %w", err)
	}
	html := string(body)

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return domain.QuizPage{}, fmt.Errorf("parse page: %w", err)
	}

	question := extractQuestion(doc)
	submitURL := extractSubmitURL(doc, html, question, pageURL)

	// Pages under the known resource prefix use a fixed submit route.
	if submitURL == "" && strings.Contains(pageURL, "/project2") {
		if parsed, err := url.Parse(pageURL); err == nil {
			submitURL = fmt.Sprintf("%s://%s/submit", parsed.Scheme, parsed.Host)
		}
	}
	if submitURL != "" && !strings.HasPrefix(submitURL, "http") {
		submitURL = joinURL(pageURL, submitURL)
	}

	return domain.QuizPage{
		URL:       pageURL,
		HTML:      html,
		Question:  question,
		SubmitURL: submitURL,
	}, nil
}

// Close releases idle connections. The fetcher itself is stateless;
// the method exists so sessions can release whatever fetcher variant
// they own exactly once.
func (f *HTTPFetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}

func extractQuestion(doc *goquery.Document) string {
	question := ""

	result := doc.Find("#result").First()
	if result.Length() > 0 {
		question = strings.TrimSpace(result.Text())
		if len(question) < 10 {
			if inner, err := result.Html(); err == nil {
				question = inner
			}
		}
	}

	// Some pages hide the question inside inline script logic behind a
	// reversible base64 encoding.
	if len(question) < 20 {
		doc.Find("script").EachWithBreak(func(i int, s *goquery.Selection) bool {
			text := s.Text()
			if !strings.Contains(text, "atob") {
				return true
			}
			for _, m := range atobExpr.FindAllStringSubmatch(text, -1) {
				if decoded, err := base64.StdEncoding.DecodeString(m[1]); err == nil {
					question = string(decoded)
					return false
				}
			}
			return true
		})
	}

	if len(question) < 10 {
		for _, selector := range []string{".question", ".quiz-question", "body"} {
			text := strings.TrimSpace(doc.Find(selector).First().Text())
			if len(text) > 10 {
				question = text
				break
			}
		}
	}

	return cleanText(question)
}

func extractSubmitURL(doc *goquery.Document, html, question, baseURL string) string {
	if question != "" {
		if m := submitURLExpr.FindString(question); m != "" {
			return m
		}
		if m := relSubmitExpr.FindString(question); m != "" {
			return joinURL(baseURL, strings.Trim(m, `"'`))
		}
	}

	result := doc.Find("#result").First()
	if result.Length() > 0 {
		inner, _ := result.Html()
		for _, text := range []string{inner, result.Text()} {
			if m := submitURLExpr.FindString(text); m != "" {
				return m
			}
		}
	}

	return submitURLExpr.FindString(html)
}

func cleanText(s string) string {
	if s == "" {
		return ""
	}
	s = scriptBlockExpr.ReplaceAllString(s, "")
	s = brExpr.ReplaceAllString(s, "\n")
	s = tagExpr.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

func joinURL(base, ref string) string {
	baseParsed, err := url.Parse(base)
	if err != nil {
		return ref
	}
	refParsed, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return baseParsed.ResolveReference(refParsed).String()
}
