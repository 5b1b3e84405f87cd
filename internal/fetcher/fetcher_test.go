package fetcher

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetchExtractsQuestionAndSubmitURL(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `<html><body>
			<div id="result">What is 2+2? Submit to https://x.test/submit</div>
		</body></html>`)
	}))
	defer server.Close()

	f := New(server.Client(), nil)
	page, err := f.Fetch(context.Background(), server.URL+"/q1")
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}

	if !strings.Contains(page.Question, "What is 2+2?") {
		t.Fatalf("unexpected question: %q", page.Question)
	}
	if page.SubmitURL != "https://x.test/submit" {
		t.Fatalf("unexpected submit url: %q", page.SubmitURL)
	}
}

func TestFetchRelativeSubmitURL(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `<html><body>
			<div id="result">Answer this question and POST to "/submit?id=4"</div>
		</body></html>`)
	}))
	defer server.Close()

	f := New(server.Client(), nil)
	page, err := f.Fetch(context.Background(), server.URL+"/quiz/q4")
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}

	if page.SubmitURL != server.URL+"/submit?id=4" {
		t.Fatalf("unexpected submit url: %q", page.SubmitURL)
	}
}

func TestFetchBase64ScriptQuestion(t *testing.T) {
	t.Parallel()

	encoded := base64.StdEncoding.EncodeToString(
		[]byte("Decode me: what is the answer? Post to https://x.test/submit"))
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprintf(w, `<html><body>
			<div id="result"></div>
			<script>document.getElementById("result").innerText = atob("%s");</script>
		</body></html>`, encoded)
	}))
	defer server.Close()

	f := New(server.Client(), nil)
	page, err := f.Fetch(context.Background(), server.URL+"/q2")
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}

	if !strings.Contains(page.Question, "Decode me: what is the answer?") {
		t.Fatalf("unexpected question: %q", page.Question)
	}
	if page.SubmitURL != "https://x.test/submit" {
		t.Fatalf("unexpected submit url: %q", page.SubmitURL)
	}
}

func TestFetchProject2SubmitFallback(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `<html><body>
			<div id="result">Normalize the CSV at /project2/data.csv and send it back</div>
		</body></html>`)
	}))
	defer server.Close()

	f := New(server.Client(), nil)
	page, err := f.Fetch(context.Background(), server.URL+"/project2/q3")
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}

	if page.SubmitURL != server.URL+"/submit" {
		t.Fatalf("unexpected submit url: %q", page.SubmitURL)
	}
}

func TestFetchNon200(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f := New(server.Client(), nil)
	if _, err := f.Fetch(context.Background(), server.URL+"/missing"); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestCleanText(t *testing.T) {
	t.Parallel()

	in := "<p>Line one<br/>Line   two</p><script>evil()</script>"
	got := cleanText(in)
	if got != "Line one Line two" {
		t.Fatalf("unexpected cleaned text: %q", got)
	}
}

func TestDownloaderStatusGuard(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ok" {
			_, _ = w.Write([]byte("payload"))
			return
		}
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	d := NewDownloader(server.Client())
	content, err := d.Download(context.Background(), server.URL+"/ok")
	if err != nil {
		t.Fatalf("Download error: %v", err)
	}
	if string(content) != "payload" {
		t.Fatalf("unexpected content: %q", content)
	}

	if _, err := d.Download(context.Background(), server.URL+"/denied"); err == nil {
		t.Fatal("expected error for non-200 download")
	}
}
