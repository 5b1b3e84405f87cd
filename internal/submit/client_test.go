package submit

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"QuizSolver/internal/domain"
	"QuizSolver/internal/ports"
)

func TestSubmitCorrectResponse(t *testing.T) {
	t.Parallel()

	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"correct": true, "url": "https://x.test/next"}`))
	}))
	defer server.Close()

	c := NewClient(server.Client(), nil)
	creds := ports.Credentials{Email: "a@b.com", Secret: "s3cret"}
	outcome := c.Submit(context.Background(), server.URL, creds, "https://x.test/q1", domain.TextAnswer("hello"))

	if !outcome.Correct {
		t.Fatalf("expected correct outcome, got %+v", outcome)
	}
	if outcome.NextURL != "https://x.test/next" {
		t.Fatalf("unexpected next url: %s", outcome.NextURL)
	}
	if received["email"] != "a@b.com" || received["secret"] != "s3cret" || received["answer"] != "hello" {
		t.Fatalf("unexpected payload: %+v", received)
	}
}

func TestSubmitMissingFieldsNormalized(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := NewClient(server.Client(), nil)
	outcome := c.Submit(context.Background(), server.URL, ports.Credentials{}, "https://x.test/q", domain.BoolAnswer(true))

	if outcome.Correct || outcome.NextURL != "" || outcome.Reason != "" {
		t.Fatalf("expected zero-value outcome, got %+v", outcome)
	}
}

func TestSubmitOversizePayloadNoNetworkCall(t *testing.T) {
	t.Parallel()

	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	c := NewClient(server.Client(), nil)
	big := domain.TextAnswer(strings.Repeat("x", maxPayloadBytes+1))
	outcome := c.Submit(context.Background(), server.URL, ports.Credentials{}, "https://x.test/q", big)

	if outcome.Correct {
		t.Fatal("oversize payload must not be accepted")
	}
	if !strings.Contains(outcome.Reason, "payload too large") {
		t.Fatalf("unexpected reason: %s", outcome.Reason)
	}
	if calls != 0 {
		t.Fatalf("expected zero network calls, got %d", calls)
	}
}

func TestSubmitTransportFailure(t *testing.T) {
	t.Parallel()

	c := NewClient(&http.Client{}, nil)
	outcome := c.Submit(context.Background(), "http://127.0.0.1:1/submit", ports.Credentials{}, "https://x.test/q", domain.TextAnswer("a"))

	if outcome.Correct {
		t.Fatal("transport failure must not be a correct outcome")
	}
	if !strings.Contains(outcome.Reason, "request failed") {
		t.Fatalf("unexpected reason: %s", outcome.Reason)
	}
}

func TestSubmitNon2xxStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := NewClient(server.Client(), nil)
	outcome := c.Submit(context.Background(), server.URL, ports.Credentials{}, "https://x.test/q", domain.TextAnswer("a"))

	if outcome.Correct || !strings.Contains(outcome.Reason, "502") {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
}

func TestFormatAnswer(t *testing.T) {
	t.Parallel()

	if got := FormatAnswer(domain.NoAnswer()); got != nil {
		t.Fatalf("expected nil for no answer, got %v", got)
	}
	if got := FormatAnswer(domain.NumberAnswer(2.5)); got != 2.5 {
		t.Fatalf("unexpected number: %v", got)
	}
	if got := FormatAnswer(domain.NumberAnswer(math.NaN())); got != nil {
		t.Fatalf("NaN must serialize as nil, got %v", got)
	}

	rows := []domain.Row{{ID: 1, Name: "A", Joined: "2021-01-01", Value: 3}}
	if got := FormatAnswer(domain.RowsAnswer(rows)); !reflect.DeepEqual(got, rows) {
		t.Fatalf("unexpected rows: %v", got)
	}
}

func TestSanitizeRecursive(t *testing.T) {
	t.Parallel()

	value := map[string]any{
		"ok":  1.5,
		"bad": math.Inf(1),
		"seq": []any{math.NaN(), "x"},
	}

	got, ok := sanitize(value).(map[string]any)
	if !ok {
		t.Fatalf("expected map, got %T", got)
	}
	if got["bad"] != nil {
		t.Fatalf("Inf must become nil, got %v", got["bad"])
	}
	seq := got["seq"].([]any)
	if seq[0] != nil || seq[1] != "x" {
		t.Fatalf("unexpected sequence: %v", seq)
	}
}
