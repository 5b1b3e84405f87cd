// Package usecase implements the quiz-solving workflow: a bounded loop
// that fetches a question page, derives an answer, submits it, and
// either retries with server feedback or advances to the next question.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"QuizSolver/internal/classify"
	"QuizSolver/internal/domain"
	"QuizSolver/internal/ports"
	"QuizSolver/internal/session"
)

// Phase labels the step the loop is executing. Exposed for logging and
// tests; the loop always moves forward through phases within one cycle.
type Phase string

const (
	PhaseFetching    Phase = "fetching"
	PhaseClassifying Phase = "classifying"
	PhaseAnswering   Phase = "answering"
	PhaseSubmitting  Phase = "submitting"
	PhaseRetrying    Phase = "retrying"
	PhaseAdvancing   Phase = "advancing"
	PhaseDone        Phase = "done"
	PhaseFailed      Phase = "failed"
)

// maxAttempts caps submissions for a single question so a question that
// keeps rejecting answers cannot loop forever. The counter resets when
// the session advances to a new URL.
const maxAttempts = 50

// feedbackPrefix is how server rejection reasons are folded into the
// question text on retry.
const feedbackPrefix = "\nPrevious attempt feedback: "

// LoopDeps wires all driven adapters into the solving loop.
type LoopDeps struct {
	Sessions  *session.Manager
	Answerer  ports.Answerer
	Submitter ports.Submitter
	Store     ports.ResultStore
	Timeout   time.Duration
	Logger    *slog.Logger
}

// Loop drives one session from its start URL to a terminal state.
type Loop struct {
	sessions  *session.Manager
	answerer  ports.Answerer
	submitter ports.Submitter
	store     ports.ResultStore
	timeout   time.Duration
	logger    *slog.Logger
}

// Outcome is the terminal result of a session run.
type Outcome struct {
	State  domain.SessionState
	Solved int
	Err    string
}

// NewLoop constructs the orchestration component.
func NewLoop(deps LoopDeps) *Loop {
	return &Loop{
		sessions:  deps.Sessions,
		answerer:  deps.Answerer,
		submitter: deps.Submitter,
		store:     deps.Store,
		timeout:   deps.Timeout,
		logger:    deps.Logger,
	}
}

// Run solves the session's question chain until success, failure, the
// attempt ceiling, or deadline expiry. The session is always removed
// from the registry (closing its fetcher) and its terminal outcome is
// always persisted, on every exit path.
func (l *Loop) Run(ctx context.Context, s *session.Session) Outcome {
	outcome := Outcome{State: domain.SessionFailed}

	defer func() {
		l.sessions.Remove(s.ID)
		if l.store != nil {
			if err := l.store.SaveOutcome(ctx, s.ID, outcome.State, outcome.Solved, outcome.Err); err != nil {
				l.log().Error("persist session outcome", "session_id", s.ID, "error", err)
			}
		}
		l.log().Info("session finished",
			"session_id", s.ID,
			"state", outcome.State,
			"solved", outcome.Solved,
			"error", outcome.Err)
	}()

	deadline := s.StartedAt.Add(l.timeout)
	creds := s.Credentials()

questions:
	for {
		if err := l.checkBounds(ctx, deadline); err != nil {
			outcome.Err = err.Error()
			return outcome
		}

		fetcher := s.Fetcher()
		if fetcher == nil {
			outcome.Err = "session closed"
			return outcome
		}

		l.logPhase(s, PhaseFetching)
		page, err := fetcher.Fetch(ctx, s.CurrentURL())
		if err != nil {
			outcome.Err = fmt.Sprintf("fetch %s: %v", s.CurrentURL(), err)
			return outcome
		}
		if page.SubmitURL == "" {
			outcome.Err = "no submit URL found on page " + s.CurrentURL()
			return outcome
		}

		l.logPhase(s, PhaseClassifying)
		task := classify.Classify(page.Question)
		l.log().Info("question classified",
			"session_id", s.ID,
			"category", task.Category,
			"url", s.CurrentURL())

		// Retries re-answer the page fetched above with the same task.
		// Only advancing to a new URL returns to the fetch phase.
		for attempts := 0; ; attempts++ {
			if err := l.checkBounds(ctx, deadline); err != nil {
				outcome.Err = err.Error()
				return outcome
			}
			if attempts >= maxAttempts {
				outcome.Err = fmt.Sprintf("attempt ceiling reached (%d submissions)", maxAttempts)
				return outcome
			}

			l.logPhase(s, PhaseAnswering)
			result := l.answerer.Answer(ctx, task, page)
			if result.Answer.IsNone() {
				outcome.Err = "no answer derived: " + result.Reasoning
				return outcome
			}

			if err := l.checkBounds(ctx, deadline); err != nil {
				outcome.Err = err.Error()
				return outcome
			}

			l.logPhase(s, PhaseSubmitting)
			sub := l.submitter.Submit(ctx, page.SubmitURL, creds, s.CurrentURL(), result.Answer)

			switch {
			case sub.Correct:
				outcome.Solved++
				if sub.NextURL == "" {
					l.logPhase(s, PhaseDone)
					outcome.State = domain.SessionDone
					outcome.Err = ""
					return outcome
				}
				l.logPhase(s, PhaseAdvancing)
				s.Advance(sub.NextURL)
				continue questions

			case sub.NextURL != "" && sub.NextURL != s.CurrentURL():
				// Some endpoints reject the answer but still hand out a new
				// URL. Moving on beats burning retries on a lost question.
				l.logPhase(s, PhaseAdvancing)
				s.Advance(sub.NextURL)
				continue questions

			default:
				l.logPhase(s, PhaseRetrying)
				reason := sub.Reason
				if reason == "" {
					reason = "answer was not accepted"
				}
				// Rejection reasons accumulate on the cached question so
				// every retry sees the full correction history.
				page.Question += feedbackPrefix + reason
				l.log().Info("retrying question",
					"session_id", s.ID,
					"attempt", attempts+1,
					"reason", reason)
			}
		}
	}
}

// checkBounds enforces the deadline and context cancellation between
// phases.
func (l *Loop) checkBounds(ctx context.Context, deadline time.Time) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("session canceled: %w", err)
	}
	if !time.Now().Before(deadline) {
		return fmt.Errorf("timeout after %s", l.timeout)
	}
	return nil
}

func (l *Loop) logPhase(s *session.Session, phase Phase) {
	l.log().Debug("phase", "session_id", s.ID, "phase", string(phase))
}

func (l *Loop) log() *slog.Logger {
	if l.logger != nil {
		return l.logger
	}
	return slog.Default()
}
