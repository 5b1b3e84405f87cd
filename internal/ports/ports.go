package ports

import (
	"context"

	"QuizSolver/internal/domain"
)

// Credentials identify the account a session solves for.
type Credentials struct {
	Email  string
	Secret string
}

// PageFetcher renders a quiz URL into question text and a submit URL.
type PageFetcher interface {
	Fetch(ctx context.Context, pageURL string) (domain.QuizPage, error)
	Close() error
}

// Downloader fetches auxiliary resource bytes (CSV, PDF, images).
type Downloader interface {
	Download(ctx context.Context, fileURL string) ([]byte, error)
}

// Completer is the language-model capability: prompt in, text out.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Answerer derives an answer for a classified question. It never
// returns an error; failures degrade to a KindNone answer with a
// reasoning string.
type Answerer interface {
	Answer(ctx context.Context, task domain.TaskDescriptor, page domain.QuizPage) domain.AnswerResult
}

// Submitter posts an answer and normalizes the endpoint response.
// Transport failures become failed outcomes, never errors.
type Submitter interface {
	Submit(ctx context.Context, submitURL string, creds Credentials, quizURL string, answer domain.Answer) domain.SubmissionOutcome
}

// ResultStore persists accepted sessions and their terminal outcomes.
type ResultStore interface {
	SaveAccepted(ctx context.Context, rec domain.SessionRecord) error
	SaveOutcome(ctx context.Context, id string, state domain.SessionState, solved int, errText string) error
	Close() error
}
