package domain

import "time"

// Category is the closed set of task labels produced by the classifier.
type Category string

const (
	CategoryCommand      Category = "command"
	CategoryMarkdownLink Category = "markdown_link"
	CategoryAudio        Category = "audio_transcription"
	CategoryImageColor   Category = "image_dominant_color"
	CategoryCSVNormalize Category = "csv_normalization"
	CategoryPDFInvoice   Category = "pdf_invoice"
	CategoryGithubTree   Category = "github_tree_count"
	CategoryFileFetch    Category = "generic_file_fetch"
	CategoryUnclassified Category = "unclassified"
)

// Command sub-types carried in ParamCommandType.
const (
	CommandUVHTTP = "uv_http"
	CommandGit    = "git"
)

// Parameter keys recognized on a TaskDescriptor.
const (
	ParamFilePath    = "file_path"
	ParamOperation   = "operation"
	ParamCommandType = "command_type"
	ParamPrefix      = "prefix"
)

// TaskDescriptor is the classifier output for one question.
type TaskDescriptor struct {
	Category  Category
	Params    map[string]string
	NeedsData bool
}

// Param returns the named parameter or the empty string.
func (t TaskDescriptor) Param(key string) string {
	if t.Params == nil {
		return ""
	}
	return t.Params[key]
}

// QuizPage is the result of fetching one quiz URL. Created once per
// fetch and discarded after the cycle that produced it.
type QuizPage struct {
	URL       string
	HTML      string
	Question  string
	SubmitURL string
}

// AnswerKind discriminates the shapes an answer value can take.
type AnswerKind int

const (
	KindNone AnswerKind = iota
	KindText
	KindNumber
	KindBool
	KindRows
	KindJSON
)

// Row is one normalized tabular record with the canonical column order.
type Row struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Joined string `json:"joined"`
	Value  int    `json:"value"`
}

// Answer is a tagged union over the value shapes a question can
// produce. Only the field matching Kind is meaningful.
type Answer struct {
	Kind   AnswerKind
	Text   string
	Number float64
	Bool   bool
	Rows   []Row
	JSON   any
}

func NoAnswer() Answer              { return Answer{Kind: KindNone} }
func TextAnswer(s string) Answer    { return Answer{Kind: KindText, Text: s} }
func NumberAnswer(n float64) Answer { return Answer{Kind: KindNumber, Number: n} }
func BoolAnswer(b bool) Answer      { return Answer{Kind: KindBool, Bool: b} }
func RowsAnswer(rows []Row) Answer  { return Answer{Kind: KindRows, Rows: rows} }
func JSONAnswer(v any) Answer       { return Answer{Kind: KindJSON, JSON: v} }

// IsNone reports whether no answer could be determined.
func (a Answer) IsNone() bool { return a.Kind == KindNone }

// AnswerResult pairs an answer with its justification. A KindNone
// answer must carry a non-empty Reasoning.
type AnswerResult struct {
	Answer    Answer
	Reasoning string
}

// SubmissionOutcome is the normalized response of the submit endpoint.
// Missing fields are normalized to false/"" by the submission client.
type SubmissionOutcome struct {
	Correct bool
	NextURL string
	Reason  string
}

// SessionState labels the terminal (or running) condition of a session.
type SessionState string

const (
	SessionRunning SessionState = "running"
	SessionDone    SessionState = "done"
	SessionFailed  SessionState = "failed"
)

// SessionRecord is the persisted snapshot of an accepted quiz session.
type SessionRecord struct {
	ID        string
	Email     string
	StartURL  string
	StartedAt time.Time
}
