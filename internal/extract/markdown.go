package extract

import (
	"context"
	"regexp"

	"QuizSolver/internal/domain"
)

var (
	rootedMarkdownExpr = regexp.MustCompile(`(/project2/[\w\-/]+\.md)`)
	anyMarkdownExpr    = regexp.MustCompile(`(/[\w\-/]+\.md)`)
)

// MarkdownLinkExtractor answers with the first markdown path found in
// the question, preferring paths rooted under the resource prefix.
type MarkdownLinkExtractor struct{}

func (MarkdownLinkExtractor) Category() domain.Category { return domain.CategoryMarkdownLink }

func (MarkdownLinkExtractor) Extract(ctx context.Context, task domain.TaskDescriptor, page domain.QuizPage) (domain.AnswerResult, bool) {
	if m := rootedMarkdownExpr.FindString(page.Question); m != "" {
		return domain.AnswerResult{Answer: domain.TextAnswer(m), Reasoning: "markdown link extracted"}, true
	}
	if m := anyMarkdownExpr.FindString(page.Question); m != "" {
		return domain.AnswerResult{Answer: domain.TextAnswer(m), Reasoning: "markdown link extracted"}, true
	}
	return domain.AnswerResult{}, false
}
