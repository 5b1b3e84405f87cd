// Package classify assigns a task category to raw question text via an
// ordered list of pattern rules. The first matching rule wins, so rule
// order encodes priority; overlapping keyword matches are resolved by
// list position alone.
package classify

import (
	"regexp"
	"strings"

	"QuizSolver/internal/domain"
)

var (
	audioPathExpr = regexp.MustCompile(`(/[\w\-/]+\.(?:opus|mp3|wav))`)
	imagePathExpr = regexp.MustCompile(`(/[\w\-/]+\.(?:png|jpg|jpeg))`)
	csvPathExpr   = regexp.MustCompile(`(/[\w\-/]+\.csv)`)
	pdfPathExpr   = regexp.MustCompile(`(/[\w\-/]+\.pdf)`)
	prefixExpr    = regexp.MustCompile(`(?i)prefix\s+["']([^"']+)["']`)
)

// rule pairs a category predicate with the parameter extraction that
// runs when the predicate matches.
type rule struct {
	category domain.Category
	match    func(lower string) bool
	build    func(question, lower string, task *domain.TaskDescriptor)
}

var rules = []rule{
	{
		category: domain.CategoryCommand,
		match:    func(lower string) bool { return strings.Contains(lower, "command") },
		build: func(question, lower string, task *domain.TaskDescriptor) {
			if strings.Contains(lower, "uv http get") {
				task.Params[domain.ParamCommandType] = domain.CommandUVHTTP
			} else if strings.Contains(lower, "git") {
				task.Params[domain.ParamCommandType] = domain.CommandGit
			}
		},
	},
	{
		category: domain.CategoryMarkdownLink,
		match: func(lower string) bool {
			return strings.Contains(lower, "markdown") ||
				(strings.Contains(lower, ".md") && strings.Contains(lower, "link"))
		},
	},
	{
		category: domain.CategoryAudio,
		match: func(lower string) bool {
			if strings.Contains(lower, "audio") {
				return true
			}
			for _, ext := range []string{".opus", ".mp3", ".wav"} {
				if strings.Contains(lower, ext) {
					return true
				}
			}
			return false
		},
		build: func(question, lower string, task *domain.TaskDescriptor) {
			task.NeedsData = true
			if m := audioPathExpr.FindString(question); m != "" {
				task.Params[domain.ParamFilePath] = m
			}
		},
	},
	{
		category: domain.CategoryImageColor,
		match: func(lower string) bool {
			return (strings.Contains(lower, "heatmap") || strings.Contains(lower, ".png")) &&
				strings.Contains(lower, "color")
		},
		build: func(question, lower string, task *domain.TaskDescriptor) {
			task.NeedsData = true
			if m := imagePathExpr.FindString(question); m != "" {
				task.Params[domain.ParamFilePath] = m
			}
		},
	},
	{
		category: domain.CategoryCSVNormalize,
		match: func(lower string) bool {
			return strings.Contains(lower, "normalize") && strings.Contains(lower, "csv")
		},
		build: func(question, lower string, task *domain.TaskDescriptor) {
			task.NeedsData = true
			if m := csvPathExpr.FindString(question); m != "" {
				task.Params[domain.ParamFilePath] = m
			}
		},
	},
	{
		category: domain.CategoryPDFInvoice,
		match: func(lower string) bool {
			return strings.Contains(lower, "invoice") && strings.Contains(lower, "pdf")
		},
		build: func(question, lower string, task *domain.TaskDescriptor) {
			task.NeedsData = true
			if m := pdfPathExpr.FindString(question); m != "" {
				task.Params[domain.ParamFilePath] = m
			}
		},
	},
	{
		category: domain.CategoryGithubTree,
		match: func(lower string) bool {
			return strings.Contains(lower, "github api") || strings.Contains(lower, "api.github.com")
		},
		build: func(question, lower string, task *domain.TaskDescriptor) {
			task.NeedsData = true
			if m := prefixExpr.FindStringSubmatch(question); m != nil {
				task.Params[domain.ParamPrefix] = m[1]
			}
		},
	},
	{
		category: domain.CategoryFileFetch,
		match: func(lower string) bool {
			return strings.Contains(lower, "download") || strings.Contains(lower, "csv")
		},
		build: func(question, lower string, task *domain.TaskDescriptor) {
			task.NeedsData = true
		},
	},
}

// Classify inspects question text and returns a TaskDescriptor. It is
// a pure function over text, never fails, and falls back to the
// unclassified category when no rule matches.
func Classify(question string) domain.TaskDescriptor {
	lower := strings.ToLower(question)

	task := domain.TaskDescriptor{
		Category: domain.CategoryUnclassified,
		Params:   map[string]string{},
	}

	for _, r := range rules {
		if r.match(lower) {
			task.Category = r.category
			if r.build != nil {
				r.build(question, lower, &task)
			}
			break
		}
	}

	// The operation hint is independent of the category and may be set
	// even for unclassified questions.
	switch {
	case strings.Contains(lower, "sum"):
		task.Params[domain.ParamOperation] = "sum"
	case strings.Contains(lower, "count"):
		task.Params[domain.ParamOperation] = "count"
	case strings.Contains(lower, "calculate"):
		task.Params[domain.ParamOperation] = "calculate"
	}

	return task
}
