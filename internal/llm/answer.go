package llm

import (
	"encoding/json"
	"math"
	"regexp"
	"strings"

	"QuizSolver/internal/domain"
)

var (
	uvLineExpr     = regexp.MustCompile(`uv http get[^\n]+`)
	gitLineExpr    = regexp.MustCompile(`git (?:add|commit)[^\n]+`)
	markdownExpr   = regexp.MustCompile(`/[\w\-/]+\.md`)
	hexColorExpr   = regexp.MustCompile(`#[0-9a-fA-F]{6}`)
	jsonArrayExpr  = regexp.MustCompile(`(?s)\[.*\]`)
	answerObjExpr  = regexp.MustCompile(`(?s)\{[^{}]*"answer".*?\}`)
	floatExpr      = regexp.MustCompile(`-?\d+\.\d+`)
	intExpr        = regexp.MustCompile(`-?\d+`)
	dataURIExpr    = regexp.MustCompile(`data:[^;]+;base64,[A-Za-z0-9+/=]+`)
	quotedExpr     = regexp.MustCompile(`["']([^"']+)["']`)
	urlExpr        = regexp.MustCompile(`https?://[^\s<>"']+`)
	rootedPathExpr = regexp.MustCompile(`/project2/[^\s<>"']+`)
)

var numericKeywords = []string{"sum", "count", "number", "total", "calculate", "value", "amount", "quantity"}

// parseRule is one step of the response-parsing chain: a question
// predicate gating the step, and the parse attempt itself.
type parseRule struct {
	applies func(lowerQuestion string) bool
	parse   func(response string) (domain.Answer, bool)
}

func always(string) bool { return true }

var parseRules = []parseRule{
	{ // full command line(s)
		applies: func(q string) bool { return strings.Contains(q, "command") },
		parse:   parseCommand,
	},
	{ // markdown path
		applies: func(q string) bool {
			return strings.Contains(q, "markdown") || (strings.Contains(q, ".md") && strings.Contains(q, "link"))
		},
		parse: matchText(markdownExpr),
	},
	{ // hex color
		applies: func(q string) bool { return strings.Contains(q, "color") && strings.Contains(q, "hex") },
		parse: func(response string) (domain.Answer, bool) {
			if m := hexColorExpr.FindString(response); m != "" {
				return domain.TextAnswer(strings.ToLower(m)), true
			}
			return domain.Answer{}, false
		},
	},
	{ // top-level JSON array
		applies: func(q string) bool {
			return strings.Contains(q, "normalize") || (strings.Contains(q, "json") && strings.Contains(q, "array"))
		},
		parse: parseJSONArray,
	},
	{ // embedded object with an "answer" field
		applies: always,
		parse:   parseAnswerObject,
	},
	{ // numeric token, gated by numeric question keywords
		applies: func(q string) bool { return containsAnyWord(q, numericKeywords...) },
		parse:   parseNumber,
	},
	{ // boolean by earliest substring position
		applies: always,
		parse:   parseBool,
	},
	{ // base64 data URI
		applies: always,
		parse:   matchText(dataURIExpr),
	},
	{ // quoted substring
		applies: always,
		parse: func(response string) (domain.Answer, bool) {
			if m := quotedExpr.FindStringSubmatch(response); m != nil {
				return domain.TextAnswer(m[1]), true
			}
			return domain.Answer{}, false
		},
	},
	{ // URL
		applies: always,
		parse:   matchText(urlExpr),
	},
	{ // resource-prefix path
		applies: always,
		parse:   matchText(rootedPathExpr),
	},
}

// ParseAnswer extracts a typed answer from free-form model output. The
// parse rules run in strict priority order, first match wins; the
// fallback is the first response line, the whole trimmed response, or
// no answer when empty.
func ParseAnswer(response, question string) domain.Answer {
	response = strings.TrimSpace(response)
	lower := strings.ToLower(question)

	for _, rule := range parseRules {
		if !rule.applies(lower) {
			continue
		}
		if answer, ok := rule.parse(response); ok {
			return answer
		}
	}

	if line, _, found := strings.Cut(response, "\n"); found {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return domain.TextAnswer(trimmed)
		}
	}
	if response != "" {
		return domain.TextAnswer(response)
	}
	return domain.NoAnswer()
}

func matchText(expr *regexp.Regexp) func(string) (domain.Answer, bool) {
	return func(response string) (domain.Answer, bool) {
		if m := expr.FindString(response); m != "" {
			return domain.TextAnswer(m), true
		}
		return domain.Answer{}, false
	}
}

func parseCommand(response string) (domain.Answer, bool) {
	if m := uvLineExpr.FindString(response); m != "" {
		return domain.TextAnswer(strings.TrimSpace(m)), true
	}
	if lines := gitLineExpr.FindAllString(response, 2); len(lines) == 2 {
		return domain.TextAnswer(lines[0] + "\n" + lines[1]), true
	}
	return domain.Answer{}, false
}

func parseJSONArray(response string) (domain.Answer, bool) {
	m := jsonArrayExpr.FindString(response)
	if m == "" {
		return domain.Answer{}, false
	}
	var value []any
	if err := json.Unmarshal([]byte(m), &value); err != nil {
		return domain.Answer{}, false
	}
	return domain.JSONAnswer(value), true
}

func parseAnswerObject(response string) (domain.Answer, bool) {
	m := answerObjExpr.FindString(response)
	if m == "" {
		return domain.Answer{}, false
	}
	var parsed map[string]any
	if err := json.Unmarshal([]byte(m), &parsed); err != nil {
		return domain.Answer{}, false
	}
	value, ok := parsed["answer"]
	if !ok || value == nil {
		return domain.Answer{}, false
	}
	switch v := value.(type) {
	case string:
		return domain.TextAnswer(v), true
	case float64:
		return domain.NumberAnswer(v), true
	case bool:
		return domain.BoolAnswer(v), true
	default:
		return domain.JSONAnswer(v), true
	}
}

func parseNumber(response string) (domain.Answer, bool) {
	for _, expr := range []*regexp.Regexp{floatExpr, intExpr} {
		if m := expr.FindString(response); m != "" {
			var n float64
			if err := json.Unmarshal([]byte(m), &n); err == nil && !math.IsNaN(n) {
				return domain.NumberAnswer(n), true
			}
		}
	}
	return domain.Answer{}, false
}

// parseBool compares the earliest occurrences of "true"/"yes" against
// "false"/"no"; equal or absent positions yield no boolean.
func parseBool(response string) (domain.Answer, bool) {
	lower := strings.ToLower(response)
	truePos := earliest(strings.Index(lower, "true"), strings.Index(lower, "yes"))
	falsePos := earliest(strings.Index(lower, "false"), strings.Index(lower, "no"))

	switch {
	case truePos < 0 && falsePos < 0:
		return domain.Answer{}, false
	case falsePos < 0 || (truePos >= 0 && truePos < falsePos):
		return domain.BoolAnswer(true), true
	case truePos < 0 || falsePos < truePos:
		return domain.BoolAnswer(false), true
	default: // equal positions are ambiguous
		return domain.Answer{}, false
	}
}

func earliest(a, b int) int {
	if a < 0 {
		return b
	}
	if b < 0 {
		return a
	}
	if a < b {
		return a
	}
	return b
}
