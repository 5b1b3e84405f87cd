package extract

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"QuizSolver/internal/domain"
)

var (
	jsonURLExpr     = regexp.MustCompile(`https?://[^\s<>"']+\.json[^\s<>"']*`)
	uvJSONURLExpr   = regexp.MustCompile(`https?://[^\s<>"']+/project2/uv\.json[^\s<>"']*`)
	emailParamExpr  = regexp.MustCompile(`email=[^&]*`)
	placeholderExpr = regexp.MustCompile(`(?i)<your email>`)

	stageFileExpr = regexp.MustCompile(`(?i)stage only\s+([\w\-.]+)`)
	commitMsgExpr = regexp.MustCompile(`(?i)message\s+["']([^"']+)["']`)
	gitAddExpr    = regexp.MustCompile(`(?i)git add\s+[\w\-.]+`)
	gitCommitExpr = regexp.MustCompile(`(?i)git commit -m ["'][^"']+["']`)
)

// CommandExtractor renders uv/git command-string answers directly from
// the question text.
type CommandExtractor struct {
	email string
}

// NewCommandExtractor wires the configured account email used for the
// uv URL email parameter.
func NewCommandExtractor(email string) *CommandExtractor {
	return &CommandExtractor{email: email}
}

func (e *CommandExtractor) Category() domain.Category { return domain.CategoryCommand }

func (e *CommandExtractor) Extract(ctx context.Context, task domain.TaskDescriptor, page domain.QuizPage) (domain.AnswerResult, bool) {
	switch task.Param(domain.ParamCommandType) {
	case domain.CommandUVHTTP:
		if cmd := e.uvCommand(page.Question); cmd != "" {
			return domain.AnswerResult{Answer: domain.TextAnswer(cmd), Reasoning: "command extracted directly"}, true
		}
	case domain.CommandGit:
		if cmd := gitCommands(page.Question); cmd != "" {
			return domain.AnswerResult{Answer: domain.TextAnswer(cmd), Reasoning: "git commands extracted directly"}, true
		}
	}
	return domain.AnswerResult{}, false
}

func (e *CommandExtractor) uvCommand(question string) string {
	rawURL := jsonURLExpr.FindString(question)
	if rawURL == "" {
		rawURL = uvJSONURLExpr.FindString(question)
	}
	if rawURL == "" {
		return ""
	}

	// Email substitution triggers only on an email= query parameter or
	// an explicit "email = " assignment in the question, so a passing
	// mention of email does not rewrite the URL.
	lower := strings.ToLower(question)
	if strings.Contains(rawURL, "email=") || strings.Contains(lower, "email = ") {
		rawURL = placeholderExpr.ReplaceAllString(rawURL, e.email)
		if strings.Contains(rawURL, "email=") {
			rawURL = emailParamExpr.ReplaceAllString(rawURL, "email="+e.email)
		} else if strings.Contains(rawURL, "?") {
			rawURL += "&email=" + e.email
		} else {
			rawURL += "?email=" + e.email
		}
	}

	command := fmt.Sprintf("uv http get %q", rawURL)
	if strings.Contains(lower, "accept") && strings.Contains(lower, "application/json") {
		command += ` -H "Accept: application/json"`
	}
	if strings.Contains(question, "-v") || strings.Contains(question, "--verbose") {
		command += " -v"
	}
	return command
}

func gitCommands(question string) string {
	fileMatch := stageFileExpr.FindStringSubmatch(question)
	msgMatch := commitMsgExpr.FindStringSubmatch(question)
	if fileMatch != nil && msgMatch != nil {
		return fmt.Sprintf("git add %s\ngit commit -m %q", fileMatch[1], msgMatch[1])
	}

	// Loose fallback: the question may spell out the literal commands.
	add := gitAddExpr.FindString(question)
	commit := gitCommitExpr.FindString(question)
	if add != "" && commit != "" {
		return add + "\n" + commit
	}
	return ""
}
