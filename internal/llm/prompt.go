package llm

import (
	"fmt"
	"strings"
)

// Character budgets capping the size of individual context blocks.
const (
	dataBudget         = 3000
	instructionsBudget = 2000
)

// Context carries the auxiliary material the generic pathway can hand
// to the model alongside the question.
type Context struct {
	Data           string
	DataFrame      string
	ComputedResult string
	ExtractedCodes []string
	Files          []string
	Instructions   string
	AudioURL       string
}

// BuildPrompt renders the fixed framing, each present context block
// (individually truncated), the question, and a category-specific
// answer-format instruction chosen by keyword inspection.
func BuildPrompt(question string, c Context) string {
	var parts []string

	parts = append(parts, "You are a quiz-solving assistant. Provide clear, concise answers.")

	if c.Data != "" {
		parts = append(parts, "\nData:\n"+truncate(c.Data, dataBudget))
	}
	if c.DataFrame != "" {
		parts = append(parts, "\nDataFrame:\n"+truncate(c.DataFrame, dataBudget))
	}
	if c.ComputedResult != "" {
		parts = append(parts, "\nComputed result: "+c.ComputedResult)
	}
	if len(c.ExtractedCodes) > 0 {
		codes := c.ExtractedCodes
		if len(codes) > 3 {
			codes = codes[:3]
		}
		parts = append(parts, "\nExtracted codes: "+strings.Join(codes, ", "))
	}
	if len(c.Files) > 0 {
		parts = append(parts, "Files available: "+strings.Join(c.Files, ", "))
	}
	if c.Instructions != "" {
		parts = append(parts, "Instructions: "+truncate(c.Instructions, instructionsBudget))
	}
	if c.AudioURL != "" {
		parts = append(parts, "Audio file: "+c.AudioURL)
	}

	parts = append(parts, "\nQuestion: "+question)
	parts = append(parts, formatInstruction(strings.ToLower(question)))
	parts = append(parts, "\nAnswer:")

	return strings.Join(parts, "\n")
}

func formatInstruction(lower string) string {
	switch {
	case strings.Contains(lower, "command"):
		if strings.Contains(lower, "uv http get") {
			return "\nProvide the COMPLETE command string exactly as it should be run, including the full URL with email and all headers."
		}
		if strings.Contains(lower, "git") {
			return "\nProvide BOTH git commands separated by a newline character."
		}
		return "\nProvide the exact command to run."
	case strings.Contains(lower, "markdown") && strings.Contains(lower, "link"):
		return "\nProvide only the exact file path."
	case containsAnyWord(lower, "sum", "total", "count", "calculate"):
		return "\nProvide only the numeric answer (no explanation)."
	case strings.Contains(lower, "transcribe"):
		return "\nProvide the exact transcription of the spoken phrase including any digits."
	case strings.Contains(lower, "color") && strings.Contains(lower, "hex"):
		return "\nProvide the color in hex format: #rrggbb"
	case strings.Contains(lower, "normalize") && strings.Contains(lower, "json"):
		return "\nProvide a JSON array of objects with normalized data."
	case strings.Contains(lower, "audio") || strings.Contains(lower, ".opus"):
		return "\nThe audio file contains a spoken passphrase followed by a 3-digit code. Transcribe the exact phrase including the digits."
	default:
		return "\nProvide a clear, direct answer. If the answer is a number, provide just the number. If it's text, provide the text. If it's a boolean, provide true or false. If it's a file, provide the base64 data URI."
	}
}

func truncate(s string, budget int) string {
	if len(s) <= budget {
		return s
	}
	return fmt.Sprintf("%s... (truncated)", s[:budget])
}

func containsAnyWord(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
