// Package solver routes classified questions to their specialized
// extractor and falls back to the language-model pathway when no
// extractor applies or yields a result.
package solver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"QuizSolver/internal/domain"
	"QuizSolver/internal/extract"
	"QuizSolver/internal/llm"
	"QuizSolver/internal/ports"
)

const minQuestionLength = 10

// Solver implements ports.Answerer.
type Solver struct {
	registry  *extract.Registry
	audio     extract.AudioExtractor
	completer ports.Completer
	logger    *slog.Logger
}

var _ ports.Answerer = (*Solver)(nil)

// New wires the extractor registry and the language-model capability.
func New(registry *extract.Registry, completer ports.Completer, logger *slog.Logger) *Solver {
	return &Solver{registry: registry, completer: completer, logger: logger}
}

// Answer derives an answer for one classified question. Never errors:
// every failure degrades to a KindNone answer with a justification.
func (s *Solver) Answer(ctx context.Context, task domain.TaskDescriptor, page domain.QuizPage) domain.AnswerResult {
	if len(strings.TrimSpace(page.Question)) < minQuestionLength {
		return domain.AnswerResult{
			Answer:    domain.NoAnswer(),
			Reasoning: "question text not found or too short",
		}
	}

	if strategy, ok := s.registry.Resolve(task.Category); ok {
		if result, handled := strategy.Extract(ctx, task, page); handled {
			s.debug("extractor answered", "category", task.Category)
			return result
		}
		s.debug("extractor fell through to generic pathway", "category", task.Category)
	}

	llmCtx := llm.Context{}
	if task.Category == domain.CategoryAudio {
		if audioURL := s.audio.ResolveURL(task, page); audioURL != "" {
			llmCtx.AudioURL = audioURL
			llmCtx.Instructions = extract.TranscriptionInstruction
		}
	}

	return s.Generic(ctx, page.Question, llmCtx)
}

// Generic is the language-model-backed pathway. A present computed
// result short-circuits the model call entirely.
func (s *Solver) Generic(ctx context.Context, question string, llmCtx llm.Context) domain.AnswerResult {
	if llmCtx.ComputedResult != "" {
		return domain.AnswerResult{
			Answer:    domain.TextAnswer(llmCtx.ComputedResult),
			Reasoning: "computed result: " + llmCtx.ComputedResult,
		}
	}

	prompt := llm.BuildPrompt(question, llmCtx)
	response, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		return domain.AnswerResult{
			Answer:    domain.NoAnswer(),
			Reasoning: fmt.Sprintf("language model error: %v", err),
		}
	}

	answer := llm.ParseAnswer(response, question)
	if answer.IsNone() {
		return domain.AnswerResult{
			Answer:    domain.NoAnswer(),
			Reasoning: "model response contained no extractable answer",
		}
	}
	return domain.AnswerResult{Answer: answer, Reasoning: response}
}

func (s *Solver) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
