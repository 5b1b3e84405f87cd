// Package extract holds the specialized answer strategies. Each
// strategy consumes an already-classified task and either produces a
// typed answer or signals a fall-through to the generic pathway.
package extract

import (
	"context"

	"QuizSolver/internal/domain"
)

// Strategy captures a single specialized extractor. The second return
// value reports whether the strategy handled the question; false means
// the caller should fall through to the generic pathway.
type Strategy interface {
	Category() domain.Category
	Extract(ctx context.Context, task domain.TaskDescriptor, page domain.QuizPage) (domain.AnswerResult, bool)
}

// Registry keeps a mapping from task categories to their strategies.
type Registry struct {
	strategies map[domain.Category]Strategy
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{strategies: map[domain.Category]Strategy{}}
}

// Register adds or replaces a strategy implementation.
func (r *Registry) Register(s Strategy) {
	if r.strategies == nil {
		r.strategies = map[domain.Category]Strategy{}
	}
	r.strategies[s.Category()] = s
}

// Resolve returns the strategy for a category, if one is registered.
func (r *Registry) Resolve(category domain.Category) (Strategy, bool) {
	s, ok := r.strategies[category]
	return s, ok
}
