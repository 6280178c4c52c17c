package sinks

import (
	"context"

	"github.com/shaiso/Analysis/internal/domain"
)

// AnalysisStore сохраняет анализы.
// Реализуется repo.AnalysisRepo.
type AnalysisStore interface {
	Create(ctx context.Context, a *domain.Analysis) error
}

// RepoSink сохраняет каждый завершённый анализ.
type RepoSink struct {
	store AnalysisStore
}

// NewRepoSink создаёт RepoSink.
func NewRepoSink(store AnalysisStore) *RepoSink {
	return &RepoSink{store: store}
}

// Name возвращает имя sink'а.
func (s *RepoSink) Name() string { return "repo" }

// Publish сохраняет анализ.
func (s *RepoSink) Publish(ctx context.Context, a *domain.Analysis) error {
	return s.store.Create(ctx, a)
}
