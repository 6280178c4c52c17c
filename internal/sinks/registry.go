package sinks

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/multierr"

	"github.com/shaiso/Analysis/internal/domain"
	"github.com/shaiso/Analysis/internal/telemetry"
)

// Registry — реестр sink'ов. Потокобезопасен.
type Registry struct {
	mu    sync.RWMutex
	sinks map[string]Sink
}

// NewRegistry создаёт пустой реестр.
func NewRegistry() *Registry {
	return &Registry{
		sinks: make(map[string]Sink),
	}
}

// Register регистрирует sink.
// Sink с таким же именем перезаписывается.
func (r *Registry) Register(s Sink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sinks[s.Name()] = s
}

// Get возвращает sink по имени.
func (r *Registry) Get(name string) (Sink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, exists := r.sinks[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrSinkNotFound, name)
	}
	return s, nil
}

// Has проверяет, зарегистрирован ли sink.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.sinks[name]
	return exists
}

// Names возвращает отсортированные имена sink'ов.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.sinks))
	for name := range r.sinks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count возвращает количество sink'ов.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sinks)
}

// Unregister удаляет sink из реестра.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sinks, name)
}

// PublishAll вызывает все sink'и в порядке имён.
// Ошибки всех sink'ов объединяются; каждая учитывается в метрике.
func (r *Registry) PublishAll(ctx context.Context, a *domain.Analysis) error {
	logger := telemetry.FromContext(ctx)

	var err error
	for _, name := range r.Names() {
		s, getErr := r.Get(name)
		if getErr != nil {
			// Удалён между Names и Get
			continue
		}

		if pubErr := s.Publish(ctx, a); pubErr != nil {
			telemetry.SinkFailures.WithLabelValues(name).Inc()
			logger.Error("sink failed", "sink", name, "error", pubErr)
			err = multierr.Append(err, fmt.Errorf("sink %s: %w", name, pubErr))
			continue
		}
		logger.Debug("sink published", "sink", name)
	}
	return err
}
