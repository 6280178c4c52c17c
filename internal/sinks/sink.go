package sinks

import (
	"context"
	"errors"

	"github.com/shaiso/Analysis/internal/domain"
)

// ErrSinkNotFound — sink с таким именем не зарегистрирован.
var ErrSinkNotFound = errors.New("sink not found")

// Sink — получатель результата анализа.
type Sink interface {
	// Name возвращает имя sink'а (метка метрики и ключ в реестре).
	Name() string

	// Publish доставляет результат анализа.
	// Sink сам решает, какие статусы ему интересны.
	Publish(ctx context.Context, a *domain.Analysis) error
}
