package sinks

import (
	"context"

	"github.com/shaiso/Analysis/internal/archive"
	"github.com/shaiso/Analysis/internal/domain"
	"github.com/shaiso/Analysis/internal/telemetry"
)

// DirUploader загружает каталог в объектное хранилище.
// Реализуется archive.Uploader.
type DirUploader interface {
	UploadDir(ctx context.Context, dir, prefix string) (int, error)
}

// ArchiveSink копирует каталог результата успешного анализа.
type ArchiveSink struct {
	uploader DirUploader
}

// NewArchiveSink создаёт ArchiveSink.
func NewArchiveSink(uploader DirUploader) *ArchiveSink {
	return &ArchiveSink{uploader: uploader}
}

// Name возвращает имя sink'а.
func (s *ArchiveSink) Name() string { return "archive" }

// Publish загружает OutputDir под префиксом <scenario>/<run>.
func (s *ArchiveSink) Publish(ctx context.Context, a *domain.Analysis) error {
	if a.Status != domain.AnalysisStatusSucceeded || a.OutputDir == "" {
		return nil
	}

	n, err := s.uploader.UploadDir(ctx, a.OutputDir, archive.Prefix(a))
	if err != nil {
		return err
	}

	telemetry.FromContext(ctx).Info("analysis archived", "objects", n, "prefix", archive.Prefix(a))
	return nil
}
