package scenario

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// nodeLogReaders — сколько логов нод читается одновременно.
const nodeLogReaders = 8

// NodeLogGlob возвращает шаблон логов нод для запуска runNumber.
func NodeLogGlob(logDir, runNumber string) string {
	return filepath.Join(logDir, fmt.Sprintf("node_%s_*", runNumber), "*.log*")
}

// OpenNodeLogs читает все логи нод, подходящие под pattern.
// Порядок результата совпадает с отсортированным списком файлов.
func OpenNodeLogs(ctx context.Context, pattern string) ([]string, error) {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: glob %q: %v", ErrNodeLogs, pattern, err)
	}
	sort.Strings(paths)

	logs := make([]string, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(nodeLogReaders)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			content, err := readAll(path)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrNodeLogs, path, err)
			}
			logs[i] = content
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return logs, nil
}

// CountOccurrences возвращает количество логов, содержащих key.
func CountOccurrences(key string, logs []string) int {
	count := 0
	for _, content := range logs {
		if strings.Contains(content, key) {
			count++
		}
	}
	return count
}

// readAll читает файл целиком (gzip-aware).
func readAll(path string) (string, error) {
	rc, err := openMaybeGzip(path)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
