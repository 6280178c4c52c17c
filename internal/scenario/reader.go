package scenario

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/shaiso/Analysis/internal/domain"
)

// maxLineSize — максимальная длина строки лога.
const maxLineSize = 16 * 1024 * 1024

// Log — содержимое лога сценария.
type Log struct {
	// Entries — записи с runtime, отсортированные по timestamp.
	Entries []domain.LogEntry

	// RunNumber — номер запуска. Пустой, если строки run_number не было.
	RunNumber string

	// Skipped — количество строк, которые не удалось разобрать как JSON.
	Skipped int
}

// IsEmpty возвращает true, если анализировать нечего.
func (l *Log) IsEmpty() bool {
	return len(l.Entries) == 0 || l.RunNumber == ""
}

// ReadLog читает лог сценария. Файлы с суффиксом "gz" распаковываются.
func ReadLog(path string) (*Log, error) {
	rc, err := openMaybeGzip(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenLog, err)
	}
	defer rc.Close()

	return parseLog(rc)
}

// parseLog разбирает JSON-lines поток.
func parseLog(r io.Reader) (*Log, error) {
	log := &Log{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var record map[string]any
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			log.Skipped++
			continue
		}

		// Строка с run_number не является записью задачи
		if strings.Contains(line, "run_number") {
			if v, ok := record["run_number"]; ok {
				log.RunNumber = formatScalar(v)
				continue
			}
		}

		if _, ok := record["runtime"]; !ok {
			continue
		}

		log.Entries = append(log.Entries, domain.LogEntry{
			Timestamp: formatScalar(record["timestamp"]),
			Event:     formatScalar(record["event"]),
			Raw:       record,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadLog, err)
	}

	// Формат timestamp сортируется лексикографически
	sort.SliceStable(log.Entries, func(i, j int) bool {
		return log.Entries[i].Timestamp < log.Entries[j].Timestamp
	})

	return log, nil
}

// ScenarioName извлекает имя сценария из имени лога.
//
//	scenario-player-run_pfs1_1583931018.log → pfs1
//	scenario-player-run_ms_claim_1583931018.log.gz → ms_claim
//
// Если имя не похоже на лог scenario player, возвращается
// имя файла без расширений.
func ScenarioName(path string) string {
	base := filepath.Base(path)

	parts := strings.Split(base, "-")
	if len(parts) < 3 {
		name, _, _ := strings.Cut(base, ".")
		return name
	}

	name := parts[2]
	if _, after, ok := strings.Cut(name, "_"); ok {
		name = after
	}
	if i := strings.LastIndex(name, "_"); i >= 0 {
		name = name[:i]
	}
	return name
}

// openMaybeGzip открывает файл, прозрачно распаковывая gzip.
func openMaybeGzip(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	if !strings.HasSuffix(path, "gz") {
		return f, nil
	}

	zr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("gzip %s: %w", path, err)
	}
	return &gzipFile{Reader: zr, file: f}, nil
}

// gzipFile закрывает и gzip reader, и файл.
type gzipFile struct {
	*gzip.Reader
	file *os.File
}

// Close реализует io.Closer.
func (g *gzipFile) Close() error {
	zerr := g.Reader.Close()
	ferr := g.file.Close()
	if zerr != nil {
		return zerr
	}
	return ferr
}

// formatScalar приводит значение JSON к строке.
// Целые числа печатаются без дробной части.
func formatScalar(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
