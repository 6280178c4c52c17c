package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shaiso/Analysis/internal/domain"
	"github.com/shaiso/Analysis/internal/report"
	"github.com/shaiso/Analysis/internal/stats"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// AnalysisStore читает сохранённые анализы.
// Реализуется repo.AnalysisRepo.
type AnalysisStore interface {
	GetByLogfile(ctx context.Context, logfile string) (*domain.Analysis, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Analysis, error)
}

// RequestPublisher ставит логи в очередь на анализ.
// Реализуется mq.Publisher.
type RequestPublisher interface {
	PublishAnalysisRequested(ctx context.Context, logfile string) error
}

// Handler — обработчик API анализов.
type Handler struct {
	store     AnalysisStore
	publisher RequestPublisher
	dataDir   string
	logger    *slog.Logger
}

// HandlerConfig — конфигурация Handler.
// Store и Publisher опциональны: без них соответствующие маршруты отвечают 503.
type HandlerConfig struct {
	Store     AnalysisStore
	Publisher RequestPublisher
	DataDir   string
	Logger    *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:     cfg.Store,
		publisher: cfg.Publisher,
		dataDir:   cfg.DataDir,
		logger:    logger,
	}
}

// ListAnalyses возвращает последние анализы.
// GET /api/v1/analyses?limit=...
func (h *Handler) ListAnalyses(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		Unavailable(w, "analysis store is not configured")
		return
	}

	limit := defaultListLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			BadRequest(w, "invalid limit")
			return
		}
		limit = min(n, maxListLimit)
	}

	analyses, err := h.store.ListRecent(r.Context(), limit)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]AnalysisResponse, len(analyses))
	for i, a := range analyses {
		result[i] = AnalysisFromDomain(a, h.reportURL(a))
	}
	List(w, result, len(result))
}

// GetAnalysis возвращает последний анализ лога со статистикой.
// GET /api/v1/analyses/lookup?logfile=...
func (h *Handler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		Unavailable(w, "analysis store is not configured")
		return
	}

	logfile, err := h.resolve(r.URL.Query().Get("logfile"))
	if err != nil {
		BadRequest(w, err.Error())
		return
	}

	a, err := h.store.GetByLogfile(r.Context(), logfile)
	if HandleRepoError(w, h.logger, err, "analysis not found") {
		return
	}
	if a.RawStats == nil {
		a.RawStats = stats.Raw(a.Stats)
	}

	Success(w, AnalysisFromDomain(*a, h.reportURL(*a)))
}

// CreateAnalysis ставит лог в очередь на анализ.
// POST /api/v1/analyses
func (h *Handler) CreateAnalysis(w http.ResponseWriter, r *http.Request) {
	if h.publisher == nil {
		Unavailable(w, "message broker is not configured")
		return
	}

	var req CreateAnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	logfile, err := h.resolve(req.Logfile)
	if err != nil {
		BadRequest(w, err.Error())
		return
	}

	if err := h.publisher.PublishAnalysisRequested(r.Context(), logfile); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	h.logger.Info("analysis queued", "logfile", logfile)
	Accepted(w, QueuedResponse{Logfile: logfile})
}

// resolve приводит путь к логу к абсолютному пути внутри DATA_DIR.
func (h *Handler) resolve(logfile string) (string, error) {
	if logfile == "" {
		return "", fmt.Errorf("logfile is required")
	}

	p := logfile
	if !filepath.IsAbs(p) {
		p = filepath.Join(h.dataDir, p)
	}
	p = filepath.Clean(p)

	rel, err := filepath.Rel(h.dataDir, p)
	if err != nil || rel == "." || outside(rel) {
		return "", fmt.Errorf("%w: %s", ErrOutsideDataDir, logfile)
	}
	return p, nil
}

// reportURL строит ссылку на gantt-диаграмму анализа.
func (h *Handler) reportURL(a domain.Analysis) string {
	if a.OutputDir == "" {
		return ""
	}
	rel, err := filepath.Rel(h.dataDir, a.OutputDir)
	if err != nil || outside(rel) {
		return ""
	}
	return path.Join("/reports", filepath.ToSlash(rel), report.GanttFilename)
}

// outside сообщает, выходит ли относительный путь rel за пределы
// базовой директории. Имена вида "..name" остаются внутри.
func outside(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
