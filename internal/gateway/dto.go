package gateway

import (
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Analysis/internal/domain"
)

// CreateAnalysisRequest — запрос на анализ лога.
type CreateAnalysisRequest struct {
	// Logfile — путь к логу относительно DATA_DIR или абсолютный путь внутри него.
	Logfile string `json:"logfile"`
}

// AnalysisResponse — ответ с анализом.
type AnalysisResponse struct {
	ID         uuid.UUID        `json:"id"`
	Logfile    string           `json:"logfile"`
	Scenario   string           `json:"scenario"`
	RunNumber  string           `json:"run_number,omitempty"`
	Status     string           `json:"status"`
	Tasks      int              `json:"tasks"`
	ReportURL  string           `json:"report_url,omitempty"`
	Error      string           `json:"error,omitempty"`
	Stats      []domain.RawStat `json:"stats,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	FinishedAt *time.Time       `json:"finished_at,omitempty"`
}

// AnalysisFromDomain конвертирует domain.Analysis в AnalysisResponse.
// reportURL — ссылка на gantt-диаграмму, пустая если каталога нет.
func AnalysisFromDomain(a domain.Analysis, reportURL string) AnalysisResponse {
	return AnalysisResponse{
		ID:         a.ID,
		Logfile:    a.Logfile,
		Scenario:   a.Scenario,
		RunNumber:  a.RunNumber,
		Status:     a.Status.String(),
		Tasks:      a.Tasks,
		ReportURL:  reportURL,
		Error:      a.Error,
		Stats:      a.RawStats,
		CreatedAt:  a.CreatedAt,
		FinishedAt: a.FinishedAt,
	}
}

// QueuedResponse — ответ на постановку в очередь.
type QueuedResponse struct {
	Logfile string `json:"logfile"`
}
