package domain

import (
	"time"

	"github.com/google/uuid"
)

// Analysis — результат анализа одного лога сценария.
//
// Analysis создаётся когда:
// - CLI запускается с путём к логу (точка входа контейнера)
// - Watcher находит новый лог в DATA_DIR
type Analysis struct {
	// ID — уникальный идентификатор анализа.
	ID uuid.UUID `json:"id"`

	// Logfile — путь к логу сценария.
	Logfile string `json:"logfile"`

	// Scenario — имя сценария, извлечённое из имени файла.
	Scenario string `json:"scenario"`

	// RunNumber — номер запуска из строки run_number лога.
	RunNumber string `json:"run_number,omitempty"`

	// OutputDir — каталог analysis_<run> с артефактами.
	// Пустой, если анализ завершился со статусом EMPTY.
	OutputDir string `json:"output_dir,omitempty"`

	// Status — итог анализа.
	Status AnalysisStatus `json:"status"`

	// Tasks — количество задач, попавших в анализ.
	Tasks int `json:"tasks"`

	// Stats — статистика по типам задач.
	Stats []Stat `json:"-"`

	// RawStats — статистика в строковом виде (как в raw_stats.json).
	RawStats []RawStat `json:"stats,omitempty"`

	// Error — текст ошибки, если анализ завершился с FAILED.
	Error string `json:"error,omitempty"`

	// CreatedAt — время начала анализа.
	CreatedAt time.Time `json:"created_at"`

	// FinishedAt — время завершения. Nil, пока анализ выполняется.
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// NewAnalysis создаёт анализ в статусе RUNNING.
func NewAnalysis(logfile, scenario string) *Analysis {
	return &Analysis{
		ID:        uuid.New(),
		Logfile:   logfile,
		Scenario:  scenario,
		Status:    AnalysisStatusRunning,
		CreatedAt: time.Now(),
	}
}

// Duration возвращает продолжительность анализа.
// Возвращает 0, если анализ ещё не завершён.
func (a *Analysis) Duration() time.Duration {
	if a.FinishedAt == nil {
		return 0
	}
	return a.FinishedAt.Sub(a.CreatedAt)
}

// IsFinished возвращает true, если анализ завершён (в любом статусе).
func (a *Analysis) IsFinished() bool {
	return a.Status.IsTerminal()
}

// MarkSucceeded переводит анализ в статус SUCCEEDED.
func (a *Analysis) MarkSucceeded() {
	now := time.Now()
	a.Status = AnalysisStatusSucceeded
	a.FinishedAt = &now
}

// MarkEmpty переводит анализ в статус EMPTY.
func (a *Analysis) MarkEmpty() {
	now := time.Now()
	a.Status = AnalysisStatusEmpty
	a.FinishedAt = &now
}

// MarkFailed переводит анализ в статус FAILED с ошибкой.
func (a *Analysis) MarkFailed(err string) {
	now := time.Now()
	a.Status = AnalysisStatusFailed
	a.FinishedAt = &now
	a.Error = err
}
