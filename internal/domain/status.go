package domain

// AnalysisStatus — итог анализа лога сценария.
//
// Жизненный цикл:
//
//	RUNNING → SUCCEEDED
//	        ↘ EMPTY (в логе нет run_number или завершённых задач)
//	        ↘ FAILED
type AnalysisStatus string

const (
	// AnalysisStatusRunning — анализ выполняется.
	AnalysisStatusRunning AnalysisStatus = "RUNNING"

	// AnalysisStatusSucceeded — все артефакты записаны.
	AnalysisStatusSucceeded AnalysisStatus = "SUCCEEDED"

	// AnalysisStatusEmpty — в логе нечего анализировать.
	AnalysisStatusEmpty AnalysisStatus = "EMPTY"

	// AnalysisStatusFailed — анализ завершился с ошибкой.
	AnalysisStatusFailed AnalysisStatus = "FAILED"
)

// IsTerminal возвращает true, если статус финальный.
func (s AnalysisStatus) IsTerminal() bool {
	switch s {
	case AnalysisStatusSucceeded, AnalysisStatusEmpty, AnalysisStatusFailed:
		return true
	default:
		return false
	}
}

// String возвращает строковое представление AnalysisStatus.
func (s AnalysisStatus) String() string {
	return string(s)
}

// ParseAnalysisStatus парсит строку в AnalysisStatus.
func ParseAnalysisStatus(s string) AnalysisStatus {
	switch s {
	case "SUCCEEDED":
		return AnalysisStatusSucceeded
	case "EMPTY":
		return AnalysisStatusEmpty
	case "FAILED":
		return AnalysisStatusFailed
	default:
		return AnalysisStatusRunning
	}
}
