package domain

// LoggerDateLayout — формат timestamp в логах scenario player.
// Дробная часть — микросекунды.
const LoggerDateLayout = "2006-01-02 15:04:05.000000"

// LogEntry — запись о завершённой задаче из лога сценария.
//
// В лог попадают только записи с полем "runtime".
type LogEntry struct {
	// Timestamp — время завершения задачи в формате LoggerDateLayout.
	Timestamp string

	// Event — текст события.
	Event string

	// Raw — исходный JSON записи.
	Raw map[string]any
}

// TaskRow — длительность одной задачи (строка durations.csv).
type TaskRow struct {
	// ID — порядковый номер или поле "id" из лога.
	ID int `json:"id"`

	// Type — тип задачи, например "TransferTask(2 nodes)".
	Type string `json:"type"`

	// Duration — длительность в секундах.
	Duration float64 `json:"duration"`

	// NodesInvolved — в скольких логах нод встретился identifier задачи.
	NodesInvolved int `json:"nodes_involved"`
}

// GanttRow — полоса на gantt-диаграмме.
type GanttRow struct {
	Task        string `json:"task"`
	Start       string `json:"start"`
	Finish      string `json:"finish"`
	Description string `json:"description"`
}

// TableRow — строка таблицы задач под gantt-диаграммой.
type TableRow struct {
	ID          int     `json:"id"`
	Type        string  `json:"type"`
	Duration    float64 `json:"duration"`
	Description string  `json:"description"`
}

// Rows — все строки, построенные из записей лога.
type Rows struct {
	Gantt []GanttRow
	Tasks []TaskRow
	Table []TableRow
}

// Len возвращает количество задач.
func (r *Rows) Len() int {
	return len(r.Tasks)
}

// ClientVersion — реализация и версия клиента, участвовавшего в сценарии.
type ClientVersion struct {
	Implementation string
	Version        string
}
