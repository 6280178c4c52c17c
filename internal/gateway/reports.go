package gateway

import (
	"net/http"
	"path"
	"strings"
)

// reportDirPrefix — каталоги результатов анализа.
const reportDirPrefix = "analysis_"

// NewReportsHandler отдаёт файлы из каталогов analysis_* внутри dataDir.
// Логи сценариев и нод этим маршрутом недоступны.
func NewReportsHandler(dataDir string) http.Handler {
	files := http.StripPrefix("/reports/", http.FileServer(http.Dir(dataDir)))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rel := strings.TrimPrefix(path.Clean("/"+strings.TrimPrefix(r.URL.Path, "/reports/")), "/")
		first, _, _ := strings.Cut(rel, "/")
		if !strings.HasPrefix(first, reportDirPrefix) {
			NotFound(w, "report not found")
			return
		}
		files.ServeHTTP(w, r)
	})
}
