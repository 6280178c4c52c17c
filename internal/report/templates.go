package report

import (
	"embed"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(
	template.New("").Funcs(template.FuncMap{
		"description": descriptionHTML,
		"number":      formatDuration,
	}).ParseFS(templateFS, "templates/*.html"),
)

// descriptionHTML экранирует описание задачи, сохраняя переносы <br>.
func descriptionHTML(desc string) template.HTML {
	parts := strings.Split(desc, "<br>")
	for i, p := range parts {
		parts[i] = template.HTMLEscapeString(p)
	}
	return template.HTML(strings.Join(parts, "<br>"))
}
