package stats

import (
	"regexp"
	"strings"

	"github.com/shaiso/Analysis/internal/domain"
)

// Filter оставляет статистику задач, имя которых подходит под include.
func Filter(raw []domain.RawStat, include *regexp.Regexp) []domain.RawStat {
	var result []domain.RawStat
	for _, s := range raw {
		if include.MatchString(s.Name) {
			result = append(result, s)
		}
	}
	return result
}

// MarkdownTable строит markdown-таблицу из статистики.
// Для пустого списка возвращает пустую строку.
func MarkdownTable(raw []domain.RawStat) string {
	if len(raw) == 0 {
		return ""
	}

	lines := make([]string, 0, len(raw)+2)
	lines = append(lines, strings.Join(domain.RawStatKeys, "|"))

	dashes := make([]string, len(domain.RawStatKeys))
	for i := range dashes {
		dashes[i] = "---"
	}
	lines = append(lines, strings.Join(dashes, "|"))

	for _, s := range raw {
		values := s.Values()
		for i, v := range values {
			values[i] = FormatNumber(v)
		}
		lines = append(lines, strings.Join(values, "|"))
	}
	return strings.Join(lines, "\n")
}
