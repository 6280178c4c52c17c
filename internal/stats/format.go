package stats

import (
	"math"
	"strconv"
	"strings"

	"github.com/shaiso/Analysis/internal/domain"
)

// significantDigits — точность чисел в отчёте для чата.
const significantDigits = 4

// Raw приводит статистику к строковому виду.
func Raw(stats []domain.Stat) []domain.RawStat {
	raw := make([]domain.RawStat, 0, len(stats))
	for _, s := range stats {
		raw = append(raw, domain.RawStat{
			Name:   s.Name,
			Min:    FormatFloat(s.Min),
			Max:    FormatFloat(s.Max),
			Mean:   FormatFloat(s.Mean),
			Median: FormatFloat(s.Median),
			P95:    FormatFloat(s.P95),
			Stdev:  FormatFloat(s.Stdev),
			Count:  strconv.Itoa(s.Count),
		})
	}
	return raw
}

// FormatFloat печатает float кратчайшим представлением.
// У целых значений остаётся ".0"; экспоненциальная запись используется
// для |v| < 1e-4 и |v| >= 1e16.
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// FormatNumber сокращает числа с точкой до 4 значащих цифр.
// Строки без точки и нечисловые строки возвращаются без изменений.
func FormatNumber(value string) string {
	if !strings.Contains(value, ".") {
		return value
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return value
	}
	return formatSignificant(f, significantDigits)
}

// formatSignificant форматирует v с prec значащими цифрами.
// Экспоненциальная запись — при показателе < -4 или >= prec-1,
// иначе фиксированная с хотя бы одной цифрой после точки.
func formatSignificant(v float64, prec int) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	sci := strconv.FormatFloat(v, 'e', prec-1, 64)
	mantissa, expPart, _ := strings.Cut(sci, "e")
	exp, _ := strconv.Atoi(expPart)

	if exp < -4 || exp >= prec-1 {
		return trimZeros(mantissa) + "e" + expPart
	}

	fixed := strconv.FormatFloat(v, 'f', prec-1-exp, 64)
	fixed = trimZeros(fixed)
	if !strings.Contains(fixed, ".") {
		fixed += ".0"
	}
	return fixed
}

// trimZeros убирает незначащие нули после точки и саму точку.
func trimZeros(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
