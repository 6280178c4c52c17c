package scenario

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"

	"gopkg.in/yaml.v3"

	"github.com/shaiso/Analysis/internal/stats"
)

// describeIndent — отступ одного уровня в описании задачи.
const describeIndent = "    "

// yaml11Bools — слова, которые YAML 1.1 считает булевыми.
// yaml.v3 знает только true/false, остальные приходится размечать вручную.
var yaml11Bools = map[string]bool{
	"yes": true, "Yes": true, "YES": true,
	"on": true, "On": true, "ON": true,
	"no": false, "No": false, "NO": false,
	"off": false, "Off": false, "OFF": false,
}

// decodeTaskBody разбирает описание задачи как YAML 1.1:
// plain-скаляры yes/no/on/off становятся bool.
func decodeTaskBody(desc string) (any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(desc), &root); err != nil {
		return nil, err
	}
	markBools(&root)

	var parsed any
	if err := root.Decode(&parsed); err != nil {
		return nil, err
	}
	return parsed, nil
}

func markBools(n *yaml.Node) {
	if n.Kind == yaml.ScalarNode {
		if n.Style != 0 || n.ShortTag() != "!!str" {
			return
		}
		if b, ok := yaml11Bools[n.Value]; ok {
			n.Tag = "!!bool"
			n.Value = strconv.FormatBool(b)
		}
		return
	}
	for _, child := range n.Content {
		markBools(child)
	}
}

// describe сериализует описание задачи в JSON с сортировкой ключей
// и отступом 4 пробела; переводы строк заменяются на <br>.
//
// Вещественные числа печатаются кратчайшим представлением с ".0"
// у целых, не-ASCII символы экранируются как \uXXXX.
func describe(body map[string]any) string {
	var sb strings.Builder
	writeValue(&sb, body, 0)
	return strings.ReplaceAll(sb.String(), "\n", "<br>")
}

func writeValue(sb *strings.Builder, v any, depth int) {
	switch val := v.(type) {
	case nil:
		sb.WriteString("null")
	case bool:
		sb.WriteString(strconv.FormatBool(val))
	case string:
		writeString(sb, val)
	case int:
		sb.WriteString(strconv.Itoa(val))
	case int64:
		sb.WriteString(strconv.FormatInt(val, 10))
	case uint64:
		sb.WriteString(strconv.FormatUint(val, 10))
	case float64:
		sb.WriteString(jsonFloat(val))
	case map[string]any:
		writeObject(sb, val, depth)
	case []any:
		writeArray(sb, val, depth)
	default:
		writeString(sb, fmt.Sprint(val))
	}
}

func writeObject(sb *strings.Builder, obj map[string]any, depth int) {
	if len(obj) == 0 {
		sb.WriteString("{}")
		return
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	inner := strings.Repeat(describeIndent, depth+1)
	sb.WriteString("{")
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
		sb.WriteString(inner)
		writeString(sb, k)
		sb.WriteString(": ")
		writeValue(sb, obj[k], depth+1)
	}
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat(describeIndent, depth))
	sb.WriteString("}")
}

func writeArray(sb *strings.Builder, items []any, depth int) {
	if len(items) == 0 {
		sb.WriteString("[]")
		return
	}

	inner := strings.Repeat(describeIndent, depth+1)
	sb.WriteString("[")
	for i, item := range items {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
		sb.WriteString(inner)
		writeValue(sb, item, depth+1)
	}
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat(describeIndent, depth))
	sb.WriteString("]")
}

func jsonFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	return stats.FormatFloat(v)
}

func writeString(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		default:
			switch {
			case r < 0x20 || (r >= 0x7f && r <= 0xffff):
				fmt.Fprintf(sb, `\u%04x`, r)
			case r > 0xffff:
				hi, lo := utf16.EncodeRune(r)
				fmt.Fprintf(sb, `\u%04x\u%04x`, hi, lo)
			default:
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
}
