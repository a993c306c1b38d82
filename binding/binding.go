// Package binding fills ${path} placeholders in frame text from JSON or YAML data.
package binding

import (
	"regexp"
	"strconv"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值，路径可以带 "data." 前缀。
// 若 data 为空或路径不存在，则保留原占位符。
func Interpolate(text string, data any) string {
	if data == nil || !strings.Contains(text, "${") {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		path := strings.TrimSpace(match[2 : len(match)-1])
		val, ok := Lookup(data, path)
		if !ok {
			return match
		}
		return format(val)
	})
}

// Lookup 按 a.b[0].c 形式的路径取值。
func Lookup(data any, path string) (any, bool) {
	steps, ok := parsePath(path)
	if !ok {
		return nil, false
	}
	if len(steps) > 0 && steps[0].key == "data" {
		if _, has := field(data, "data"); !has {
			steps = steps[1:]
		}
	}
	current := data
	for _, s := range steps {
		var found bool
		if s.index >= 0 {
			current, found = element(current, s.index)
		} else {
			current, found = field(current, s.key)
		}
		if !found {
			return nil, false
		}
	}
	return current, true
}

// step 是路径中的一段：对象键或数组下标（index >= 0）。
type step struct {
	key   string
	index int
}

func parsePath(path string) ([]step, bool) {
	if path == "" {
		return nil, false
	}
	var steps []step
	for _, segment := range strings.Split(path, ".") {
		name, rest, _ := strings.Cut(segment, "[")
		if name == "" && rest == "" {
			return nil, false
		}
		if name != "" {
			steps = append(steps, step{key: name, index: -1})
		}
		if rest == "" {
			continue
		}
		rest = "[" + rest
		for rest != "" {
			end := strings.IndexByte(rest, ']')
			if rest[0] != '[' || end < 0 {
				return nil, false
			}
			idx, err := strconv.Atoi(rest[1:end])
			if err != nil || idx < 0 {
				return nil, false
			}
			steps = append(steps, step{index: idx})
			rest = rest[end+1:]
		}
	}
	return steps, true
}

func field(current any, key string) (any, bool) {
	switch c := current.(type) {
	case map[string]any:
		val, ok := c[key]
		return val, ok
	case map[any]any:
		val, ok := c[key]
		return val, ok
	default:
		return nil, false
	}
}

func element(current any, idx int) (any, bool) {
	c, ok := current.([]any)
	if !ok || idx >= len(c) {
		return nil, false
	}
	return c[idx], true
}

func format(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return stringify(v)
	}
}
