package binding

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

var placeholder = regexp.MustCompile(`\$\{([^}]+)\}`)

// Data 是占位符取值的 JSON 数据根。
type Data struct {
	root any
}

// Decode 从 JSON 读取数据；数字保留原始写法。
func Decode(r io.Reader) (*Data, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("解析绑定数据失败: %w", err)
	}
	return &Data{root: root}, nil
}

// FromValue 包装已解码的值（map[string]any / []any / 标量）。
func FromValue(v any) *Data {
	return &Data{root: v}
}

// Expand 将文本中的 ${path.to.value} 与 ${items[0].name} 替换为数据中的值。
// 找不到的路径保留占位符原文，并在 missing 中按出现顺序返回。
func (d *Data) Expand(text string) (string, []string) {
	if d == nil || d.root == nil || !strings.Contains(text, "${") {
		return text, nil
	}
	var missing []string
	out := placeholder.ReplaceAllStringFunc(text, func(match string) string {
		path := strings.TrimSpace(match[2 : len(match)-1])
		if path == "" {
			return match
		}
		val, ok := d.Lookup(path)
		if !ok {
			missing = append(missing, path)
			return match
		}
		return format(val)
	})
	return out, missing
}

// Lookup 按点分路径取值。
func (d *Data) Lookup(path string) (any, bool) {
	if d == nil {
		return nil, false
	}
	current := d.root
	for _, segment := range strings.Split(path, ".") {
		name, indexes, ok := splitSegment(segment)
		if !ok {
			return nil, false
		}
		if name != "" {
			obj, isMap := current.(map[string]any)
			if !isMap {
				return nil, false
			}
			if current, ok = obj[name]; !ok {
				return nil, false
			}
		}
		for _, idx := range indexes {
			arr, isArr := current.([]any)
			if !isArr || idx < 0 || idx >= len(arr) {
				return nil, false
			}
			current = arr[idx]
		}
	}
	return current, true
}

// splitSegment 拆分 "items[0][1]" 形式的路径段。
func splitSegment(segment string) (string, []int, bool) {
	i := strings.IndexByte(segment, '[')
	if i == -1 {
		return segment, nil, true
	}
	name, rest := segment[:i], segment[i:]
	var indexes []int
	for rest != "" {
		end := strings.IndexByte(rest, ']')
		if rest[0] != '[' || end == -1 {
			return "", nil, false
		}
		idx, err := strconv.Atoi(strings.TrimSpace(rest[1:end]))
		if err != nil {
			return "", nil, false
		}
		indexes = append(indexes, idx)
		rest = rest[end+1:]
	}
	return name, indexes, true
}

func format(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
