package fonts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10regular"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Fallback 是找不到句柄时使用的字体。
const Fallback = "builtin:goregular"

var builtin = map[string][]byte{
	"goregular":        goregular.TTF,
	"gobold":           gobold.TTF,
	"goitalic":         goitalic.TTF,
	"gomono":           gomono.TTF,
	"gomonobold":       gomonobold.TTF,
	"lmroman10regular": lmroman10regular.TTF,
	"lmroman10bold":    lmroman10bold.TTF,
}

// IsBuiltin 判断句柄是否指向内置字体，可写为 "builtin:gobold" 或 "built-in:gobold"。
func IsBuiltin(handle string) bool {
	_, ok := builtinName(handle)
	return ok
}

// Load 返回内置字体的字节数据。
func Load(handle string) ([]byte, error) {
	name, ok := builtinName(handle)
	if !ok {
		return nil, fmt.Errorf("不是内置字体句柄: %s", handle)
	}
	data, ok := builtin[name]
	if !ok {
		return nil, fmt.Errorf("未知内置字体 %s，可用: %s", name, strings.Join(Names(), ", "))
	}
	return data, nil
}

// Names 返回已注册的内置字体名（有序）。
func Names() []string {
	out := make([]string, 0, len(builtin))
	for name := range builtin {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func builtinName(handle string) (string, bool) {
	for _, prefix := range []string{"builtin:", "built-in:"} {
		if strings.HasPrefix(handle, prefix) {
			return strings.ToLower(strings.TrimPrefix(handle, prefix)), true
		}
	}
	return "", false
}
