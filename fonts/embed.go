package fonts

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-fonts/latin-modern/lmroman10regular"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// DefaultSrc 是未指定字体或字体加载失败时使用的内置字体。
const DefaultSrc = "builtin:goregular"

var builtin = map[string][]byte{
	"goregular":    goregular.TTF,
	"gobold":       gobold.TTF,
	"goitalic":     goitalic.TTF,
	"gobolditalic": gobolditalic.TTF,
	"gomono":       gomono.TTF,
	"lmroman":      lmroman10regular.TTF,
}

// Builtin 返回所有内置字体名（已排序）。
func Builtin() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load 返回字体字节。src 可写为 "builtin:goregular"（兼容 "built-in:" 与 "embed:" 前缀），
// 其余视为路径：相对路径基于 baseDir 解析，baseDir 为空时只允许绝对路径。
func Load(src, baseDir string) ([]byte, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, fmt.Errorf("字体 src 为空")
	}
	if name, ok := builtinName(src); ok {
		data, ok := builtin[name]
		if !ok {
			return nil, fmt.Errorf("找不到内置字体 %s（可用：%s）", name, strings.Join(Builtin(), ", "))
		}
		return data, nil
	}

	path := src
	if !filepath.IsAbs(path) {
		if baseDir == "" {
			return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 builtin:）", src)
		}
		path = filepath.Join(baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", src, err)
	}
	return data, nil
}

func builtinName(src string) (string, bool) {
	for _, prefix := range []string{"builtin:", "built-in:", "embed:"} {
		if name, ok := strings.CutPrefix(src, prefix); ok {
			return strings.ToLower(strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))), true
		}
	}
	return "", false
}
