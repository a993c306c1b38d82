package binding

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Decode 解析内联数据：以 { 或 [ 开头按 JSON 处理，否则按 YAML 处理。
func Decode(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var data any
	if strings.HasPrefix(raw, "{") || strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return nil, fmt.Errorf("解析 data JSON 失败: %w", err)
		}
		return data, nil
	}
	if err := yaml.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("解析 data YAML 失败: %w", err)
	}
	return data, nil
}

// LoadFile 读取 .json / .yaml / .yml 数据文件。
func LoadFile(path string) (any, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取数据文件 %s 失败: %w", path, err)
	}
	var data any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(content, &data)
	default:
		err = json.Unmarshal(content, &data)
	}
	if err != nil {
		return nil, fmt.Errorf("解析数据文件 %s 失败: %w", path, err)
	}
	return data, nil
}

func stringify(v any) string {
	return fmt.Sprint(v)
}
