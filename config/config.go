// Package config loads CLI defaults from rondo.yaml or rondo.toml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config 是命令行参数的默认值；命令行上显式给出的参数优先。
type Config struct {
	Input    string `yaml:"input" toml:"input"`
	Output   string `yaml:"output" toml:"output"`
	Debug    string `yaml:"debug" toml:"debug"`
	Data     string `yaml:"data" toml:"data"`
	DataFile string `yaml:"data_file" toml:"data_file"`
	FontDir  string `yaml:"font_dir" toml:"font_dir"`
	LogLevel string `yaml:"log_level" toml:"log_level"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Input:    "examples/demo.rondo",
		Output:   "output/demo.pdf",
		LogLevel: "warn",
	}
}

// Load 读取配置文件并覆盖默认值。path 为空或文件不存在时返回默认值。
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("读取配置文件 %s 失败: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(content, &cfg)
	case ".toml":
		err = toml.Unmarshal(content, &cfg)
	default:
		return cfg, fmt.Errorf("不支持的配置文件格式 %q（仅支持 .yaml/.yml/.toml）", ext)
	}
	if err != nil {
		return cfg, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
	}
	return cfg, nil
}

// Level 解析日志级别（debug/info/warn/error），无法识别时返回 warn。
func (c Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn
	}
	return level
}
