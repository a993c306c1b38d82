// Command rondo lays out text inside circular frames and writes a PDF.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/ByLCY/rondo/binding"
	"github.com/ByLCY/rondo/config"
	"github.com/ByLCY/rondo/document"
	"github.com/ByLCY/rondo/dsl"
	"github.com/ByLCY/rondo/fonts"
	"github.com/ByLCY/rondo/layout"
	"github.com/ByLCY/rondo/renderer"
	canvasrenderer "github.com/ByLCY/rondo/renderer/canvas"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath string
		flagCfg    config.Config
	)
	pflag.StringVarP(&configPath, "config", "c", "rondo.yaml", "配置文件路径（.yaml/.yml/.toml）")
	pflag.StringVarP(&flagCfg.Input, "in", "i", "", "DSL 文件路径")
	pflag.StringVarP(&flagCfg.Output, "out", "o", "", "PDF 输出路径")
	pflag.StringVar(&flagCfg.Debug, "debug", "", "布局调试 JSON 输出路径")
	pflag.StringVar(&flagCfg.Data, "data", "", "绑定到 DSL 的 JSON 或 YAML 数据")
	pflag.StringVar(&flagCfg.DataFile, "data-file", "", "绑定到 DSL 的数据文件（.json/.yaml）")
	pflag.StringVar(&flagCfg.FontDir, "font-dir", "", "字体文件目录，默认为 DSL 文件所在目录")
	pflag.StringVar(&flagCfg.LogLevel, "log-level", "", "日志级别：debug/info/warn/error")
	pflag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		return 1
	}
	cfg = mergeFlags(cfg, flagCfg, pflag.CommandLine)

	layout.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()})))

	inputData, err := loadData(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	fontDir := cfg.FontDir
	if fontDir == "" {
		fontDir = filepath.Dir(cfg.Input)
	}
	provider := fonts.NewProvider(fontDir)
	var r renderer.Renderer = canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{Fonts: provider})
	if err := generate(cfg, inputData, provider, r); err != nil {
		fmt.Fprintf(os.Stderr, "生成 PDF 失败: %v\n", err)
		return 1
	}
	fmt.Printf("已生成 PDF：%s\n", cfg.Output)
	return 0
}

// mergeFlags 用命令行上显式给出的参数覆盖配置文件。
func mergeFlags(cfg, flags config.Config, fs *pflag.FlagSet) config.Config {
	override := func(name string, dst *string, v string) {
		if fs.Changed(name) {
			*dst = v
		}
	}
	override("in", &cfg.Input, flags.Input)
	override("out", &cfg.Output, flags.Output)
	override("debug", &cfg.Debug, flags.Debug)
	override("data", &cfg.Data, flags.Data)
	override("data-file", &cfg.DataFile, flags.DataFile)
	override("font-dir", &cfg.FontDir, flags.FontDir)
	override("log-level", &cfg.LogLevel, flags.LogLevel)
	return cfg
}

func loadData(cfg config.Config) (any, error) {
	if cfg.DataFile != "" {
		return binding.LoadFile(cfg.DataFile)
	}
	return binding.Decode(cfg.Data)
}

// generate 串联解析、排版与渲染。
func generate(cfg config.Config, data any, fp document.FontProvider, r renderer.Renderer) error {
	if r == nil {
		return fmt.Errorf("renderer 不能为空")
	}
	file, err := os.Open(cfg.Input)
	if err != nil {
		return fmt.Errorf("无法打开 DSL 文件 %s: %w", cfg.Input, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(file)
	if err != nil {
		return fmt.Errorf("解析 DSL 失败: %w", err)
	}

	result, err := document.Build(doc, data, document.BuildOptions{Fonts: fp})
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}

	if cfg.Debug != "" {
		if err := layout.WriteDebugJSON(result, cfg.Debug); err != nil {
			return fmt.Errorf("输出调试 JSON 失败: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Output), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	pdfBytes, err := r.Render(result)
	if err != nil {
		return fmt.Errorf("渲染 PDF 失败: %w", err)
	}
	if err := os.WriteFile(cfg.Output, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("写入 PDF 文件失败: %w", err)
	}
	return nil
}
