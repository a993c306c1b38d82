package layout

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record; Enabled returns false so callers skip formatting.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger 设置 layout 及其子包（container、ellipsis、fonts、document）共用的日志。
// 默认不输出任何日志；传入 nil 恢复静默。
//
// 使用的级别：
//   - [slog.LevelDebug]: 排版细节（行矩形、省略号区间）
//   - [slog.LevelWarn]: 不致命的问题（字体无法编码省略号、字形数量不一致、字体回退）
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger 返回当前日志，可并发调用。
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
