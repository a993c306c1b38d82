// Package fonts loads built-in and file fonts and exposes them as sized layout faces.
package fonts

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/ByLCY/rondo/layout"
)

// Face 是指定字号的字体：字形查询与度量使用 x/image/font/sfnt，整形使用 go-text 的 HarfBuzz 实现。
// 所有长度按字号缩放，单位与字号一致。Face 可并发使用。
type Face struct {
	name    string
	size    float64
	sf      *opentype.Font
	gt      *font.Font
	metrics layout.FontMetrics

	mu      sync.Mutex
	buf     sfnt.Buffer
	shaper  shaping.HarfbuzzShaper
	reverse map[layout.GlyphID]rune
}

var _ layout.Font = (*Face)(nil)

// Parse 解析 TrueType/OpenType 字体数据并按 size 缩放。
func Parse(name string, data []byte, size float64) (*Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("fonts: 字号必须大于 0，实际 %g", size)
	}
	sf, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("fonts: 解析字体 %s 失败: %w", name, err)
	}
	gt, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("fonts: 解析字体 %s 失败: %w", name, err)
	}

	f := &Face{
		name:    name,
		size:    size,
		sf:      sf,
		gt:      gt.Font,
		reverse: map[layout.GlyphID]rune{},
	}
	m, err := sf.Metrics(&f.buf, f.ppem(), xfont.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("fonts: 读取字体 %s 度量失败: %w", name, err)
	}
	f.metrics = layout.FontMetrics{
		Ascent:  fixedToFloat(m.Ascent),
		Descent: fixedToFloat(m.Descent),
		Height:  fixedToFloat(m.Height),
	}
	return f, nil
}

func (f *Face) Name() string                { return f.name }
func (f *Face) Size() float64               { return f.size }
func (f *Face) Metrics() layout.FontMetrics { return f.metrics }

// GlyphIndex 查询 cmap；字体不含该字符时返回 .notdef（0）与 false。
func (f *Face) GlyphIndex(r rune) (layout.GlyphID, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx, err := f.sf.GlyphIndex(&f.buf, r)
	if err != nil || idx == 0 {
		return 0, false
	}
	id := layout.GlyphID(idx)
	f.reverse[id] = r
	return id, true
}

// Rune 反查此前通过 GlyphIndex 得到的字形。
func (f *Face) Rune(id layout.GlyphID) (rune, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reverse[id]
	return r, ok
}

// Advance returns the scaled horizontal advance of a glyph, 0 for unknown glyphs.
func (f *Face) Advance(id layout.GlyphID) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	adv, err := f.sf.GlyphAdvance(&f.buf, sfnt.GlyphIndex(id), f.ppem(), xfont.HintingNone)
	if err != nil {
		return 0
	}
	return fixedToFloat(adv)
}

// Shape 对整段文本做 HarfBuzz 整形（从左到右），Cluster 为字形对应的首字符下标。
func (f *Face) Shape(text []rune) []layout.ShapedGlyph {
	if len(text) == 0 {
		return nil
	}
	input := shaping.Input{
		Text:      text,
		RunStart:  0,
		RunEnd:    len(text),
		Direction: di.DirectionLTR,
		Face:      font.NewFace(f.gt),
		Size:      f.ppem(),
		Script:    detectScript(text),
		Language:  language.NewLanguage("en"),
	}

	f.mu.Lock()
	output := f.shaper.Shape(input)
	f.mu.Unlock()

	glyphs := make([]layout.ShapedGlyph, len(output.Glyphs))
	for i, g := range output.Glyphs {
		glyphs[i] = layout.ShapedGlyph{
			ID:      layout.GlyphID(g.GlyphID), //nolint:gosec // glyph ids of TrueType fonts fit in 16 bits
			Cluster: g.TextIndex(),
			Advance: fixedToFloat(g.Advance),
		}
	}
	return glyphs
}

func (f *Face) ppem() fixed.Int26_6 {
	return fixed.Int26_6(f.size * 64)
}

// detectScript 取第一个非空白字符的书写系统；混合书写系统的文本按第一个处理。
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}
