// Package ellipsis truncates overflowing text with "…" by rewriting glyphs in place.
//
// When the text does not fit its container, the last visible words (at least
// three characters) become the ellipsis range: its first glyph is replaced by
// U+2026 and the rest are hidden as zero-width control glyphs. The character
// right after them becomes a flexible space that absorbs the remaining width of
// the line. Glyph count never changes, so the underlying text is untouched and
// RestoreIfNeeded brings the original glyphs back.
package ellipsis

import (
	"github.com/ByLCY/rondo/layout"
)

// Ellipsis is U+2026 HORIZONTAL ELLIPSIS.
const Ellipsis = '…'

// minEllipsisChars 为省略号的三个点预留的最少字符数。
const minEllipsisChars = 3

// Host 是 Rewriter 依赖的排版宿主能力，*layout.Manager 实现了它。
type Host interface {
	GlyphRangeForContainer() layout.Range
	CharacterRangeForGlyphRange(glyphs layout.Range) layout.Range
	GlyphRangeForCharacterRange(chars layout.Range) layout.Range
	GlyphIndexForCharacter(charIndex int) int
	InvalidateGlyphs(chars layout.Range)
	InvalidateLayout(chars layout.Range)
	Runes() []rune
}

var _ Host = (*layout.Manager)(nil)

// substitution 保存一对替换区间：要么都存在，要么都不存在。
type substitution struct {
	ellipsis      layout.Range
	flexibleSpace layout.Range
	active        bool
}

func (s *substitution) set(ellipsis, flexibleSpace layout.Range) {
	s.ellipsis = ellipsis
	s.flexibleSpace = flexibleSpace
	s.active = true
}

func (s *substitution) clear() { *s = substitution{} }

// Rewriter 检测溢出并替换末尾字形，同时作为 layout.Delegate 参与字形生成与行放置。
// 与宿主在同一个 goroutine 中使用，不加锁。
type Rewriter struct {
	host  Host
	state substitution
}

var _ layout.Delegate = (*Rewriter)(nil)

// New creates a rewriter bound to host. Install it with Manager.SetDelegate.
func New(host Host) *Rewriter {
	return &Rewriter{host: host}
}

// Ranges 返回当前的省略号与弹性空白字形区间。
func (r *Rewriter) Ranges() (ellipsis, flexibleSpace layout.Range, ok bool) {
	return r.state.ellipsis, r.state.flexibleSpace, r.state.active
}

// Active reports whether a substitution is in effect.
func (r *Rewriter) Active() bool { return r.state.active }

// TriggerTruncationIfNeeded 在文本溢出容器时选出末尾单词作为省略号区间，并使宿主重新生成这些字形。
// 返回是否设置了替换。调用前应先调用 RestoreIfNeeded。
func (r *Rewriter) TriggerTruncationIfNeeded() bool {
	glyphRange := r.host.GlyphRangeForContainer()
	if glyphRange.Length <= 1 {
		return false
	}

	content := r.host.Runes()
	charRange := r.host.CharacterRangeForGlyphRange(glyphRange)
	if charRange.Max() >= len(content) {
		return false
	}

	// 可能合并多个单词，保证被替换的文本足够宽。
	endingWords := endingWords(content, charRange, minEllipsisChars)
	if endingWords.Length < minEllipsisChars {
		return false
	}

	ellipsisGlyphs := r.host.GlyphRangeForCharacterRange(endingWords)
	flexibleSpaceChars := layout.Range{Location: endingWords.Max(), Length: 1}
	flexibleSpaceGlyphs := r.host.GlyphRangeForCharacterRange(flexibleSpaceChars)
	r.state.set(ellipsisGlyphs, flexibleSpaceGlyphs)
	layout.Logger().Debug("ellipsis: truncating",
		"chars", endingWords, "ellipsis", ellipsisGlyphs, "flexibleSpace", flexibleSpaceGlyphs)

	r.host.InvalidateGlyphs(endingWords)
	r.host.InvalidateLayout(endingWords)
	return true
}

// RestoreIfNeeded 清除替换并使宿主重新生成原始字形。没有替换时不做任何事并返回 false。
func (r *Rewriter) RestoreIfNeeded() bool {
	if !r.state.active {
		return false
	}
	glyphs := r.state.ellipsis.Union(r.state.flexibleSpace)
	chars := r.host.CharacterRangeForGlyphRange(glyphs)
	r.state.clear()
	layout.Logger().Debug("ellipsis: restoring", "chars", chars)
	r.host.InvalidateGlyphs(chars)
	return true
}

// Refresh 先恢复再重新检测，返回最终是否处于截断状态。文本或容器变化后调用。
func (r *Rewriter) Refresh() bool {
	r.RestoreIfNeeded()
	return r.TriggerTruncationIfNeeded()
}
