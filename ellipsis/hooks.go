package ellipsis

import (
	"github.com/ByLCY/rondo/layout"
)

// GenerateGlyphs 实现 layout.Delegate：把省略号区间的首个字形换成 U+2026，
// 其余字形与弹性空白标记为控制字符。返回的字形数量总是与输入一致；
// 与两个区间都不相交时原样返回输入。
func (r *Rewriter) GenerateGlyphs(run layout.GlyphRun, font layout.Font) layout.GlyphRun {
	var ellipsisHit, flexibleHit layout.Range
	if r.state.active {
		ellipsisHit = run.Range.Intersection(r.state.ellipsis)
		flexibleHit = run.Range.Intersection(r.state.flexibleSpace)
	}
	if ellipsisHit.IsEmpty() && flexibleHit.IsEmpty() {
		return run
	}

	out := run.Clone()
	if !ellipsisHit.IsEmpty() {
		id, ok := font.GlyphIndex(Ellipsis)
		if !ok {
			layout.Logger().Warn("ellipsis: font cannot encode U+2026, using placeholder glyph",
				"font", font.Name(), "glyph", id)
		}
		for g := ellipsisHit.Location; g < ellipsisHit.Max(); g++ {
			if g == r.state.ellipsis.Location {
				out.Glyphs[g-run.Range.Location] = id
			} else {
				out.Properties[g-run.Range.Location] = layout.PropertyControlCharacter
			}
		}
	}
	for g := flexibleHit.Location; g < flexibleHit.Max(); g++ {
		out.Properties[g-run.Range.Location] = layout.PropertyControlCharacter
	}
	return out
}

// OverrideLineFragment 把起点位于省略号之后的行移到容器右边界之外。
func (r *Rewriter) OverrideLineFragment(frag layout.LineFragment, c layout.Container) (layout.Rect, bool) {
	if !r.state.active || frag.GlyphRange.Location <= r.state.ellipsis.Location {
		return frag.Rect, false
	}
	rect := frag.Rect
	rect.X = c.Size().Width
	return rect, true
}

// ControlCharacterAction 让弹性空白按空白字符参与断行。
func (r *Rewriter) ControlCharacterAction(action layout.ControlCharacterAction, charIndex int) layout.ControlCharacterAction {
	if r.state.active && r.state.flexibleSpace.Contains(r.host.GlyphIndexForCharacter(charIndex)) {
		return layout.ActionWhitespace
	}
	return action
}

// BoundingBoxForControlGlyph 让弹性空白占满行内剩余宽度，省略号后被隐藏的字形宽度为 0。
func (r *Rewriter) BoundingBoxForControlGlyph(glyphIndex int, c layout.Container, proposed layout.Rect, glyphPosition layout.Point, _ int) layout.Rect {
	if !r.state.active || !r.state.flexibleSpace.Contains(glyphIndex) {
		return layout.Rect{X: glyphPosition.X, Y: glyphPosition.Y, Width: 0, Height: proposed.Height}
	}
	padding := c.LineFragmentPadding() * 2
	width := proposed.Width - (glyphPosition.X - proposed.MinX()) - padding
	return layout.Rect{X: glyphPosition.X, Y: glyphPosition.Y, Width: width, Height: proposed.Height}
}
