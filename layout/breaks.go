package layout

import (
	"unicode"

	"github.com/go-text/typesetting/segmenter"
)

// lineBreaks 返回 breakAfter[i]：字符 i 之后是否存在 UAX#14 断行机会。
func lineBreaks(text []rune) []bool {
	out := make([]bool, len(text))
	if len(text) == 0 {
		return out
	}
	var seg segmenter.Segmenter
	seg.Init(text)
	iter := seg.LineIterator()
	for iter.Next() {
		line := iter.Line()
		end := line.Offset + len(line.Text) - 1
		if end >= 0 && end < len(out) {
			out[end] = true
		}
	}
	return out
}

func defaultProperty(r rune) GlyphProperty {
	switch r {
	case '\n', '\r', '\t', '\f', '\u2028', '\u2029':
		return PropertyControlCharacter
	}
	return PropertyNone
}

func defaultAction(r rune) ControlCharacterAction {
	switch r {
	case '\n', '\r', '\u2029':
		return ActionParagraphBreak
	case '\u2028':
		return ActionLineBreak
	case '\t':
		return ActionHorizontalTab
	case '\f':
		return ActionContainerBreak
	}
	return ActionZeroAdvancement
}

// isHangingSpace reports whether r may overflow the end of a line.
func isHangingSpace(r rune) bool {
	return r != '\u00a0' && unicode.IsSpace(r)
}
