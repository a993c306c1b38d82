package ellipsis

import (
	"unicode"

	"github.com/go-text/typesetting/segmenter"

	"github.com/ByLCY/rondo/layout"
)

// wordsReverse 按从后往前的顺序枚举 within 内的单词，fn 返回 false 时停止。
// 单词边界遵循 UAX#29；不含字母或数字的片段会被跳过。
func wordsReverse(text []rune, within layout.Range, fn func(word layout.Range) bool) {
	start := max(within.Location, 0)
	end := min(within.Max(), len(text))
	if end <= start {
		return
	}

	var words []layout.Range
	var seg segmenter.Segmenter
	seg.Init(text[start:end])
	iter := seg.WordIterator()
	for iter.Next() {
		word := iter.Word()
		if !hasWordRune(word.Text) {
			continue
		}
		words = append(words, layout.Range{Location: start + word.Offset, Length: len(word.Text)})
	}

	for i := len(words) - 1; i >= 0; i-- {
		if !fn(words[i]) {
			return
		}
	}
}

func hasWordRune(word []rune) bool {
	for _, r := range word {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// endingWords 从可见区间末尾向前合并单词，直到长度不小于 minLength。
// 第一个单词直接作为结果；之后只合并起点严格更靠前的单词，乱序的单词被跳过而不是重排。
func endingWords(text []rune, visible layout.Range, minLength int) layout.Range {
	var acc layout.Range
	seen := false
	wordsReverse(text, visible, func(word layout.Range) bool {
		switch {
		case !seen:
			acc = word
			seen = true
		case acc.Location > word.Location:
			acc.Length += acc.Location - word.Location
			acc.Location = word.Location
		default:
			layout.Logger().Debug("ellipsis: skipping out-of-order word", "word", word, "acc", acc)
		}
		return acc.Length < minLength
	})
	return acc
}
