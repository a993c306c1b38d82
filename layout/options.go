package layout

// Font 是排版后端所需的最小字体能力，字号在创建时确定，所有长度均为缩放后的容器单位。
type Font interface {
	Name() string
	Size() float64
	// GlyphIndex 返回字符对应的字形；字体无法编码该字符时 ok 为 false，id 为占位字形。
	GlyphIndex(r rune) (id GlyphID, ok bool)
	// Rune 反查通过 GlyphIndex 得到的字形。
	Rune(id GlyphID) (rune, bool)
	Advance(id GlyphID) float64
	Metrics() FontMetrics
	// Shape 按逻辑顺序返回整形后的字形。
	Shape(text []rune) []ShapedGlyph
}

// Container 决定每一行可用的矩形区域。
type Container interface {
	Size() Size
	LineFragmentPadding() float64
	// LineFragmentRect 根据排版器建议的行矩形返回修正后的矩形，宽度为 0 表示该行不可用。
	LineFragmentRect(proposed Rect, characterIndex int, dir WritingDirection) Rect
}

// Delegate 在字形生成与行放置阶段被 Manager 同步回调。
type Delegate interface {
	// GenerateGlyphs 返回与输入等长的字形；返回值长度不一致时 Manager 会忽略它。
	GenerateGlyphs(run GlyphRun, font Font) GlyphRun
	// OverrideLineFragment 返回 true 时使用返回的矩形替换行矩形。
	OverrideLineFragment(frag LineFragment, c Container) (Rect, bool)
	ControlCharacterAction(action ControlCharacterAction, charIndex int) ControlCharacterAction
	BoundingBoxForControlGlyph(glyphIndex int, c Container, proposed Rect, glyphPosition Point, charIndex int) Rect
}

// ManagerOptions 配置 Manager。
type ManagerOptions struct {
	// LineHeight 为 0 时使用字体度量的行高。
	LineHeight float64
	Direction  WritingDirection
	// TabInterval 为 0 时使用四个空格的宽度。
	TabInterval float64
	Delegate    Delegate
}
