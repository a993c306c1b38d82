package layout

// 该文件定义布局引擎的几何、区间与字形类型，以及供渲染与调试 JSON 共用的布局结果。

// Point 是容器坐标系中的一个点。
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size 描述容器或矩形的宽高。
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect 以左上角为原点，Y 轴向下。
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) MinX() float64 { return r.X }
func (r Rect) MaxX() float64 { return r.X + r.Width }
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// IsEmpty reports whether the rect has no area.
func (r Rect) IsEmpty() bool { return r.Width <= 0 || r.Height <= 0 }

// Range 是字符或字形序列上的连续区间 [Location, Location+Length)。
type Range struct {
	Location int `json:"location"`
	Length   int `json:"length"`
}

// Max 返回区间末尾（不含）。
func (r Range) Max() int { return r.Location + r.Length }

func (r Range) IsEmpty() bool { return r.Length <= 0 }

// Contains reports whether i lies inside the range.
func (r Range) Contains(i int) bool { return i >= r.Location && i < r.Max() }

// Intersection 返回两个区间的交集；不相交时返回 {0, 0}。
func (r Range) Intersection(o Range) Range {
	start := max(r.Location, o.Location)
	end := min(r.Max(), o.Max())
	if end <= start {
		return Range{}
	}
	return Range{Location: start, Length: end - start}
}

// Union 返回覆盖两个区间的最小区间。
func (r Range) Union(o Range) Range {
	start := min(r.Location, o.Location)
	end := max(r.Max(), o.Max())
	return Range{Location: start, Length: end - start}
}

// GlyphID 是字体内部的字形编号。
type GlyphID uint16

// GlyphProperty 控制字形在排版阶段的处理方式。
type GlyphProperty uint8

const (
	PropertyNone GlyphProperty = iota
	// PropertyNull 表示该字形不参与排版，例如被删除的字符。
	PropertyNull
	// PropertyControlCharacter 表示该字形按控制字符处理，具体宽度由 ControlCharacterAction 决定。
	PropertyControlCharacter
)

func (p GlyphProperty) String() string {
	switch p {
	case PropertyNull:
		return "null"
	case PropertyControlCharacter:
		return "control"
	default:
		return "none"
	}
}

// ControlCharacterAction 描述排版时控制字符的处理方式。
type ControlCharacterAction uint8

const (
	ActionZeroAdvancement ControlCharacterAction = iota + 1
	ActionWhitespace
	ActionHorizontalTab
	ActionLineBreak
	ActionParagraphBreak
	ActionContainerBreak
)

func (a ControlCharacterAction) String() string {
	switch a {
	case ActionZeroAdvancement:
		return "zero-advancement"
	case ActionWhitespace:
		return "whitespace"
	case ActionHorizontalTab:
		return "horizontal-tab"
	case ActionLineBreak:
		return "line-break"
	case ActionParagraphBreak:
		return "paragraph-break"
	case ActionContainerBreak:
		return "container-break"
	default:
		return "unknown"
	}
}

// breaksLine reports whether the action ends the current line fragment.
func (a ControlCharacterAction) breaksLine() bool {
	return a == ActionLineBreak || a == ActionParagraphBreak || a == ActionContainerBreak
}

// WritingDirection is passed through to containers; only left-to-right text is laid out.
type WritingDirection int8

const (
	DirectionNatural WritingDirection = iota - 1
	DirectionLeftToRight
	DirectionRightToLeft
)

// GlyphRun 是一段待提交的字形，三个切片长度一致，下标对应 Range 内的字形。
type GlyphRun struct {
	Range            Range
	Glyphs           []GlyphID
	Properties       []GlyphProperty
	CharacterIndexes []int
}

// Len returns the number of glyphs in the run.
func (r GlyphRun) Len() int { return len(r.Glyphs) }

// Clone 复制三个切片，调用方可以安全修改返回值。
func (r GlyphRun) Clone() GlyphRun {
	out := GlyphRun{
		Range:            r.Range,
		Glyphs:           make([]GlyphID, len(r.Glyphs)),
		Properties:       make([]GlyphProperty, len(r.Properties)),
		CharacterIndexes: make([]int, len(r.CharacterIndexes)),
	}
	copy(out.Glyphs, r.Glyphs)
	copy(out.Properties, r.Properties)
	copy(out.CharacterIndexes, r.CharacterIndexes)
	return out
}

// ShapedGlyph 是字体整形（shaping）的输出，Cluster 为该字形所属簇的首字符下标。
type ShapedGlyph struct {
	ID      GlyphID
	Cluster int
	Advance float64
}

// FontMetrics 以字号缩放后的单位保存。
type FontMetrics struct {
	Ascent  float64 `json:"ascent"`
	Descent float64 `json:"descent"`
	Height  float64 `json:"height"`
}

// LineFragment 是一行排版结果：字形区间、行矩形、实际使用的矩形与基线偏移。
type LineFragment struct {
	GlyphRange Range   `json:"glyphRange"`
	Rect       Rect    `json:"rect"`
	UsedRect   Rect    `json:"usedRect"`
	Baseline   float64 `json:"baseline"`
}

// GlyphInfo 是排版后单个字形的快照。
type GlyphInfo struct {
	ID             GlyphID       `json:"id"`
	Property       GlyphProperty `json:"property"`
	CharacterIndex int           `json:"char"`
	Position       Point         `json:"position"`
	Advance        float64       `json:"advance"`
}

// Result 保存整份文档的布局结果。
type Result struct {
	Pages     []Page       `json:"pages"`
	Resources ResourceSet  `json:"resources"`
	Meta      DocumentMeta `json:"meta"`
}

// ResourceSet 记录解析出的字体与颜色定义。
type ResourceSet struct {
	Fonts  map[string]FontResource `json:"fonts"`
	Colors map[string]Color        `json:"colors"`
}

// FontResource 描述字体资源，src 可以是文件路径或 builtin:* / embed:* 形式。
type FontResource struct {
	Name string `json:"name"`
	Src  string `json:"src"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Page 记录页面尺寸（mm）与其中的文本框。
type Page struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Frames []Frame `json:"frames"`
}

// Frame 是一个已完成排版的文本容器，X/Y 为页面坐标，行与字形坐标相对容器左上角。
type Frame struct {
	Name       string      `json:"name,omitempty"`
	Shape      string      `json:"shape"`
	X          float64     `json:"x"`
	Y          float64     `json:"y"`
	Width      float64     `json:"width"`
	Height     float64     `json:"height"`
	Font       string      `json:"font"`
	FontSize   float64     `json:"fontSize"`
	LineHeight float64     `json:"lineHeight"`
	Padding    float64     `json:"padding"`
	Color      Color       `json:"color"`
	Outline    bool        `json:"outline,omitempty"`
	Truncated  bool        `json:"truncated"`
	Text       string      `json:"text"`
	Lines      []FrameLine `json:"lines"`
}

// FrameLine 是一行在容器中的最终位置；Hidden 表示该行被推出可见区域。
type FrameLine struct {
	Rect     Rect          `json:"rect"`
	Baseline float64       `json:"baseline"`
	Hidden   bool          `json:"hidden,omitempty"`
	Text     string        `json:"text"`
	Glyphs   []PlacedGlyph `json:"glyphs"`
}

// PlacedGlyph 是可以直接绘制的字形，Text 为其对应的字符串（替换字形使用替换后的字符）。
type PlacedGlyph struct {
	ID      GlyphID `json:"id"`
	Char    int     `json:"char"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Advance float64 `json:"advance"`
	Text    string  `json:"text,omitempty"`
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}
