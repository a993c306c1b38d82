package layout

import (
	"math"
	"strings"
)

const epsilon = 1e-9

// Manager 是一个精简的排版宿主：保存文本与整形结果，生成字形、逐行断行，
// 并在字形生成与行放置时同步回调 Delegate。所有方法都应在同一个 goroutine 中调用。
//
// 字符下标以 rune 计；字形与字符通过整形簇（cluster）双向映射，二者长度不一定相等。
type Manager struct {
	font      Font
	container Container
	delegate  Delegate
	opts      ManagerOptions

	text       []rune
	breakAfter []bool

	// shaped 为整形结果；glyphs/props 为经过 Delegate 后的最终字形。
	shaped      []ShapedGlyph
	chars       []int
	charToGlyph []int
	glyphs      []GlyphID
	props       []GlyphProperty

	dirty    Range
	hasDirty bool

	layoutValid bool
	fragments   []LineFragment
	positions   []Point
	advances    []float64
	laidOut     int
}

// NewManager creates a manager that lays text out with font inside c.
func NewManager(font Font, c Container, opts ManagerOptions) *Manager {
	return &Manager{
		font:      font,
		container: c,
		delegate:  opts.Delegate,
		opts:      opts,
	}
}

// SetText 替换全部文本，重新整形并使所有字形与布局失效。
func (m *Manager) SetText(s string) {
	m.text = []rune(s)
	m.breakAfter = lineBreaks(m.text)
	m.shaped = nil
	if len(m.text) > 0 && m.font != nil {
		m.shaped = m.font.Shape(m.text)
	}

	n := len(m.shaped)
	m.chars = make([]int, n)
	for i, g := range m.shaped {
		m.chars[i] = min(max(g.Cluster, 0), len(m.text)-1)
	}
	m.buildCharMap()

	m.glyphs = make([]GlyphID, n)
	m.props = make([]GlyphProperty, n)
	m.positions = make([]Point, n)
	m.advances = make([]float64, n)
	m.dirty = Range{Location: 0, Length: n}
	m.hasDirty = n > 0
	m.layoutValid = false
}

// buildCharMap 让每个字符指向其所在簇的第一个字形；没有自己字形的字符归入前一个簇。
func (m *Manager) buildCharMap() {
	m.charToGlyph = make([]int, len(m.text))
	for i := range m.charToGlyph {
		m.charToGlyph[i] = -1
	}
	for g, c := range m.chars {
		if m.charToGlyph[c] < 0 {
			m.charToGlyph[c] = g
		}
	}
	for c := range m.charToGlyph {
		if m.charToGlyph[c] >= 0 {
			continue
		}
		if c == 0 {
			m.charToGlyph[c] = 0
			continue
		}
		m.charToGlyph[c] = m.charToGlyph[c-1]
	}
}

// SetDelegate 设置回调对象，所有字形都会重新经过它生成。
func (m *Manager) SetDelegate(d Delegate) {
	m.delegate = d
	m.InvalidateGlyphs(Range{Location: 0, Length: len(m.text)})
}

// Delegate 返回当前回调对象，未设置时为 nil。
func (m *Manager) Delegate() Delegate { return m.delegate }

// Font 返回排版使用的字体。
func (m *Manager) Font() Font { return m.font }

// Container 返回当前容器。
func (m *Manager) Container() Container { return m.container }

// SetContainer 替换容器并使布局失效。
func (m *Manager) SetContainer(c Container) {
	m.container = c
	m.layoutValid = false
}

// ContainerChanged 在容器尺寸或内边距变化后调用。
func (m *Manager) ContainerChanged() { m.layoutValid = false }

// Runes 返回文本内容，调用方不得修改。
func (m *Manager) Runes() []rune { return m.text }

// Text 返回原始文本；字形替换不会改动它。
func (m *Manager) Text() string { return string(m.text) }

// NumberOfGlyphs 返回字形总数。
func (m *Manager) NumberOfGlyphs() int { return len(m.glyphs) }

// GlyphRangeForContainer 返回已排入容器的字形区间，必要时先完成排版。
func (m *Manager) GlyphRangeForContainer() Range {
	m.ensureLayout()
	return Range{Location: 0, Length: m.laidOut}
}

// CharacterRangeForGlyphRange 返回覆盖给定字形的字符区间（按簇扩展）。
func (m *Manager) CharacterRangeForGlyphRange(r Range) Range {
	ng := len(m.chars)
	if r.Location >= ng {
		return Range{Location: len(m.text)}
	}
	loc := max(r.Location, 0)
	start := m.chars[loc]
	if r.Length <= 0 {
		return Range{Location: start}
	}
	last := min(r.Max(), ng) - 1
	end := m.clusterEnd(last)
	return Range{Location: start, Length: end - start}
}

// GlyphRangeForCharacterRange 返回给定字符生成的全部字形。
func (m *Manager) GlyphRangeForCharacterRange(r Range) Range {
	n := len(m.text)
	if r.Location >= n {
		return Range{Location: len(m.glyphs)}
	}
	loc := max(r.Location, 0)
	start := m.charToGlyph[loc]
	if r.Length <= 0 {
		return Range{Location: start}
	}
	last := min(r.Max(), n) - 1
	end := m.glyphEndForChar(last)
	return Range{Location: start, Length: end - start}
}

// GlyphIndexForCharacter 返回字符对应的第一个字形下标；超出文本末尾时返回字形总数。
func (m *Manager) GlyphIndexForCharacter(charIndex int) int {
	if charIndex >= len(m.text) {
		return len(m.glyphs)
	}
	if charIndex < 0 {
		return 0
	}
	return m.charToGlyph[charIndex]
}

// InvalidateGlyphs 标记字符区间对应的字形需要重新生成，下一次查询时会再次回调 Delegate.GenerateGlyphs。
// 与文本系统的惰性生成一致，失效位置之后直到文本末尾的字形都会重新生成。
func (m *Manager) InvalidateGlyphs(chars Range) {
	gr := m.GlyphRangeForCharacterRange(chars)
	m.layoutValid = false
	if gr.IsEmpty() {
		return
	}
	gr.Length = len(m.glyphs) - gr.Location
	if m.hasDirty {
		m.dirty = m.dirty.Union(gr)
	} else {
		m.dirty = gr
		m.hasDirty = true
	}
}

// InvalidateLayout 标记布局失效。Manager 总是从第一行重新排版，因此字符区间只作为契约的一部分保留。
func (m *Manager) InvalidateLayout(_ Range) {
	m.layoutValid = false
}

// Fragments 返回当前的行片段。
func (m *Manager) Fragments() []LineFragment {
	m.ensureLayout()
	out := make([]LineFragment, len(m.fragments))
	copy(out, m.fragments)
	return out
}

// Glyph 返回第 i 个字形的快照；未排入容器的字形位置为零值。
func (m *Manager) Glyph(i int) GlyphInfo {
	m.ensureLayout()
	info := GlyphInfo{
		ID:             m.glyphs[i],
		Property:       m.props[i],
		CharacterIndex: m.chars[i],
	}
	if i < m.laidOut {
		info.Position = m.positions[i]
		info.Advance = m.advances[i]
	}
	return info
}

// IsHidden reports whether the fragment was moved outside the container's width.
func (m *Manager) IsHidden(frag LineFragment) bool {
	return m.container != nil && frag.Rect.X >= m.container.Size().Width-epsilon
}

// VisibleText 返回容器内可见行的文本，控制字形被省略，替换字形按其字符输出。
func (m *Manager) VisibleText() string {
	m.ensureLayout()
	var lines []string
	for _, frag := range m.fragments {
		if m.IsHidden(frag) {
			continue
		}
		lines = append(lines, m.fragmentText(frag))
	}
	return strings.Join(lines, "\n")
}

// Lines 返回可直接绘制的行，坐标相对容器左上角。
func (m *Manager) Lines() []FrameLine {
	m.ensureLayout()
	out := make([]FrameLine, 0, len(m.fragments))
	for _, frag := range m.fragments {
		line := FrameLine{
			Rect:     frag.Rect,
			Baseline: frag.Baseline,
			Hidden:   m.IsHidden(frag),
			Text:     m.fragmentText(frag),
		}
		for i := frag.GlyphRange.Location; i < frag.GlyphRange.Max(); i++ {
			text := m.glyphText(i)
			if text == "" {
				continue
			}
			line.Glyphs = append(line.Glyphs, PlacedGlyph{
				ID:      m.glyphs[i],
				Char:    m.chars[i],
				X:       m.positions[i].X,
				Y:       m.positions[i].Y,
				Advance: m.advances[i],
				Text:    text,
			})
		}
		out = append(out, line)
	}
	return out
}

func (m *Manager) fragmentText(frag LineFragment) string {
	var b strings.Builder
	for i := frag.GlyphRange.Location; i < frag.GlyphRange.Max(); i++ {
		b.WriteString(m.glyphText(i))
	}
	return b.String()
}

func (m *Manager) glyphText(i int) string {
	if m.props[i] == PropertyControlCharacter || m.props[i] == PropertyNull {
		return ""
	}
	if id := m.glyphs[i]; id != m.shaped[i].ID {
		if r, ok := m.font.Rune(id); ok {
			return string(r)
		}
		return ""
	}
	if i > 0 && m.chars[i-1] == m.chars[i] {
		return ""
	}
	return string(m.text[m.chars[i]:m.clusterEnd(i)])
}

// clusterEnd 返回字形 i 所在簇之后的第一个字符下标。
func (m *Manager) clusterEnd(i int) int {
	c := m.chars[i]
	for j := i + 1; j < len(m.chars); j++ {
		if m.chars[j] > c {
			return m.chars[j]
		}
	}
	return len(m.text)
}

func (m *Manager) glyphEndForChar(c int) int {
	g := m.charToGlyph[c]
	for g < len(m.chars) && m.chars[g] <= c {
		g++
	}
	return g
}

func (m *Manager) ensureGlyphs() {
	if !m.hasDirty {
		return
	}
	r := m.dirty.Intersection(Range{Location: 0, Length: len(m.shaped)})
	m.dirty = Range{}
	m.hasDirty = false
	if r.IsEmpty() {
		return
	}

	run := GlyphRun{
		Range:            r,
		Glyphs:           make([]GlyphID, r.Length),
		Properties:       make([]GlyphProperty, r.Length),
		CharacterIndexes: make([]int, r.Length),
	}
	for i := 0; i < r.Length; i++ {
		g := r.Location + i
		run.Glyphs[i] = m.shaped[g].ID
		run.Properties[i] = defaultProperty(m.text[m.chars[g]])
		run.CharacterIndexes[i] = m.chars[g]
	}

	out := run
	if m.delegate != nil {
		out = m.delegate.GenerateGlyphs(run, m.font)
		if out.Len() != run.Len() || len(out.Properties) != run.Len() {
			Logger().Warn("layout: delegate changed glyph count, keeping generated glyphs",
				"range", r, "want", run.Len(), "got", out.Len())
			out = run
		}
	}
	copy(m.glyphs[r.Location:r.Max()], out.Glyphs)
	copy(m.props[r.Location:r.Max()], out.Properties)
}

func (m *Manager) ensureLayout() {
	m.ensureGlyphs()
	if m.layoutValid {
		return
	}
	// 先置位：布局过程中的回调不会再次触发排版。
	m.layoutValid = true
	m.layoutLines()
}

func (m *Manager) lineHeight() float64 {
	if m.opts.LineHeight > 0 {
		return m.opts.LineHeight
	}
	if m.font == nil {
		return 0
	}
	if h := m.font.Metrics().Height; h > 0 {
		return h
	}
	return m.font.Size() * 1.2
}

// baselineOffset 返回基线到行顶部的距离，多出的行距上下平分。
func (m *Manager) baselineOffset(lineHeight float64) float64 {
	metrics := m.font.Metrics()
	textHeight := metrics.Ascent + metrics.Descent
	return metrics.Ascent + math.Max(lineHeight-textHeight, 0)/2
}

func (m *Manager) tabInterval() float64 {
	if m.opts.TabInterval > 0 {
		return m.opts.TabInterval
	}
	if id, ok := m.font.GlyphIndex(' '); ok {
		if adv := m.font.Advance(id); adv > 0 {
			return adv * 4
		}
	}
	return m.font.Size() * 2
}

func (m *Manager) layoutLines() {
	m.fragments = m.fragments[:0]
	m.laidOut = 0
	n := len(m.glyphs)
	if n == 0 || m.container == nil {
		return
	}

	size := m.container.Size()
	pad := m.container.LineFragmentPadding()
	lh := m.lineHeight()
	if lh <= 0 {
		return
	}
	baseline := m.baselineOffset(lh)

	g := 0
	for y := 0.0; g < n && y+lh <= size.Height+epsilon; y += lh {
		proposed := Rect{X: 0, Y: y, Width: size.Width, Height: lh}
		rect := m.container.LineFragmentRect(proposed, m.chars[g], m.opts.Direction)
		if rect.Width-2*pad <= epsilon {
			continue
		}
		end, used, stop := m.fillLine(g, rect, pad, baseline)
		if end == g {
			// 行太窄，连第一个字形都放不下，留给下一行。
			continue
		}

		frag := LineFragment{
			GlyphRange: Range{Location: g, Length: end - g},
			Rect:       rect,
			UsedRect:   Rect{X: rect.X + pad, Y: rect.Y, Width: used, Height: lh},
			Baseline:   baseline,
		}
		if m.delegate != nil {
			if r, ok := m.delegate.OverrideLineFragment(frag, m.container); ok {
				dx, dy := r.X-rect.X, r.Y-rect.Y
				for i := g; i < end; i++ {
					m.positions[i].X += dx
					m.positions[i].Y += dy
				}
				frag.UsedRect.X += dx
				frag.UsedRect.Y += dy
				frag.Rect = r
			}
		}
		Logger().Debug("layout: line fragment", "glyphs", frag.GlyphRange, "rect", frag.Rect)
		m.fragments = append(m.fragments, frag)
		g = end
		if stop {
			break
		}
	}
	m.laidOut = g
}

// fillLine 从字形 g 开始贪心填充一行，返回行尾（不含）、已用宽度以及是否遇到容器中断。
func (m *Manager) fillLine(g int, rect Rect, pad, baseline float64) (end int, used float64, stop bool) {
	avail := rect.Width - 2*pad
	origin := Point{X: rect.X + pad, Y: rect.Y + baseline}
	x := 0.0
	lastBreak, breakWidth := -1, 0.0

	for i := g; i < len(m.glyphs); i++ {
		pos := Point{X: origin.X + x, Y: origin.Y}
		adv, action := m.advanceAt(i, rect, pos, x)
		if action.breaksLine() {
			m.place(i, pos, 0)
			return i + 1, x, action == ActionContainerBreak
		}
		if x+adv > avail+epsilon && !(action == 0 && isHangingSpace(m.text[m.chars[i]])) {
			if lastBreak >= g {
				return lastBreak + 1, breakWidth, false
			}
			if i == g {
				return g, 0, false
			}
			return m.clusterStart(i, g), x, false
		}
		m.place(i, pos, adv)
		x += adv
		if action == ActionWhitespace && m.delegate != nil && avail-x <= pad+epsilon {
			// Delegate 给出的空白已占满行尾，本行到此为止。
			return i + 1, x, false
		}
		if action == ActionWhitespace || m.breakAfterGlyph(i) {
			lastBreak, breakWidth = i, x
		}
	}
	return len(m.glyphs), x, false
}

// advanceAt 返回字形宽度；非控制字形的 action 为 0。
func (m *Manager) advanceAt(i int, rect Rect, pos Point, x float64) (float64, ControlCharacterAction) {
	switch m.props[i] {
	case PropertyNull:
		return 0, 0
	case PropertyControlCharacter:
	default:
		return m.glyphAdvance(i), 0
	}

	c := m.chars[i]
	action := defaultAction(m.text[c])
	if m.delegate != nil {
		action = m.delegate.ControlCharacterAction(action, c)
	}
	switch action {
	case ActionWhitespace:
		if m.delegate == nil {
			return m.glyphAdvance(i), action
		}
		box := m.delegate.BoundingBoxForControlGlyph(i, m.container, rect, pos, c)
		return math.Max(box.Width, 0), action
	case ActionHorizontalTab:
		tab := m.tabInterval()
		return (math.Floor(x/tab)+1)*tab - x, action
	default:
		return 0, action
	}
}

func (m *Manager) glyphAdvance(i int) float64 {
	if m.glyphs[i] == m.shaped[i].ID {
		return m.shaped[i].Advance
	}
	return m.font.Advance(m.glyphs[i])
}

func (m *Manager) place(i int, pos Point, adv float64) {
	m.positions[i] = pos
	m.advances[i] = adv
}

func (m *Manager) breakAfterGlyph(i int) bool {
	if i+1 < len(m.chars) && m.chars[i+1] == m.chars[i] {
		return false
	}
	return m.breakAfter[m.clusterEnd(i)-1]
}

// clusterStart 避免在簇中间断行；整行只有一个簇时仍在 i 处断开。
func (m *Manager) clusterStart(i, g int) int {
	j := i
	for j > g && m.chars[j] == m.chars[j-1] {
		j--
	}
	if j == g {
		return i
	}
	return j
}
