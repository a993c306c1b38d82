// Package document turns a parsed rondo file into laid-out pages.
package document

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/ByLCY/rondo/binding"
	"github.com/ByLCY/rondo/container"
	"github.com/ByLCY/rondo/dsl"
	"github.com/ByLCY/rondo/ellipsis"
	"github.com/ByLCY/rondo/fonts"
	"github.com/ByLCY/rondo/layout"
)

// FontProvider 为排版提供指定字号（mm）的字体。*fonts.Provider 实现了它。
type FontProvider interface {
	Face(res layout.FontResource, size float64) (layout.Font, error)
}

var _ FontProvider = (*fonts.Provider)(nil)

// BuildOptions 控制构建过程。
type BuildOptions struct {
	Fonts FontProvider
}

const (
	defaultFontSize   = "11pt"
	defaultLineHeight = "1.2x"
	defaultFontName   = "Body"

	overflowEllipsis = "ellipsis"
	overflowClip     = "clip"
)

// Build 解析 meta、资源与页面，并对每个文本框完成排版。
// 文本框溢出且 overflow 为 ellipsis（默认）时，末尾单词被替换为省略号。
func Build(doc *dsl.Document, data any, opts BuildOptions) (*layout.Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	if opts.Fonts == nil {
		opts.Fonts = fonts.NewProvider("")
	}

	b := &builder{
		data: data,
		opts: opts,
		result: &layout.Result{
			Resources: layout.ResourceSet{
				Fonts:  map[string]layout.FontResource{},
				Colors: map[string]layout.Color{},
			},
		},
	}

	// 先收集 meta 与资源，页面可以引用在其后声明的资源。
	for _, section := range doc.Sections {
		var err error
		switch {
		case section.Meta != nil:
			err = b.applyMeta(section.Meta)
		case section.Resources != nil:
			err = b.applyResources(section.Resources)
		}
		if err != nil {
			return nil, err
		}
	}
	for _, section := range doc.Sections {
		if section.Page == nil {
			continue
		}
		page, err := b.buildPage(section.Page)
		if err != nil {
			return nil, err
		}
		b.result.Pages = append(b.result.Pages, page)
	}
	return b.result, nil
}

type builder struct {
	data      any
	opts      BuildOptions
	result    *layout.Result
	fontOrder []string
}

func (b *builder) applyMeta(meta *dsl.MetaSection) error {
	m := &b.result.Meta
	for _, entry := range meta.Entries {
		value := binding.Interpolate(entry.Value.Text(), b.data)
		switch strings.ToLower(entry.Key) {
		case "title":
			m.Title = value
		case "author":
			m.Author = value
		case "subject":
			m.Subject = value
		case "creator":
			m.Creator = value
		case "keywords":
			m.Keywords = splitKeywords(value)
		default:
			return fmt.Errorf("%s: 未知的 meta 字段 %s", entry.Pos, entry.Key)
		}
	}
	return nil
}

func splitKeywords(value string) []string {
	var out []string
	for _, kw := range strings.Split(value, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

func (b *builder) applyResources(res *dsl.ResourcesSection) error {
	for _, item := range res.Items {
		switch {
		case item.Font != nil:
			decl := item.Font
			font := layout.FontResource{Name: decl.Name}
			for _, prop := range decl.Props {
				if strings.ToLower(prop.Key) != "src" {
					return fmt.Errorf("%s: 字体 %s 不支持属性 %s", prop.Pos, decl.Name, prop.Key)
				}
				font.Src = prop.Value.Text()
			}
			if font.Src == "" {
				return fmt.Errorf("%s: 字体 %s 缺少 src", decl.Pos, decl.Name)
			}
			if _, ok := b.result.Resources.Fonts[decl.Name]; !ok {
				b.fontOrder = append(b.fontOrder, decl.Name)
			}
			b.result.Resources.Fonts[decl.Name] = font
		case item.Color != nil:
			c, err := parseHexColor(item.Color.Value)
			if err != nil {
				return fmt.Errorf("%s: 颜色 %s: %w", item.Color.Pos, item.Color.Name, err)
			}
			b.result.Resources.Colors[item.Color.Name] = c
		}
	}
	return nil
}

// parseHexColor 解析 #RGB 或 #RRGGBB。
func parseHexColor(s string) (layout.Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return layout.Color{}, fmt.Errorf("无法解析颜色 %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return layout.Color{}, fmt.Errorf("无法解析颜色 %q: %w", s, err)
	}
	return layout.Color{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, nil
}

func (b *builder) buildPage(section *dsl.PageSection) (layout.Page, error) {
	width, err := positiveMM(section.Width)
	if err != nil {
		return layout.Page{}, fmt.Errorf("%s: 页面宽度: %w", section.Pos, err)
	}
	height, err := positiveMM(section.Height)
	if err != nil {
		return layout.Page{}, fmt.Errorf("%s: 页面高度: %w", section.Pos, err)
	}
	page := layout.Page{Width: width, Height: height}
	for _, decl := range section.Frames {
		frame, err := b.buildFrame(decl)
		if err != nil {
			return layout.Page{}, err
		}
		page.Frames = append(page.Frames, frame)
	}
	return page, nil
}

// positiveMM 解析长度并转为 mm；不带单位的数字按 mm 处理。
func positiveMM(value string) (float64, error) {
	l, err := layout.ParseLength(value)
	if err != nil {
		return 0, err
	}
	mm := l.ToMM()
	if mm <= 0 {
		return 0, fmt.Errorf("长度必须大于 0，实际 %s", value)
	}
	return mm, nil
}

// frameStyle 是文本框属性解析后的结果（长度均为 mm）。
type frameStyle struct {
	font       layout.FontResource
	fontSize   float64
	lineHeight float64
	padding    float64
	color      layout.Color
	overflow   string
	outline    bool
}

func (b *builder) buildFrame(decl *dsl.FrameDecl) (layout.Frame, error) {
	frame := layout.Frame{Shape: decl.Shape}
	if decl.Name != nil {
		frame.Name = string(*decl.Name)
	}
	var err error
	if frame.X, err = nonNegativeMM(decl.X); err != nil {
		return frame, fmt.Errorf("%s: 文本框 x: %w", decl.Pos, err)
	}
	if frame.Y, err = nonNegativeMM(decl.Y); err != nil {
		return frame, fmt.Errorf("%s: 文本框 y: %w", decl.Pos, err)
	}
	if frame.Width, err = positiveMM(decl.Width); err != nil {
		return frame, fmt.Errorf("%s: 文本框宽度: %w", decl.Pos, err)
	}
	if frame.Height, err = positiveMM(decl.Height); err != nil {
		return frame, fmt.Errorf("%s: 文本框高度: %w", decl.Pos, err)
	}

	style, err := b.frameStyle(decl)
	if err != nil {
		return frame, err
	}
	frame.Font = style.font.Name
	frame.FontSize = style.fontSize
	frame.LineHeight = style.lineHeight
	frame.Padding = style.padding
	frame.Color = style.color
	frame.Outline = style.outline

	text := strings.Join(decl.Texts(), "\n")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = binding.Interpolate(text, b.data)
	text = norm.NFC.String(text)
	frame.Text = text

	face, err := b.opts.Fonts.Face(style.font, style.fontSize)
	if err != nil {
		return frame, fmt.Errorf("%s: %w", decl.Pos, err)
	}

	size := layout.Size{Width: frame.Width, Height: frame.Height}
	var c layout.Container
	if decl.Shape == "circle" {
		c = container.NewCircle(size, style.padding)
	} else {
		c = layout.NewRectContainer(size, style.padding)
	}

	mgr := layout.NewManager(face, c, layout.ManagerOptions{LineHeight: style.lineHeight})
	mgr.SetText(text)
	if style.overflow == overflowEllipsis {
		rw := ellipsis.New(mgr)
		mgr.SetDelegate(rw)
		frame.Truncated = rw.Refresh()
	}
	frame.Lines = mgr.Lines()

	layout.Logger().Debug("document: frame laid out",
		"name", frame.Name, "shape", frame.Shape, "lines", len(frame.Lines), "truncated", frame.Truncated)
	return frame, nil
}

func nonNegativeMM(value string) (float64, error) {
	l, err := layout.ParseLength(value)
	if err != nil {
		return 0, err
	}
	if l.Value < 0 {
		return 0, fmt.Errorf("长度不能为负数，实际 %s", value)
	}
	return l.ToMM(), nil
}

func (b *builder) frameStyle(decl *dsl.FrameDecl) (frameStyle, error) {
	style := frameStyle{
		font:     b.defaultFont(),
		overflow: overflowEllipsis,
	}
	sizeStr, lineHeightStr := defaultFontSize, defaultLineHeight

	for _, prop := range decl.Properties() {
		value := prop.Value.Text()
		switch strings.ToLower(prop.Key) {
		case "font":
			font, ok := b.result.Resources.Fonts[value]
			if !ok {
				return style, fmt.Errorf("%s: 未定义的字体 %s", prop.Pos, value)
			}
			style.font = font
		case "size":
			sizeStr = value
		case "line-height":
			lineHeightStr = value
		case "padding":
			padding, err := nonNegativeMM(value)
			if err != nil {
				return style, fmt.Errorf("%s: padding: %w", prop.Pos, err)
			}
			style.padding = padding
		case "color":
			c, err := b.resolveColor(value)
			if err != nil {
				return style, fmt.Errorf("%s: %w", prop.Pos, err)
			}
			style.color = c
		case "overflow":
			switch v := strings.ToLower(value); v {
			case overflowEllipsis, overflowClip:
				style.overflow = v
			default:
				return style, fmt.Errorf("%s: overflow 只能是 ellipsis 或 clip，实际 %s", prop.Pos, value)
			}
		case "outline":
			outline, err := strconv.ParseBool(value)
			if err != nil {
				return style, fmt.Errorf("%s: outline 只能是 true 或 false，实际 %s", prop.Pos, value)
			}
			style.outline = outline
		default:
			return style, fmt.Errorf("%s: 文本框不支持属性 %s", prop.Pos, prop.Key)
		}
	}

	size, err := layout.ParseLength(sizeStr)
	if err != nil {
		return style, fmt.Errorf("%s: 字号: %w", decl.Pos, err)
	}
	if size.Unit == layout.UnitNone {
		size.Unit = layout.UnitPT
	}
	if size.Value <= 0 {
		return style, fmt.Errorf("%s: 字号必须大于 0，实际 %s", decl.Pos, sizeStr)
	}
	lh, err := layout.ParseLineHeight(lineHeightStr)
	if err != nil {
		return style, fmt.Errorf("%s: 行高: %w", decl.Pos, err)
	}
	style.fontSize = size.ToMM()
	style.lineHeight = lh.Resolve(size, layout.UnitMM)
	if style.lineHeight <= 0 {
		return style, fmt.Errorf("%s: 行高必须大于 0，实际 %s", decl.Pos, lineHeightStr)
	}
	return style, nil
}

// defaultFont 优先使用名为 Body 的字体，其次是第一个声明的字体，最后是内置字体。
func (b *builder) defaultFont() layout.FontResource {
	if font, ok := b.result.Resources.Fonts[defaultFontName]; ok {
		return font
	}
	if len(b.fontOrder) > 0 {
		return b.result.Resources.Fonts[b.fontOrder[0]]
	}
	return layout.FontResource{Name: "default", Src: fonts.DefaultSrc}
}

func (b *builder) resolveColor(value string) (layout.Color, error) {
	if strings.HasPrefix(value, "#") {
		return parseHexColor(value)
	}
	c, ok := b.result.Resources.Colors[value]
	if !ok {
		return layout.Color{}, fmt.Errorf("未定义的颜色 %s", value)
	}
	return c, nil
}
