package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/rondo/fonts"
	"github.com/ByLCY/rondo/layout"
	"github.com/ByLCY/rondo/renderer"
)

const outlineWidth = 0.2

// Renderer draws laid-out frames via github.com/tdewolff/canvas.
type Renderer struct {
	fonts *fonts.Provider

	fontMu       sync.Mutex
	fontFamilies map[string]*canvas.FontFamily
}

var _ renderer.Renderer = (*Renderer)(nil)

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	// Fonts 与排版共用时可保证度量一致；为空时按 BaseDir 新建。
	Fonts *fonts.Provider
}

// NewRenderer creates a canvas-based renderer rooted at baseDir for resolving font files.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with an injected font provider.
func NewRendererWithOptions(opts Options) *Renderer {
	provider := opts.Fonts
	if provider == nil {
		provider = fonts.NewProvider(opts.BaseDir)
	}
	return &Renderer{
		fonts:        provider,
		fontFamilies: map[string]*canvas.FontFamily{},
	}
}

// Render renders the result into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, result.Pages[0].Width, result.Pages[0].Height, nil)
	r.applyMeta(writer, result.Meta)
	for i, page := range result.Pages {
		if i > 0 {
			writer.NewPage(page.Width, page.Height)
		}
		c := canvas.New(page.Width, page.Height)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

		if err := r.drawPage(ctx, page, result.Resources); err != nil {
			return nil, err
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	if writer == nil {
		return
	}
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

func (r *Renderer) drawPage(ctx *canvas.Context, page layout.Page, resources layout.ResourceSet) error {
	for _, frame := range page.Frames {
		if frame.Outline {
			drawOutline(ctx, frame)
		}
		fontRes := resolveFontResource(frame.Font, resources.Fonts)
		if err := r.drawFrameText(ctx, frame, fontRes); err != nil {
			return err
		}
	}
	return nil
}

// drawOutline 绘制文本框边界：圆形框画内切圆，矩形框画矩形。
func drawOutline(ctx *canvas.Context, frame layout.Frame) {
	ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
	ctx.SetStrokeColor(colorFromLayout(frame.Color))
	ctx.SetStrokeWidth(outlineWidth)
	if frame.Shape == "circle" {
		radius := math.Min(frame.Width, frame.Height) / 2
		ctx.DrawPath(frame.X+frame.Width/2, frame.Y+frame.Height/2, canvas.Circle(radius))
		return
	}
	ctx.DrawPath(frame.X, frame.Y, canvas.Rectangle(frame.Width, frame.Height))
}

// drawFrameText 逐个字形绘制可见行。字形坐标为容器内的基线位置（mm），字号需转为 pt。
func (r *Renderer) drawFrameText(ctx *canvas.Context, frame layout.Frame, fontRes layout.FontResource) error {
	if len(frame.Lines) == 0 {
		return nil
	}
	family, err := r.ensureFontFamily(fontRes)
	if err != nil {
		return err
	}
	face := family.Face(toPt(frame.FontSize), colorFromLayout(frame.Color), canvas.FontRegular, canvas.FontNormal)
	for _, line := range frame.Lines {
		if line.Hidden {
			continue
		}
		for _, g := range line.Glyphs {
			if strings.TrimSpace(g.Text) == "" {
				continue
			}
			ctx.DrawText(frame.X+g.X, frame.Y+g.Y, canvas.NewTextLine(face, g.Text, canvas.Left))
		}
	}
	return nil
}

func (r *Renderer) ensureFontFamily(font layout.FontResource) (*canvas.FontFamily, error) {
	key := fontCacheKey(font)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.fontFamilies[key]; ok {
		return family, nil
	}
	familyName := font.Name
	if familyName == "" {
		familyName = "Body"
	}
	family := canvas.NewFontFamily(familyName)
	if err := family.LoadFont(r.fonts.Bytes(font), 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", familyName, err)
	}
	r.fontFamilies[key] = family
	return family, nil
}

func resolveFontResource(name string, fonts map[string]layout.FontResource) layout.FontResource {
	if font, ok := fonts[name]; ok {
		return font
	}
	return layout.FontResource{Name: name}
}

func fontCacheKey(font layout.FontResource) string {
	return fmt.Sprintf("%s|%s", font.Name, font.Src)
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

// toPt 将毫米(mm)转换为点(pt)。
func toPt(mm float64) float64 { return layout.Length{Value: mm, Unit: layout.UnitMM}.ToPT() }
