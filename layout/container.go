package layout

// RectContainer 是默认的矩形容器：把建议的行矩形裁剪到容器宽度内，超出高度的行返回空矩形。
type RectContainer struct {
	size    Size
	padding float64
}

var _ Container = (*RectContainer)(nil)

// NewRectContainer creates a rectangular container of the given size.
func NewRectContainer(size Size, padding float64) *RectContainer {
	return &RectContainer{size: size, padding: padding}
}

func (c *RectContainer) Size() Size                       { return c.size }
func (c *RectContainer) SetSize(size Size)                { c.size = size }
func (c *RectContainer) LineFragmentPadding() float64     { return c.padding }
func (c *RectContainer) SetLineFragmentPadding(p float64) { c.padding = p }

// LineFragmentRect 实现 Container。
func (c *RectContainer) LineFragmentRect(proposed Rect, _ int, _ WritingDirection) Rect {
	if proposed.Y < 0 || proposed.MaxY() > c.size.Height+epsilon {
		return Rect{X: proposed.X, Y: proposed.Y, Height: proposed.Height}
	}
	x := max(proposed.X, 0)
	right := min(proposed.MaxX(), c.size.Width)
	width := right - x
	if width < 0 {
		width = 0
	}
	return Rect{X: x, Y: proposed.Y, Width: width, Height: proposed.Height}
}
