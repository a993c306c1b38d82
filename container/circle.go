// Package container provides the circular text container.
package container

import (
	"math"

	"github.com/ByLCY/rondo/layout"
)

// CorrectedRect 把建议的行矩形裁剪到圆在该行垂直中心处的弦上。
//
// 圆的直径取容器宽高的较小值；容器比圆宽时圆水平居中。行中心落在圆外时返回宽度为 0 的矩形。
// 纯函数，对相同输入总是返回相同结果。
func CorrectedRect(proposed layout.Rect, size layout.Size) layout.Rect {
	diameter := math.Min(size.Width, size.Height)
	radius := diameter / 2

	// 行中心到圆心的垂直距离。
	yDistance := math.Abs(proposed.Y + proposed.Height/2 - radius)
	width := 0.0
	if yDistance < radius {
		width = 2 * math.Sqrt(radius*radius-yDistance*yDistance)
	}
	xOffset := 0.0
	if size.Width > diameter {
		xOffset = (size.Width - diameter) / 2
	}
	return layout.Rect{
		X:      xOffset + proposed.X + radius - width/2,
		Y:      proposed.Y,
		Width:  width,
		Height: proposed.Height,
	}
}

// Circle 是圆形文本容器，先按矩形容器裁剪，再修正到圆的弦。
type Circle struct {
	layout.RectContainer
}

var _ layout.Container = (*Circle)(nil)

// NewCircle creates a circular container inscribed in a box of the given size.
func NewCircle(size layout.Size, padding float64) *Circle {
	return &Circle{RectContainer: *layout.NewRectContainer(size, padding)}
}

// Diameter returns min(width, height).
func (c *Circle) Diameter() float64 {
	size := c.Size()
	return math.Min(size.Width, size.Height)
}

// LineFragmentRect 实现 layout.Container。
func (c *Circle) LineFragmentRect(proposed layout.Rect, characterIndex int, dir layout.WritingDirection) layout.Rect {
	rect := c.RectContainer.LineFragmentRect(proposed, characterIndex, dir)
	if rect.IsEmpty() {
		return rect
	}
	corrected := CorrectedRect(rect, c.Size())
	layout.Logger().Debug("container: circle line fragment",
		"char", characterIndex, "proposed", proposed, "corrected", corrected)
	return corrected
}
