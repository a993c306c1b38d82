package renderer

import "github.com/ByLCY/rondo/layout"

// Renderer 将排版结果输出为最终文件，例如 PDF。
// Render 返回生成的二进制数据以及可能的错误；被推出容器的隐藏行不会被绘制。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}
