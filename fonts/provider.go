package fonts

import (
	"fmt"
	"sync"

	"github.com/ByLCY/rondo/layout"
)

// Provider 按资源缓存字体字节，并为排版创建指定字号的 Face。
type Provider struct {
	baseDir string

	mu    sync.Mutex
	bytes map[string][]byte
	faces map[faceKey]*Face
}

type faceKey struct {
	src  string
	size float64
}

// NewProvider 创建字体提供者。baseDir 用于解析相对字体路径，可为空。
func NewProvider(baseDir string) *Provider {
	return &Provider{
		baseDir: baseDir,
		bytes:   map[string][]byte{},
		faces:   map[faceKey]*Face{},
	}
}

// Bytes 返回资源对应的字体字节；加载失败时回退到 goregular 并记录警告。
func (p *Provider) Bytes(res layout.FontResource) []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bytesLocked(res)
}

func (p *Provider) bytesLocked(res layout.FontResource) []byte {
	src := res.Src
	if src == "" {
		src = DefaultSrc
	}
	if data, ok := p.bytes[src]; ok {
		return data
	}
	data, err := Load(src, p.baseDir)
	if err != nil {
		layout.Logger().Warn("fonts: falling back to default font", "font", res.Name, "src", src, "err", err)
		data = builtin["goregular"]
	}
	p.bytes[src] = data
	return data
}

// Face 返回资源在指定字号下的排版字体。相同 src 与字号共享同一个 Face。
func (p *Provider) Face(res layout.FontResource, size float64) (layout.Font, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := faceKey{src: res.Src, size: size}
	if f, ok := p.faces[key]; ok {
		return f, nil
	}
	name := res.Name
	if name == "" {
		name = "default"
	}
	f, err := Parse(name, p.bytesLocked(res), size)
	if err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", name, err)
	}
	p.faces[key] = f
	return f, nil
}
