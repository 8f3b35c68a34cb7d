package codec

import (
	"fmt"

	"github.com/ByLCY/pagefit/extract"
	"github.com/ByLCY/pagefit/layout"
	"github.com/ByLCY/pagefit/renderer"
)

// Codec 把文档字节与文档模型互相转换：Load 提取并归并元素，Save 按原始几何重绘最终文本。
type Codec struct {
	Extractor extract.Extractor
	Renderer  renderer.Renderer
	Engine    *layout.Engine
}

// Error 标记失败发生在编解码的哪个阶段。
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("codec %s: %v", e.Op, e.Err) }

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Err }

// New 使用给定组件创建编解码器；engine 为 nil 时使用默认配置。
func New(x extract.Extractor, r renderer.Renderer, engine *layout.Engine) *Codec {
	if engine == nil {
		engine = layout.NewEngine(layout.DefaultOptions())
	}
	return &Codec{Extractor: x, Renderer: r, Engine: engine}
}

// Load 解析文档字节并构建文档模型。
func (c *Codec) Load(raw []byte) (*layout.Document, error) {
	if c.Extractor == nil {
		return nil, &Error{Op: "load", Err: fmt.Errorf("未配置提取器")}
	}
	res, err := c.Extractor.Extract(raw)
	if err != nil {
		return nil, &Error{Op: "load", Err: err}
	}
	doc := c.Engine.BuildDocument(res.Pages, res.Meta)
	layout.Logger().Debug("文档已加载", "pages", len(doc.Pages), "bytes", len(raw))
	return doc, nil
}

// Save 用原始几何与最终文本重建文档。未编辑的元素绘制原文。
func (c *Codec) Save(doc *layout.Document, edits []layout.ValidatedEdit) ([]byte, error) {
	if c.Renderer == nil {
		return nil, &Error{Op: "save", Err: fmt.Errorf("未配置渲染器")}
	}
	if doc == nil {
		return nil, &Error{Op: "save", Err: fmt.Errorf("文档为空")}
	}
	out, err := c.Renderer.Render(c.Engine.Reconstruct(doc, edits))
	if err != nil {
		return nil, &Error{Op: "save", Err: err}
	}
	return out, nil
}

// Edit 是 Load、Apply、Save 的组合，返回新文档字节与校验结果。
// 渲染失败时仍返回校验结果。
func (c *Codec) Edit(raw []byte, proposals []layout.EditProposal) ([]byte, *layout.EditResult, error) {
	doc, err := c.Load(raw)
	if err != nil {
		return nil, nil, err
	}
	res := c.Engine.Apply(doc, proposals)
	out, err := c.Save(doc, res.ValidatedEdits)
	return out, res, err
}
