package extract

import "github.com/ByLCY/pagefit/layout"

// Result 是一次提取的原始输出：逐页的字形片段与文档元信息。
type Result struct {
	Pages []layout.RawPage
	Meta  layout.DocumentMeta
}

// Extractor 将文档字节解析为原始页面。坐标单位为 pt，y 轴自页面底部向上。
type Extractor interface {
	Extract(raw []byte) (*Result, error)
}
