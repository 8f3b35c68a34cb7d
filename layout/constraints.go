package layout

import (
	"fmt"
	"math"
)

// Constraints 按字体族的平均字宽比例粗估容量。结果只用于预筛与提示提案方，
// 是否真正放得下始终由 ValidateFit 借助 Measurer 复核。
func (e *Engine) Constraints(bbox BoundingBox, font FontDescriptor, multiline bool) Constraints {
	if font.Size <= 0 || !bbox.Valid() {
		return Constraints{MaxCharsPerLine: 1, MaxLines: 1, MaxTotalChars: 1}
	}
	ratio := e.opts.Fonts.Lookup(font.Family).WidthRatio
	if ratio <= 0 {
		ratio = e.opts.Fonts.Lookup(DefaultFamily).WidthRatio
	}
	avgCharWidth := font.Size * ratio

	perLine := atLeastOne(math.Floor(bbox.Width / avgCharWidth))
	lines := 1
	if multiline {
		lines = atLeastOne(math.Floor(bbox.Height / (font.Size * e.opts.LineHeight)))
	}
	return Constraints{
		MaxCharsPerLine: perLine,
		MaxLines:        lines,
		MaxTotalChars:   perLine * lines,
	}
}

func atLeastOne(v float64) int {
	if math.IsNaN(v) || v < 1 {
		return 1
	}
	return int(v)
}

// ConstraintSummary 是提供给外部内容提案方的软预算。
type ConstraintSummary struct {
	ID              string  `json:"id"`
	Content         string  `json:"content"`
	MaxChars        int     `json:"maxChars"`
	MaxCharsPerLine int     `json:"maxCharsPerLine"`
	MaxLines        int     `json:"maxLines"`
	BBoxDescription string  `json:"bbox"`
	FontSize        float64 `json:"fontSize"`
	Multiline       bool    `json:"multiline"`
}

// ConstraintSummary 为单个元素生成提示信息。
func (e *Engine) ConstraintSummary(el TextElement) ConstraintSummary {
	c := el.Constraints
	if c.MaxTotalChars == 0 {
		c = e.Constraints(el.BBox, el.Font, el.Multiline)
	}
	return ConstraintSummary{
		ID:              el.ID,
		Content:         el.Content,
		MaxChars:        c.MaxTotalChars,
		MaxCharsPerLine: c.MaxCharsPerLine,
		MaxLines:        c.MaxLines,
		BBoxDescription: fmt.Sprintf("%.0fx%.0fpt", math.Round(el.BBox.Width), math.Round(el.BBox.Height)),
		FontSize:        el.Font.Size,
		Multiline:       el.Multiline,
	}
}

// ConstraintSummaries 按阅读顺序返回整份文档的提示信息。
func (e *Engine) ConstraintSummaries(doc *Document) []ConstraintSummary {
	if doc == nil {
		return nil
	}
	var out []ConstraintSummary
	for _, p := range doc.Pages {
		for _, el := range p.Elements {
			out = append(out, e.ConstraintSummary(el))
		}
	}
	return out
}
