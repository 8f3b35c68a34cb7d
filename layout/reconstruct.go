package layout

// Plan 是交给渲染器的重建计划：页面尺寸与每个元素的最终文本、原始位置和替代字体。
type Plan struct {
	Pages []PlanPage   `json:"pages"`
	Meta  DocumentMeta `json:"meta"`
}

// PlanPage 与原始页面同尺寸（pt）。
type PlanPage struct {
	Index  int        `json:"index"`
	Width  float64    `json:"width"`
	Height float64    `json:"height"`
	Texts  []TextDraw `json:"texts"`
}

// TextDraw 描述一次文本绘制。几何字段全部来自原始元素，只有 Content 可能改变。
type TextDraw struct {
	ElementID  string         `json:"elementId"`
	Content    string         `json:"content"`
	BBox       BoundingBox    `json:"bbox"`
	Font       FontDescriptor `json:"font"`
	FontHandle string         `json:"fontHandle"`
	LineHeight float64        `json:"lineHeight"`
	Edited     bool           `json:"edited"`
}

// Reconstruct 将原始几何与最终文本合并为重建计划。
// 无编辑的元素绘制原文；悬空引用的编辑被忽略。
func (e *Engine) Reconstruct(doc *Document, edits []ValidatedEdit) *Plan {
	if doc == nil {
		return &Plan{}
	}
	final := make(map[string]string, len(edits))
	for _, ve := range edits {
		if ve.Dangling {
			continue
		}
		final[ve.ElementID] = ve.FinalText
	}

	plan := &Plan{Pages: make([]PlanPage, 0, len(doc.Pages)), Meta: doc.Meta}
	for _, page := range doc.Pages {
		pp := PlanPage{
			Index:  page.Index,
			Width:  page.Width,
			Height: page.Height,
			Texts:  make([]TextDraw, 0, len(page.Elements)),
		}
		for _, el := range page.Elements {
			text, edited := final[el.ID]
			if !edited {
				text = el.Content
			}
			pp.Texts = append(pp.Texts, TextDraw{
				ElementID:  el.ID,
				Content:    text,
				BBox:       el.BBox,
				Font:       el.Font,
				FontHandle: e.opts.Fonts.Handle(el.Font),
				LineHeight: el.Font.Size * e.opts.LineHeight,
				Edited:     edited,
			})
		}
		plan.Pages = append(plan.Pages, pp)
	}
	return plan
}
