package layout

import "math"

// 该文件定义文档模型、编辑提案与校验结果，供元素构建、适配校验、重建与调试 JSON 共用。
// 所有几何量均为页面坐标（单位：pt），y 轴从页面顶部向下。

// BoundingBox 是页面坐标系下的轴对齐矩形。
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right 返回矩形右边界。
func (b BoundingBox) Right() float64 { return b.X + b.Width }

// Bottom 返回矩形下边界。
func (b BoundingBox) Bottom() float64 { return b.Y + b.Height }

// Valid 判断宽高均为正且数值有限。
func (b BoundingBox) Valid() bool {
	for _, v := range []float64{b.X, b.Y, b.Width, b.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return b.Width > 0 && b.Height > 0
}

// Intersects 判断两个矩形是否同时在 x 与 y 区间上重叠；仅相接的边不算重叠。
func (b BoundingBox) Intersects(o BoundingBox) bool {
	return b.X < o.Right() && o.X < b.Right() &&
		b.Y < o.Bottom() && o.Y < b.Bottom()
}

// WithWidth 返回仅宽度不同的副本。
func (b BoundingBox) WithWidth(w float64) BoundingBox {
	b.Width = w
	return b
}

// FontWeight 只区分常规与粗体。
type FontWeight string

const (
	WeightNormal FontWeight = "normal"
	WeightBold   FontWeight = "bold"
)

// FontDescriptor 描述元素的字体；挂到元素上之后不再修改。
type FontDescriptor struct {
	Family string     `json:"family"`
	Size   float64    `json:"size"`
	Weight FontWeight `json:"weight"`
}

// Bold reports whether the descriptor asks for a bold face.
func (f FontDescriptor) Bold() bool { return f.Weight == WeightBold }

// TextElement 是从原始字形片段归并出的逻辑文本元素，创建后只读。
type TextElement struct {
	ID        string         `json:"id"`
	PageIndex int            `json:"pageIndex"`
	Content   string         `json:"content"`
	BBox      BoundingBox    `json:"bbox"`
	Font      FontDescriptor `json:"font"`
	Multiline bool           `json:"multiline"`
	Constraints
}

// Constraints 是元素的字符/行容量估算。
type Constraints struct {
	MaxCharsPerLine int `json:"maxCharsPerLine"`
	MaxLines        int `json:"maxLines"`
	MaxTotalChars   int `json:"maxTotalChars"`
}

// Page 记录页面尺寸与按阅读顺序排列的元素。
type Page struct {
	Index    int           `json:"index"`
	Width    float64       `json:"width"`
	Height   float64       `json:"height"`
	Elements []TextElement `json:"elements"`
}

// Document 是一次编辑/重建事务的单元。
type Document struct {
	Pages []Page       `json:"pages"`
	Meta  DocumentMeta `json:"meta"`
}

// DocumentMeta 保存 PDF 元信息与提取统计。
type DocumentMeta struct {
	Title       string   `json:"title,omitempty"`
	Author      string   `json:"author,omitempty"`
	Subject     string   `json:"subject,omitempty"`
	Creator     string   `json:"creator,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	PageCount   int      `json:"pageCount"`
	FileSize    int      `json:"fileSize"`
	ExtractedAt string   `json:"extractedAt,omitempty"`
}

// Element 按 id 查找元素。
func (d *Document) Element(id string) (TextElement, bool) {
	if d == nil {
		return TextElement{}, false
	}
	for _, p := range d.Pages {
		for _, el := range p.Elements {
			if el.ID == id {
				return el, true
			}
		}
	}
	return TextElement{}, false
}

// GlyphRun 是文档编解码器给出的原始定位文本片段。
// Transform 为 PDF 文本矩阵 [a b c d e f]，(e, f) 为基线原点，y 轴自页面底部向上。
type GlyphRun struct {
	Text      string     `json:"text"`
	Transform [6]float64 `json:"transform"`
	Width     float64    `json:"width"`
	Height    float64    `json:"height"`
	FontName  string     `json:"fontName"`
}

// RawPage 是编解码器输出的一页原始数据。
type RawPage struct {
	Index  int        `json:"index"`
	Width  float64    `json:"width"`
	Height float64    `json:"height"`
	Runs   []GlyphRun `json:"runs"`
}

// EditProposal 由外部内容提案方给出。
type EditProposal struct {
	ElementID    string `json:"elementId"`
	ProposedText string `json:"proposedText"`
}

// TruncationReason 记录截断发生在哪个轴上。
type TruncationReason string

const (
	TruncationNone   TruncationReason = "none"
	TruncationWidth  TruncationReason = "width"
	TruncationHeight TruncationReason = "height"
)

// ValidatedEdit 是流水线针对单个提案产出的结果，仅在一次请求内存在。
type ValidatedEdit struct {
	ElementID           string           `json:"elementId"`
	FinalText           string           `json:"finalText"`
	Truncated           bool             `json:"truncated"`
	TruncationReason    TruncationReason `json:"truncationReason"`
	FitsWidth           bool             `json:"fitsWidth"`
	FitsHeight          bool             `json:"fitsHeight"`
	HasOverlap          bool             `json:"hasOverlap"`
	TruncatedForOverlap bool             `json:"truncatedForOverlap,omitempty"`
	Dangling            bool             `json:"dangling,omitempty"`
	MalformedBBox       bool             `json:"malformedBBox,omitempty"`
	OriginalLength      int              `json:"originalLength"`
	FinalLength         int              `json:"finalLength"`
	Fit                 *FitResult       `json:"validation,omitempty"`
	Issues              []string         `json:"issues,omitempty"`

	issueErrs []error
}

// Errs 返回与该编辑相关的非致命错误，可用 errors.Is 判断类别。
func (v ValidatedEdit) Errs() []error { return v.issueErrs }

func (v *ValidatedEdit) addIssue(err error) {
	v.issueErrs = append(v.issueErrs, err)
	v.Issues = append(v.Issues, err.Error())
}

// Summary 是一次编辑请求的统计信息。
type Summary struct {
	Total     int `json:"total"`
	Edited    int `json:"edited"`
	Truncated int `json:"truncated"`
}

// EditResult 是核心边界对 (Document, EditProposal[]) 的输出。
type EditResult struct {
	ValidatedEdits []ValidatedEdit `json:"validatedEdits"`
	Summary        Summary         `json:"summaryStats"`
}
