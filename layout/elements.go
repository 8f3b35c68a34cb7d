package layout

import (
	"fmt"
	"math"
	"strings"
)

// BuildDocument 将编解码器给出的原始页面归并为文档，页序保持输入顺序。
func (e *Engine) BuildDocument(raw []RawPage, meta DocumentMeta) *Document {
	doc := &Document{Pages: make([]Page, 0, len(raw)), Meta: meta}
	for _, rp := range raw {
		doc.Pages = append(doc.Pages, Page{
			Index:    rp.Index,
			Width:    rp.Width,
			Height:   rp.Height,
			Elements: e.BuildElements(rp),
		})
	}
	if doc.Meta.PageCount == 0 {
		doc.Meta.PageCount = len(doc.Pages)
	}
	return doc
}

// BuildElements 单次前向扫描：同一行且首尾相接的片段并入当前累加器，否则收尾并新开一个。
// 纯空白片段直接跳过，既不开启也不延长累加器。
func (e *Engine) BuildElements(page RawPage) []TextElement {
	var (
		out []TextElement
		cur *TextElement
	)
	for _, run := range page.Runs {
		if strings.TrimSpace(run.Text) == "" {
			continue
		}
		fontSize := roundTenth(math.Hypot(run.Transform[0], run.Transform[1]))
		height := run.Height
		if height <= 0 {
			height = fontSize
		}
		x := run.Transform[4]
		y := page.Height - run.Transform[5] - height

		if cur != nil && e.continuesLine(cur.BBox, x, y) {
			cur.Content += run.Text
			if right := x + run.Width; right > cur.BBox.Right() {
				cur.BBox.Width = right - cur.BBox.X
			}
			continue
		}
		if cur != nil {
			out = append(out, e.finalizeElement(*cur, page))
		}
		family, weight := parseFontName(run.FontName)
		cur = &TextElement{
			ID:        fmt.Sprintf("%d_%d", page.Index, len(out)),
			PageIndex: page.Index,
			Content:   run.Text,
			BBox:      BoundingBox{X: x, Y: y, Width: run.Width, Height: height},
			Font:      FontDescriptor{Family: family, Size: fontSize, Weight: weight},
		}
	}
	if cur != nil {
		out = append(out, e.finalizeElement(*cur, page))
	}
	return out
}

func (e *Engine) continuesLine(acc BoundingBox, x, y float64) bool {
	return math.Abs(y-acc.Y) < e.opts.LineTolerance &&
		math.Abs(x-acc.Right()) < e.opts.GapTolerance
}

// finalizeElement 将包围盒裁剪到页面内，并附上多行标记与容量估算。
func (e *Engine) finalizeElement(el TextElement, page RawPage) TextElement {
	el.BBox = clampToPage(el.BBox, page.Width, page.Height)
	el.Multiline = el.BBox.Height > el.Font.Size*e.opts.MultilineRatio
	el.Constraints = e.Constraints(el.BBox, el.Font, el.Multiline)
	return el
}

func clampToPage(b BoundingBox, pageWidth, pageHeight float64) BoundingBox {
	if pageWidth <= 0 || pageHeight <= 0 {
		return b
	}
	x0 := math.Max(b.X, 0)
	y0 := math.Max(b.Y, 0)
	x1 := math.Min(b.Right(), pageWidth)
	y1 := math.Min(b.Bottom(), pageHeight)
	return BoundingBox{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

func roundTenth(v float64) float64 { return math.Round(v*10) / 10 }

// parseFontName 从 PDF BaseFont 名称中取出字体族与字重，例如 "ABCDEF+Helvetica-Bold"。
func parseFontName(name string) (string, FontWeight) {
	name = strings.TrimSpace(name)
	if i := strings.IndexByte(name, '+'); i == 6 && isSubsetTag(name[:i]) {
		name = name[i+1:]
	}
	weight := WeightNormal
	lower := strings.ToLower(name)
	for _, marker := range []string{"bold", "black", "heavy"} {
		if strings.Contains(lower, marker) {
			weight = WeightBold
			break
		}
	}
	family := name
	if i := strings.IndexAny(family, "-,"); i > 0 {
		family = family[:i]
	}
	return family, weight
}

func isSubsetTag(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
