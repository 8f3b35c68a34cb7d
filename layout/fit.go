package layout

import (
	"math"
	"strings"
)

// Overflow 记录每个轴超出的量，未超出为 0。
type Overflow struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// FitResult 是适配校验的结果。Confidence 只有 1 或 0。
type FitResult struct {
	FitsWidth    bool     `json:"fitsWidth"`
	FitsHeight   bool     `json:"fitsHeight"`
	ActualWidth  float64  `json:"actualWidth"`
	ActualHeight float64  `json:"actualHeight"`
	ExceedsBy    Overflow `json:"exceedsBy"`
	Utilization  float64  `json:"utilization"`
	LineCount    int      `json:"lineCount"`
	Confidence   float64  `json:"confidence"`
	// MeasurementUnavailable 为 true 时结果是放行值，而非真实测量。
	MeasurementUnavailable bool `json:"measurementUnavailable,omitempty"`
}

// Fits reports whether both axes fit.
func (r FitResult) Fits() bool { return r.FitsWidth && r.FitsHeight }

func passThrough() FitResult {
	return FitResult{FitsWidth: true, FitsHeight: true, Confidence: 1, LineCount: 1}
}

// ValidateFit 判断 text 能否放进 el 的原始包围盒。
// 多行元素且文本含显式换行时按行累计，否则整体按单行测量。
// 测量不可用时放行：不会仅因无法测量而拦下一次编辑。
func (e *Engine) ValidateFit(text string, el TextElement) FitResult {
	if !el.BBox.Valid() {
		return passThrough()
	}
	if el.Multiline && strings.Contains(text, "\n") {
		return e.validateMultiline(text, el)
	}
	return e.validateSingleLine(text, el)
}

func (e *Engine) validateSingleLine(text string, el TextElement) FitResult {
	width, ok := e.measure(text, el.Font)
	if !ok {
		res := passThrough()
		res.MeasurementUnavailable = true
		return res
	}
	return e.fitResult(el, width, el.Font.Size, 1)
}

func (e *Engine) validateMultiline(text string, el TextElement) FitResult {
	lines := strings.Split(text, "\n")
	lineHeight := el.Font.Size * e.opts.FitLineHeight

	maxWidth, totalHeight := 0.0, 0.0
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			// 空行（最后一行除外）只占半行高
			if i < len(lines)-1 {
				totalHeight += lineHeight * 0.5
			}
			continue
		}
		w, ok := e.measure(line, el.Font)
		if !ok {
			res := passThrough()
			res.MeasurementUnavailable = true
			res.LineCount = len(lines)
			return res
		}
		maxWidth = math.Max(maxWidth, w)
		totalHeight += lineHeight
	}
	return e.fitResult(el, maxWidth, totalHeight, len(lines))
}

func (e *Engine) fitResult(el TextElement, width, height float64, lineCount int) FitResult {
	availW := e.availableWidth(el.BBox)
	availH := el.BBox.Height
	res := FitResult{
		FitsWidth:    width <= availW,
		FitsHeight:   height <= availH,
		ActualWidth:  width,
		ActualHeight: height,
		ExceedsBy: Overflow{
			Width:  math.Max(0, width-availW),
			Height: math.Max(0, height-availH),
		},
		LineCount: lineCount,
	}
	if availW > 0 {
		res.Utilization = width / availW
	}
	if lineCount > 1 && availH > 0 {
		res.Utilization = math.Max(res.Utilization, height/availH)
	}
	if res.Fits() {
		res.Confidence = 1
	}
	return res
}
