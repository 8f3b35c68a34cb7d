package layout

import (
	"math"
	"strings"
)

// multilineMarkerRunes 是多行截断时最后一行被省略号替换的字符数。
const multilineMarkerRunes = 3

type truncation struct {
	text        string
	exhausted   bool // 一个字符加省略号都放不下，退回首字符
	unavailable bool // 测量不可用，原样返回
}

// Truncate 将 text 缩短到能放进 el 的最长形式，并以省略号标记。
// 已经放得下的文本原样返回，因此对截断结果再次截断不会改变它。
func (e *Engine) Truncate(text string, el TextElement) string {
	return e.truncate(text, el).text
}

func (e *Engine) truncate(text string, el TextElement) truncation {
	if text == "" || !el.BBox.Valid() {
		return truncation{text: text}
	}
	if e.opts.Measurer == nil {
		return truncation{text: text, unavailable: true}
	}
	if el.Multiline && strings.Contains(text, "\n") {
		return e.truncateMultiline(text, el)
	}
	return e.truncateLine(text, el.Font, e.availableWidth(el.BBox))
}

// truncateLine 对前缀长度 k 做二分：宽度随前缀单调不减，
// 因此可以找到满足 measure(prefix(k)+省略号) <= avail 的最大 k。
func (e *Engine) truncateLine(text string, font FontDescriptor, avail float64) truncation {
	width, ok := e.measure(text, font)
	if !ok {
		return truncation{text: text, unavailable: true}
	}
	if width <= avail {
		return truncation{text: text}
	}

	runes := []rune(text)
	lo, hi, best := 0, len(runes), -1
	for lo <= hi {
		mid := (lo + hi) / 2
		w, ok := e.measure(string(runes[:mid])+e.opts.Ellipsis, font)
		if !ok {
			return truncation{text: text, unavailable: true}
		}
		if w <= avail {
			best = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	if best > 0 {
		return truncation{text: string(runes[:best]) + e.opts.Ellipsis}
	}
	return truncation{text: string(runes[:1]), exhausted: true}
}

// truncateMultiline 逐行处理：过宽的行按单行截断后去掉省略号，避免段落中间出现多个省略号；
// 行数超出时在最后保留行的末尾用省略号替换最后几个字符。
func (e *Engine) truncateMultiline(text string, el TextElement) truncation {
	lines := strings.Split(text, "\n")
	lineHeight := el.Font.Size * e.opts.FitLineHeight
	maxLines := atLeastOne(math.Floor(el.BBox.Height / lineHeight))
	avail := e.availableWidth(el.BBox)

	result := truncation{}
	kept := make([]string, 0, min(len(lines), maxLines))
	for _, line := range lines {
		if len(kept) >= maxLines {
			break
		}
		w, ok := e.measure(line, el.Font)
		if !ok {
			return truncation{text: text, unavailable: true}
		}
		if w > avail {
			t := e.truncateLine(line, el.Font, avail)
			if t.unavailable {
				return truncation{text: text, unavailable: true}
			}
			result.exhausted = result.exhausted || t.exhausted
			line = strings.TrimSuffix(t.text, e.opts.Ellipsis)
		}
		kept = append(kept, line)
	}

	if len(lines) > maxLines && len(kept) > 0 {
		last := []rune(kept[len(kept)-1])
		if len(last) > multilineMarkerRunes {
			kept[len(kept)-1] = string(last[:len(last)-multilineMarkerRunes]) + e.opts.Ellipsis
		}
	}
	result.text = strings.Join(kept, "\n")
	return result
}
