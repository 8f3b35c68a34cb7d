package layout

import "strings"

// Measurer 负责测量一段文本在给定字体下的宽度（pt）。
// 实现可能持有渲染上下文等状态，调用方不应在多个 goroutine 间共享同一实例。
// 返回错误时按“测量不可用”处理。
type Measurer interface {
	Measure(text string, font FontDescriptor) (float64, error)
}

// MeasureFunc 让普通函数满足 Measurer。
type MeasureFunc func(text string, font FontDescriptor) (float64, error)

// Measure implements Measurer.
func (f MeasureFunc) Measure(text string, font FontDescriptor) (float64, error) {
	return f(text, font)
}

// Options 配置引擎的全部阈值；零值字段在 NewEngine 中回填默认值。
type Options struct {
	// Measurer 为 nil 时适配校验放行、截断原样返回。
	Measurer Measurer

	LineTolerance  float64 // 同一行判定的纵向容差（pt）
	GapTolerance   float64 // 片段首尾相接判定的横向容差（pt）
	MultilineRatio float64 // bbox.height > fontSize*ratio 时视为多行

	LineHeight    float64 // 容量估算与重建绘制使用的行高倍数
	FitLineHeight float64 // 适配校验与截断使用的行高倍数
	Padding       float64 // 可用宽度 = bbox.width - Padding
	Ellipsis      string

	OverlapMinWidth float64 // 重叠收窄后的最小宽度
	OverlapGap      float64 // 与前一元素之间保留的间距

	Fonts FontTable
}

// DefaultOptions 返回与原始行为一致的默认配置。
func DefaultOptions() Options {
	return Options{
		LineTolerance:   5,
		GapTolerance:    10,
		MultilineRatio:  1.5,
		LineHeight:      1.2,
		FitLineHeight:   1.3,
		Padding:         4,
		Ellipsis:        "…",
		OverlapMinWidth: 50,
		OverlapGap:      10,
		Fonts:           DefaultFontTable(),
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	fill := func(v *float64, d float64) {
		if *v <= 0 {
			*v = d
		}
	}
	fill(&o.LineTolerance, def.LineTolerance)
	fill(&o.GapTolerance, def.GapTolerance)
	fill(&o.MultilineRatio, def.MultilineRatio)
	fill(&o.LineHeight, def.LineHeight)
	fill(&o.FitLineHeight, def.FitLineHeight)
	fill(&o.OverlapMinWidth, def.OverlapMinWidth)
	fill(&o.OverlapGap, def.OverlapGap)
	fill(&o.Padding, def.Padding)
	if o.Ellipsis == "" {
		o.Ellipsis = def.Ellipsis
	}
	if len(o.Fonts) == 0 {
		o.Fonts = def.Fonts
	}
	return o
}

// FamilyRule 是字体表中的一行：平均字宽比例与可用的替代字体句柄。
type FamilyRule struct {
	Match      string  `json:"match"`
	WidthRatio float64 `json:"widthRatio"`
	Regular    string  `json:"regular"`
	Bold       string  `json:"bold"`
}

// FontTable 是有序的声明式字体表，按顺序取第一个 Match 命中的行。
type FontTable []FamilyRule

// DefaultFamily 是未识别字体族时使用的行。
const DefaultFamily = "Helvetica"

// DefaultFontTable 返回内置字体表。
func DefaultFontTable() FontTable {
	return FontTable{
		{Match: "Times", WidthRatio: 0.5, Regular: "builtin:lmroman10regular", Bold: "builtin:lmroman10bold"},
		{Match: "Helvetica", WidthRatio: 0.55, Regular: "builtin:goregular", Bold: "builtin:gobold"},
		{Match: "Arial", WidthRatio: 0.55, Regular: "builtin:goregular", Bold: "builtin:gobold"},
		{Match: "Courier", WidthRatio: 0.6, Regular: "builtin:gomono", Bold: "builtin:gomonobold"},
	}
}

// Lookup 返回 family 命中的行；都不命中时返回 Helvetica 行（或首行）。
func (t FontTable) Lookup(family string) FamilyRule {
	lower := strings.ToLower(family)
	for _, rule := range t {
		if rule.Match != "" && strings.Contains(lower, strings.ToLower(rule.Match)) {
			return rule
		}
	}
	for _, rule := range t {
		if strings.EqualFold(rule.Match, DefaultFamily) {
			return rule
		}
	}
	if len(t) > 0 {
		return t[0]
	}
	return FamilyRule{Match: DefaultFamily, WidthRatio: 0.55, Regular: "builtin:goregular", Bold: "builtin:gobold"}
}

// Handle 返回字体描述对应的替代字体句柄。
func (t FontTable) Handle(font FontDescriptor) string {
	rule := t.Lookup(font.Family)
	if font.Bold() && rule.Bold != "" {
		return rule.Bold
	}
	return rule.Regular
}

// Merge 用 override 中的行覆盖同名行，新行追加在前面以获得更高优先级。
func (t FontTable) Merge(override FontTable) FontTable {
	out := make(FontTable, 0, len(t)+len(override))
	seen := map[string]bool{}
	for _, rule := range override {
		key := strings.ToLower(rule.Match)
		if seen[key] {
			continue
		}
		if base, ok := t.find(rule.Match); ok {
			if rule.WidthRatio <= 0 {
				rule.WidthRatio = base.WidthRatio
			}
			if rule.Regular == "" {
				rule.Regular = base.Regular
			}
			if rule.Bold == "" {
				rule.Bold = base.Bold
			}
		}
		seen[key] = true
		out = append(out, rule)
	}
	for _, rule := range t {
		if seen[strings.ToLower(rule.Match)] {
			continue
		}
		out = append(out, rule)
	}
	return out
}

func (t FontTable) find(match string) (FamilyRule, bool) {
	for _, rule := range t {
		if strings.EqualFold(rule.Match, match) {
			return rule, true
		}
	}
	return FamilyRule{}, false
}

// Engine 持有不可变配置，所有方法都是对输入快照的纯变换。
type Engine struct {
	opts Options
}

// NewEngine 创建引擎，零值字段使用默认值。
func NewEngine(opts Options) *Engine {
	return &Engine{opts: opts.withDefaults()}
}

// Options 返回生效中的配置副本。
func (e *Engine) Options() Options { return e.opts }

// WithMeasurer 返回共享配置、但使用另一个测量器的引擎，便于每个 worker 持有独立实例。
func (e *Engine) WithMeasurer(m Measurer) *Engine {
	opts := e.opts
	opts.Measurer = m
	return &Engine{opts: opts}
}

// measure 统一处理测量不可用：ok=false 时调用方应放行。
func (e *Engine) measure(text string, font FontDescriptor) (float64, bool) {
	if e.opts.Measurer == nil {
		return 0, false
	}
	w, err := e.opts.Measurer.Measure(text, font)
	if err != nil {
		Logger().Warn("文本测量失败", "family", font.Family, "size", font.Size, "err", err)
		return 0, false
	}
	return w, true
}

func (e *Engine) availableWidth(bbox BoundingBox) float64 {
	return bbox.Width - e.opts.Padding
}
