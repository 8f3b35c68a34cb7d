package layout

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Apply 是核心边界：对每个提案做适配校验、必要时截断，再在页内消解重叠。
// 任何单个提案的问题都不会中断整个请求，结果中总是包含每个提案对应的一条记录。
// 同一元素的多个提案以最后一个为准，记录位置保持第一次出现的位置。
func (e *Engine) Apply(doc *Document, proposals []EditProposal) *EditResult {
	index := indexElements(doc)
	proposals = dedupeProposals(proposals)

	edits := make([]ValidatedEdit, 0, len(proposals))
	for _, p := range proposals {
		edits = append(edits, e.validate(p, index))
	}
	e.resolvePageOverlaps(edits, index)

	res := &EditResult{ValidatedEdits: edits}
	for i := range edits {
		ve := &edits[i]
		ve.FinalLength = utf8.RuneCountInString(ve.FinalText)
		res.Summary.Total++
		if ve.Truncated || ve.TruncatedForOverlap {
			res.Summary.Truncated++
		}
		if el, ok := index[ve.ElementID]; ok && ve.FinalText != el.Content {
			res.Summary.Edited++
		}
	}
	return res
}

func (e *Engine) validate(p EditProposal, index map[string]TextElement) ValidatedEdit {
	text := norm.NFC.String(p.ProposedText)
	ve := ValidatedEdit{
		ElementID:        p.ElementID,
		TruncationReason: TruncationNone,
		FitsWidth:        true,
		FitsHeight:       true,
		OriginalLength:   utf8.RuneCountInString(text),
	}

	el, ok := index[p.ElementID]
	if !ok {
		ve.FinalText = p.ProposedText
		ve.Dangling = true
		ve.addIssue(fmt.Errorf("%w: %s", ErrDanglingReference, p.ElementID))
		Logger().Warn("找不到提案对应的元素，原样透传", "id", p.ElementID)
		return ve
	}
	ve.FinalText = text

	if !el.BBox.Valid() {
		ve.MalformedBBox = true
		ve.addIssue(fmt.Errorf("%w: %s %+v", ErrMalformedBoundingBox, el.ID, el.BBox))
		Logger().Warn("元素包围盒无效，跳过校验", "id", el.ID, "width", el.BBox.Width, "height", el.BBox.Height)
		return ve
	}

	fit := e.ValidateFit(text, el)
	ve.Fit = &fit
	ve.FitsWidth, ve.FitsHeight = fit.FitsWidth, fit.FitsHeight
	if fit.MeasurementUnavailable {
		ve.addIssue(ErrMeasurementUnavailable)
	}
	if fit.Fits() {
		return ve
	}

	t := e.truncate(text, el)
	ve.FinalText = t.text
	ve.Truncated = true
	ve.TruncationReason = TruncationHeight
	if !fit.FitsWidth {
		ve.TruncationReason = TruncationWidth
	}
	if t.exhausted {
		ve.addIssue(fmt.Errorf("%w: %s", ErrTruncationExhausted, el.ID))
	}
	Logger().Debug("文本超出包围盒，已截断", "id", el.ID, "reason", ve.TruncationReason,
		"from", ve.OriginalLength, "to", utf8.RuneCountInString(t.text))
	return ve
}

// resolvePageOverlaps 只在有效的已编辑元素之间检测重叠，与原始布局中本就存在的几何关系无关。
func (e *Engine) resolvePageOverlaps(edits []ValidatedEdit, index map[string]TextElement) {
	pos := make(map[string]int, len(edits))
	cands := make([]OverlapCandidate, 0, len(edits))
	for i, ve := range edits {
		if ve.Dangling || ve.MalformedBBox {
			continue
		}
		pos[ve.ElementID] = i
		cands = append(cands, OverlapCandidate{Element: index[ve.ElementID], Text: ve.FinalText})
	}
	for _, r := range e.ResolveOverlaps(cands) {
		ve := &edits[pos[r.ElementID]]
		ve.FinalText = r.Text
		ve.TruncatedForOverlap = r.TruncatedForOverlap
		ve.HasOverlap = r.HasOverlap
		if r.HasOverlap {
			ve.addIssue(fmt.Errorf("%w: %s 与 %s", ErrUnresolvedOverlap, r.ElementID, r.CollidesWith))
		}
	}
}

func indexElements(doc *Document) map[string]TextElement {
	index := map[string]TextElement{}
	if doc == nil {
		return index
	}
	for _, p := range doc.Pages {
		for _, el := range p.Elements {
			index[el.ID] = el
		}
	}
	return index
}

func dedupeProposals(proposals []EditProposal) []EditProposal {
	pos := make(map[string]int, len(proposals))
	out := make([]EditProposal, 0, len(proposals))
	for _, p := range proposals {
		if i, ok := pos[p.ElementID]; ok {
			Logger().Debug("重复提案，以后者为准", "id", p.ElementID)
			out[i] = p
			continue
		}
		pos[p.ElementID] = len(out)
		out = append(out, p)
	}
	return out
}
