package layout

import (
	"testing"

	"github.com/tdewolff/test"
)

// 空提案集重建时逐字保留原文。
func TestReconstructNoEdits(t *testing.T) {
	e := newTestEngine(10)
	doc := sampleDocument()
	res := e.Apply(doc, nil)
	plan := e.Reconstruct(doc, res.ValidatedEdits)

	test.T(t, len(plan.Pages), len(doc.Pages))
	for i, p := range plan.Pages {
		src := doc.Pages[i]
		test.Float(t, p.Width, src.Width)
		test.Float(t, p.Height, src.Height)
		test.T(t, len(p.Texts), len(src.Elements))
		for j, td := range p.Texts {
			test.String(t, td.Content, src.Elements[j].Content)
			test.That(t, !td.Edited)
		}
	}
}

// 只有文本改变，几何与字体保持原样。
func TestReconstructKeepsGeometry(t *testing.T) {
	e := newTestEngine(10)
	doc := sampleDocument()
	res := e.Apply(doc, []EditProposal{
		{ElementID: "0_0", ProposedText: "First"},
		{ElementID: "0_1", ProposedText: "Second"},
	})
	plan := e.Reconstruct(doc, res.ValidatedEdits)

	for j, td := range plan.Pages[0].Texts {
		el := doc.Pages[0].Elements[j]
		test.T(t, td.BBox, el.BBox)
		test.T(t, td.Font, el.Font)
		test.Float(t, td.LineHeight, el.Font.Size*1.2)
	}
	b := plan.Pages[0].Texts[1]
	test.That(t, b.Edited)
	test.String(t, b.Content, "Sec…")
	test.Float(t, b.BBox.Width, 100)
	test.String(t, b.FontHandle, "builtin:goregular")
}

func TestReconstructNilDocument(t *testing.T) {
	e := newTestEngine(10)
	test.T(t, len(e.Reconstruct(nil, nil).Pages), 0)
}
