package codec

import (
	"errors"
	"strings"
	"testing"

	"github.com/tdewolff/test"

	"github.com/ByLCY/pagefit/extract"
	"github.com/ByLCY/pagefit/layout"
)

type stubExtractor struct {
	res *extract.Result
	err error
}

func (s *stubExtractor) Extract([]byte) (*extract.Result, error) { return s.res, s.err }

// stubRenderer 记录收到的计划，输出每页文本拼接。
type stubRenderer struct {
	plan *layout.Plan
	err  error
}

func (s *stubRenderer) Render(plan *layout.Plan) ([]byte, error) {
	s.plan = plan
	if s.err != nil {
		return nil, s.err
	}
	var parts []string
	for _, p := range plan.Pages {
		for _, td := range p.Texts {
			parts = append(parts, td.Content)
		}
	}
	return []byte(strings.Join(parts, "|")), nil
}

func sampleResult() *extract.Result {
	return &extract.Result{
		Pages: []layout.RawPage{{
			Index: 0, Width: 600, Height: 800,
			Runs: []layout.GlyphRun{
				{Text: "Invoice", Transform: [6]float64{12, 0, 0, 12, 50, 700}, Width: 45, Height: 12, FontName: "Helvetica-Bold"},
				{Text: "Total", Transform: [6]float64{10, 0, 0, 10, 50, 600}, Width: 30, Height: 10, FontName: "Times-Roman"},
			},
		}},
		Meta: layout.DocumentMeta{Title: "sample"},
	}
}

// 每个字符 6pt
func charMeasurer() layout.Measurer {
	return layout.MeasureFunc(func(text string, _ layout.FontDescriptor) (float64, error) {
		return float64(len([]rune(text))) * 6, nil
	})
}

func TestEditRoundTrip(t *testing.T) {
	r := &stubRenderer{}
	engine := layout.NewEngine(layout.Options{Measurer: charMeasurer()})
	c := New(&stubExtractor{res: sampleResult()}, r, engine)

	out, res, err := c.Edit([]byte("%PDF"), []layout.EditProposal{{ElementID: "0_1", ProposedText: "Sum"}})
	test.Error(t, err)
	test.String(t, string(out), "Invoice|Sum")
	test.T(t, res.Summary.Total, 1)
	test.T(t, res.Summary.Edited, 1)
	test.String(t, r.plan.Meta.Title, "sample")

	// 几何保持不变
	td := r.plan.Pages[0].Texts[1]
	test.That(t, td.Edited)
	test.Float(t, td.BBox.X, 50)
	test.Float(t, td.BBox.Y, 190)
	test.String(t, td.FontHandle, "builtin:lmroman10regular")
}

func TestLoadError(t *testing.T) {
	cause := errors.New("broken xref")
	c := New(&stubExtractor{err: cause}, &stubRenderer{}, nil)
	_, err := c.Load([]byte("x"))

	var cerr *Error
	test.That(t, errors.As(err, &cerr), "expected *codec.Error")
	test.String(t, cerr.Op, "load")
	test.That(t, errors.Is(err, cause), "cause must unwrap")
}

func TestSaveError(t *testing.T) {
	cause := errors.New("disk full")
	c := New(&stubExtractor{res: sampleResult()}, &stubRenderer{err: cause}, nil)
	_, res, err := c.Edit([]byte("x"), nil)
	test.That(t, errors.Is(err, cause))
	test.That(t, res != nil, "validation result survives render failure")

	_, err = c.Save(nil, nil)
	test.That(t, err != nil)
}

func TestMissingComponents(t *testing.T) {
	c := &Codec{Engine: layout.NewEngine(layout.DefaultOptions())}
	_, err := c.Load(nil)
	test.That(t, err != nil)
	_, err = c.Save(&layout.Document{}, nil)
	test.That(t, err != nil)
}
