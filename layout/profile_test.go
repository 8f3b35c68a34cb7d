package layout

import (
	"strings"
	"testing"

	"github.com/tdewolff/test"

	"github.com/ByLCY/pagefit/binding"
	"github.com/ByLCY/pagefit/dsl"
)

const profileSrc = `
profile Invoice v1 {
  meta {
    title: "Edited invoice"
    keywords: ["finance", "edited"]
  }
  settings {
    line-tolerance: 6pt
    padding: 2mm
    fit-line-height: 1.4x
    overlap-min-width: 1in
    ellipsis: "..."
  }
  fonts {
    font Times ratio 0.48 {
      bold: "fonts/times-bold.ttf"
    }
    font Garamond ratio 0.45 { regular: "fonts/garamond.ttf" }
  }
  edits {
    edit "0_1" { "Total: ${invoice.total}" }
    edit "0_2" {
      "line one\n"
      "line two"
    }
  }
}
`

func compile(t *testing.T, src string) (*Profile, error) {
	t.Helper()
	p, err := dsl.ParseString(src)
	if err != nil {
		t.Fatalf("解析配置失败: %v", err)
	}
	return CompileProfile(p, DefaultOptions())
}

func TestCompileProfile(t *testing.T) {
	p, err := compile(t, profileSrc)
	test.Error(t, err)
	test.String(t, p.Name, "Invoice")
	test.String(t, p.Version, "v1")

	o := p.Options
	test.Float(t, o.LineTolerance, 6)
	test.Float(t, o.Padding, 2*MmToPt)
	test.Float(t, o.FitLineHeight, 1.4)
	test.Float(t, o.OverlapMinWidth, 72)
	test.String(t, o.Ellipsis, "...")
	test.Float(t, o.GapTolerance, 10)

	times := o.Fonts.Lookup("Times-Roman")
	test.Float(t, times.WidthRatio, 0.48)
	test.String(t, times.Regular, "builtin:lmroman10regular")
	test.String(t, times.Bold, "fonts/times-bold.ttf")
	test.Float(t, o.Fonts.Lookup("Garamond").WidthRatio, 0.45)

	test.String(t, p.Meta.Title, "Edited invoice")
	test.T(t, p.Meta.Keywords, []string{"finance", "edited"})

	test.T(t, p.Edits, []EditProposal{
		{ElementID: "0_1", ProposedText: "Total: ${invoice.total}"},
		{ElementID: "0_2", ProposedText: "line one\nline two"},
	})
}

func TestCompileProfileErrors(t *testing.T) {
	bad := map[string]string{
		"unknown setting": `profile X v1 { settings { colour: 3 } }`,
		"bad length":      `profile X v1 { settings { padding: "wide" } }`,
		"bad ratio":       `profile X v1 { fonts { font Times ratio -1 { } } }`,
		"unknown arg":     `profile X v1 { fonts { font Times weight 3 { } } }`,
		"edit without id": `profile X v1 { edits { edit { "text" } } }`,
	}
	for name, src := range bad {
		if _, err := compile(t, src); err == nil {
			t.Fatalf("%s: 期望出错", name)
		}
	}
	_, err := CompileProfile(nil, DefaultOptions())
	test.That(t, err != nil)
}

func TestMetaMerge(t *testing.T) {
	base := DocumentMeta{Title: "orig", Author: "a", PageCount: 3, FileSize: 100}
	got := base.Merge(DocumentMeta{Title: "new", Keywords: []string{"k"}})
	test.String(t, got.Title, "new")
	test.String(t, got.Author, "a")
	test.T(t, got.PageCount, 3)
	test.T(t, got.Keywords, []string{"k"})
}

func TestBindProposals(t *testing.T) {
	data, err := binding.Decode(strings.NewReader(`{"invoice": {"total": "¥1,280.00"}}`))
	test.Error(t, err)
	in := []EditProposal{
		{ElementID: "0_1", ProposedText: "Total: ${invoice.total}"},
		{ElementID: "0_2", ProposedText: "Due ${invoice.due}"},
	}
	out, missing := BindProposals(in, data)
	test.String(t, out[0].ProposedText, "Total: ¥1,280.00")
	test.String(t, out[1].ProposedText, "Due ${invoice.due}")
	test.T(t, missing, []string{"invoice.due"})
	test.String(t, in[0].ProposedText, "Total: ${invoice.total}")
}
