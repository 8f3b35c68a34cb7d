package layout

import (
	"testing"

	"github.com/tdewolff/test"
)

func candidate(id string, page int, x, y, w, h float64, text string) OverlapCandidate {
	el := element(id, x, y, w, h, 10)
	el.PageIndex = page
	return OverlapCandidate{Element: el, Text: text}
}

// Scenario B: A 0..100，B 50..150，同一行。B 收窄到最小宽度 50，仍与 A 相交。
func TestResolveOverlapsScenarioB(t *testing.T) {
	e := newTestEngine(10)
	res := e.ResolveOverlaps([]OverlapCandidate{
		candidate("0_1", 0, 50, 0, 100, 20, "Second"),
		candidate("0_0", 0, 0, 0, 100, 20, "First"),
	})
	test.T(t, len(res), 2)

	a, b := res[0], res[1]
	test.String(t, a.ElementID, "0_0")
	test.String(t, a.Text, "First")
	test.That(t, !a.HasOverlap && !a.TruncatedForOverlap, "earlier element never yields")

	test.String(t, b.ElementID, "0_1")
	test.That(t, b.TruncatedForOverlap)
	test.Float(t, b.BBox.Width, 50)
	test.String(t, b.Text, "Sec…")
	test.String(t, b.CollidesWith, "0_0")
	test.That(t, b.HasOverlap, "50..100 still intersects 0..100")
}

// 收窄后不再相交时不报告重叠。
func TestResolveOverlapsNarrowingSucceeds(t *testing.T) {
	e := newTestEngine(10)
	// B 从 x=0 开始、宽 300，A 在 x=120 且更靠上，B 收窄为 120-0-10=110。
	res := e.ResolveOverlaps([]OverlapCandidate{
		candidate("0_0", 0, 120, 0, 100, 20, "Right"),
		candidate("0_1", 0, 0, 10, 300, 20, "A rather long left label"),
	})
	b := res[1]
	test.String(t, b.ElementID, "0_1")
	test.That(t, b.TruncatedForOverlap)
	test.Float(t, b.BBox.Width, 110)
	test.That(t, !b.HasOverlap, "narrowed box clears the other element")
	test.String(t, b.Text, "A rather …")
}

// 调整后的宽度不小于原宽度时保持原文，但仍报告重叠。
func TestResolveOverlapsUnresolved(t *testing.T) {
	e := newTestEngine(10)
	res := e.ResolveOverlaps([]OverlapCandidate{
		candidate("0_0", 0, 0, 0, 100, 20, "First"),
		candidate("0_1", 0, 10, 5, 40, 20, "Tiny"),
	})
	b := res[1]
	test.That(t, !b.TruncatedForOverlap)
	test.That(t, b.HasOverlap)
	test.String(t, b.Text, "Tiny")
	test.Float(t, b.BBox.Width, 40)
}

func TestResolveOverlapsPerPage(t *testing.T) {
	e := newTestEngine(10)
	res := e.ResolveOverlaps([]OverlapCandidate{
		candidate("1_0", 1, 0, 0, 100, 20, "Page two"),
		candidate("0_0", 0, 0, 0, 100, 20, "Page one"),
	})
	test.String(t, res[0].ElementID, "0_0")
	for _, r := range res {
		test.That(t, !r.HasOverlap && !r.TruncatedForOverlap, r.ElementID)
	}
}

// 仅边相接不算重叠。
func TestResolveOverlapsTouching(t *testing.T) {
	e := newTestEngine(10)
	res := e.ResolveOverlaps([]OverlapCandidate{
		candidate("0_0", 0, 0, 0, 100, 20, "Left"),
		candidate("0_1", 0, 100, 0, 100, 20, "Right"),
		candidate("0_2", 0, 0, 20, 100, 20, "Below"),
	})
	for _, r := range res {
		test.That(t, !r.HasOverlap, r.ElementID)
	}
}

func TestResolveOverlapsSkipsMalformed(t *testing.T) {
	e := newTestEngine(10)
	res := e.ResolveOverlaps([]OverlapCandidate{
		candidate("0_0", 0, 0, 0, 100, 20, "First"),
		candidate("0_1", 0, 10, 0, -5, 20, "Broken"),
	})
	test.That(t, res[1].Skipped)
	test.That(t, !res[1].HasOverlap)
}

// 没有报告重叠的同页元素两两不相交（使用收窄后的包围盒）。
func TestResolveOverlapsPostCondition(t *testing.T) {
	e := newTestEngine(6)
	cands := []OverlapCandidate{
		candidate("0_0", 0, 0, 0, 200, 20, "Heading text here"),
		candidate("0_1", 0, 150, 10, 200, 20, "Overlapping neighbour"),
		candidate("0_2", 0, 400, 0, 100, 20, "Far right"),
		candidate("0_3", 0, 0, 100, 300, 20, "Body"),
		candidate("0_4", 0, 250, 105, 100, 20, "Body two"),
		candidate("0_5", 0, 30, 8, 60, 20, "Stacked"),
	}
	res := e.ResolveOverlaps(cands)
	for i := range res {
		for j := i + 1; j < len(res); j++ {
			a, b := res[i], res[j]
			if a.PageIndex != b.PageIndex || a.HasOverlap || b.HasOverlap {
				continue
			}
			if a.BBox.Intersects(b.BBox) {
				t.Fatalf("%s 与 %s 未报告重叠却相交", a.ElementID, b.ElementID)
			}
		}
	}
}
