package layout

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 595.28, 841.89}
	for _, pt := range samples {
		back := pt * PtToMm * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt back=%g diff=%g", pt, back, diff)
		}
	}
}

// TestParseLength 覆盖常见单位到 pt 的换算。
func TestParseLength(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"4", 4},
		{"4pt", 4},
		{"1in", 72},
		{"25.4mm", 72},
		{"2.54cm", 72},
		{" 10PT ", 10},
	}
	for _, c := range cases {
		l, err := ParseLength(c.in)
		if err != nil {
			t.Fatalf("解析 %q 失败: %v", c.in, err)
		}
		if got := l.Points(); math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("%q 期望 %gpt，实际 %g", c.in, c.want, got)
		}
	}
	for _, bad := range []string{"", "pt", "abc", "1.2.3mm"} {
		if _, err := ParseLength(bad); err == nil {
			t.Fatalf("%q 应当解析失败", bad)
		}
	}
}

func TestParseFactor(t *testing.T) {
	for in, want := range map[string]float64{"1.3x": 1.3, "1.2": 1.2, "2X": 2} {
		got, err := ParseFactor(in)
		if err != nil {
			t.Fatalf("解析 %q 失败: %v", in, err)
		}
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("%q 期望 %g，实际 %g", in, want, got)
		}
	}
	if _, err := ParseFactor("x"); err == nil {
		t.Fatal("x 应当解析失败")
	}
}

func TestUnitString(t *testing.T) {
	if UnitMM.String() != "mm" || UnitNone.String() != "" || UnitIN.String() != "in" {
		t.Fatal("单位名称不符合预期")
	}
}
