package layout

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer SetLogger(nil)

	e := newTestEngine(10)
	e.Apply(sampleDocument(), []EditProposal{
		{ElementID: "missing", ProposedText: "x"},
		{ElementID: "1_0", ProposedText: "Hello World"},
	})
	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "id=missing") {
		t.Fatalf("缺少悬空引用警告: %s", out)
	}
	if !strings.Contains(out, "level=DEBUG") || !strings.Contains(out, "id=1_0") {
		t.Fatalf("缺少截断调试日志: %s", out)
	}

	SetLogger(nil)
	buf.Reset()
	e.Apply(sampleDocument(), []EditProposal{{ElementID: "missing", ProposedText: "x"}})
	if buf.Len() != 0 {
		t.Fatalf("静默日志器不应输出: %s", buf.String())
	}
}
