package binding

import (
	"strings"
	"testing"

	"github.com/tdewolff/test"
)

const sample = `{
  "invoice": {"total": 1280.50, "paid": false, "currency": "CNY"},
  "items": [{"name": "纸张"}, {"name": "墨盒", "tags": ["a", "b"]}]
}`

func TestExpand(t *testing.T) {
	data, err := Decode(strings.NewReader(sample))
	test.Error(t, err)

	out, missing := data.Expand("Total ${invoice.total} ${invoice.currency}")
	test.String(t, out, "Total 1280.50 CNY")
	test.T(t, len(missing), 0)

	out, _ = data.Expand("${items[1].name}/${items[1].tags[0]} paid=${ invoice.paid }")
	test.String(t, out, "墨盒/a paid=false")
}

func TestExpandMissing(t *testing.T) {
	data, err := Decode(strings.NewReader(sample))
	test.Error(t, err)

	out, missing := data.Expand("${invoice.tax} and ${items[5].name} and ${}")
	test.String(t, out, "${invoice.tax} and ${items[5].name} and ${}")
	test.T(t, len(missing), 2)
	test.String(t, missing[0], "invoice.tax")
	test.String(t, missing[1], "items[5].name")
}

func TestExpandWithoutData(t *testing.T) {
	var data *Data
	out, missing := data.Expand("${a.b}")
	test.String(t, out, "${a.b}")
	test.T(t, len(missing), 0)

	out, _ = FromValue(map[string]any{"a": map[string]any{"b": 2.5}}).Expand("x=${a.b}")
	test.String(t, out, "x=2.5")
}

func TestDecodeInvalid(t *testing.T) {
	_, err := Decode(strings.NewReader("{"))
	test.That(t, err != nil, "expected decode error")
}

func TestSplitSegment(t *testing.T) {
	name, idx, ok := splitSegment("rows[2][10]")
	test.That(t, ok)
	test.String(t, name, "rows")
	test.T(t, idx, []int{2, 10})

	_, _, ok = splitSegment("rows[x]")
	test.That(t, !ok, "non-numeric index must fail")
}
