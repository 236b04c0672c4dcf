package parse_test

import (
	"testing"

	"github.com/ordervox/ordervox/internal/lang"
	"github.com/ordervox/ordervox/internal/parse"
)

func TestExtractQtyDigit(t *testing.T) {
	t.Parallel()

	q := parse.ExtractQty("2 cola", lang.English)
	if q.Qty != 2 || q.Source != parse.QtySourceDigit {
		t.Fatalf("got qty=%d source=%q, want 2/digit", q.Qty, q.Source)
	}
	if q.TokenIndex != 0 {
		t.Errorf("token index = %d, want 0", q.TokenIndex)
	}
	if q.Clamped || q.Standalone {
		t.Errorf("unexpected clamped=%v standalone=%v", q.Clamped, q.Standalone)
	}
	if q.Confidence < 0.95 {
		t.Errorf("digit confidence = %v, want high", q.Confidence)
	}
}

func TestExtractQtyClampsLargeValues(t *testing.T) {
	t.Parallel()

	q := parse.ExtractQty("25 cola", lang.English)
	if q.Qty != 20 || !q.Clamped || q.OriginalQty != 25 {
		t.Fatalf("got qty=%d clamped=%v original=%d, want 20/true/25", q.Qty, q.Clamped, q.OriginalQty)
	}
}

func TestExtractQtyNumberWords(t *testing.T) {
	t.Parallel()

	cases := []struct {
		segment string
		code    lang.Code
		want    int
	}{
		{"iki tavuk burger", lang.Turkish, 2},
		{"three burgers", lang.English, 3},
		{"zwei cola", lang.German, 2},
		{"deux frites", lang.French, 2},
	}
	for _, tc := range cases {
		t.Run(tc.segment, func(t *testing.T) {
			t.Parallel()
			q := parse.ExtractQty(tc.segment, tc.code)
			if q.Qty != tc.want || q.Source != parse.QtySourceWord {
				t.Errorf("ExtractQty(%q, %s) = %d/%s, want %d/word", tc.segment, tc.code, q.Qty, q.Source, tc.want)
			}
		})
	}
}

func TestExtractQtyIgnoresPrices(t *testing.T) {
	t.Parallel()

	for _, segment := range []string{"burger 10 tl", "burger 10tl", "burger 10 50 tl"} {
		q := parse.ExtractQty(segment, lang.English)
		if q.Source != parse.QtySourceNone {
			t.Errorf("ExtractQty(%q) read a price as quantity: %+v", segment, q)
		}
	}
}

func TestExtractQtyIgnoresBareDecimalAmounts(t *testing.T) {
	t.Parallel()

	// Normalization splits "10.50" into "10 50"; neither half is a
	// count even without a currency marker.
	for _, segment := range []string{"10.50 cola", "the 10.50 menu", "cola 8.99"} {
		q := parse.ExtractQty(segment, lang.English)
		if q.Source != parse.QtySourceNone {
			t.Errorf("ExtractQty(%q) read a decimal amount as quantity: %+v", segment, q)
		}
	}

	// A plain digit count is unaffected.
	if q := parse.ExtractQty("10 colas", lang.English); q.Qty != 10 || q.Source != parse.QtySourceDigit {
		t.Errorf("plain digit count broke: %+v", q)
	}
}

func TestExtractQtyHomophone(t *testing.T) {
	t.Parallel()

	q := parse.ExtractQty("to burgers", lang.English)
	if q.Qty != 2 || q.Source != parse.QtySourceWord {
		t.Fatalf("got %+v, want qty 2 via homophone", q)
	}
	if q.Confidence >= 0.9 {
		t.Errorf("homophone confidence = %v, want low", q.Confidence)
	}

	// A filler before the homophone disarms it.
	if q := parse.ExtractQty("thanks to burgers", lang.English); q.Source != parse.QtySourceNone {
		t.Errorf("filler guard failed: %+v", q)
	}
	// Homophones never apply outside English.
	if q := parse.ExtractQty("to burgers", lang.Turkish); q.Source != parse.QtySourceNone {
		t.Errorf("homophone applied for Turkish: %+v", q)
	}
}

func TestExtractQtyStandalone(t *testing.T) {
	t.Parallel()

	q := parse.ExtractQty("3", lang.English)
	if q.Qty != 3 || !q.Standalone {
		t.Fatalf("got %+v, want standalone qty 3", q)
	}
	if q := parse.ExtractQty("3 ayran", lang.Turkish); q.Standalone {
		t.Errorf("segment with a product token reported standalone")
	}
}

func TestExtractQtyNone(t *testing.T) {
	t.Parallel()

	q := parse.ExtractQty("cola", lang.English)
	if q.Source != parse.QtySourceNone || q.Qty != 0 || q.TokenIndex != -1 {
		t.Fatalf("got %+v, want empty result", q)
	}
}

func TestExtractQtyGluedNoiseSuffix(t *testing.T) {
	t.Parallel()

	q := parse.ExtractQty("2x cola", lang.English)
	if q.Qty != 2 || q.Source != parse.QtySourceDigit {
		t.Fatalf("got %+v, want qty 2 from glued 2x", q)
	}
}
