package ui

import (
	"testing"
	"unicode/utf8"
)

func TestSparklineEmpty(t *testing.T) {
	if got := Sparkline(nil, 10); got != "" {
		t.Errorf("empty values = %q, want empty", got)
	}
	if got := Sparkline([]float64{1, 2}, 0); got != "" {
		t.Errorf("zero width = %q, want empty", got)
	}
}

func TestSparklineScalesToExtremes(t *testing.T) {
	got := Sparkline([]float64{0, 100}, 10)
	runes := []rune(got)
	if len(runes) != 2 {
		t.Fatalf("got %d cells, want 2", len(runes))
	}
	if runes[0] != '▁' {
		t.Errorf("min cell = %q, want ▁", runes[0])
	}
	if runes[1] != '█' {
		t.Errorf("max cell = %q, want █", runes[1])
	}
}

func TestSparklineKeepsNewestValues(t *testing.T) {
	values := make([]float64, 20)
	for i := range values {
		values[i] = float64(i)
	}

	got := Sparkline(values, 5)
	if utf8.RuneCountInString(got) != 5 {
		t.Fatalf("width = %d, want 5", utf8.RuneCountInString(got))
	}
	// Trailing window 15..19 rises monotonically, so the last cell is
	// the tallest tick.
	runes := []rune(got)
	if runes[len(runes)-1] != '█' {
		t.Errorf("last cell = %q, want █", runes[len(runes)-1])
	}
}

func TestSparklineFlatSeries(t *testing.T) {
	got := Sparkline([]float64{5, 5, 5}, 10)
	for _, r := range got {
		if r == '▁' || r == '█' {
			t.Errorf("flat series rendered %q, want mid-height ticks", got)
			break
		}
	}
}
