package tui

import (
	"strings"
	"testing"
	"time"
)

func TestTruncStr(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly-10", 10, "exactly-10"},
		{"this is too long", 10, "this is t…"},
		{"кирилица тук", 9, "кирилица…"},
		// Terminal-derived widths can be tiny or negative before the first
		// WindowSizeMsg arrives; these must not panic.
		{"Прясно мляко", 1, "…"},
		{"Прясно мляко", 0, "…"},
		{"Прясно мляко", -3, "…"},
		{"", 0, ""},
	}
	for _, tc := range tests {
		if got := truncStr(tc.in, tc.maxLen); got != tc.want {
			t.Errorf("truncStr(%q, %d) = %q, want %q", tc.in, tc.maxLen, got, tc.want)
		}
	}
}

func TestFormatPrice(t *testing.T) {
	if got := formatPrice(3.5); got != "3.50 лв" {
		t.Errorf("formatPrice(3.5) = %q", got)
	}
}

func TestFormatValidity(t *testing.T) {
	from := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)

	if got := formatValidity(&from, &to); got != "03.03 - 09.03" {
		t.Errorf("window = %q", got)
	}
	if got := formatValidity(nil, &to); got != "until 09.03" {
		t.Errorf("open start = %q", got)
	}
	if got := formatValidity(nil, nil); got != "" {
		t.Errorf("empty = %q", got)
	}
}

func TestRenderBarcodeGroupsDigits(t *testing.T) {
	out := renderBarcode("123456789")
	if !strings.Contains(out, "1234 5678 9") {
		t.Errorf("expected grouped digits, got %q", out)
	}
}

func TestRenderBarcodeStableForSameNumber(t *testing.T) {
	if renderBarcode("123456") != renderBarcode("123456") {
		t.Error("barcode must be stable for a given number")
	}
}

func TestTruncateToHeight(t *testing.T) {
	s := "a\nb\nc\nd\n"
	if got := truncateToHeight(s, 2); got != "a\nb\n" {
		t.Errorf("truncateToHeight = %q", got)
	}
	if got := truncateToHeight(s, 0); got != s {
		t.Errorf("maxLines=0 must return input unchanged, got %q", got)
	}
	if got := truncateToHeight("one line", 5); got != "one line" {
		t.Errorf("short input changed: %q", got)
	}
}
