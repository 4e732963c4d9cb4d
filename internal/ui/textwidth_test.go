package ui

import (
	"testing"
)

func TestStringWidth(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"Hello", 5},
		{"中国", 4},
		{"Hello中国", 9},
		{"", 0},
	}

	for _, tt := range tests {
		if got := StringWidth(tt.input); got != tt.expected {
			t.Errorf("StringWidth(%q) = %d, want %d", tt.input, got, tt.expected)
		}
	}
}

func TestTruncateToWidth(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		width    int
		expected string
	}{
		{"fits", "Hello", 10, "Hello"},
		{"cut ASCII", "Hello World", 5, "Hello"},
		{"no half wide rune", "中国人", 3, "中"},
		{"zero width", "Hello", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateToWidth(tt.input, tt.width); got != tt.expected {
				t.Errorf("TruncateToWidth(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.expected)
			}
		})
	}
}

func TestTruncateToWidthWithEllipsis(t *testing.T) {
	tests := []struct {
		input    string
		width    int
		expected string
	}{
		{"Hello", 5, "Hello"},
		{"Hello World", 6, "Hello…"},
		{"中国人", 4, "中…"},
		{"Hello", 1, "H"},
	}

	for _, tt := range tests {
		if got := TruncateToWidthWithEllipsis(tt.input, tt.width); got != tt.expected {
			t.Errorf("TruncateToWidthWithEllipsis(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.expected)
		}
	}
}

func TestPadAndAlign(t *testing.T) {
	if got := PadStringToWidth("中", 4); got != "中  " {
		t.Errorf("PadStringToWidth = %q", got)
	}
	if got := AlignRight("ab", 4); got != "  ab" {
		t.Errorf("AlignRight = %q", got)
	}
	if got := AlignRight("abcdef", 4); got != "abcd" {
		t.Errorf("AlignRight overflow = %q", got)
	}
}
