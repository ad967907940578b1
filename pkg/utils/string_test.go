package utils

import "testing"

func TestStringHelper_NormalizeWhitespace(t *testing.T) {
	helper := NewStringHelper()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"tabs and newlines", "hello\t\nworld", "hello world"},
		{"multiple spaces", "a   b    c", "a b c"},
		{"leading and trailing", "  trimmed  ", "trimmed"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := helper.NormalizeWhitespace(tt.input); got != tt.expected {
				t.Errorf("NormalizeWhitespace(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestStringHelper_TruncateString(t *testing.T) {
	helper := NewStringHelper()

	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{"short enough", "abc", 10, "abc"},
		{"truncated", "abcdefghij", 5, "abcde..."},
		{"exact length", "abcde", 5, "abcde"},
		{"accent at boundary", "reünie café", 4, "reün..."},
		{"accents counted as runes", "geëmailleerd", 12, "geëmailleerd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := helper.TruncateString(tt.input, tt.max); got != tt.expected {
				t.Errorf("TruncateString(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.expected)
			}
		})
	}
}
