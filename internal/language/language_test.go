package language

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "en"},
		{"EN", "en"},
		{"en_US", "en"},
		{"eng", "en"},
		{"English", "en"},
		{"fre", "fr"},
		{"Deutsch", "de"},
		{"zh", "zh-cn"},
		{"Mandarin", "zh-cn"},
		{"cze", "cs"},
		{"pt-BR", "pt"},
		// Unknown values pass through lower-cased
		{"Welsh", "welsh"},
		{"sv", "sv"},
		{"", ""},
		{" ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSupported(t *testing.T) {
	for _, value := range []string{"en", "Japanese", "tur", "zh-cn"} {
		if !Supported(value) {
			t.Errorf("Supported(%q) = false", value)
		}
	}
	for _, value := range []string{"", "sv", "klingon"} {
		if Supported(value) {
			t.Errorf("Supported(%q) = true", value)
		}
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "English"},
		{"spa", "Spanish"},
		{"zh", "Chinese"},
		{"xx", "XX"},
		{"", "Unknown"},
	}
	for _, tt := range tests {
		if got := DisplayName(tt.input); got != tt.expected {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
