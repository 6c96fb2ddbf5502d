package ocr

import (
	"context"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"lowercases", "SUBMIT", "submit"},
		{"collapses whitespace", "User   Management\t Portal", "user management portal"},
		{"strips pipe runs", "Name ||| Status", "name status"},
		{"strips underscore runs", "____ Login ____", "login"},
		{"drops fragment lines", "ab\nSettings > Preferences\nx", "settings > preferences"},
		{"joins lines", "Open Settings\nClick Save", "open settings click save"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNoop_AlwaysEmpty(t *testing.T) {
	text, err := Noop{}.Extract(context.Background(), "whatever.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "" {
		t.Errorf("expected empty text, got %q", text)
	}
}
