package roster_test

import (
	"testing"

	"github.com/agentstation/teamroster/pkg/roster"
)

func TestIdentity(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"A Lee", "a_lee"},
		{"  A   Lee  ", "a_lee"},
		{"B Kim", "b_kim"},
		{"Úna O'Brien", "úna_obrien"},
		{"Jean-Claude", "jeanclaude"},
		{"x", "x"},
		{"", ""},
		{"!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := roster.Identity(tt.name); got != tt.want {
				t.Errorf("Identity(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestIdentityIsStable(t *testing.T) {
	a := roster.Identity("A Lee")
	b := roster.Identity("a lee")
	if a != b {
		t.Errorf("identity should be case-insensitive: %q vs %q", a, b)
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a lee", "A Lee"},
		{"A LEE", "A Lee"},
		{"A Lee", "A Lee"},
		{"  A   Lee ", "A Lee"},
		{"Ronald McDonald", "Ronald McDonald"}, // mixed case kept as typed
		{"", ""},
	}

	for _, tt := range tests {
		if got := roster.NormalizeName(tt.in); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
