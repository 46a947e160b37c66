package identity

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"canonical lowercase", "6ba7b810-9dad-11d1-80b4-00c04fd430c8", false},
		{"uppercase accepted", "6BA7B810-9DAD-11D1-80B4-00C04FD430C8", false},
		{"mixed case accepted", "6Ba7B810-9dAD-11d1-80b4-00C04fd430c8", false},
		{"empty", "", true},
		{"too short", "6ba7b810-9dad-11d1-80b4-00c04fd430c", true},
		{"too long", "6ba7b810-9dad-11d1-80b4-00c04fd430c8a", true},
		{"no hyphens", "6ba7b8109dad11d180b400c04fd430c8", true},
		{"misplaced hyphens", "6ba7b810-9da-d11d1-80b4-00c04fd430c8", true},
		{"non-hex digits", "6ba7b810-9dad-11d1-80b4-00c04fd430zz", true},
		{"urn form rejected", "urn:uuid:6ba7b810-9dad-11d1-80b4-00c04fd430c8", true},
		{"braced form rejected", "{6ba7b810-9dad-11d1-80b4-00c04fd430c8}", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := Parse(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("Parse(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if tt.wantErr {
				if !IsInvalidIdentifier(err) {
					t.Errorf("Parse(%q) error = %v, want invalid-identifier", tt.input, err)
				}
				return
			}
			if got := id.String(); got != strings.ToLower(tt.input) {
				t.Errorf("Parse(%q).String() = %v, want canonical lowercase", tt.input, got)
			}
		})
	}
}

func TestNew(t *testing.T) {
	a, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	b, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if a.String() == b.String() {
		t.Error("New() returned the same identity twice")
	}
	if len(a.String()) != CanonicalLen {
		t.Errorf("New().String() length = %v, want %v", len(a.String()), CanonicalLen)
	}
	if _, err := Parse(a.String()); err != nil {
		t.Errorf("New() rendering should parse back, got error: %v", err)
	}
	if a.IsZero() {
		t.Error("New() returned the zero identity")
	}
}

func TestIsZero(t *testing.T) {
	var id Identity
	if !id.IsZero() {
		t.Error("zero-value Identity should report IsZero")
	}
}
