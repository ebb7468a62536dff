package db

import (
	"testing"
)

func TestNormalizeSearchTerm(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"lowercase", "SOFTWARE ENGINEER", "software engineer"},
		{"trim whitespace", "  backend  ", "backend"},
		{"collapse spaces", "senior   developer", "senior developer"},
		{"transliterate accents", "Développeur Réseau", "developpeur reseau"},
		{"mixed", "  Ingénieur   DevOps ", "ingenieur devops"},
		{"special characters preserved", "C/C++ engineer", "c/c++ engineer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeSearchTerm(tt.input)
			if result != tt.expected {
				t.Errorf("NormalizeSearchTerm(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"already normalized", "alice@x.com", "alice@x.com"},
		{"uppercase", "Alice@X.COM", "alice@x.com"},
		{"surrounding whitespace", "  alice@x.com ", "alice@x.com"},
		{"uppercase and whitespace", " BOB@Example.Org ", "bob@example.org"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeEmail(tt.input)
			if result != tt.expected {
				t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}
