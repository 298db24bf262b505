package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitName(t *testing.T) {
	tests := []struct {
		name        string
		displayName string
		first, last string
	}{
		{"full name", "Maria Garcia", "Maria", "Garcia"},
		{"single token", "Maria", "Maria", ""},
		{"three tokens", "Juan Carlos Ortega", "Juan", "Carlos Ortega"},
		{"empty", "", "Guest", ""},
		{"whitespace only", "   ", "Guest", ""},
		{"extra spaces", "  Ana   Lopez  ", "Ana", "Lopez"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last := SplitName(tt.displayName)
			assert.Equal(t, tt.first, first)
			assert.Equal(t, tt.last, last)
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@x.com", NormalizeEmail("A@X.com"))
	assert.Equal(t, "a@x.com", NormalizeEmail("  a@x.com  "))
	assert.Equal(t, "", NormalizeEmail("   "))
}
