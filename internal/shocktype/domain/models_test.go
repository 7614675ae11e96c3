package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveCSSClass(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Flood", "flood"},
		{"Armed Conflict", "armed-conflict"},
		{"War & Conflict (2024)", "war--conflict-2024"},
		{"Drought!!!", "drought"},
		{"  Food  Insecurity  ", "--food--insecurity--"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DeriveCSSClass(tt.name), "name %q", tt.name)
	}
}

func TestBackgroundCSSClass(t *testing.T) {
	st := ShockType{Name: "Flood", CSSClass: "flood"}
	assert.Equal(t, "bg-flood", st.BackgroundCSSClass())
}
