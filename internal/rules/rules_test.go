package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp01(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"below range", -0.5, 0},
		{"lower bound", 0, 0},
		{"inside", 0.42, 0.42},
		{"upper bound", 1, 1},
		{"above range", 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clamp01(tt.in))
		})
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 2.0, Clamp(1, 2, 5))
	assert.Equal(t, 5.0, Clamp(9, 2, 5))
	assert.Equal(t, 3.0, Clamp(3, 2, 5))
}

func TestResponsibilities(t *testing.T) {
	tests := []struct {
		name  string
		calls int
		max   int
		want  float64
	}{
		{"no calls", 0, 2, 1},
		{"half budget", 1, 2, 0.5},
		{"budget exhausted", 2, 2, 0},
		{"over budget", 5, 2, 0},
		{"default budget", 2, 5, 0.6},
		{"zero budget without calls", 0, 0, 1},
		{"zero budget with calls", 1, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Responsibilities(tt.calls, tt.max), 1e-9)
		})
	}
}

func TestReadability(t *testing.T) {
	tests := []struct {
		name  string
		lines int
		max   int
		want  float64
	}{
		{"short function", 3, 50, 1},
		{"exactly max", 50, 50, 1},
		{"halfway over", 75, 50, 0.5},
		{"twice max", 100, 50, 0},
		{"far over", 400, 50, 0},
		{"invalid max", 10, 0, 0},
		{"invalid max without lines", 0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Readability(tt.lines, tt.max), 1e-9)
		})
	}
}
