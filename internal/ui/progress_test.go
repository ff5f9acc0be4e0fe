package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShareColor(t *testing.T) {
	tests := []struct {
		percent float64
		want    string
	}{
		{100, string(ColorSuccess)},
		{90, string(ColorSuccess)},
		{89.9, string(ColorWarning)},
		{50, string(ColorWarning)},
		{49.9, string(ColorError)},
		{0, string(ColorError)},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, string(ShareColor(tt.percent)), "percent %.1f", tt.percent)
	}
}

func TestBarCounts(t *testing.T) {
	filled, empty := BarCounts(50, 10)
	assert.Equal(t, 5, filled)
	assert.Equal(t, 5, empty)

	filled, empty = BarCounts(150, 10)
	assert.Equal(t, 10, filled)
	assert.Equal(t, 0, empty)

	filled, empty = BarCounts(-3, 10)
	assert.Equal(t, 0, filled)
	assert.Equal(t, 10, empty)
}

func TestRenderBar(t *testing.T) {
	out := stripANSI(RenderBar(67, DefaultBarConfig(12)))
	assert.Equal(t, "[████████░░░░]  67%", out)

	out = stripANSI(RenderBar(92.5, BarConfig{Width: 4}))
	assert.Equal(t, "███░", out)

	assert.Empty(t, RenderBar(50, BarConfig{}))
}

func TestClampPercent(t *testing.T) {
	assert.Equal(t, 0.0, ClampPercent(-1))
	assert.Equal(t, 42.0, ClampPercent(42))
	assert.Equal(t, 100.0, ClampPercent(101))
}
