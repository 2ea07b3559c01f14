package common

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorString(t *testing.T) {
	tests := []struct {
		color    Color
		expected string
	}{
		{Red, "red"},
		{Green, "green"},
		{Blue, "blue"},
		{Yellow, "yellow"},
		{Color(42), "color(42)"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.color.String())
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Color
		wantErr  bool
	}{
		{"lowercase", "red", Red, false},
		{"uppercase", "BLUE", Blue, false},
		{"mixed case", "Green", Green, false},
		{"surrounding whitespace", "  yellow ", Yellow, false},
		{"unknown", "purple", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseColor(tt.input)
			if tt.wantErr {
				assert.Error(t, err, "expected parse failure for %q", tt.input)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, c)
		})
	}
}

func TestParseColors(t *testing.T) {
	t.Run("preserves order", func(t *testing.T) {
		colors, err := ParseColors([]string{"yellow", "red", "blue"})
		require.NoError(t, err)
		assert.Equal(t, []Color{Yellow, Red, Blue}, colors)
	})

	t.Run("propagates first failure", func(t *testing.T) {
		_, err := ParseColors([]string{"red", "magenta"})
		assert.Error(t, err)
	})
}

func TestColorRGBA(t *testing.T) {
	t.Run("unique and opaque", func(t *testing.T) {
		seen := make(map[color.RGBA]Color)
		for _, c := range AllColors {
			rgba := c.RGBA()
			assert.Equal(t, uint8(255), rgba.A, "%s should be fully opaque", c)
			if prev, dup := seen[rgba]; dup {
				t.Errorf("%s and %s share the same RGBA value", prev, c)
			}
			seen[rgba] = c
		}
	})

	t.Run("visible against black background", func(t *testing.T) {
		for _, c := range AllColors {
			rgba := c.RGBA()
			maxComponent := rgba.R
			if rgba.G > maxComponent {
				maxComponent = rgba.G
			}
			if rgba.B > maxComponent {
				maxComponent = rgba.B
			}
			assert.Greater(t, maxComponent, uint8(50),
				"%s should be visible against the background", c)
		}
	})

	t.Run("string round trip", func(t *testing.T) {
		for _, c := range AllColors {
			parsed, err := ParseColor(c.String())
			require.NoError(t, err)
			assert.Equal(t, c, parsed)
		}
	})
}
