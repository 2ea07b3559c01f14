package common

import (
	"fmt"
	"image/color"
	"strings"
)

// Color identifies a player. A match seats at most four players, one per
// color, so the color doubles as the player's display identity.
type Color int

const (
	Red Color = iota
	Green
	Blue
	Yellow
)

// AllColors lists every playable color in declaration order.
var AllColors = []Color{Red, Green, Blue, Yellow}

// String returns the lowercase color name.
func (c Color) String() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	case Yellow:
		return "yellow"
	default:
		return fmt.Sprintf("color(%d)", int(c))
	}
}

// ParseColor converts a color name to a Color. Matching is case-insensitive
// and ignores surrounding whitespace.
func ParseColor(name string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "red":
		return Red, nil
	case "green":
		return Green, nil
	case "blue":
		return Blue, nil
	case "yellow":
		return Yellow, nil
	default:
		return 0, fmt.Errorf("unknown color %q", name)
	}
}

// ParseColors converts a list of color names, preserving order.
func ParseColors(names []string) ([]Color, error) {
	colors := make([]Color, 0, len(names))
	for _, name := range names {
		c, err := ParseColor(name)
		if err != nil {
			return nil, err
		}
		colors = append(colors, c)
	}
	return colors, nil
}

// RGBA returns the display color used by the client and the banner.
func (c Color) RGBA() color.RGBA {
	switch c {
	case Red:
		return color.RGBA{255, 0, 0, 255}
	case Green:
		return color.RGBA{0, 255, 0, 255}
	case Blue:
		return color.RGBA{0, 0, 255, 255}
	case Yellow:
		return color.RGBA{255, 255, 0, 255}
	default:
		return color.RGBA{120, 120, 120, 255}
	}
}

// UI colors
var (
	BackgroundColor = color.Black
	GridLineColor   = color.RGBA{50, 50, 50, 255}
	EmptyCellColor  = color.RGBA{25, 25, 25, 255}
	PowerTextColor  = color.White
	BannerTextColor = color.White
)
