package palette

import "github.com/jo-hoe/brandkit/internal/assets"

// maxChannelDiff is the largest pairwise difference between the channels of c.
func maxChannelDiff(c assets.RGB) int {
	r, g, b := int(c.R), int(c.G), int(c.B)
	return max(abs(r-g), abs(g-b), abs(r-b))
}

func brightness(c assets.RGB) float64 {
	return float64(int(c.R)+int(c.G)+int(c.B)) / 3
}

// IsVibrant reports whether a logo color is saturated enough and neither too dark nor
// too light to serve as a secondary or accent slot.
func IsVibrant(c assets.RGB) bool {
	if maxChannelDiff(c) <= 20 {
		return false
	}
	l := brightness(c)
	return l > 30 && l < 240
}

// IsBrandColor reports whether a color literal found in page styles is plausibly a
// brand color rather than a neutral.
func IsBrandColor(c assets.RGB) bool {
	if c.R > 240 && c.G > 240 && c.B > 240 {
		return false
	}
	if c.R < 30 && c.G < 30 && c.B < 30 {
		return false
	}
	return maxChannelDiff(c) >= 25
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
