package imaging

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
)

// FitWithin returns the largest dimensions not exceeding maxWidth x maxHeight that
// preserve the aspect ratio of width x height. Images already inside the bound are
// returned unchanged; the result is never upscaled.
func FitWithin(width, height, maxWidth, maxHeight int) (int, int) {
	if width <= maxWidth && height <= maxHeight {
		return width, height
	}
	originalAspect := float64(width) / float64(height)
	targetAspect := float64(maxWidth) / float64(maxHeight)
	var w, h int
	if originalAspect > targetAspect {
		// wider than the bound: width is the limiting side
		w = maxWidth
		h = int(math.Round(float64(maxWidth) / originalAspect))
	} else {
		h = maxHeight
		w = int(math.Round(float64(maxHeight) * originalAspect))
	}
	return max(w, 1), max(h, 1)
}

// Resize resamples src to exactly width x height using Catmull-Rom interpolation.
func Resize(src image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}
