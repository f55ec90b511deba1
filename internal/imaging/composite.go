package imaging

import (
	"image"
	"image/color"
	"image/draw"
)

// FlattenOnWhite composites img over an opaque white canvas, using its alpha as mask.
// The result is fully opaque and anchored at the origin.
func FlattenOnWhite(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := createCanvas(b.Dx(), b.Dy(), color.RGBA{255, 255, 255, 255})
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

// TransparentFraction returns the share of pixels whose 8-bit alpha is below threshold.
func TransparentFraction(img image.Image, threshold uint8) float64 {
	b := img.Bounds()
	if b.Empty() {
		return 0
	}
	rows := make([]int, b.Dy())
	ParallelFor(b.Dy(), func(y int) {
		n := 0
		for x := b.Min.X; x < b.Max.X; x++ {
			_, _, _, a := img.At(x, b.Min.Y+y).RGBA()
			if uint8(a>>8) < threshold {
				n++
			}
		}
		rows[y] = n
	})
	total := 0
	for _, n := range rows {
		total += n
	}
	return float64(total) / float64(b.Dx()*b.Dy())
}

// MeanColor returns the per-channel mean of img after resampling it to sample x sample.
func MeanColor(img image.Image, sample int) [3]float64 {
	small := Resize(img, sample, sample)
	var sum [3]float64
	for i := 0; i < len(small.Pix); i += 4 {
		sum[0] += float64(small.Pix[i])
		sum[1] += float64(small.Pix[i+1])
		sum[2] += float64(small.Pix[i+2])
	}
	n := float64(sample * sample)
	return [3]float64{sum[0] / n, sum[1] / n, sum[2] / n}
}

func createCanvas(w, h int, bg color.Color) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{bg}, image.Point{}, draw.Src)
	return dst
}
