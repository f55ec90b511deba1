package palette

import (
	"errors"
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/jo-hoe/brandkit/internal/assets"
)

// Modified median cut quantization over a 5-bit-per-channel histogram.
const (
	sigBits           = 5
	rshift            = 8 - sigBits
	histoSize         = 1 << (3 * sigBits)
	maxIterations     = 1000
	fractByPopulation = 0.75

	// pixels below this alpha or brighter than whiteCutoff on every channel are ignored
	minAlpha    = 125
	whiteCutoff = 250
)

var errNoPixels = errors.New("image has no opaque, non-white pixels")

// Swatch is a representative color and the number of pixels it stands for.
type Swatch struct {
	Color      assets.RGB
	Population int
}

// Quantize reduces img to at most maxColors swatches ordered by descending population.
func Quantize(img image.Image, maxColors int) ([]Swatch, error) {
	histo, initial := buildHistogram(img)
	if initial == nil {
		return nil, errNoPixels
	}

	queue := []*vbox{initial}
	var done []*vbox

	// first phase splits the most populated boxes, the second weighs in color-space volume
	queue, done = iterate(histo, queue, done, byCount, int(math.Ceil(fractByPopulation*float64(maxColors))))
	queue, done = iterate(histo, queue, done, byCountVolume, maxColors)

	boxes := append(queue, done...)
	swatches := make([]Swatch, 0, len(boxes))
	for _, v := range boxes {
		if v.count == 0 {
			continue
		}
		swatches = append(swatches, Swatch{Color: v.average(histo), Population: v.count})
	}
	sort.SliceStable(swatches, func(i, j int) bool {
		return swatches[i].Population > swatches[j].Population
	})
	if len(swatches) > maxColors {
		swatches = swatches[:maxColors]
	}
	return swatches, nil
}

func histoIndex(r, g, b int) int {
	return (r << (2 * sigBits)) + (g << sigBits) + b
}

func buildHistogram(img image.Image) ([]int, *vbox) {
	histo := make([]int, histoSize)
	v := &vbox{r1: 31, g1: 31, b1: 31}
	b := img.Bounds()
	seen := false
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.A < minAlpha || (c.R > whiteCutoff && c.G > whiteCutoff && c.B > whiteCutoff) {
				continue
			}
			r, g, bl := int(c.R)>>rshift, int(c.G)>>rshift, int(c.B)>>rshift
			histo[histoIndex(r, g, bl)]++
			v.r1, v.r2 = min(v.r1, r), max(v.r2, r)
			v.g1, v.g2 = min(v.g1, g), max(v.g2, g)
			v.b1, v.b2 = min(v.b1, bl), max(v.b2, bl)
			seen = true
		}
	}
	if !seen {
		return histo, nil
	}
	v.recount(histo)
	return histo, v
}

// vbox is an axis-aligned box in the reduced color space.
type vbox struct {
	r1, r2, g1, g2, b1, b2 int
	count                  int
}

func (v *vbox) volume() int {
	return (v.r2 - v.r1 + 1) * (v.g2 - v.g1 + 1) * (v.b2 - v.b1 + 1)
}

func (v *vbox) recount(histo []int) {
	n := 0
	for r := v.r1; r <= v.r2; r++ {
		for g := v.g1; g <= v.g2; g++ {
			for b := v.b1; b <= v.b2; b++ {
				n += histo[histoIndex(r, g, b)]
			}
		}
	}
	v.count = n
}

func (v *vbox) average(histo []int) assets.RGB {
	const mult = 1 << rshift
	var total, rSum, gSum, bSum float64
	for r := v.r1; r <= v.r2; r++ {
		for g := v.g1; g <= v.g2; g++ {
			for b := v.b1; b <= v.b2; b++ {
				h := float64(histo[histoIndex(r, g, b)])
				total += h
				rSum += h * (float64(r) + 0.5) * mult
				gSum += h * (float64(g) + 0.5) * mult
				bSum += h * (float64(b) + 0.5) * mult
			}
		}
	}
	if total == 0 {
		return assets.RGB{
			R: uint8(mult * (v.r1 + v.r2 + 1) / 2),
			G: uint8(mult * (v.g1 + v.g2 + 1) / 2),
			B: uint8(mult * (v.b1 + v.b2 + 1) / 2),
		}
	}
	return assets.RGB{R: uint8(rSum / total), G: uint8(gSum / total), B: uint8(bSum / total)}
}

func byCount(v *vbox) int       { return v.count }
func byCountVolume(v *vbox) int { return v.count * v.volume() }

// iterate pops the highest-priority box and splits it until the total number of boxes
// reaches target. Boxes that cannot be split any further move to done.
func iterate(histo []int, queue, done []*vbox, priority func(*vbox) int, target int) ([]*vbox, []*vbox) {
	for n := 0; n < maxIterations && len(queue)+len(done) < target && len(queue) > 0; n++ {
		sort.SliceStable(queue, func(i, j int) bool {
			return priority(queue[i]) < priority(queue[j])
		})
		v := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		if v.count == 0 {
			done = append(done, v)
			continue
		}
		v1, v2 := medianCut(histo, v)
		if v2 == nil {
			done = append(done, v1)
			continue
		}
		queue = append(queue, v1, v2)
	}
	return queue, done
}

// medianCut splits v along its widest axis near the population median. The second box
// is nil when v cannot be split.
func medianCut(histo []int, v *vbox) (*vbox, *vbox) {
	rw, gw, bw := v.r2-v.r1+1, v.g2-v.g1+1, v.b2-v.b1+1
	if v.count <= 1 || (rw == 1 && gw == 1 && bw == 1) {
		c := *v
		return &c, nil
	}

	// lo/hi point at the chosen axis bounds of each half
	axis := 'r'
	lo, hi := v.r1, v.r2
	switch max(rw, gw, bw) {
	case rw:
	case gw:
		axis, lo, hi = 'g', v.g1, v.g2
	default:
		axis, lo, hi = 'b', v.b1, v.b2
	}

	partial := make([]int, hi-lo+1)
	total := 0
	for i := lo; i <= hi; i++ {
		slice := *v
		switch axis {
		case 'r':
			slice.r1, slice.r2 = i, i
		case 'g':
			slice.g1, slice.g2 = i, i
		default:
			slice.b1, slice.b2 = i, i
		}
		slice.recount(histo)
		total += slice.count
		partial[i-lo] = total
	}

	for i := lo; i <= hi; i++ {
		if 2*partial[i-lo] <= total {
			continue
		}
		left, right := i-lo, hi-i
		var d2 int
		if left <= right {
			d2 = min(hi-1, i+right/2)
		} else {
			d2 = max(lo, int(math.Floor(float64(i-1)-float64(left)/2)))
		}
		// avoid empty halves
		for d2 < hi-1 && partial[d2-lo] == 0 {
			d2++
		}
		for d2 > lo && total-partial[d2-lo] == 0 && partial[d2-1-lo] > 0 {
			d2--
		}

		v1, v2 := *v, *v
		switch axis {
		case 'r':
			v1.r2, v2.r1 = d2, d2+1
		case 'g':
			v1.g2, v2.g1 = d2, d2+1
		default:
			v1.b2, v2.b1 = d2, d2+1
		}
		v1.recount(histo)
		v2.recount(histo)
		return &v1, &v2
	}

	c := *v
	return &c, nil
}
