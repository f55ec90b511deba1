// Package imaging holds the decode, resample, composite and encode helpers shared by
// the palette, curator and QR stages.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// FormatSVG is the format name reported for SVG documents.
const FormatSVG = "svg"

// MaxPixels is the largest canvas a payload may declare before it is decoded.
const MaxPixels = 40_000_000

// ErrTooLarge reports a payload whose declared canvas exceeds MaxPixels.
var ErrTooLarge = errors.New("image exceeds pixel limit")

// Decode decodes a raster image using the registered decoders. The header is read first
// so oversized canvases are rejected before any pixel buffer is allocated.
func Decode(data []byte) (image.Image, string, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image config: %w", err)
	}
	if err := checkPixels(cfg.Width, cfg.Height); err != nil {
		return nil, "", err
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return img, format, nil
}

// DecodeConfig returns the dimensions and format of a raster image or an SVG document
// without rasterizing it.
func DecodeConfig(data []byte) (width, height int, format string, err error) {
	if IsSVG(data) {
		w, h, err := svgSize(data)
		if err != nil {
			return 0, 0, "", err
		}
		return w, h, FormatSVG, nil
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, "", fmt.Errorf("failed to decode image config: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, "", fmt.Errorf("invalid image dimensions %dx%d", cfg.Width, cfg.Height)
	}
	return cfg.Width, cfg.Height, format, nil
}

// Verify fully decodes a raster payload and returns its dimensions. SVG documents are
// parsed but not rasterized and report their intrinsic size.
func Verify(data []byte) (width, height int, format string, err error) {
	if IsSVG(data) {
		if _, err := oksvg.ReadIconStream(bytes.NewReader(data)); err != nil {
			return 0, 0, "", fmt.Errorf("failed to parse SVG: %w", err)
		}
		w, h, err := svgSize(data)
		if err != nil {
			return 0, 0, "", err
		}
		return w, h, FormatSVG, nil
	}
	img, format, err := Decode(data)
	if err != nil {
		return 0, 0, "", err
	}
	b := img.Bounds()
	if b.Empty() {
		return 0, 0, "", fmt.Errorf("invalid image dimensions %dx%d", b.Dx(), b.Dy())
	}
	return b.Dx(), b.Dy(), format, nil
}

func checkPixels(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid image dimensions %dx%d", width, height)
	}
	if int64(width)*int64(height) > MaxPixels {
		return fmt.Errorf("%w: %dx%d", ErrTooLarge, width, height)
	}
	return nil
}

// DecodeAny decodes raster images directly and rasterizes SVG documents onto a
// transparent canvas whose longest side is at most maxSide.
func DecodeAny(data []byte, maxSide int) (image.Image, string, error) {
	if IsSVG(data) {
		img, err := RasterizeSVG(data, maxSide)
		if err != nil {
			return nil, "", err
		}
		return img, FormatSVG, nil
	}
	return Decode(data)
}

// IsSVG performs a lightweight detection of SVG content from raw bytes.
func IsSVG(data []byte) bool {
	n := len(data)
	if n == 0 {
		return false
	}
	if n > 4096 {
		n = 4096
	}
	header := bytes.ToLower(bytes.TrimSpace(data[:n]))
	return bytes.Contains(header, []byte("<svg")) ||
		bytes.Contains(header, []byte("xmlns=\"http://www.w3.org/2000/svg\""))
}

// RasterizeSVG renders an SVG document to RGBA. The render size follows the explicit
// width/height attributes, then the viewBox, scaled down so the longest side fits maxSide.
func RasterizeSVG(data []byte, maxSide int) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse SVG: %w", err)
	}

	w, h, err := svgSize(data)
	if err != nil {
		return nil, err
	}
	if maxSide > 0 && (w > maxSide || h > maxSide) {
		w, h = FitWithin(w, h, maxSide, maxSide)
	}
	if err := checkPixels(w, h); err != nil {
		return nil, err
	}

	icon.SetTarget(0, 0, float64(w), float64(h))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.Transparent, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(w, h, dst, dst.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	icon.Draw(dasher, 1.0)
	return dst, nil
}

func svgSize(data []byte) (int, int, error) {
	if w, h, ok := parseSVGExplicitSize(data); ok {
		return w, h, nil
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse SVG: %w", err)
	}
	w, h := int(icon.ViewBox.W+0.5), int(icon.ViewBox.H+0.5)
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("SVG has no usable size")
	}
	return w, h, nil
}

// parseSVGExplicitSize extracts the width and height attributes of the root <svg> tag.
func parseSVGExplicitSize(data []byte) (int, int, bool) {
	n := len(data)
	if n > 8192 {
		n = 8192
	}
	s := strings.ToLower(string(data[:n]))
	i := strings.Index(s, "<svg")
	if i < 0 {
		return 0, 0, false
	}
	j := strings.Index(s[i:], ">")
	if j < 0 {
		j = len(s)
	} else {
		j = i + j
	}
	tag := s[i:j]

	w, wOk := parseNumericAttr(tag, "width")
	h, hOk := parseNumericAttr(tag, "height")
	if wOk && hOk {
		return w, h, true
	}
	return 0, 0, false
}

// parseNumericAttr reads the leading integer of a quoted attribute value, e.g. width="120px".
func parseNumericAttr(tag, attr string) (int, bool) {
	pos := strings.Index(tag, " "+attr+"=")
	if pos < 0 {
		return 0, false
	}
	rest := tag[pos+len(attr)+2:]
	if rest == "" {
		return 0, false
	}
	quote := rest[0]
	if quote != '"' && quote != '\'' {
		return 0, false
	}
	rest = rest[1:]
	if end := strings.IndexByte(rest, quote); end >= 0 {
		rest = rest[:end]
	}

	num, found := 0, false
	for k := 0; k < len(rest); k++ {
		ch := rest[k]
		if ch < '0' || ch > '9' {
			break
		}
		found = true
		num = num*10 + int(ch-'0')
	}
	if !found || num <= 0 {
		return 0, false
	}
	return num, true
}

// HasAlpha reports whether the image's color model can carry transparency.
func HasAlpha(img image.Image) bool {
	switch m := img.(type) {
	case *image.Gray, *image.Gray16, *image.YCbCr, *image.CMYK:
		return false
	case *image.Paletted:
		for _, c := range m.Palette {
			if _, _, _, a := c.RGBA(); a != 0xffff {
				return true
			}
		}
		return false
	}
	model := img.ColorModel()
	return model != color.GrayModel && model != color.Gray16Model &&
		model != color.YCbCrModel && model != color.CMYKModel
}
