// Package palette derives a three-slot brand palette from a logo, the page's inline
// styles or, failing both, a fixed default.
package palette

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jo-hoe/brandkit/internal/assets"
	"github.com/jo-hoe/brandkit/internal/imaging"
)

const (
	logoColors = 5
	// SVG logos are rasterized with their longest side capped at this many pixels
	svgRasterSide = 512
)

// Result is a palette and the strategy that produced it.
type Result struct {
	Palette assets.Palette
	Source  assets.PaletteSource
}

// Strategy derives a palette or reports why it could not.
type Strategy struct {
	Source assets.PaletteSource
	Derive func(logo *assets.ImageBlob, pageHTML string) (assets.Palette, error)
}

// DefaultStrategies is the fixed fallback order: logo, inline CSS, default palette.
var DefaultStrategies = []Strategy{
	{Source: assets.PaletteFromLogo, Derive: fromLogo},
	{Source: assets.PaletteFromCSS, Derive: fromCSS},
	{Source: assets.PaletteFromDefault, Derive: fromDefault},
}

// Extractor runs palette strategies in order until one succeeds.
type Extractor struct {
	strategies []Strategy
}

// NewExtractor creates an Extractor using DefaultStrategies.
func NewExtractor() *Extractor {
	return &Extractor{strategies: DefaultStrategies}
}

// Extract never fails; when every strategy errors the default palette is returned.
func (e *Extractor) Extract(logo *assets.ImageBlob, pageHTML string) Result {
	for _, s := range e.strategies {
		p, err := s.Derive(logo, pageHTML)
		if err != nil {
			slog.Debug("palette strategy skipped", "strategy", s.Source, "reason", assets.Reason(err), "error", err)
			continue
		}
		slog.Debug("palette derived",
			"strategy", s.Source,
			"primary", p.Primary.Hex(),
			"secondary", p.Secondary.Hex(),
			"accent", p.Accent.Hex())
		return Result{Palette: p, Source: s.Source}
	}
	return Result{Palette: assets.DefaultPalette(), Source: assets.PaletteFromDefault}
}

func fromLogo(logo *assets.ImageBlob, _ string) (assets.Palette, error) {
	if logo == nil {
		return assets.Palette{}, fmt.Errorf("no logo: %w", assets.ErrNotFound)
	}
	img, _, err := imaging.DecodeAny(logo.Bytes, svgRasterSide)
	if err != nil {
		return assets.Palette{}, &assets.DecodeError{Source: "logo", Err: err}
	}
	swatches, err := Quantize(img, logoColors)
	if err != nil {
		return assets.Palette{}, &assets.DecodeError{Source: "logo", Err: err}
	}

	colors := make([]assets.RGB, len(swatches))
	for i, s := range swatches {
		colors[i] = s.Color
	}
	return paletteFromLogoColors(colors), nil
}

// paletteFromLogoColors takes population-ordered colors. The dominant color is primary
// regardless of vibrancy; secondary and accent come from the vibrant subset.
func paletteFromLogoColors(colors []assets.RGB) assets.Palette {
	p := assets.DefaultPalette()
	if len(colors) == 0 {
		return p
	}
	p.Primary = colors[0]

	var vibrant []assets.RGB
	for _, c := range colors {
		if IsVibrant(c) {
			vibrant = append(vibrant, c)
		}
	}
	if len(vibrant) > 1 {
		p.Secondary = vibrant[1]
	}
	if len(vibrant) > 2 {
		p.Accent = vibrant[2]
	}
	return p
}

func fromCSS(_ *assets.ImageBlob, pageHTML string) (assets.Palette, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return assets.Palette{}, &assets.ParseError{Stage: "palette", Err: err}
	}
	colors := cssColors(doc)
	if len(colors) == 0 {
		return assets.Palette{}, fmt.Errorf("no brand colors in styles: %w", assets.ErrNotFound)
	}

	p := assets.DefaultPalette()
	p.Primary = colors[0]
	if len(colors) > 1 {
		p.Secondary = colors[1]
	}
	if len(colors) > 2 {
		p.Accent = colors[2]
	}
	return p, nil
}

func fromDefault(*assets.ImageBlob, string) (assets.Palette, error) {
	return assets.DefaultPalette(), nil
}
