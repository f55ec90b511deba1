// Package assets holds the value types produced by a brand extraction run and the
// error taxonomy shared by every extraction stage.
package assets

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// ImageBlob is an encoded image together with its pixel dimensions.
type ImageBlob struct {
	Bytes    []byte
	MimeType string
	Width    int
	Height   int
}

// DataURI renders the blob as a base64 data URI for direct embedding in markup.
func (b ImageBlob) DataURI() string {
	return fmt.Sprintf("data:%s;base64,%s", b.MimeType, base64.StdEncoding.EncodeToString(b.Bytes))
}

// RGB is an opaque 8-bit color.
type RGB struct {
	R, G, B uint8
}

// Hex returns the color as lowercase #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseHex parses a #rrggbb (or rrggbb) literal.
func ParseHex(s string) (RGB, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("invalid hex color %q: expected 6 digits", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Default palette slots used whenever a strategy cannot fill a slot.
var (
	DefaultPrimary   = RGB{0x63, 0x66, 0xf1}
	DefaultSecondary = RGB{0xec, 0x48, 0x99}
	DefaultAccent    = RGB{0x8b, 0x5c, 0xf6}
)

// Palette is the three-slot brand color set. All slots are always populated.
type Palette struct {
	Primary   RGB
	Secondary RGB
	Accent    RGB
}

// DefaultPalette returns the fixed fallback palette.
func DefaultPalette() Palette {
	return Palette{
		Primary:   DefaultPrimary,
		Secondary: DefaultSecondary,
		Accent:    DefaultAccent,
	}
}

// PaletteSource names the strategy that produced a palette.
type PaletteSource string

const (
	PaletteFromLogo    PaletteSource = "logo"
	PaletteFromCSS     PaletteSource = "css"
	PaletteFromDefault PaletteSource = "default"
)

// BrandAssets is the bundle returned by one extraction call. Logo and QRCode are nil
// when their stage produced nothing.
type BrandAssets struct {
	Logo          *ImageBlob
	Palette       Palette
	PaletteSource PaletteSource
	Images        []ImageBlob
	QRCode        *ImageBlob
}
