// Package qr renders brand-colored QR codes.
package qr

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"

	"github.com/jo-hoe/brandkit/internal/assets"
	"github.com/jo-hoe/brandkit/internal/imaging"
	qrcode "github.com/skip2/go-qrcode"
)

const (
	DefaultSize = 200

	// negative sizes ask go-qrcode for a fixed number of pixels per module
	modulePixels = -10
)

// Encode renders data as a PNG QR code of size x size pixels with error correction level
// H (30%), a 4-module quiet zone, foreground modules in fg and a white background.
func Encode(data string, size int, fg assets.RGB) (*assets.ImageBlob, error) {
	if data == "" {
		return nil, errors.New("qr: empty payload")
	}
	if size <= 0 {
		return nil, fmt.Errorf("qr: invalid size %d", size)
	}

	code, err := qrcode.New(data, qrcode.Highest)
	if err != nil {
		return nil, fmt.Errorf("qr: failed to encode payload: %w", err)
	}
	code.ForegroundColor = color.RGBA{R: fg.R, G: fg.G, B: fg.B, A: 255}
	code.BackgroundColor = color.White

	raw := code.Image(modulePixels)
	resized := imaging.Resize(raw, size, size)
	encoded, err := imaging.EncodePNG(resized)
	if err != nil {
		return nil, fmt.Errorf("qr: %w", err)
	}

	slog.Debug("qr code rendered",
		"version", code.VersionNumber,
		"raw_size", raw.Bounds().Dx(),
		"width", size,
		"height", size)

	return &assets.ImageBlob{
		Bytes:    encoded,
		MimeType: "image/png",
		Width:    size,
		Height:   size,
	}, nil
}
