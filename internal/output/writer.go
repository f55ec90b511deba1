// Package output writes extraction results to disk for the CLI.
// Each site gets its own directory named after the URL (e.g. example_com) holding
// logo.<ext>, palette.json, image_N.jpg and qr.png.
package output

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/jo-hoe/brandkit/internal/assets"
)

// Writer writes extraction results to disk.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	// Ensure the output directory exists.
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

type paletteFile struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
	Source    string `json:"source"`
}

// WriteAssets writes every produced asset of rawURL and returns the written paths in
// order: logo, palette, images, QR code.
func (w *Writer) WriteAssets(rawURL string, result assets.BrandAssets) ([]string, error) {
	dir := filepath.Join(w.OutputDir, dirNameFromURL(rawURL))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating directory %s: %w", dir, err)
	}

	var written []string
	write := func(name string, data []byte) error {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("writing file %s: %w", path, err)
		}
		written = append(written, path)
		return nil
	}

	if result.Logo != nil {
		if err := write("logo"+extensionFor(result.Logo.MimeType), result.Logo.Bytes); err != nil {
			return written, err
		}
	}

	palette, err := json.MarshalIndent(paletteFile{
		Primary:   result.Palette.Primary.Hex(),
		Secondary: result.Palette.Secondary.Hex(),
		Accent:    result.Palette.Accent.Hex(),
		Source:    string(result.PaletteSource),
	}, "", "  ")
	if err != nil {
		return written, fmt.Errorf("encoding palette: %w", err)
	}
	if err := write("palette.json", append(palette, '\n')); err != nil {
		return written, err
	}

	for i, img := range result.Images {
		if err := write(fmt.Sprintf("image_%d.jpg", i+1), img.Bytes); err != nil {
			return written, err
		}
	}

	if result.QRCode != nil {
		if err := write("qr.png", result.QRCode.Bytes); err != nil {
			return written, err
		}
	}
	return written, nil
}

// extensionFor maps a MIME type to a file extension, ".bin" when unknown.
func extensionFor(mimeType string) string {
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	if m := mimetype.Lookup(strings.TrimSpace(mimeType)); m != nil && m.Extension() != "" {
		return m.Extension()
	}
	return ".bin"
}

// dirNameFromURL converts a URL into a flat directory name.
// Example: https://example.com/docs/intro → example_com_docs_intro
func dirNameFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		// Fallback: sanitize the raw string.
		return sanitize(rawURL)
	}

	parts := []string{sanitize(parsed.Host)}
	path := strings.Trim(parsed.Path, "/")
	if path != "" {
		for _, seg := range strings.Split(path, "/") {
			parts = append(parts, sanitize(seg))
		}
	}
	return strings.Join(parts, "_")
}

// sanitize replaces non-alphanumeric characters with underscores.
func sanitize(s string) string {
	var b strings.Builder
	for _, ch := range s {
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			b.WriteRune(ch)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
