// Package curator selects representative photographs from a page's <img> elements.
package curator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jo-hoe/brandkit/internal/assets"
	"github.com/jo-hoe/brandkit/internal/fetch"
	"github.com/jo-hoe/brandkit/internal/imaging"
)

const (
	DefaultMaxImages = 6

	minAttrWidth  = 200
	minAttrHeight = 150
	minWidth      = 300
	minHeight     = 200
	maxWidth      = 800
	maxHeight     = 600

	minBytes = 10_000
	maxBytes = 5_000_000

	alphaThreshold      = 128
	maxTransparentShare = 0.5
	meanSample          = 50
	whiteMean           = 240
	jpegQuality         = 85
)

// sourceAttrs are read in order; the first non-empty value is the image source.
var sourceAttrs = []string{"src", "data-src", "data-lazy-src", "data-original"}

// blacklist terms mark decorative images by URL, alt text or class.
var blacklist = []string{
	"icon", "logo", "favicon", "sprite", "avatar", "thumb",
	"button", "badge", "arrow", "star", "check",
}

// errRejected marks a candidate that failed a filter rather than a fetch or decode.
var errRejected = errors.New("rejected")

func reject(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errRejected, fmt.Sprintf(format, args...))
}

// Curator downloads and filters page images.
type Curator struct {
	fetcher fetch.Fetcher
}

// NewCurator creates a Curator that downloads through fetcher.
func NewCurator(fetcher fetch.Fetcher) *Curator {
	return &Curator{fetcher: fetcher}
}

// Curate returns up to maxImages opaque JPEG images, at least 300x200 and at most
// 800x600, in document order. Candidates are processed sequentially and the scan stops
// as soon as maxImages are collected. The error is only set when pageHTML is unusable.
func (c *Curator) Curate(ctx context.Context, pageHTML, baseURL string, maxImages int) ([]assets.ImageBlob, error) {
	if maxImages <= 0 {
		return nil, nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil, &assets.ParseError{Stage: "curator", Err: err}
	}

	var images []assets.ImageBlob
	skipped := 0
	doc.Find("img").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if ctx.Err() != nil {
			return false
		}
		blob, err := c.candidate(ctx, s, baseURL)
		if err != nil {
			skipped++
			slog.Debug("image skipped", "index", i, "reason", skipReason(err), "error", err)
			return true
		}
		images = append(images, *blob)
		return len(images) < maxImages
	})

	slog.Debug("images curated", "kept", len(images), "skipped", skipped)
	return images, nil
}

func skipReason(err error) string {
	if errors.Is(err, errRejected) {
		return "rejected"
	}
	return assets.Reason(err)
}

// candidate runs the attribute pre-filters and, if they pass, downloads and processes
// the image.
func (c *Curator) candidate(ctx context.Context, s *goquery.Selection, baseURL string) (*assets.ImageBlob, error) {
	src := imageSource(s)
	if src == "" {
		return nil, reject("no source attribute")
	}
	if err := prefilter(src, s); err != nil {
		return nil, err
	}

	imageURL, err := fetch.ResolveURL(baseURL, src)
	if err != nil {
		return nil, &assets.ParseError{Stage: "curator", Err: err}
	}
	if !fetch.IsHTTP(imageURL) {
		return nil, reject("unsupported scheme in %s", imageURL)
	}

	resp, err := c.fetcher.FetchImage(ctx, imageURL)
	if err != nil {
		return nil, err
	}
	if n := len(resp.Body); n < minBytes || n > maxBytes {
		return nil, reject("body size %d outside [%d, %d]", n, minBytes, maxBytes)
	}
	return process(imageURL, resp.Body)
}

func imageSource(s *goquery.Selection) string {
	for _, attr := range sourceAttrs {
		if v := strings.TrimSpace(s.AttrOr(attr, "")); v != "" {
			return v
		}
	}
	return ""
}

// prefilter applies the checks that need no download.
func prefilter(src string, s *goquery.Selection) error {
	lowerSrc := strings.ToLower(src)
	if strings.HasPrefix(lowerSrc, "data:") {
		return reject("data URI")
	}
	if strings.HasSuffix(lowerSrc, ".svg") || strings.HasSuffix(lowerSrc, ".gif") {
		return reject("vector or animated format")
	}

	width, wok := parseDimension(s.AttrOr("width", ""))
	height, hok := parseDimension(s.AttrOr("height", ""))
	if wok && hok && (width < minAttrWidth || height < minAttrHeight) {
		return reject("declared size %dx%d too small", width, height)
	}

	haystack := strings.ToLower(src + " " + s.AttrOr("alt", "") + " " + s.AttrOr("class", ""))
	for _, term := range blacklist {
		if strings.Contains(haystack, term) {
			return reject("blacklisted term %q", term)
		}
	}
	return nil
}

// parseDimension parses an integer attribute with an optional px suffix.
func parseDimension(v string) (int, bool) {
	v = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(v)), "px")
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return n, true
}

// process decodes, filters, downscales, flattens and re-encodes one downloaded image.
// Decoder panics on malformed payloads are reported as decode errors.
func process(source string, data []byte) (blob *assets.ImageBlob, err error) {
	defer func() {
		if r := recover(); r != nil {
			blob = nil
			err = &assets.DecodeError{Source: source, Err: fmt.Errorf("decoder panic: %v", r)}
		}
	}()

	img, format, err := imaging.Decode(data)
	if err != nil {
		return nil, &assets.DecodeError{Source: source, Err: err}
	}
	b := img.Bounds()
	slog.Debug("decoded candidate image",
		"url", source,
		"format", format,
		"width", b.Dx(),
		"height", b.Dy(),
		"input_size_bytes", len(data))

	if b.Dx() < minWidth || b.Dy() < minHeight {
		return nil, reject("dimensions %dx%d below %dx%d", b.Dx(), b.Dy(), minWidth, minHeight)
	}
	if imaging.HasAlpha(img) {
		if share := imaging.TransparentFraction(img, alphaThreshold); share > maxTransparentShare {
			return nil, reject("%.0f%% transparent", share*100)
		}
	}

	if b.Dx() > maxWidth || b.Dy() > maxHeight {
		w, h := imaging.FitWithin(b.Dx(), b.Dy(), maxWidth, maxHeight)
		if w < minWidth || h < minHeight {
			return nil, reject("downscaled size %dx%d below %dx%d", w, h, minWidth, minHeight)
		}
		img = imaging.Resize(img, w, h)
	}

	flat := imaging.FlattenOnWhite(img)
	mean := imaging.MeanColor(flat, meanSample)
	if mean[0] > whiteMean && mean[1] > whiteMean && mean[2] > whiteMean {
		return nil, reject("mostly white")
	}

	encoded, err := imaging.EncodeJPEG(flat, jpegQuality)
	if err != nil {
		return nil, err
	}
	fb := flat.Bounds()
	return &assets.ImageBlob{
		Bytes:    encoded,
		MimeType: "image/jpeg",
		Width:    fb.Dx(),
		Height:   fb.Dy(),
	}, nil
}
