// Package logo locates and downloads a single representative logo for a page.
package logo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jo-hoe/brandkit/internal/assets"
	"github.com/jo-hoe/brandkit/internal/fetch"
	"github.com/jo-hoe/brandkit/internal/imaging"
)

// Strategy inspects a parsed page and returns a candidate logo reference.
type Strategy struct {
	Name string
	Find func(doc *goquery.Document) (string, bool)
}

// selectorHeuristics are tried in order; the first element with a non-empty src wins.
var selectorHeuristics = []string{
	`img[class*="logo" i]`,
	`img[id*="logo" i]`,
	`img[alt*="logo" i]`,
	`.logo img`,
	`#logo img`,
	`header img`,
	`.header img`,
	`nav img`,
	`.navbar img`,
	`.navbar-brand img`,
	`a[class*="logo" i] img`,
	`[class*="brand" i] img`,
}

// DefaultStrategies is the fixed priority order: og:image, selector heuristics, favicon.
var DefaultStrategies = []Strategy{
	{Name: "og:image", Find: findOpenGraphImage},
	{Name: "selector", Find: findBySelector},
	{Name: "favicon", Find: findFavicon},
}

func findOpenGraphImage(doc *goquery.Document) (string, bool) {
	content := strings.TrimSpace(doc.Find(`meta[property="og:image"]`).First().AttrOr("content", ""))
	return content, content != ""
}

func findBySelector(doc *goquery.Document) (string, bool) {
	for _, sel := range selectorHeuristics {
		var src string
		doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			src = strings.TrimSpace(s.AttrOr("src", ""))
			return src == ""
		})
		if src != "" {
			slog.Debug("logo selector matched", "selector", sel)
			return src, true
		}
	}
	return "", false
}

func findFavicon(doc *goquery.Document) (string, bool) {
	href := strings.TrimSpace(doc.Find(`link[rel~="icon"]`).First().AttrOr("href", ""))
	return href, href != ""
}

// Resolver runs the strategy chain and downloads the winning candidate.
type Resolver struct {
	fetcher    fetch.Fetcher
	strategies []Strategy
}

// NewResolver creates a Resolver using DefaultStrategies.
func NewResolver(fetcher fetch.Fetcher) *Resolver {
	return &Resolver{
		fetcher:    fetcher,
		strategies: DefaultStrategies,
	}
}

// Resolve returns the page's logo. The error reports why no logo could be produced:
// assets.ErrNotFound when no strategy matched, *assets.FetchError when the download
// failed and *assets.DecodeError when the payload is not an image.
func (r *Resolver) Resolve(ctx context.Context, pageHTML, baseURL string) (*assets.ImageBlob, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil, &assets.ParseError{Stage: "logo", Err: err}
	}

	ref, strategy, ok := r.candidate(doc)
	if !ok {
		return nil, fmt.Errorf("logo: %w", assets.ErrNotFound)
	}

	logoURL, err := fetch.ResolveURL(baseURL, ref)
	if err != nil {
		return nil, &assets.ParseError{Stage: "logo", Err: err}
	}
	slog.Debug("logo candidate found", "strategy", strategy, "url", logoURL)

	resp, err := r.fetcher.FetchImage(ctx, logoURL)
	if err != nil {
		return nil, fmt.Errorf("downloading logo: %w", err)
	}

	width, height, format, err := imaging.Verify(resp.Body)
	if err != nil {
		return nil, &assets.DecodeError{Source: logoURL, Err: err}
	}

	slog.Debug("logo downloaded",
		"url", logoURL,
		"format", format,
		"width", width,
		"height", height,
		"size_bytes", len(resp.Body))

	return &assets.ImageBlob{
		Bytes:    resp.Body,
		MimeType: resp.ContentType,
		Width:    width,
		Height:   height,
	}, nil
}

// candidate returns the first reference found by the strategy chain.
func (r *Resolver) candidate(doc *goquery.Document) (ref, strategy string, ok bool) {
	for _, s := range r.strategies {
		if ref, ok := s.Find(doc); ok {
			return ref, s.Name, true
		}
	}
	return "", "", false
}
