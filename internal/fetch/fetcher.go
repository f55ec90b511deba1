// Package fetch performs the HTTP GET requests used by the extraction stages.
// Every request carries a browser-like user agent and a fixed timeout; no retries.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/jo-hoe/brandkit/internal/assets"
	"golang.org/x/net/html/charset"
)

const (
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	imageAccept   = "image/webp,image/apng,image/*,*/*;q=0.8"
	pageAccept    = "text/html,application/xhtml+xml"
	maxPageBytes  = 10 << 20
	maxImageBytes = 20 << 20
)

// Response is a fetched body together with its declared content type.
type Response struct {
	URL         string
	Body        []byte
	ContentType string
}

// Fetcher retrieves pages and images. Implementations return *assets.FetchError on failure.
type Fetcher interface {
	FetchPage(ctx context.Context, url string) (*Response, error)
	FetchImage(ctx context.Context, url string) (*Response, error)
}

// HTTPFetcher fetches over HTTP with a bounded per-request timeout.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

// New creates an HTTPFetcher. Zero values fall back to DefaultTimeout and DefaultUserAgent.
func New(timeout time.Duration, userAgent string) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &HTTPFetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// FetchPage retrieves the HTML of the given URL. The body is transcoded to UTF-8 based on
// the declared charset, a <meta> charset declaration or content sniffing.
func (f *HTTPFetcher) FetchPage(ctx context.Context, url string) (*Response, error) {
	resp, err := f.get(ctx, url, pageAccept, maxPageBytes)
	if err != nil {
		return nil, err
	}
	resp.Body = toUTF8(resp.Body, resp.ContentType)
	return resp, nil
}

func toUTF8(body []byte, contentType string) []byte {
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		slog.Debug("charset detection failed, using raw body", "error", err)
		return body
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return body
	}
	return decoded
}

// FetchImage retrieves an image body. Bodies above 20 MB are rejected without being
// read completely. The content type falls back to magic-byte sniffing when the server
// does not declare an image type.
func (f *HTTPFetcher) FetchImage(ctx context.Context, url string) (*Response, error) {
	resp, err := f.get(ctx, url, imageAccept, maxImageBytes)
	if err != nil {
		return nil, err
	}
	resp.ContentType = ImageContentType(resp.ContentType, resp.Body)
	return resp, nil
}

func (f *HTTPFetcher) get(ctx context.Context, url, accept string, limit int64) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &assets.FetchError{URL: url, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", accept)

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &assets.FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &assets.FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, &assets.FetchError{URL: url, Err: fmt.Errorf("reading response body: %w", err)}
	}
	if int64(len(body)) > limit {
		return nil, &assets.FetchError{URL: url, Err: fmt.Errorf("response body exceeds %d bytes", limit)}
	}

	slog.Debug("fetched url",
		"url", url,
		"status", resp.StatusCode,
		"size_bytes", len(body),
		"duration_ms", time.Since(start).Milliseconds())

	// redirects change the base that relative references resolve against
	return &Response{
		URL:         resp.Request.URL.String(),
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

// ImageContentType returns the declared media type when it is an image type and
// otherwise the type detected from the body's magic bytes.
func ImageContentType(declared string, body []byte) string {
	if mediaType, _, err := mime.ParseMediaType(declared); err == nil && strings.HasPrefix(mediaType, "image/") {
		return mediaType
	}
	detected := mimetype.Detect(body).String()
	if i := strings.IndexByte(detected, ';'); i >= 0 {
		detected = detected[:i]
	}
	return detected
}
