package frontend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/jo-hoe/brandkit/internal/assets"
	"github.com/labstack/echo/v4"
)

type stubExtractor struct {
	result assets.BrandAssets
}

func (s stubExtractor) Extract(context.Context, string) assets.BrandAssets {
	return s.result
}

func newTestServer(result assets.BrandAssets) *echo.Echo {
	e := echo.New()
	NewFrontendService(stubExtractor{result: result}).SetRoutes(e)
	return e
}

func postForm(e *echo.Echo, target string) *httptest.ResponseRecorder {
	form := url.Values{"url": {target}}
	req := httptest.NewRequest(http.MethodPost, "/htmx/extract", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestIndexAndRedirect(t *testing.T) {
	e := newTestServer(assets.BrandAssets{})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusMovedPermanently || rec.Header().Get("Location") != "/index.html" {
		t.Errorf("expected redirect to /index.html, got %d %s", rec.Code, rec.Header().Get("Location"))
	}

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/index.html", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `hx-post="/htmx/extract"`) {
		t.Errorf("unexpected index page: %d", rec.Code)
	}
}

func TestHtmxExtract_RendersAssets(t *testing.T) {
	e := newTestServer(assets.BrandAssets{
		Logo:          &assets.ImageBlob{Bytes: []byte("png"), MimeType: "image/png", Width: 10, Height: 5},
		Palette:       assets.DefaultPalette(),
		PaletteSource: assets.PaletteFromDefault,
		QRCode:        &assets.ImageBlob{Bytes: []byte("qr"), MimeType: "image/png", Width: 200, Height: 200},
	})

	rec := postForm(e, "https://example.com")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`src="data:image/png;base64,cG5n"`,
		`#6366f1`,
		`#ec4899`,
		`#8b5cf6`,
		`No representative images found.`,
		`src="data:image/png;base64,cXI="`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in fragment", want)
		}
	}
	if rec.Header().Get("Cache-Control") == "" {
		t.Error("expected no-cache headers")
	}
}

func TestHtmxExtract_RejectsInvalidURL(t *testing.T) {
	e := newTestServer(assets.BrandAssets{})
	for _, target := range []string{"", "example.com", "javascript:alert(1)"} {
		if rec := postForm(e, target); rec.Code != http.StatusBadRequest {
			t.Errorf("url %q: expected status 400, got %d", target, rec.Code)
		}
	}
}

func TestIconHandler(t *testing.T) {
	e := newTestServer(assets.BrandAssets{})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/icon.svg", nil))
	if rec.Code != http.StatusOK || rec.Header().Get(echo.HeaderContentType) != "image/svg+xml" {
		t.Errorf("unexpected icon response %d %s", rec.Code, rec.Header().Get(echo.HeaderContentType))
	}
}
