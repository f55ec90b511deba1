package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jo-hoe/brandkit/internal/assets"
	"github.com/labstack/echo/v4"
)

type fakeExtractor struct {
	calls  []string
	result assets.BrandAssets
}

func (f *fakeExtractor) Extract(_ context.Context, url string) assets.BrandAssets {
	f.calls = append(f.calls, url)
	return f.result
}

func newTestServer(extractor Extractor, metrics http.Handler) *echo.Echo {
	e := echo.New()
	e.Validator = &GenericEchoValidator{}
	NewAPIService(extractor, metrics).SetRoutes(e)
	return e
}

func TestExtractHandler_Success(t *testing.T) {
	fake := &fakeExtractor{result: assets.BrandAssets{
		Logo:          &assets.ImageBlob{Bytes: []byte{0x89, 'P', 'N', 'G'}, MimeType: "image/png", Width: 64, Height: 32},
		Palette:       assets.DefaultPalette(),
		PaletteSource: assets.PaletteFromDefault,
		Images: []assets.ImageBlob{
			{Bytes: []byte{0xff, 0xd8}, MimeType: "image/jpeg", Width: 400, Height: 300},
		},
		QRCode: &assets.ImageBlob{Bytes: []byte{1}, MimeType: "image/png", Width: 200, Height: 200},
	}}
	e := newTestServer(fake, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/assets", strings.NewReader(`{"url":"https://example.com"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(fake.calls) != 1 || fake.calls[0] != "https://example.com" {
		t.Errorf("unexpected extractor calls %v", fake.calls)
	}

	var resp AssetsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if resp.Logo == nil || resp.Logo.DataURI != "data:image/png;base64,iVBORw==" || resp.Logo.Width != 64 {
		t.Errorf("unexpected logo %+v", resp.Logo)
	}
	if resp.Palette.Primary != "#6366f1" || resp.Palette.Secondary != "#ec4899" || resp.Palette.Accent != "#8b5cf6" {
		t.Errorf("unexpected palette %+v", resp.Palette)
	}
	if resp.Palette.Source != "default" {
		t.Errorf("expected palette source default, got %s", resp.Palette.Source)
	}
	if len(resp.Images) != 1 || resp.Images[0].MimeType != "image/jpeg" {
		t.Errorf("unexpected images %+v", resp.Images)
	}
	if resp.QRCode == nil || resp.QRCode.Width != 200 {
		t.Errorf("unexpected qr code %+v", resp.QRCode)
	}
}

func TestExtractHandler_EmptyResultUsesNullsAndEmptyList(t *testing.T) {
	fake := &fakeExtractor{result: assets.BrandAssets{Palette: assets.DefaultPalette(), PaletteSource: assets.PaletteFromDefault}}
	e := newTestServer(fake, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/assets", strings.NewReader(`{"url":"http://example.com/page"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	body := rec.Body.String()
	for _, want := range []string{`"logo":null`, `"images":[]`, `"qrCode":null`} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %s in %s", want, body)
		}
	}
}

func TestExtractHandler_InvalidRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing url", `{}`},
		{"not a url", `{"url":"example"}`},
		{"unsupported scheme", `{"url":"ftp://example.com/file"}`},
		{"malformed json", `{"url":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeExtractor{}
			e := newTestServer(fake, nil)

			req := httptest.NewRequest(http.MethodPost, "/api/assets", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", rec.Code)
			}
			if len(fake.calls) != 0 {
				t.Error("extractor should not be called for invalid requests")
			}
		})
	}
}

func TestProbeAndMetricsRoutes(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("brandkit_up 1"))
	})
	e := newTestServer(&fakeExtractor{}, metrics)

	for path, want := range map[string]string{
		"/probe":   "API Service is running",
		"/metrics": "brandkit_up 1",
	} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), want) {
			t.Errorf("GET %s = %d %q, want 200 containing %q", path, rec.Code, rec.Body.String(), want)
		}
	}
}
