package core

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jo-hoe/brandkit/internal/assets"
	"github.com/jo-hoe/brandkit/internal/metrics"
)

func newTestService(t *testing.T, recorder *metrics.Recorder) *Service {
	t.Helper()
	config := DefaultConfig()
	config.Fetch.TimeoutSeconds = 2
	return NewService(config, nil, recorder)
}

func TestExtract_OpenGraphOnly(t *testing.T) {
	logo := brandJPEG(t, 400, 300)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			w.Header().Set("Content-Type", "text/html")
			_, _ = io.WriteString(w, `<html><head><meta property="og:image" content="/og.jpg"></head><body><p>hi</p></body></html>`)
		case "/og.jpg":
			w.Header().Set("Content-Type", "image/jpeg")
			_, _ = w.Write(logo)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	got := newTestService(t, nil).Extract(context.Background(), server.URL+"/")

	if got.Logo == nil {
		t.Fatal("expected a logo")
	}
	if got.Logo.Width != 400 || got.Logo.Height != 300 || got.Logo.MimeType != "image/jpeg" {
		t.Errorf("unexpected logo metadata: %s %dx%d", got.Logo.MimeType, got.Logo.Width, got.Logo.Height)
	}
	if got.PaletteSource != assets.PaletteFromLogo {
		t.Errorf("palette source = %s, want logo", got.PaletteSource)
	}
	if p := got.Palette.Primary; p.R < 150 || p.G > 90 || p.B > 90 {
		t.Errorf("primary = %s, want the dominant red", p.Hex())
	}
	if len(got.Images) != 0 {
		t.Errorf("expected no curated images, got %d", len(got.Images))
	}
	if got.QRCode == nil || got.QRCode.Width != 200 {
		t.Error("expected a 200px QR code")
	}
}

func TestExtract_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL + "/"
	server.Close()

	recorder := metrics.New(nil)
	got := newTestService(t, recorder).Extract(context.Background(), url)

	if got.Logo != nil {
		t.Error("expected no logo")
	}
	if got.Palette != assets.DefaultPalette() || got.PaletteSource != assets.PaletteFromDefault {
		t.Errorf("expected default palette, got %+v (%s)", got.Palette, got.PaletteSource)
	}
	if len(got.Images) != 0 {
		t.Errorf("expected no images, got %d", len(got.Images))
	}
	if got.QRCode == nil {
		t.Fatal("expected a QR code even when the site is unreachable")
	}
	if _, err := png.Decode(bytes.NewReader(got.QRCode.Bytes)); err != nil {
		t.Errorf("QR code is not a PNG: %v", err)
	}

	out := scrape(t, recorder)
	for _, want := range []string{
		`brandkit_stage_results_total{outcome="fetch_error",stage="page"} 1`,
		`brandkit_stage_results_total{outcome="skipped",stage="logo"} 1`,
		`brandkit_stage_results_total{outcome="default",stage="palette"} 1`,
		`brandkit_stage_results_total{outcome="ok",stage="qr"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestExtract_FullPage(t *testing.T) {
	photos := map[string][]byte{
		"/img/one.jpg": noiseJPEG(t, 640, 480, 1),
		"/img/two.jpg": noiseJPEG(t, 500, 400, 2),
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			_, _ = io.WriteString(w, `<html><head><style>.btn{background:#1a73e8}.cta{color:#e8453c}</style></head>
<body>
  <header><img class="logo" src="/missing-logo.png"></header>
  <img src="/img/one.jpg" alt="team at work">
  <img src="/img/two.jpg">
</body></html>`)
			return
		}
		if body, ok := photos[r.URL.Path]; ok {
			w.Header().Set("Content-Type", "image/jpeg")
			_, _ = w.Write(body)
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	got := newTestService(t, nil).Extract(context.Background(), server.URL)

	if got.Logo != nil {
		t.Error("expected logo download to fail")
	}
	if got.PaletteSource != assets.PaletteFromCSS {
		t.Fatalf("palette source = %s, want css", got.PaletteSource)
	}
	if got.Palette.Primary.Hex() != "#1a73e8" || got.Palette.Secondary.Hex() != "#e8453c" {
		t.Errorf("unexpected palette %s %s", got.Palette.Primary.Hex(), got.Palette.Secondary.Hex())
	}
	if got.Palette.Accent != assets.DefaultAccent {
		t.Errorf("accent = %s, want default", got.Palette.Accent.Hex())
	}
	if len(got.Images) != 2 {
		t.Fatalf("expected 2 curated images, got %d", len(got.Images))
	}
	for _, img := range got.Images {
		if img.MimeType != "image/jpeg" || img.Width < 300 || img.Height < 200 {
			t.Errorf("unexpected curated image %s %dx%d", img.MimeType, img.Width, img.Height)
		}
	}
}

func TestExtract_RespectsConfiguredLimits(t *testing.T) {
	photo := noiseJPEG(t, 400, 300, 3)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			_, _ = io.WriteString(w, `<img src="/a.jpg"><img src="/b.jpg">`)
			return
		}
		_, _ = w.Write(photo)
	}))
	defer server.Close()

	config := DefaultConfig()
	config.Fetch.TimeoutSeconds = 2
	config.Extraction.MaxImages = 1
	config.Extraction.QRSize = 256

	got := NewService(config, nil, nil).Extract(context.Background(), server.URL)
	if len(got.Images) != 1 {
		t.Errorf("expected 1 image, got %d", len(got.Images))
	}
	if got.QRCode == nil || got.QRCode.Width != 256 || got.QRCode.Height != 256 {
		t.Error("expected a 256px QR code")
	}
}

func scrape(t *testing.T, recorder *metrics.Recorder) string {
	t.Helper()
	rec := httptest.NewRecorder()
	recorder.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	return rec.Body.String()
}

// brandJPEG is mostly red with a green band and a blue corner.
func brandJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{210, 30, 40, 255}
			switch {
			case y >= h*3/4:
				c = color.RGBA{30, 170, 60, 255}
			case x >= w*3/4 && y < h/4:
				c = color.RGBA{30, 60, 200, 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return encodeJPEG(t, img)
}

func noiseJPEG(t *testing.T, w, h int, seed int64) []byte {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = uint8(rng.Intn(256))
		img.Pix[i+1] = uint8(rng.Intn(256))
		img.Pix[i+2] = uint8(rng.Intn(256))
		img.Pix[i+3] = 255
	}
	return encodeJPEG(t, img)
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("failed to encode jpeg: %v", err)
	}
	return buf.Bytes()
}
