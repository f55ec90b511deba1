package core

import (
	"context"
	"log/slog"
	"time"

	"github.com/jo-hoe/brandkit/internal/assets"
	"github.com/jo-hoe/brandkit/internal/curator"
	"github.com/jo-hoe/brandkit/internal/fetch"
	"github.com/jo-hoe/brandkit/internal/logo"
	"github.com/jo-hoe/brandkit/internal/metrics"
	"github.com/jo-hoe/brandkit/internal/palette"
	"github.com/jo-hoe/brandkit/internal/qr"
)

// Stage names used in logs and metrics.
const (
	stagePage    = "page"
	stageLogo    = "logo"
	stagePalette = "palette"
	stageImages  = "images"
	stageQR      = "qr"

	outcomeSkipped = "skipped"
)

// Service orchestrates one extraction per call. It holds no per-call state, so a
// single instance can serve concurrent requests.
type Service struct {
	config   *ServiceConfig
	fetcher  fetch.Fetcher
	logos    *logo.Resolver
	palettes *palette.Extractor
	curator  *curator.Curator
	metrics  *metrics.Recorder
}

// NewService wires the extraction stages. A nil fetcher uses an HTTP fetcher built from
// config; a nil recorder disables metrics.
func NewService(config *ServiceConfig, fetcher fetch.Fetcher, recorder *metrics.Recorder) *Service {
	if config == nil {
		config = DefaultConfig()
	}
	if fetcher == nil {
		fetcher = fetch.New(config.Timeout(), config.Fetch.UserAgent)
	}
	return &Service{
		config:   config,
		fetcher:  fetcher,
		logos:    logo.NewResolver(fetcher),
		palettes: palette.NewExtractor(),
		curator:  curator.NewCurator(fetcher),
		metrics:  recorder,
	}
}

// Extract never fails: each stage that cannot produce a value contributes its default
// (no logo, default palette, no images, no QR code) and the reason is logged.
func (s *Service) Extract(ctx context.Context, url string) assets.BrandAssets {
	start := time.Now()
	result := assets.BrandAssets{}

	pageHTML, baseURL, pageOK := s.fetchPage(ctx, url)

	if pageOK {
		blob, err := s.logos.Resolve(ctx, pageHTML, baseURL)
		s.record(stageLogo, url, err)
		result.Logo = blob
	} else {
		s.metrics.ObserveStage(stageLogo, outcomeSkipped)
	}

	colors := s.palettes.Extract(result.Logo, pageHTML)
	result.Palette = colors.Palette
	result.PaletteSource = colors.Source
	s.metrics.ObserveStage(stagePalette, string(colors.Source))
	if colors.Source == assets.PaletteFromDefault {
		slog.Warn("using default palette", "url", url)
	}

	if pageOK {
		images, err := s.curator.Curate(ctx, pageHTML, baseURL, s.config.Extraction.MaxImages)
		s.record(stageImages, url, err)
		result.Images = images
	} else {
		s.metrics.ObserveStage(stageImages, outcomeSkipped)
	}

	code, err := qr.Encode(url, s.config.Extraction.QRSize, result.Palette.Primary)
	s.record(stageQR, url, err)
	result.QRCode = code

	s.metrics.ObserveExtraction(time.Since(start), len(result.Images))
	slog.Info("extraction finished",
		"url", url,
		"logo", result.Logo != nil,
		"palette_source", result.PaletteSource,
		"images", len(result.Images),
		"qr", result.QRCode != nil,
		"duration_ms", time.Since(start).Milliseconds())

	return result
}

func (s *Service) fetchPage(ctx context.Context, url string) (pageHTML, baseURL string, ok bool) {
	resp, err := s.fetcher.FetchPage(ctx, url)
	s.record(stagePage, url, err)
	if err != nil {
		return "", url, false
	}
	return string(resp.Body), resp.URL, true
}

// record counts the stage outcome and logs failures.
func (s *Service) record(stage, url string, err error) {
	reason := assets.Reason(err)
	s.metrics.ObserveStage(stage, reason)
	if err != nil {
		slog.Warn("stage fell back to default",
			"stage", stage,
			"url", url,
			"reason", reason,
			"error", err)
	}
}
