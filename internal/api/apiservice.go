// Package api exposes the extraction service over HTTP.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/jo-hoe/brandkit/internal/assets"
	"github.com/jo-hoe/brandkit/internal/fetch"
	"github.com/labstack/echo/v4"
)

// Extractor is the part of core.Service the API depends on.
type Extractor interface {
	Extract(ctx context.Context, url string) assets.BrandAssets
}

type APIService struct {
	extractor      Extractor
	metricsHandler http.Handler
}

// NewAPIService creates the API. metricsHandler may be nil, in which case /metrics is
// not registered.
func NewAPIService(extractor Extractor, metricsHandler http.Handler) *APIService {
	return &APIService{
		extractor:      extractor,
		metricsHandler: metricsHandler,
	}
}

func (s *APIService) SetRoutes(e *echo.Echo) {
	// Set probe route
	e.GET("/probe", func(c echo.Context) error {
		return c.String(http.StatusOK, "API Service is running")
	})

	e.POST("/api/assets", s.extractHandler)

	if s.metricsHandler != nil {
		e.GET("/metrics", echo.WrapHandler(s.metricsHandler))
	}
}

func (s *APIService) extractHandler(ctx echo.Context) error {
	var req ExtractRequest
	if err := ctx.Bind(&req); err != nil {
		slog.Warn("extractHandler: failed to bind request", "status", http.StatusBadRequest, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "received malformed request body")
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}
	if !fetch.IsHTTP(req.URL) {
		return echo.NewHTTPError(http.StatusBadRequest, "url must use http or https")
	}

	result := s.extractor.Extract(ctx.Request().Context(), req.URL)
	return ctx.JSON(http.StatusOK, NewAssetsResponse(result))
}
