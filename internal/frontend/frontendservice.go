package frontend

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/jo-hoe/brandkit/internal/api"
	"github.com/jo-hoe/brandkit/internal/fetch"
	"github.com/labstack/echo/v4"
)

const (
	MainPageName   = "index.html"
	resultFragment = "result.html"
)

type FrontendService struct {
	extractor api.Extractor
}

func NewFrontendService(extractor api.Extractor) *FrontendService {
	return &FrontendService{
		extractor: extractor,
	}
}

// rootRedirectHandler redirects root path to index.html
func (service *FrontendService) rootRedirectHandler(ctx echo.Context) error {
	return ctx.Redirect(http.StatusMovedPermanently, "/"+MainPageName)
}

func (service *FrontendService) SetRoutes(e *echo.Echo) {
	e.Renderer = &Template{
		templates: parseTemplates(),
	}

	e.GET("/", service.rootRedirectHandler) // Redirect root to index.html
	e.GET("/"+MainPageName, service.indexHandler)
	e.POST("/htmx/extract", service.htmxExtractHandler)

	// Favicon (SVG) route
	e.GET("/icon.svg", service.iconHandler)
}

func (service *FrontendService) indexHandler(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, MainPageName, nil)
}

type swatch struct {
	Name string
	Hex  string
}

type resultView struct {
	URL string
	api.AssetsResponse
	Swatches []swatch
}

func (service *FrontendService) htmxExtractHandler(ctx echo.Context) error {
	url := strings.TrimSpace(ctx.FormValue("url"))
	if url == "" || !fetch.IsHTTP(url) {
		slog.Warn("htmxExtractHandler: invalid url",
			"status", http.StatusBadRequest, "url", url)
		return ctx.HTML(http.StatusBadRequest, `<p>Please enter an absolute http(s) URL.</p>`)
	}

	resp := api.NewAssetsResponse(service.extractor.Extract(ctx.Request().Context(), url))
	view := resultView{
		URL:            url,
		AssetsResponse: resp,
		Swatches: []swatch{
			{Name: "primary", Hex: resp.Palette.Primary},
			{Name: "secondary", Hex: resp.Palette.Secondary},
			{Name: "accent", Hex: resp.Palette.Accent},
		},
	}

	// Results depend on the live site, never serve them from cache
	service.setNoCache(ctx)

	return ctx.Render(http.StatusOK, resultFragment, view)
}

func (service *FrontendService) setNoCache(ctx echo.Context) {
	ctx.Response().Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	ctx.Response().Header().Set("Pragma", "no-cache")
	ctx.Response().Header().Set("Expires", "0")
}

func (service *FrontendService) iconHandler(ctx echo.Context) error {
	data, err := assetsFS.ReadFile("views/icon.svg")
	if err != nil {
		slog.Error("iconHandler: failed to read icon.svg", "status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to load icon")
	}
	// Cache for 7 days
	ctx.Response().Header().Set("Cache-Control", "public, max-age=604800, immutable")
	return ctx.Blob(http.StatusOK, "image/svg+xml", data)
}
