package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/maelbrgt/instagrid/app/cfg"
	"github.com/maelbrgt/instagrid/app/proxy"
	"github.com/maelbrgt/instagrid/app/render"
)

const (
	// Embedding surface is Notion; the CSP keeps the page iframe-able there
	// and nowhere else.
	framePolicy = "frame-ancestors https://www.notion.so https://notion.so https://*.notion.site;"

	mediaCacheControl = "public, s-maxage=86400, max-age=86400, stale-while-revalidate=604800"
	gridCacheControl  = "public, max-age=120"
)

func NewHandler(normalizer NormalizerInterface, renderer RendererInterface, fetcher FetcherInterface) *Handler {
	return &Handler{
		normalizer: normalizer,
		renderer:   renderer,
		fetcher:    fetcher,
	}
}

func (h *Handler) GetGrid(c *gin.Context) {
	appCfg := cfg.Get()
	if !appCfg.IsConfigured() {
		c.String(http.StatusInternalServerError, "Internal Error: Server not configured: NOTION_TOKEN / NOTION_DATABASE_ID")
		return
	}

	size := intQuery(c, "size", 60)
	opts := render.Options{
		Cols:         intQuery(c, "cols", 3),
		Gap:          intQuery(c, "gap", 6),
		Radius:       intQuery(c, "radius", 12),
		ShowCaptions: c.Query("captions") == "true",
	}

	result, err := h.normalizer.Run(c.Request.Context(), appCfg.DatabaseID, size)
	if err != nil {
		slog.Error("Normalization failed", "database", appCfg.DatabaseID, "error", err)
		c.String(http.StatusInternalServerError, "Internal Error: "+err.Error())
		return
	}

	html, err := h.renderer.Run(result, opts)
	if err != nil {
		slog.Error("Render failed", "error", err)
		c.String(http.StatusInternalServerError, "Internal Error: "+err.Error())
		return
	}

	c.Header("Content-Security-Policy", framePolicy)
	c.Header("Cache-Control", gridCacheControl)
	c.Header("X-Grid-Items", strconv.Itoa(len(result.Items)))
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

func (h *Handler) GetMedia(c *gin.Context) {
	target := c.Query("url")
	if target == "" {
		c.String(http.StatusBadRequest, "Missing url")
		return
	}

	media, err := h.fetcher.Run(c.Request.Context(), target)
	if err != nil {
		// Never propagate a broken-image state; the placeholder keeps the
		// grid layout intact.
		slog.Error("Media proxy fallback", "url", target, "error", err)
		c.Header("Cache-Control", mediaCacheControl)
		c.Data(http.StatusOK, "image/svg+xml", []byte(proxy.PlaceholderSVG))
		return
	}

	c.Header("Cache-Control", mediaCacheControl)
	c.Data(http.StatusOK, media.ContentType, media.Body)
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, map[string]interface{}{
		"timestamp":  time.Now().In(time.Local).Format(time.RFC3339),
		"configured": cfg.Get().IsConfigured(),
		"version":    cfg.Get().Version,
	})
}

// intQuery parses a numeric display option, falling back on garbage input.
func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
