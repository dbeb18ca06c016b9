package proxy

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// PlaceholderSVG is served with a 200 on any fetch failure so the grid layout
// never shows a broken tile.
const PlaceholderSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="1200" height="1200"><rect width="100%" height="100%" fill="#e5e7eb"/><text x="50%" y="50%" dominant-baseline="middle" text-anchor="middle" font-family="sans-serif" font-size="32" fill="#9ca3af">Media unavailable</text></svg>`

// maxBodySize bounds how much of an upstream response is buffered.
const maxBodySize = 32 << 20

// Video-bearing tags are tried before image ones so a share page with both
// resolves to the richer medium.
var metaSelectors = []string{
	`meta[property="og:video:secure_url"]`,
	`meta[property="og:video"]`,
	`meta[name="twitter:player:stream"]`,
	`meta[property="og:image:secure_url"]`,
	`meta[property="og:image"]`,
	`meta[name="twitter:image:src"]`,
	`meta[name="twitter:image"]`,
}

type Media struct {
	ContentType string
	Body        []byte
}

// Fetcher retrieves a remote URL and relays its bytes. Direct image/video
// responses stream through; HTML responses (design-tool share links and the
// like) get a second hop through their Open Graph metadata.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

func NewFetcher(client *http.Client, userAgent string) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Fetcher{client: client, userAgent: userAgent}
}

func (f *Fetcher) Run(ctx context.Context, target string) (*Media, error) {
	resp, err := f.get(ctx, target, map[string]string{
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/*,video/*,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.9,fr;q=0.8",
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))

	if strings.HasPrefix(contentType, "image/") || strings.HasPrefix(contentType, "video/") {
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
		if err != nil {
			return nil, fmt.Errorf("failed to read media body: %w", err)
		}
		return &Media{ContentType: contentType, Body: body}, nil
	}

	if strings.Contains(contentType, "text/html") {
		return f.fetchFromMetadata(ctx, resp)
	}

	return nil, fmt.Errorf("unsupported upstream content type %q", contentType)
}

// fetchFromMetadata scans an HTML page for Open Graph / Twitter card media
// tags and fetches the first hit, resolving relative URLs against the final
// response URL (redirects included).
func (f *Fetcher) fetchFromMetadata(ctx context.Context, resp *http.Response) (*Media, error) {
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read HTML body: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	mediaURL := ""
	for _, selector := range metaSelectors {
		if content, ok := doc.Find(selector).First().Attr("content"); ok && content != "" {
			mediaURL = content
			break
		}
	}
	if mediaURL == "" {
		return nil, fmt.Errorf("no media metadata found in page")
	}

	if base := resp.Request.URL; base != nil {
		if ref, err := url.Parse(mediaURL); err == nil {
			mediaURL = base.ResolveReference(ref).String()
		}
	}

	slog.Debug("Resolved media from page metadata", "url", mediaURL)

	second, err := f.get(ctx, mediaURL, map[string]string{
		"Accept":  "image/avif,image/webp,image/*,video/*,*/*;q=0.8",
		"Referer": resp.Request.URL.String(),
	})
	if err != nil {
		return nil, err
	}
	defer second.Body.Close()

	body, err := io.ReadAll(io.LimitReader(second.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read media body: %w", err)
	}

	contentType := second.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &Media{ContentType: contentType, Body: body}, nil
}

func (f *Fetcher) get(ctx context.Context, target string, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}
	return resp, nil
}
