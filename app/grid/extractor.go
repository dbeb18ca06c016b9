package grid

import (
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/maelbrgt/instagrid/app/notion"
)

// One shared pattern for pulling URLs out of free text, used identically from
// every text-bearing property variant.
var urlPattern = regexp.MustCompile(`https?://[^\s<>"')]+`)

var videoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".webm": true,
	".m4v":  true,
	".mkv":  true,
	".ogg":  true,
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".avif": true,
	".svg":  true,
}

// mediaURLsFromProperty extracts raw media URLs from one property value,
// dispatching over the closed variant set. Unknown or non-media variants
// (select, checkbox, date) yield nothing.
func mediaURLsFromProperty(prop notion.Property) []string {
	switch prop.Type {
	case notion.TypeFiles:
		urls := make([]string, 0, len(prop.Files))
		for _, f := range prop.Files {
			switch {
			case f.Type == "file" && f.File != nil && f.File.URL != "":
				urls = append(urls, f.File.URL)
			case f.Type == "external" && f.External != nil && f.External.URL != "":
				urls = append(urls, f.External.URL)
			}
		}
		return urls
	case notion.TypeURL:
		return splitURLValue(prop.URL)
	case notion.TypeRichText:
		return urlsFromRichText(prop.RichText)
	case notion.TypeTitle:
		// Titles are not expected to carry media, but malformed databases
		// sometimes paste links into them.
		return urlPattern.FindAllString(plainText(prop.Title), -1)
	default:
		return nil
	}
}

// urlsFromRichText unions the hyperlink targets of styled runs with a plain
// text scan of the concatenated content, preserving discovery order.
func urlsFromRichText(spans []notion.RichTextSpan) []string {
	var urls []string
	for _, span := range spans {
		if span.Href != "" {
			urls = append(urls, span.Href)
		}
	}
	urls = append(urls, urlPattern.FindAllString(plainText(spans), -1)...)
	return dedupeURLs(urls)
}

// splitURLValue treats a url property as one entry, unless it packs several
// URLs separated by commas or newlines.
func splitURLValue(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})
	urls := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			urls = append(urls, p)
		}
	}
	return urls
}

func plainText(spans []notion.RichTextSpan) string {
	var b strings.Builder
	for _, span := range spans {
		b.WriteString(span.PlainText)
	}
	return strings.TrimSpace(b.String())
}

func dedupeURLs(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := urls[:0]
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

// classifyMedia decides image vs. video from the URL path extension alone,
// query string and fragment ignored. Syntactic on purpose: true content type
// is only resolved later by the proxy if needed.
func classifyMedia(rawURL string) MediaType {
	if videoExtensions[mediaExtension(rawURL)] {
		return MediaVideo
	}
	return MediaImage
}

// hasDirectMediaExtension reports whether the URL path ends in a recognized
// image or video extension.
func hasDirectMediaExtension(rawURL string) bool {
	ext := mediaExtension(rawURL)
	return videoExtensions[ext] || imageExtensions[ext]
}

func mediaExtension(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		p = u.Path
	} else {
		if i := strings.IndexAny(p, "?#"); i >= 0 {
			p = p[:i]
		}
	}
	return strings.ToLower(path.Ext(p))
}
