package grid

import (
	"net/url"
	"strings"
)

// directHostFragments lists hostname substrings of CDNs whose URLs are stable
// enough to embed without proxying. This is a caching heuristic, not a trust
// boundary: a miss only costs a proxy round trip.
var directHostFragments = []string{
	"images.unsplash.com",
	"gravatar.com",
	"githubusercontent.com",
	"cloudfront.net",
	"cdn",
}

// Rewriter decides, per raw media URL, whether to embed it directly or route
// it through the media proxy endpoint. Rewriting is one-way and applied once
// at normalization time.
type Rewriter struct {
	proxyPath     string
	hostFragments []string
}

func NewRewriter(proxyPath string) *Rewriter {
	return &Rewriter{
		proxyPath:     proxyPath,
		hostFragments: directHostFragments,
	}
}

// Run returns the URL to embed. Unparsable URLs go through the proxy: two
// classes of URL are unsafe to embed directly (expiring signed storage URLs
// and share-page URLs that are HTML, not media), and the proxy degrades both
// to bytes or a placeholder instead of a dead tile.
func (r *Rewriter) Run(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return r.proxify(rawURL)
	}

	if r.isDirectHost(parsed.Host) && hasDirectMediaExtension(rawURL) {
		return rawURL
	}

	return r.proxify(rawURL)
}

func (r *Rewriter) isDirectHost(host string) bool {
	host = strings.ToLower(host)
	for _, fragment := range r.hostFragments {
		if strings.Contains(host, fragment) {
			return true
		}
	}
	return false
}

func (r *Rewriter) proxify(rawURL string) string {
	return r.proxyPath + "?url=" + url.QueryEscape(rawURL)
}
