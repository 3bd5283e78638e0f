package websearch

import (
	"html"
	"net/url"
	"strings"

	"github.com/ternarybob/discere/internal/models"
)

const searchBackendHost = "duckduckgo.com"

// trackingParams are stripped from every resource URL before storage.
var trackingParams = []string{
	"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content",
	"gclid", "fbclid", "rut",
}

// hostOf returns the hostname of rawURL without a leading www prefix,
// or empty when the URL does not parse.
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// isPDF reports whether the URL path points at a PDF document
func isPDF(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.HasSuffix(strings.ToLower(u.Path), ".pdf")
}

// normalizeRedirectURL resolves a search-backend redirect wrapper to its
// final target. DuckDuckGo wraps organic results as /l/?uddg=<encoded> and
// instant answers as /r.js?u=<encoded>. Returns empty when the link stays on
// the backend or cannot be unwrapped.
func normalizeRedirectURL(href string) string {
	if href == "" {
		return ""
	}
	href = html.UnescapeString(href)

	var u *url.URL
	var err error
	switch {
	case strings.HasPrefix(strings.ToLower(href), "http://"), strings.HasPrefix(strings.ToLower(href), "https://"):
		u, err = url.Parse(href)
	case strings.HasPrefix(href, "/"):
		u, err = url.Parse("https://" + searchBackendHost + href)
	default:
		return ""
	}
	if err != nil || u == nil {
		return ""
	}

	if strings.TrimPrefix(u.Hostname(), "www.") == searchBackendHost {
		var wrapped string
		if strings.HasPrefix(u.Path, "/l/") {
			wrapped = u.Query().Get("uddg")
		} else if u.Path == "/r.js" {
			wrapped = u.Query().Get("u")
		}
		if wrapped != "" {
			if decoded, derr := url.QueryUnescape(wrapped); derr == nil {
				lower := strings.ToLower(decoded)
				if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
					return decoded
				}
			}
		}
		return ""
	}

	return u.String()
}

// normalizeFinalURL upgrades to https and strips tracking query parameters
func normalizeFinalURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	if u.Scheme == "http" {
		u.Scheme = "https"
	}
	q := u.Query()
	for _, p := range trackingParams {
		q.Del(p)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// SanitizeResources normalizes candidate resources: redirect wrappers are
// resolved to their final target, tracking parameters stripped, entities
// decoded, and candidates whose resolved host is empty or the search backend
// itself are dropped. The source field is always the final hostname.
func SanitizeResources(items []models.ResourceRef) []models.ResourceRef {
	out := make([]models.ResourceRef, 0, len(items))
	for _, it := range items {
		title := html.UnescapeString(it.Title)
		rawURL := it.URL
		if hostOf(rawURL) == searchBackendHost || strings.HasPrefix(rawURL, "/") {
			rawURL = normalizeRedirectURL(rawURL)
		}
		rawURL = html.UnescapeString(rawURL)
		if rawURL == "" {
			continue
		}
		host := hostOf(rawURL)
		if host == "" || host == searchBackendHost {
			continue
		}
		rawURL = normalizeFinalURL(rawURL)
		if rawURL == "" {
			continue
		}
		out = append(out, models.ResourceRef{
			Title:   truncate(title, 160),
			URL:     rawURL,
			Source:  host,
			Snippet: it.Snippet,
		})
	}
	return out
}

// truncate caps s at max runes
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
