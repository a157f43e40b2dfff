// Package urlutil provides URL normalization and domain comparison helpers
// shared by the crawler and the scan service.
package urlutil

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// skipExtensions marks paths that point at assets rather than pages.
var skipExtensions = []string{
	".pdf", ".jpg", ".jpeg", ".png", ".gif", ".svg", ".ico",
	".css", ".js", ".xml", ".zip", ".doc", ".docx", ".xls",
	".xlsx", ".ppt", ".pptx", ".mp4", ".mp3", ".avi", ".mov",
}

// Normalize trims the input, prefixes https:// when no scheme is present and
// drops a trailing slash.
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimRight(raw, "/")
	if raw == "" {
		return raw
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	return raw
}

// IsValid reports whether raw parses as an absolute http(s) URL with a host.
func IsValid(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// BaseURL reduces a URL to scheme://host.
func BaseURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// RegistrableDomain returns the eTLD+1 of a hostname, or the hostname itself
// when the public-suffix list cannot place it (IPs, localhost, bare names).
func RegistrableDomain(host string) string {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if d, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return d
	}
	return host
}

// SameDomain reports whether two URLs share a registrable domain, so that
// www.example.com and shop.example.com count as the same site.
func SameDomain(a, b string) bool {
	ua, err := url.Parse(a)
	if err != nil || ua.Hostname() == "" {
		return false
	}
	ub, err := url.Parse(b)
	if err != nil || ub.Hostname() == "" {
		return false
	}
	return RegistrableDomain(ua.Hostname()) == RegistrableDomain(ub.Hostname())
}

// StripForDiscovery removes the fragment and query string so discovered
// links deduplicate on path identity.
func StripForDiscovery(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	u.Fragment = ""
	u.RawQuery = ""
	return strings.TrimRight(u.String(), "/")
}

// IsCrawlablePath rejects URLs whose path ends in a known non-page
// extension (images, archives, office documents, media).
func IsCrawlablePath(raw string) bool {
	lower := strings.ToLower(raw)
	for _, ext := range skipExtensions {
		if strings.HasSuffix(lower, ext) {
			return false
		}
	}
	return true
}
