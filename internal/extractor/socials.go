package extractor

import (
	"regexp"
	"strings"

	"website-intel/internal/models"
)

// socialPlatforms are matched in a fixed order so output grouping is
// stable. The patterns deliberately tolerate scheme-less and www-prefixed
// spellings found in plain text.
var socialPlatforms = []struct {
	name string
	re   *regexp.Regexp
}{
	{"LinkedIn", regexp.MustCompile(`(?i)(?:https?://)?(?:[a-z]{2,3}\.)?linkedin\.com/(?:company|in|school)/[A-Za-z0-9\p{L}._%~-]+/?`)},
	{"Twitter", regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?(?:twitter\.com|x\.com)/[A-Za-z0-9_]{1,15}/?`)},
	{"Facebook", regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?(?:facebook\.com|fb\.com)/[A-Za-z0-9.\-]+/?`)},
	{"Instagram", regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?instagram\.com/[A-Za-z0-9_.]+/?`)},
	{"YouTube", regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?(?:youtube\.com/(?:c/|channel/|user/|@)?[A-Za-z0-9_\-@]+|youtu\.be/[A-Za-z0-9_\-]+)/?`)},
	{"GitHub", regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?github\.com/[A-Za-z0-9\-]+/?`)},
	{"TikTok", regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?tiktok\.com/@[A-Za-z0-9_.]+/?`)},
	{"Pinterest", regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?pinterest\.com/[A-Za-z0-9_\-]+/?`)},
}

const maxSocialURLLen = 200

// extractSocials sweeps text and HTML for profile links, normalizes them to
// https URLs, and dedupes by URL with the first-seen platform winning.
func extractSocials(result models.CrawlResult) []models.SocialLink {
	haystack := result.CombinedText + "\n" + result.CombinedHTML

	seen := map[string]struct{}{}
	var out []models.SocialLink
	for _, platform := range socialPlatforms {
		for _, m := range platform.re.FindAllString(haystack, -1) {
			u := normalizeSocialURL(m)
			if u == "" {
				continue
			}
			if _, dup := seen[strings.ToLower(u)]; dup {
				continue
			}
			seen[strings.ToLower(u)] = struct{}{}
			out = append(out, models.SocialLink{Platform: platform.name, URL: u})
		}
	}
	return out
}

func normalizeSocialURL(raw string) string {
	u := strings.TrimRight(strings.TrimSpace(raw), `"'>).,:;!?]`)
	u = strings.TrimSuffix(u, "/")
	if u == "" || len(u) >= maxSocialURLLen {
		return ""
	}
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = "https://" + u
	}
	return u
}
