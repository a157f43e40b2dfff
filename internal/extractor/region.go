package extractor

import (
	"net/url"
	"strings"
)

// ccTLD to default dialing region. Checked longest-suffix first so co.in
// beats in, com.au beats au, and so on.
var tldRegions = map[string]string{
	".co.in":  "IN",
	".in":     "IN",
	".co.uk":  "GB",
	".uk":     "GB",
	".com.au": "AU",
	".au":     "AU",
	".ca":     "CA",
	".de":     "DE",
	".fr":     "FR",
	".sg":     "SG",
	".ae":     "AE",
	".co.nz":  "NZ",
	".nz":     "NZ",
	".co.za":  "ZA",
	".za":     "ZA",
	".jp":     "JP",
	".com.br": "BR",
	".br":     "BR",
	".mx":     "MX",
	".es":     "ES",
	".it":     "IT",
	".nl":     "NL",
	".ie":     "IE",
}

var indiaMarkers = []string{
	"india", "mumbai", "pune", "delhi", "bengaluru", "bangalore",
	"chennai", "kolkata", "maharashtra",
}

// InferRegion guesses the default dialing region for a site from its ccTLD,
// then from geographic markers in the scraped text, then from dialing
// artifacts like toll-free prefixes. Falls back to US.
func InferRegion(baseURL, text string) string {
	if u, err := url.Parse(baseURL); err == nil {
		host := strings.ToLower(u.Hostname())
		best := ""
		bestLen := 0
		for suffix, region := range tldRegions {
			if strings.HasSuffix(host, suffix) && len(suffix) > bestLen {
				best, bestLen = region, len(suffix)
			}
		}
		if best != "" {
			return best
		}
	}

	lower := strings.ToLower(text)
	for _, marker := range indiaMarkers {
		if strings.Contains(lower, marker) {
			return "IN"
		}
	}
	if strings.Contains(lower, " 1800") || strings.Contains(lower, "+91") || strings.Contains(lower, "whatsapp") {
		return "IN"
	}
	return "US"
}
