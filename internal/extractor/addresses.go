package extractor

import (
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"website-intel/internal/models"
)

var streetAddressRes = []*regexp.Regexp{
	// "123 Main Street" with optional suite, city, state, and zip
	regexp.MustCompile(`(?i)\b\d{1,5}\s+(?:[A-Za-z0-9'.-]+\s+){1,5}(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Lane|Ln|Drive|Dr|Court|Ct|Place|Pl|Way|Parkway|Pkwy|Circle|Cir|Highway|Hwy)\b\.?(?:,?\s*(?:Suite|Ste|Unit|Floor|Fl|#)\s*[A-Za-z0-9-]+)?(?:,\s*[A-Za-z .'-]+)?(?:,\s*[A-Z]{2})?(?:\s+\d{5}(?:-\d{4})?)?`),
	// "123 Anything, City, ST 12345"
	regexp.MustCompile(`\b\d{1,5}\s+[A-Za-z0-9 .'-]+,\s*[A-Za-z .'-]+,\s*[A-Z]{2}\s+\d{5}(?:-\d{4})?\b`),
}

const (
	minStreetLen  = 15
	maxStreetLen  = 300
	minAddrTagLen = 10
)

// extractAddresses collects street-shaped matches from the combined text,
// the contents of <address> tags, and structured postal addresses, then
// returns the deduped set sorted.
func extractAddresses(result models.CrawlResult) []string {
	set := map[string]struct{}{}
	add := func(s string, minLen int) {
		s = strings.Join(strings.Fields(s), " ")
		if len(s) < minLen || len(s) > maxStreetLen {
			return
		}
		set[s] = struct{}{}
	}

	for _, re := range streetAddressRes {
		for _, m := range re.FindAllString(result.CombinedText, -1) {
			add(m, minStreetLen)
		}
	}

	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(result.CombinedHTML)); err == nil {
		doc.Find("address").Each(func(_ int, s *goquery.Selection) {
			add(s.Text(), minAddrTagLen)
		})
	}

	for _, page := range result.Pages {
		if page.Structured == nil {
			continue
		}
		for _, addr := range page.Structured.Addresses {
			add(addr.Text, minStreetLen)
		}
	}

	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
