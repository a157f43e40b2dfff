package extractor

import (
	"regexp"
	"sort"
	"strings"

	"website-intel/internal/models"
	"website-intel/internal/validate"
)

var loosePhoneRes = []*regexp.Regexp{
	regexp.MustCompile(`\+?\d{1,3}[-.\s]?\(?\d{2,4}\)?[-.\s]?\d{3,4}[-.\s]?\d{3,4}`),
	regexp.MustCompile(`\b\d{10}\b`),
}

var fallbackSocialPlatforms = []struct {
	name string
	re   *regexp.Regexp
}{
	{"LinkedIn", regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?linkedin\.com/[A-Za-z0-9._%/-]+`)},
	{"Twitter/X", regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?(?:twitter\.com|x\.com)/[A-Za-z0-9_]+`)},
	{"Facebook", regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?facebook\.com/[A-Za-z0-9.\-]+`)},
	{"Instagram", regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?instagram\.com/[A-Za-z0-9_.]+`)},
	{"YouTube", regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?youtube\.com/[A-Za-z0-9_\-@/]+`)},
}

// fallbackExtract is the degraded path used when the full strategy set
// panics: plain regex sweeps for emails, phones, and the major social
// platforms, and no address extraction.
func fallbackExtract(result models.CrawlResult) models.ContactSignals {
	haystack := result.CombinedText + "\n" + result.CombinedHTML
	region := InferRegion(result.BaseURL, result.CombinedText)

	emailSet := map[string]struct{}{}
	for _, m := range emailRe.FindAllString(haystack, -1) {
		if addr, ok := validate.Email(m); ok {
			emailSet[addr] = struct{}{}
		}
	}
	emails := make([]string, 0, len(emailSet))
	for e := range emailSet {
		emails = append(emails, e)
	}
	sort.Strings(emails)

	phoneSet := map[string]struct{}{}
	var phones []models.Phone
	for _, re := range loosePhoneRes {
		for _, m := range re.FindAllString(haystack, -1) {
			norm, ok := normalizePhone(m)
			if !ok {
				continue
			}
			e164, ok := validate.Phone(norm, region)
			if !ok {
				continue
			}
			if _, dup := phoneSet[e164]; dup {
				continue
			}
			phoneSet[e164] = struct{}{}
			phones = append(phones, models.Phone{E164: e164, Display: validate.PhoneDisplay(e164, region)})
		}
	}
	sort.Slice(phones, func(i, j int) bool { return phones[i].E164 < phones[j].E164 })

	seen := map[string]struct{}{}
	var socials []models.SocialLink
	for _, platform := range fallbackSocialPlatforms {
		for _, m := range platform.re.FindAllString(haystack, -1) {
			u := normalizeSocialURL(m)
			if u == "" {
				continue
			}
			if _, dup := seen[strings.ToLower(u)]; dup {
				continue
			}
			seen[strings.ToLower(u)] = struct{}{}
			socials = append(socials, models.SocialLink{Platform: platform.name, URL: u})
		}
	}

	return models.ContactSignals{Emails: emails, Phones: phones, Socials: socials}
}
