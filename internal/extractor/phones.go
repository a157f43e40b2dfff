package extractor

import (
	"regexp"
	"sort"
	"strings"

	"website-intel/internal/models"
	"website-intel/internal/validate"
)

var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b1800[-\s]?\d{3}[-\s]?\d{4}\b`),
	regexp.MustCompile(`\b\d{4}[-\s]?\d{3}[-\s]?\d{3}\b`),
	regexp.MustCompile(`\b\d{10}\b`),
	regexp.MustCompile(`\+?1?[-.\s]?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`),
	regexp.MustCompile(`\d{3}[-.\s]\d{3}[-.\s]\d{4}`),
	regexp.MustCompile(`\(\d{3}\)\s*\d{3}[-.\s]?\d{4}`),
}

var phoneContextKeywords = []string{
	"contact", "call", "phone", "tel", "support", "care",
	"customer", "reach", "help", "whatsapp",
}

// Provenance scores accumulate across sources, so a lone pattern-sweep hit
// is dropped unless a second pattern, another source, or a contact-context
// line corroborates it.
const (
	scoreAttr       = 3
	scoreStructured = 3
	scoreQuickText  = 2
	scoreSweep      = 1
	contextBonus    = 2
	minPhoneScore   = 2
)

// extractPhones gathers candidates by provenance, normalizes them to bare
// digits, and keeps those that both score high enough and parse as valid
// numbers for the inferred region.
func extractPhones(result models.CrawlResult, region string) []models.Phone {
	base := map[string]int{}
	add := func(raw string, score int) {
		norm, ok := normalizePhone(raw)
		if !ok {
			return
		}
		base[norm] += score
	}

	for _, page := range result.Pages {
		for _, p := range page.AttrContacts.Phones {
			add(p, scoreAttr)
		}
		for _, p := range page.TextContacts.Phones {
			add(p, scoreQuickText)
		}
		if page.Structured != nil {
			for _, p := range page.Structured.Telephones {
				add(p, scoreStructured)
			}
		}
	}
	for _, re := range phonePatterns {
		for _, m := range re.FindAllString(result.CombinedText, -1) {
			add(m, scoreSweep)
		}
	}

	// numbers on lines that talk about contacting get a trust bonus
	inContext := map[string]struct{}{}
	for _, line := range strings.Split(strings.ToLower(result.CombinedText), "\n") {
		if !containsAny(line, phoneContextKeywords) {
			continue
		}
		for _, re := range phonePatterns {
			for _, m := range re.FindAllString(line, -1) {
				if norm, ok := normalizePhone(m); ok {
					inContext[norm] = struct{}{}
				}
			}
		}
	}

	dropTollFreeDuplicates(base)

	seen := map[string]struct{}{}
	var out []models.Phone
	for norm, score := range base {
		if _, ok := inContext[norm]; ok {
			score += contextBonus
		}
		if score < minPhoneScore {
			continue
		}
		e164, ok := validate.Phone(norm, region)
		if !ok {
			continue
		}
		if _, dup := seen[e164]; dup {
			continue
		}
		seen[e164] = struct{}{}
		out = append(out, models.Phone{E164: e164, Display: validate.PhoneDisplay(e164, region)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].E164 < out[j].E164 })
	return out
}

// normalizePhone reduces a raw match to digits with an optional leading +,
// converting the 00 international prefix and rejecting strings that are too
// short, too long, or too repetitive to be phone numbers.
func normalizePhone(raw string) (string, bool) {
	var b strings.Builder
	for i, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	norm := b.String()
	if strings.HasPrefix(norm, "00") {
		norm = "+" + norm[2:]
	}
	digits := strings.TrimPrefix(norm, "+")
	if len(digits) < 10 || len(digits) > 15 {
		return "", false
	}
	distinct := map[rune]struct{}{}
	for _, r := range digits {
		distinct[r] = struct{}{}
	}
	if len(distinct) <= 2 {
		return "", false
	}
	return norm, true
}

// dropTollFreeDuplicates removes candidates that are the 10-digit tail of
// an 11-digit 1800 number also present, keeping only the full toll-free
// form.
func dropTollFreeDuplicates(base map[string]int) {
	for norm := range base {
		digits := strings.TrimPrefix(norm, "+")
		if !strings.HasPrefix(digits, "1800") || len(digits) != 11 {
			continue
		}
		tail := digits[1:]
		for other := range base {
			if other == norm {
				continue
			}
			if strings.TrimPrefix(other, "+") == tail {
				delete(base, other)
			}
		}
	}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
