package extractor

import (
	"html"
	"regexp"
	"sort"
	"strings"

	"website-intel/internal/models"
	"website-intel/internal/validate"
)

var emailRe = regexp.MustCompile(`[A-Za-z0-9][A-Za-z0-9._%+-]*@[A-Za-z0-9][A-Za-z0-9.-]*\.[A-Za-z]{2,}`)

// deobfuscations undo the common "name at domain dot com" spellings before
// the address regex runs.
var deobfuscations = []struct{ from, to string }{
	{" at ", "@"}, {"[at]", "@"}, {"(at)", "@"}, {"<at>", "@"}, {"{at}", "@"},
	{" dot ", "."}, {"[dot]", "."}, {"(dot)", "."}, {"<dot>", "."}, {"{dot}", "."},
}

// extractEmails merges five candidate sources: attribute contacts, per-page
// quick matches, a comprehensive sweep over text, HTML, and entity-decoded
// text, de-obfuscated text, and structured markup. Survivors of validation
// come back lowercased and sorted.
func (e *Extractor) extractEmails(result models.CrawlResult) []string {
	var candidates []string
	for _, page := range result.Pages {
		candidates = append(candidates, page.AttrContacts.Emails...)
		candidates = append(candidates, page.TextContacts.Emails...)
		if page.Structured != nil {
			candidates = append(candidates, page.Structured.Emails...)
		}
	}
	candidates = append(candidates, emailRe.FindAllString(result.CombinedText, -1)...)
	candidates = append(candidates, emailRe.FindAllString(result.CombinedHTML, -1)...)
	candidates = append(candidates, emailRe.FindAllString(html.UnescapeString(result.CombinedText), -1)...)
	if e.deobfuscate {
		candidates = append(candidates, emailRe.FindAllString(deobfuscate(result.CombinedText), -1)...)
	}

	seen := map[string]struct{}{}
	var out []string
	for _, c := range candidates {
		addr, ok := validate.Email(c)
		if !ok {
			continue
		}
		if e.mx != nil && !e.mx.HasMX(addr) {
			continue
		}
		if _, dup := seen[addr]; dup {
			continue
		}
		seen[addr] = struct{}{}
		out = append(out, addr)
	}
	sort.Strings(out)
	return out
}

func deobfuscate(text string) string {
	lower := strings.ToLower(text)
	for _, r := range deobfuscations {
		lower = strings.ReplaceAll(lower, r.from, r.to)
	}
	return lower
}
