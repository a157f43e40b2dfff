// Package validate holds the syntactic and region-aware validators the
// signal extractor applies to raw contact candidates.
package validate

import (
	"net/mail"
	"regexp"
	"strings"
)

// denyDomains rejects placeholder and vendor domains that regex sweeps
// routinely misparse out of page source. Matched exactly or as a parent
// domain (cdn.sentry.io is as unwanted as sentry.io).
var denyDomains = []string{
	"example.com", "example.org", "test.com", "domain.com",
	"yourcompany.com", "yourdomain.com", "company.com",
	"email.com", "mail.com", "sentry.io", "schema.org",
	"wix.com", "wordpress.com", "gravatar.com", "w3.org",
	"localhost", "127.0.0.1", "googleusercontent.com", "googleapis.com",
}

// denyLocalParts rejects unattended-mailbox addresses by local-part marker.
var denyLocalParts = []string{"noreply", "no-reply", "donotreply", "mailer-daemon"}

// denySuffixes catches asset filenames misparsed as addresses
// (sprite@2x.png and friends).
var denySuffixes = []string{".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".css", ".js"}

var emailDomainRe = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]*\.[a-z]{2,}$`)

// Email validates and normalizes one email candidate. It returns the
// lowercased address and true when the candidate passes length bounds,
// the single-@ rule, the denylists and an RFC-shaped parse.
func Email(candidate string) (string, bool) {
	addr := strings.ToLower(strings.TrimSpace(candidate))
	if len(addr) < 5 || len(addr) > 254 {
		return "", false
	}
	if strings.Count(addr, "@") != 1 {
		return "", false
	}
	at := strings.Index(addr, "@")
	local, domain := addr[:at], addr[at+1:]

	for _, bad := range denyDomains {
		if domain == bad || strings.HasSuffix(domain, "."+bad) {
			return "", false
		}
	}
	for _, bad := range denyLocalParts {
		if strings.Contains(local, bad) {
			return "", false
		}
	}
	for _, suffix := range denySuffixes {
		if strings.HasSuffix(domain, suffix) {
			return "", false
		}
	}

	parsed, err := mail.ParseAddress(addr)
	if err != nil || parsed.Address != addr {
		return "", false
	}
	if !emailDomainRe.MatchString(domain) {
		return "", false
	}
	return addr, true
}
