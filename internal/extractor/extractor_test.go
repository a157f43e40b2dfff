package extractor

import (
	"io"
	"reflect"
	"testing"

	"github.com/charmbracelet/log"

	"website-intel/internal/models"
)

func testExtractor(opts ...Option) *Extractor {
	return New(log.New(io.Discard), opts...)
}

func TestInferRegion(t *testing.T) {
	tests := []struct {
		url  string
		text string
		want string
	}{
		{"https://acme.in", "", "IN"},
		{"https://acme.co.in", "", "IN"},
		{"https://acme.co.uk", "", "GB"},
		{"https://acme.com.au", "", "AU"},
		{"https://acme.com", "Visit our Mumbai office", "IN"},
		{"https://acme.com", "Call us on WhatsApp anytime", "IN"},
		{"https://acme.com", "Toll free 1800 555 1234", "IN"},
		{"https://acme.com", "plain text", "US"},
	}
	for _, tt := range tests {
		if got := InferRegion(tt.url, tt.text); got != tt.want {
			t.Errorf("InferRegion(%q, %q) = %q, want %q", tt.url, tt.text, got, tt.want)
		}
	}
}

func TestExtractEmails(t *testing.T) {
	result := models.CrawlResult{
		BaseURL: "https://acme.com",
		Pages: []models.PageContent{{
			URL:          "https://acme.com",
			AttrContacts: models.ContactHints{Emails: []string{"Sales@Acme.com"}},
		}},
		CombinedText: "Write to info@acme.com or support at acme dot com. Ignore user@example.com.",
		CombinedHTML: `<a href="mailto:hr@acme.com">HR</a>`,
	}

	got := testExtractor().Extract(result).Emails
	want := []string{"hr@acme.com", "info@acme.com", "sales@acme.com", "support@acme.com"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("emails = %v, want %v", got, want)
	}
}

func TestExtractEmailsWithoutDeobfuscation(t *testing.T) {
	result := models.CrawlResult{
		BaseURL:      "https://acme.com",
		CombinedText: "support at acme dot com",
	}
	if got := testExtractor(WithoutDeobfuscation()).Extract(result).Emails; len(got) != 0 {
		t.Errorf("emails = %v, want none", got)
	}
}

func TestExtractPhonesProvenanceGate(t *testing.T) {
	result := models.CrawlResult{
		BaseURL: "https://acme.com",
		Pages: []models.PageContent{{
			URL:          "https://acme.com",
			AttrContacts: models.ContactHints{Phones: []string{"+1 415 555 2671"}},
		}},
		// the 4-3-3 grouping matches a single sweep pattern on a line with
		// no contact context, so it stays below the gate; the bare digits
		// are corroborated by two sweep patterns and survive
		CombinedText: "Ref 2025 figure 9876 543 210 appears here.\nFax 8315552671 listed.\nCall us: (415) 555-2671 today.",
	}

	phones := testExtractor().Extract(result).Phones
	if len(phones) != 2 {
		t.Fatalf("phones = %+v, want 2", phones)
	}
	if phones[0].E164 != "+14155552671" || phones[0].Display != "(415) 555-2671" {
		t.Errorf("phones[0] = %+v", phones[0])
	}
	if phones[1].E164 != "+18315552671" {
		t.Errorf("phones[1] = %+v, want corroborated sweep number", phones[1])
	}
}

func TestExtractPhonesContextRescuesSweep(t *testing.T) {
	result := models.CrawlResult{
		BaseURL:      "https://acme.in",
		CombinedText: "For support call 9876 543 210 now",
	}
	phones := testExtractor().Extract(result).Phones
	if len(phones) != 1 {
		t.Fatalf("phones = %+v, want 1", phones)
	}
	if phones[0].E164 != "+919876543210" {
		t.Errorf("E164 = %q", phones[0].E164)
	}
	if phones[0].Display != "9876-543-210" {
		t.Errorf("Display = %q", phones[0].Display)
	}
}

func TestExtractPhonesTollFreeDedup(t *testing.T) {
	base := map[string]int{"18005551234": 3, "8005551234": 3}
	dropTollFreeDuplicates(base)
	if _, ok := base["8005551234"]; ok {
		t.Error("10-digit tail of toll-free number not dropped")
	}
	if _, ok := base["18005551234"]; !ok {
		t.Error("full toll-free number should survive")
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"+1 (415) 555-2671", "+14155552671", true},
		{"0091 98765 43210", "+919876543210", true},
		{"555-2671", "", false},
		{"1111111111", "", false},
		{"12345678901234567", "", false},
	}
	for _, tt := range tests {
		got, ok := normalizePhone(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("normalizePhone(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestExtractSocials(t *testing.T) {
	result := models.CrawlResult{
		BaseURL: "https://acme.com",
		CombinedText: `Follow us at linkedin.com/company/acme-corp.
Also on https://twitter.com/acmecorp) and www.instagram.com/acmecorp`,
		CombinedHTML: `<a href="https://twitter.com/acmecorp">tw</a>`,
	}

	socials := testExtractor().Extract(result).Socials
	byPlatform := map[string][]string{}
	for _, s := range socials {
		byPlatform[s.Platform] = append(byPlatform[s.Platform], s.URL)
	}
	if got := byPlatform["LinkedIn"]; len(got) != 1 || got[0] != "https://linkedin.com/company/acme-corp" {
		t.Errorf("LinkedIn = %v", got)
	}
	if got := byPlatform["Twitter"]; len(got) != 1 || got[0] != "https://twitter.com/acmecorp" {
		t.Errorf("Twitter = %v (trailing punctuation or dup not handled)", got)
	}
	if got := byPlatform["Instagram"]; len(got) != 1 || got[0] != "https://www.instagram.com/acmecorp" {
		t.Errorf("Instagram = %v", got)
	}
}

func TestExtractAddresses(t *testing.T) {
	result := models.CrawlResult{
		BaseURL:      "https://acme.com",
		CombinedText: "Visit us at 123 Main Street, Springfield, IL 62701 for a tour.",
		CombinedHTML: `<address>1 Infinite Loop, Cupertino CA</address>`,
		Pages: []models.PageContent{{
			URL: "https://acme.com",
			Structured: &models.StructuredMarkup{
				Addresses: []models.PostalAddress{{Text: "500 Howard St, San Francisco, CA, 94105"}},
			},
		}},
	}

	addrs := testExtractor().Extract(result).Addresses
	if len(addrs) != 3 {
		t.Fatalf("addresses = %v, want 3", addrs)
	}
	for i := 1; i < len(addrs); i++ {
		if addrs[i-1] >= addrs[i] {
			t.Fatalf("addresses not sorted: %v", addrs)
		}
	}
}

func TestExtractIdempotent(t *testing.T) {
	result := models.CrawlResult{
		BaseURL:      "https://acme.com",
		CombinedText: "info@acme.com, call 415-555-2671 for support, linkedin.com/company/acme",
	}
	e := testExtractor()
	first := e.Extract(result)
	second := e.Extract(result)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("extraction not deterministic:\n%+v\n%+v", first, second)
	}
}

func TestFallbackExtract(t *testing.T) {
	result := models.CrawlResult{
		BaseURL:      "https://acme.com",
		CombinedText: "mail info@acme.com or dial +1 415 555 2671, follow facebook.com/acme",
	}
	signals := fallbackExtract(result)
	if len(signals.Emails) != 1 || signals.Emails[0] != "info@acme.com" {
		t.Errorf("emails = %v", signals.Emails)
	}
	if len(signals.Phones) != 1 || signals.Phones[0].E164 != "+14155552671" {
		t.Errorf("phones = %+v", signals.Phones)
	}
	if len(signals.Socials) != 1 || signals.Socials[0].Platform != "Facebook" {
		t.Errorf("socials = %+v", signals.Socials)
	}
	if signals.Addresses != nil {
		t.Errorf("fallback should not extract addresses, got %v", signals.Addresses)
	}
}
