package fetcher

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"website-intel/internal/models"
	"website-intel/internal/urlutil"
)

var (
	quickEmailRe = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	quickPhoneRe = regexp.MustCompile(`\+?\d{1,3}[-.\s]?\(?\d{2,4}\)?[-.\s]?\d{3,4}[-.\s]?\d{3,4}`)
)

// landmarkKeywords match class/id fragments of sections that tend to hold
// contact details. Matched sections are re-appended to the page text so
// downstream extraction sees them even when buried in boilerplate.
var landmarkKeywords = []string{
	"contact", "footer", "header", "info", "phone", "email", "address",
	"location", "office", "headquarters", "reach", "connect", "social",
	"follow", "touch", "call", "visit",
}

const landmarksPerKeyword = 3

var strippedTags = "script,style,noscript,iframe,svg,canvas"

var blockTags = map[string]struct{}{
	"p": {}, "div": {}, "li": {}, "ul": {}, "ol": {}, "br": {}, "tr": {},
	"td": {}, "th": {}, "h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {},
	"h6": {}, "section": {}, "article": {}, "header": {}, "footer": {},
	"address": {}, "aside": {}, "nav": {}, "blockquote": {}, "table": {},
}

// parsePage turns raw HTML into a PageContent: title, meta description,
// structured markup, line-oriented text with contact landmarks appended,
// same-protocol links, and the contact hints mined from attributes and
// visible text.
func parsePage(rawHTML, pageURL string) (models.PageContent, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return models.PageContent{}, err
	}

	page := models.PageContent{URL: pageURL, HTML: rawHTML}
	page.Title = strings.TrimSpace(doc.Find("title").First().Text())
	page.MetaDescription = strings.TrimSpace(doc.Find(`meta[name="description"]`).AttrOr("content", ""))
	if page.MetaDescription == "" {
		page.MetaDescription = strings.TrimSpace(doc.Find(`meta[property="og:description"]`).AttrOr("content", ""))
	}

	// JSON-LD must be read before scripts are stripped.
	page.Structured = parseStructuredMarkup(doc)
	page.AttrContacts = attributeContacts(doc)
	page.Links = pageLinks(doc, pageURL)

	doc.Find(strippedTags).Each(func(_ int, s *goquery.Selection) {
		s.Remove()
	})

	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}
	text := selectionText(body)
	for _, section := range landmarkSections(doc) {
		text += "\n" + section
	}
	page.Text = text

	page.TextContacts = models.ContactHints{
		Emails: quickEmailRe.FindAllString(page.Text, -1),
		Phones: quickPhoneRe.FindAllString(page.Text, -1),
	}
	return page, nil
}

// selectionText renders a selection's text with newlines at block
// boundaries, keeping one trimmed line per block.
func selectionText(sel *goquery.Selection) string {
	var b strings.Builder
	for _, n := range sel.Nodes {
		nodeText(n, &b)
	}
	lines := strings.Split(b.String(), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

func nodeText(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		nodeText(c, b)
	}
	if n.Type == html.ElementNode {
		if _, block := blockTags[n.Data]; block {
			b.WriteString("\n")
		}
	}
}

// landmarkSections collects the text of contact-relevant sections: elements
// whose class or id mentions a landmark keyword, plus the structural tags
// that conventionally hold contact blocks.
func landmarkSections(doc *goquery.Document) []string {
	seen := map[string]struct{}{}
	var sections []string
	add := func(s *goquery.Selection) {
		text := selectionText(s)
		if text == "" {
			return
		}
		if _, dup := seen[text]; dup {
			return
		}
		seen[text] = struct{}{}
		sections = append(sections, text)
	}

	for _, kw := range landmarkKeywords {
		count := 0
		doc.Find("[class],[id]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			attr := strings.ToLower(s.AttrOr("class", "") + " " + s.AttrOr("id", ""))
			if !strings.Contains(attr, kw) {
				return true
			}
			add(s)
			count++
			return count < landmarksPerKeyword
		})
	}
	doc.Find("footer,header,address,aside").Each(func(_ int, s *goquery.Selection) {
		add(s)
	})
	return sections
}

// attributeContacts mines mailto:/tel: links and data-* contact attributes.
func attributeContacts(doc *goquery.Document) models.ContactHints {
	var hints models.ContactHints
	doc.Find(`a[href^="mailto:"]`).Each(func(_ int, s *goquery.Selection) {
		addr := strings.TrimPrefix(s.AttrOr("href", ""), "mailto:")
		if i := strings.Index(addr, "?"); i >= 0 {
			addr = addr[:i]
		}
		if addr = strings.TrimSpace(addr); addr != "" {
			hints.Emails = append(hints.Emails, addr)
		}
	})
	doc.Find(`a[href^="tel:"]`).Each(func(_ int, s *goquery.Selection) {
		num := strings.TrimSpace(strings.TrimPrefix(s.AttrOr("href", ""), "tel:"))
		if num != "" {
			hints.Phones = append(hints.Phones, num)
		}
	})
	doc.Find("[data-email]").Each(func(_ int, s *goquery.Selection) {
		if v := strings.TrimSpace(s.AttrOr("data-email", "")); v != "" {
			hints.Emails = append(hints.Emails, v)
		}
	})
	doc.Find("[data-phone],[data-tel]").Each(func(_ int, s *goquery.Selection) {
		for _, attr := range []string{"data-phone", "data-tel"} {
			if v := strings.TrimSpace(s.AttrOr(attr, "")); v != "" {
				hints.Phones = append(hints.Phones, v)
			}
		}
	})
	return hints
}

// pageLinks resolves and normalizes every crawlable link on the same
// registrable domain as the page.
func pageLinks(doc *goquery.Document, pageURL string) []string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}
	seen := map[string]struct{}{}
	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "#") ||
			strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:") ||
			strings.HasPrefix(href, "javascript:") {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref)
		if abs.Scheme != "http" && abs.Scheme != "https" {
			return
		}
		link := urlutil.StripForDiscovery(abs.String())
		if link == "" || !urlutil.IsCrawlablePath(link) {
			return
		}
		if !urlutil.SameDomain(pageURL, link) {
			return
		}
		if _, dup := seen[link]; dup {
			return
		}
		seen[link] = struct{}{}
		links = append(links, link)
	})
	return links
}

func parseStructuredMarkup(doc *goquery.Document) *models.StructuredMarkup {
	var sm models.StructuredMarkup
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var raw interface{}
		if err := json.Unmarshal([]byte(s.Text()), &raw); err != nil {
			return
		}
		walkJSONLD(raw, &sm)
	})
	if sm.Name == "" && len(sm.Emails) == 0 && len(sm.Telephones) == 0 && len(sm.Addresses) == 0 {
		return nil
	}
	return &sm
}

func walkJSONLD(v interface{}, sm *models.StructuredMarkup) {
	switch t := v.(type) {
	case []interface{}:
		for _, item := range t {
			walkJSONLD(item, sm)
		}
	case map[string]interface{}:
		if g, ok := t["@graph"]; ok {
			walkJSONLD(g, sm)
		}
		if !isOrganizationType(t["@type"]) {
			return
		}
		if sm.Name == "" {
			sm.Name, _ = t["name"].(string)
		}
		appendJSONStrings(&sm.Emails, t["email"])
		appendJSONStrings(&sm.Telephones, t["telephone"])
		collectContactPoints(t["contactPoint"], sm)
		collectPostalAddresses(t["address"], sm)
	}
}

func isOrganizationType(v interface{}) bool {
	switch t := v.(type) {
	case string:
		return strings.Contains(t, "Organization") || t == "LocalBusiness" || t == "Corporation"
	case []interface{}:
		for _, item := range t {
			if isOrganizationType(item) {
				return true
			}
		}
	}
	return false
}

func appendJSONStrings(dst *[]string, v interface{}) {
	switch t := v.(type) {
	case string:
		if s := strings.TrimSpace(t); s != "" {
			*dst = append(*dst, s)
		}
	case []interface{}:
		for _, item := range t {
			appendJSONStrings(dst, item)
		}
	}
}

func collectContactPoints(v interface{}, sm *models.StructuredMarkup) {
	switch t := v.(type) {
	case []interface{}:
		for _, item := range t {
			collectContactPoints(item, sm)
		}
	case map[string]interface{}:
		appendJSONStrings(&sm.Emails, t["email"])
		appendJSONStrings(&sm.Telephones, t["telephone"])
	}
}

func collectPostalAddresses(v interface{}, sm *models.StructuredMarkup) {
	switch t := v.(type) {
	case []interface{}:
		for _, item := range t {
			collectPostalAddresses(item, sm)
		}
	case string:
		if s := strings.TrimSpace(t); s != "" {
			sm.Addresses = append(sm.Addresses, models.PostalAddress{Text: s})
		}
	case map[string]interface{}:
		addr := models.PostalAddress{}
		addr.Street, _ = t["streetAddress"].(string)
		addr.Locality, _ = t["addressLocality"].(string)
		addr.Region, _ = t["addressRegion"].(string)
		addr.PostalCode, _ = t["postalCode"].(string)
		var parts []string
		for _, p := range []string{addr.Street, addr.Locality, addr.Region} {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		// Zip hangs off the state with a space, not a comma.
		text := strings.Join(parts, ", ")
		if zip := strings.TrimSpace(addr.PostalCode); zip != "" {
			if text == "" {
				text = zip
			} else {
				text += " " + zip
			}
		}
		if text == "" {
			return
		}
		addr.Text = text
		sm.Addresses = append(sm.Addresses, addr)
	}
}
