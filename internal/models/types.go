package models

// ContactHints holds raw, pre-validation contact candidates pulled from a
// single page, either from machine-readable attributes (mailto:/tel: links,
// data-* markers) or from quick regex passes over visible text.
type ContactHints struct {
	Emails []string `json:"emails,omitempty"`
	Phones []string `json:"phones,omitempty"`
}

// PostalAddress is the address shape carried by structured page markup.
type PostalAddress struct {
	Street     string `json:"street,omitempty"`
	Locality   string `json:"locality,omitempty"`
	Region     string `json:"region,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Text       string `json:"text,omitempty"` // used when the markup carries a plain string
}

// StructuredMarkup is the organization/contact metadata embedded in a page
// (JSON-LD Organization or contactPoint objects). At most one is kept per
// page; absent markup is represented by a nil pointer.
type StructuredMarkup struct {
	Name       string          `json:"name,omitempty"`
	Emails     []string        `json:"emails,omitempty"`
	Telephones []string        `json:"telephones,omitempty"`
	Addresses  []PostalAddress `json:"addresses,omitempty"`
}

// PageContent is one fetched page, immutable once returned by the fetcher.
// Text is the visible text view (scripts/styles stripped, contact landmark
// sections re-appended); HTML is the pre-strip snapshot kept for attribute
// mining and form detection.
type PageContent struct {
	URL             string            `json:"url"`
	Title           string            `json:"title"`
	MetaDescription string            `json:"meta_description,omitempty"`
	Text            string            `json:"text"`
	HTML            string            `json:"-"`
	Links           []string          `json:"links,omitempty"`
	Structured      *StructuredMarkup `json:"structured,omitempty"`
	AttrContacts    ContactHints      `json:"attr_contacts"`
	TextContacts    ContactHints      `json:"text_contacts"`
}

// FormField describes one input of a detected contact form.
type FormField struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Placeholder string `json:"placeholder,omitempty"`
	Required    bool   `json:"required"`
}

// ContactForm is a form whose text or markup carries contact-intent keywords.
type ContactForm struct {
	PageURL string      `json:"page_url"`
	Action  string      `json:"action"`
	Method  string      `json:"method"`
	Fields  []FormField `json:"fields"`
}

// CrawlResult aggregates one site crawl. If Error is non-empty the seed page
// could not be fetched: Pages is empty, PagesScraped is zero, and downstream
// extraction treats the crawl as failed-but-non-fatal.
type CrawlResult struct {
	BaseURL      string        `json:"base_url"`
	Pages        []PageContent `json:"pages"`
	CombinedText string        `json:"combined_text"`
	CombinedHTML string        `json:"-"`
	PagesScraped int           `json:"pages_scraped"`
	ContactForms []ContactForm `json:"contact_forms,omitempty"`
	Error        string        `json:"error,omitempty"`
}

// Failed reports whether the crawl hit its one fatal condition.
func (cr *CrawlResult) Failed() bool { return cr.Error != "" }

// Phone is a validated phone number: E164 is the canonical international
// form, Display the locale-appropriate rendering for output.
type Phone struct {
	E164    string `json:"e164"`
	Display string `json:"display"`
}

// SocialLink is one social-media profile keyed by canonical URL.
type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// ContactSignals is the extractor's output: validated, deduplicated,
// deterministically ordered contact data mined from a crawl.
type ContactSignals struct {
	Emails    []string     `json:"emails"`
	Phones    []Phone      `json:"phone_numbers"`
	Socials   []SocialLink `json:"socials"`
	Addresses []string     `json:"addresses"`
}

// PhoneDisplays returns the display forms in Phones order.
func (s ContactSignals) PhoneDisplays() []string {
	out := make([]string, 0, len(s.Phones))
	for _, p := range s.Phones {
		out = append(out, p.Display)
	}
	return out
}

// StructuredRecord is the final scan output: the summarizer's proposal
// merged with the directly-extracted signals. Emails, phone numbers and
// addresses are the union of both sources; extracted values are never
// dropped.
type StructuredRecord struct {
	CompanyName  string       `json:"company_name"`
	Website      string       `json:"website"`
	Summary      string       `json:"summary"`
	Emails       []string     `json:"emails"`
	PhoneNumbers []string     `json:"phone_numbers"`
	Socials      []SocialLink `json:"socials"`
	Addresses    []string     `json:"addresses"`
	Notes        string       `json:"notes,omitempty"`
	Sources      []string     `json:"sources"`
}
