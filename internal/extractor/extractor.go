package extractor

import (
	"github.com/charmbracelet/log"

	"website-intel/internal/models"
	"website-intel/internal/validate"
)

// Extractor mines contact signals from a crawl result. A panic anywhere in
// the strategies degrades to a regex-only pass instead of losing the scan.
type Extractor struct {
	log         *log.Logger
	mx          *validate.MXChecker
	deobfuscate bool
}

type Option func(*Extractor)

// WithMXCheck enables DNS MX verification of extracted email domains.
func WithMXCheck() Option {
	return func(e *Extractor) { e.mx = validate.NewMXChecker() }
}

// WithoutDeobfuscation disables the "name at domain dot com" rewriting
// pass, which can misfire on prose-heavy sites.
func WithoutDeobfuscation() Option {
	return func(e *Extractor) { e.deobfuscate = false }
}

func New(logger *log.Logger, opts ...Option) *Extractor {
	e := &Extractor{log: logger, deobfuscate: true}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Extractor) Extract(result models.CrawlResult) (signals models.ContactSignals) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("extraction failed, degrading to regex-only pass", "panic", r)
			signals = fallbackExtract(result)
		}
	}()

	region := InferRegion(result.BaseURL, result.CombinedText)
	signals.Emails = e.extractEmails(result)
	signals.Phones = extractPhones(result, region)
	signals.Socials = extractSocials(result)
	signals.Addresses = extractAddresses(result)
	e.log.Info("extraction complete",
		"region", region,
		"emails", len(signals.Emails),
		"phones", len(signals.Phones),
		"socials", len(signals.Socials),
		"addresses", len(signals.Addresses))
	return signals
}
