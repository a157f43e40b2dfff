package scan

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"website-intel/internal/models"
	"website-intel/internal/summarizer"
	"website-intel/internal/urlutil"
)

var ErrInvalidURL = errors.New("scan: invalid url")

type Crawler interface {
	Crawl(ctx context.Context, baseURL string) models.CrawlResult
}

type Extractor interface {
	Extract(result models.CrawlResult) models.ContactSignals
}

// Service runs the full pipeline for one site: crawl, extract, summarize,
// merge. The summarizer may be nil, in which case the record is built from
// extracted signals alone.
type Service struct {
	crawler    Crawler
	extractor  Extractor
	summarizer summarizer.Summarizer
	log        *log.Logger
}

func NewService(c Crawler, e Extractor, s summarizer.Summarizer, logger *log.Logger) *Service {
	return &Service{crawler: c, extractor: e, summarizer: s, log: logger}
}

func (s *Service) Scan(ctx context.Context, rawURL string) (*models.StructuredRecord, error) {
	target := urlutil.Normalize(rawURL)
	if !urlutil.IsValid(target) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	result := s.crawler.Crawl(ctx, target)
	if result.Failed() {
		return nil, fmt.Errorf("crawl %s: %s", target, result.Error)
	}
	signals := s.extractor.Extract(result)

	var proposal *models.StructuredRecord
	if s.summarizer != nil {
		p, err := s.summarizer.Propose(ctx, target, result.CombinedText, signals)
		if err != nil {
			return nil, fmt.Errorf("summarize %s: %w", target, err)
		}
		proposal = p
	}

	sources := make([]string, 0, len(result.Pages))
	for _, page := range result.Pages {
		sources = append(sources, page.URL)
	}
	rec := summarizer.Merge(proposal, signals, target, sources)
	fillFromPages(rec, result)
	return rec, nil
}

// fillFromPages backfills narrative fields the summarizer did not supply
// from on-page metadata, and surfaces detected contact forms in the notes.
func fillFromPages(rec *models.StructuredRecord, result models.CrawlResult) {
	for _, page := range result.Pages {
		if rec.CompanyName == "" && page.Structured != nil && page.Structured.Name != "" {
			rec.CompanyName = page.Structured.Name
		}
		if rec.Summary == "" && page.MetaDescription != "" {
			rec.Summary = page.MetaDescription
		}
	}
	if rec.CompanyName == "" && len(result.Pages) > 0 {
		rec.CompanyName = result.Pages[0].Title
	}
	if rec.Notes == "" && len(result.ContactForms) > 0 {
		rec.Notes = fmt.Sprintf("Contact form available at %s", result.ContactForms[0].PageURL)
	}
}
