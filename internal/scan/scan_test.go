package scan

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"website-intel/internal/models"
	"website-intel/internal/summarizer"
)

type stubCrawler struct {
	result models.CrawlResult
	calls  int
}

func (s *stubCrawler) Crawl(ctx context.Context, baseURL string) models.CrawlResult {
	s.calls++
	s.result.BaseURL = baseURL
	return s.result
}

type stubExtractor struct {
	signals models.ContactSignals
}

func (s *stubExtractor) Extract(models.CrawlResult) models.ContactSignals { return s.signals }

type stubSummarizer struct {
	proposal *models.StructuredRecord
	err      error
}

func (s *stubSummarizer) Propose(ctx context.Context, url, text string, signals models.ContactSignals) (*models.StructuredRecord, error) {
	return s.proposal, s.err
}

func okCrawl() models.CrawlResult {
	return models.CrawlResult{
		Pages: []models.PageContent{
			{URL: "https://acme.com", Title: "Acme Corp", MetaDescription: "Widgets for everyone"},
			{URL: "https://acme.com/contact", Title: "Contact"},
		},
		PagesScraped: 2,
		CombinedText: "Acme makes widgets. info@acme.com",
		ContactForms: []models.ContactForm{{PageURL: "https://acme.com/contact"}},
	}
}

func TestScanInvalidURLSkipsCrawl(t *testing.T) {
	c := &stubCrawler{}
	svc := NewService(c, &stubExtractor{}, nil, log.New(io.Discard))
	if _, err := svc.Scan(context.Background(), "not a url"); !errors.Is(err, ErrInvalidURL) {
		t.Fatalf("expected ErrInvalidURL, got %v", err)
	}
	if c.calls != 0 {
		t.Error("crawler should not run for invalid input")
	}
}

func TestScanCrawlFailure(t *testing.T) {
	c := &stubCrawler{result: models.CrawlResult{Error: "fetch https://acme.com: boom"}}
	svc := NewService(c, &stubExtractor{}, nil, log.New(io.Discard))
	if _, err := svc.Scan(context.Background(), "acme.com"); err == nil {
		t.Fatal("expected error for failed crawl")
	}
}

func TestScanWithoutSummarizer(t *testing.T) {
	c := &stubCrawler{result: okCrawl()}
	e := &stubExtractor{signals: models.ContactSignals{Emails: []string{"info@acme.com"}}}
	svc := NewService(c, e, nil, log.New(io.Discard))

	rec, err := svc.Scan(context.Background(), "acme.com")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if rec.Website != "https://acme.com" {
		t.Errorf("website = %q", rec.Website)
	}
	if rec.CompanyName != "Acme Corp" {
		t.Errorf("company name = %q, want page title fallback", rec.CompanyName)
	}
	if rec.Summary != "Widgets for everyone" {
		t.Errorf("summary = %q, want meta description fallback", rec.Summary)
	}
	if len(rec.Emails) != 1 || rec.Emails[0] != "info@acme.com" {
		t.Errorf("emails = %v", rec.Emails)
	}
	if rec.Notes == "" {
		t.Error("expected contact form note")
	}
	if len(rec.Sources) != 2 {
		t.Errorf("sources = %v", rec.Sources)
	}
}

func TestScanMergesProposal(t *testing.T) {
	c := &stubCrawler{result: okCrawl()}
	e := &stubExtractor{signals: models.ContactSignals{Emails: []string{"info@acme.com"}}}
	s := &stubSummarizer{proposal: &models.StructuredRecord{
		CompanyName: "Acme Corporation",
		Summary:     "Acme builds widgets for industrial clients.",
		Emails:      []string{"sales@acme.com"},
	}}
	svc := NewService(c, e, s, log.New(io.Discard))

	rec, err := svc.Scan(context.Background(), "https://acme.com")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if rec.CompanyName != "Acme Corporation" {
		t.Errorf("company name = %q", rec.CompanyName)
	}
	if len(rec.Emails) != 2 {
		t.Errorf("emails = %v, want union", rec.Emails)
	}
}

func TestScanSummarizerFailureIsFatal(t *testing.T) {
	c := &stubCrawler{result: okCrawl()}
	s := &stubSummarizer{err: summarizer.ErrExhausted}
	svc := NewService(c, &stubExtractor{}, s, log.New(io.Discard))
	if _, err := svc.Scan(context.Background(), "https://acme.com"); !errors.Is(err, summarizer.ErrExhausted) {
		t.Fatalf("expected summarizer error, got %v", err)
	}
}
