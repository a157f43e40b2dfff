package summarizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"website-intel/internal/models"
)

// Summarizer asks a language model for a structured proposal describing the
// scanned company. The proposal is advisory: extracted signals are merged
// back in afterwards so the model can never drop a verified contact.
type Summarizer interface {
	Propose(ctx context.Context, url, text string, signals models.ContactSignals) (*models.StructuredRecord, error)
}

var (
	ErrNoAPIKey        = errors.New("summarizer: missing API key")
	ErrUnknownProvider = errors.New("summarizer: unknown provider")
	ErrExhausted       = errors.New("summarizer: all candidate models failed")
	ErrBadProposal     = errors.New("summarizer: malformed model response")
)

const (
	maxPromptText = 15000
	maxSummaryLen = 500

	requestTimeout = 60 * time.Second
)

// New selects a provider implementation. An empty provider disables
// summarization and returns nil without error.
func New(provider, apiKey, model string, logger *log.Logger) (Summarizer, error) {
	switch strings.ToLower(provider) {
	case "", "none":
		return nil, nil
	case "gemini":
		return NewGemini(apiKey, model, logger)
	case "openai":
		return NewOpenAI(apiKey, model, logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
}

func buildPrompt(url, text string, signals models.ContactSignals) string {
	if len(text) > maxPromptText {
		text = text[:maxPromptText]
	}
	extracted, _ := json.MarshalIndent(map[string]interface{}{
		"emails":    signals.Emails,
		"phones":    signals.PhoneDisplays(),
		"socials":   signals.Socials,
		"addresses": signals.Addresses,
	}, "", "  ")

	var b strings.Builder
	b.WriteString("You are an analyst producing a structured company profile from scraped website content.\n")
	b.WriteString("Respond with a single JSON object and nothing else, using exactly these keys:\n")
	b.WriteString(`{"company_name": string, "summary": string, "emails": [string], "phone_numbers": [string], "socials": [{"platform": string, "url": string}], "addresses": [string], "notes": string}` + "\n\n")
	b.WriteString("Rules: the summary is 2-4 sentences about what the company does. Only include contact details visible in the content or the extracted signals. Use notes for caveats such as contact forms or regional offices.\n\n")
	fmt.Fprintf(&b, "Website: %s\n\n", url)
	fmt.Fprintf(&b, "Extracted signals:\n%s\n\n", extracted)
	fmt.Fprintf(&b, "Scraped content:\n%s\n", text)
	return b.String()
}

// parseProposal strips markdown fences, unmarshals the proposal, and
// enforces the minimal schema: a company name and a bounded summary.
func parseProposal(raw string) (*models.StructuredRecord, error) {
	cleaned := stripFences(raw)
	var rec models.StructuredRecord
	if err := json.Unmarshal([]byte(cleaned), &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadProposal, err)
	}
	rec.CompanyName = strings.TrimSpace(rec.CompanyName)
	rec.Summary = strings.TrimSpace(rec.Summary)
	if rec.CompanyName == "" {
		return nil, fmt.Errorf("%w: empty company_name", ErrBadProposal)
	}
	if len(rec.Summary) > maxSummaryLen {
		rec.Summary = rec.Summary[:maxSummaryLen]
	}
	return &rec, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: requestTimeout}
}
