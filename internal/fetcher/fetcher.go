package fetcher

import (
	"context"

	"github.com/charmbracelet/log"

	"website-intel/internal/models"
)

// minStaticText is the rendered-page trigger: static pages with less text
// than this are assumed to be JavaScript shells.
const minStaticText = 200

// Options controls a single page fetch.
type Options struct {
	// Priority marks contact-like pages that should be rendered even when
	// the static fetch looks complete.
	Priority bool
	// Renderer lazily supplies a browser. Nil disables dynamic rendering.
	Renderer func() Renderer
}

type Fetcher struct {
	client *HTTPClient
	log    *log.Logger
}

func New(client *HTTPClient, logger *log.Logger) *Fetcher {
	return &Fetcher{client: client, log: logger}
}

// Fetch downloads and parses a page. When the static result is thin, or the
// page is marked as a priority contact page, it is re-fetched through the
// renderer and the richer version wins.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, opts Options) (models.PageContent, error) {
	body, finalURL, err := f.client.Get(ctx, rawURL)
	if err != nil {
		return models.PageContent{}, err
	}
	page, err := parsePage(body, finalURL)
	if err != nil {
		return models.PageContent{}, err
	}

	if opts.Renderer != nil && (opts.Priority || len(page.Text) < minStaticText) {
		dyn, derr := f.FetchDynamic(ctx, finalURL, opts.Renderer())
		switch {
		case derr != nil:
			f.log.Warn("dynamic render failed", "url", finalURL, "err", derr)
		case len(dyn.Text) > len(page.Text):
			f.log.Debug("dynamic content superseded static",
				"url", finalURL, "static", len(page.Text), "dynamic", len(dyn.Text))
			if dyn.Title == "" {
				dyn.Title = page.Title
			}
			if dyn.MetaDescription == "" {
				dyn.MetaDescription = page.MetaDescription
			}
			page = dyn
		}
	}
	return page, nil
}

// FetchDynamic loads the page through the renderer and parses the rendered
// HTML. Used directly by the crawl rescue pass.
func (f *Fetcher) FetchDynamic(ctx context.Context, rawURL string, r Renderer) (models.PageContent, error) {
	rendered, err := r.Render(ctx, rawURL)
	if err != nil {
		return models.PageContent{}, err
	}
	return parsePage(rendered, rawURL)
}
