package crawler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"website-intel/internal/fetcher"
	"website-intel/internal/models"
	"website-intel/internal/urlutil"
)

// Pages whose URL mentions one of these are almost certainly contact pages
// and get both a high rank and a priority render.
var highPriorityKeywords = []string{"contact", "reach", "get-in-touch", "talk", "connect"}

var mediumPriorityKeywords = []string{
	"about", "team", "people", "company", "who-we-are", "leadership",
	"careers", "jobs", "location", "office", "info", "information",
	"help", "support", "faq",
}

// fallbackPaths are probed when the seed page yields no contact-relevant
// links, which happens on sparse or heavily scripted homepages.
var fallbackPaths = []string{"/contact", "/contact-us", "/about", "/about-us", "/locations", "/support"}

const rescueThreshold = 3

type Config struct {
	MaxPages int
	Delay    time.Duration
	Dynamic  bool
	// NewRenderer builds the browser used for dynamic rendering. It is
	// invoked at most once per crawl, and only when a render is needed.
	NewRenderer func() fetcher.Renderer
}

type Crawler struct {
	fetch *fetcher.Fetcher
	cfg   Config
	log   *log.Logger
}

func New(f *fetcher.Fetcher, cfg Config, logger *log.Logger) *Crawler {
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 5
	}
	return &Crawler{fetch: f, cfg: cfg, log: logger}
}

// Crawl fetches the seed page, ranks its same-domain links by contact
// relevance, and visits the best ones up to the page budget. A failed seed
// fetch is fatal; failed follow-up fetches are skipped. When the crawl
// comes back thin and dynamic rendering is enabled, the seed and the two
// best links are retried through the browser.
func (c *Crawler) Crawl(ctx context.Context, baseURL string) models.CrawlResult {
	result := models.CrawlResult{BaseURL: baseURL}

	var renderer fetcher.Renderer
	defer func() {
		if renderer != nil {
			renderer.Close()
		}
	}()
	var renderFn func() fetcher.Renderer
	if c.cfg.Dynamic && c.cfg.NewRenderer != nil {
		renderFn = func() fetcher.Renderer {
			if renderer == nil {
				renderer = c.cfg.NewRenderer()
			}
			return renderer
		}
	}

	// The homepage is always rendered when a browser is available so
	// script-injected contact blocks are not missed.
	seed, err := c.fetch.Fetch(ctx, baseURL, fetcher.Options{Priority: true, Renderer: renderFn})
	if err != nil {
		c.log.Error("seed fetch failed", "url", baseURL, "err", err)
		result.Error = fmt.Sprintf("fetch %s: %v", baseURL, err)
		return result
	}
	result.Pages = append(result.Pages, seed)

	ranked := rankLinks(seed.Links, baseURL, seed.URL)
	if len(ranked) == 0 {
		ranked = fallbackLinks(baseURL)
		c.log.Debug("no relevant links discovered, probing fallback paths", "count", len(ranked))
	}

	limiter := rate.NewLimiter(rate.Every(c.cfg.Delay), 1)
	visited := map[string]struct{}{
		urlutil.StripForDiscovery(seed.URL): {},
		urlutil.StripForDiscovery(baseURL):  {},
	}
	frontier := append([]string(nil), ranked...)
	for len(result.Pages) < c.cfg.MaxPages && len(frontier) > 0 {
		link := frontier[0]
		frontier = frontier[1:]
		if _, dup := visited[link]; dup {
			continue
		}
		visited[link] = struct{}{}

		if err := limiter.Wait(ctx); err != nil {
			result.Error = fmt.Sprintf("crawl interrupted: %v", err)
			return result
		}
		page, err := c.fetch.Fetch(ctx, link, fetcher.Options{
			Priority: isPriorityURL(link),
			Renderer: renderFn,
		})
		if err != nil {
			c.log.Warn("page fetch failed", "url", link, "err", err)
			continue
		}
		result.Pages = append(result.Pages, page)
		// links discovered on later pages join the frontier, re-ranked
		frontier = mergeRanked(frontier, rankLinks(page.Links, baseURL, seed.URL), visited)
	}

	if len(result.Pages) < rescueThreshold && renderFn != nil {
		c.rescue(ctx, &result, ranked, renderFn)
	}

	for _, page := range result.Pages {
		result.ContactForms = append(result.ContactForms, fetcher.DetectContactForms(page.HTML, page.URL)...)
	}
	result.CombinedText, result.CombinedHTML = combinePages(result.Pages)
	result.PagesScraped = len(result.Pages)
	c.log.Info("crawl complete", "base", baseURL, "pages", result.PagesScraped, "forms", len(result.ContactForms))
	return result
}

// rescue re-fetches the seed and the two best links through the browser,
// replacing any thinner static version already collected.
func (c *Crawler) rescue(ctx context.Context, result *models.CrawlResult, ranked []string, renderFn func() fetcher.Renderer) {
	targets := []string{result.BaseURL}
	for i := 0; i < len(ranked) && i < 2; i++ {
		targets = append(targets, ranked[i])
	}

	index := map[string]int{}
	for i, page := range result.Pages {
		index[urlutil.StripForDiscovery(page.URL)] = i
	}
	for _, target := range targets {
		dyn, err := c.fetch.FetchDynamic(ctx, target, renderFn())
		if err != nil {
			c.log.Warn("rescue render failed", "url", target, "err", err)
			continue
		}
		key := urlutil.StripForDiscovery(dyn.URL)
		if i, ok := index[key]; ok {
			if len(dyn.Text) > len(result.Pages[i].Text) {
				result.Pages[i] = dyn
			}
			continue
		}
		index[key] = len(result.Pages)
		result.Pages = append(result.Pages, dyn)
	}
}

// rankLinks keeps same-domain links with a positive relevance score,
// ordered best first. Ties break on the URL itself so crawls are
// deterministic.
func rankLinks(links []string, baseURL, seedURL string) []string {
	type scored struct {
		url   string
		score float64
	}
	seedKey := urlutil.StripForDiscovery(seedURL)
	baseKey := urlutil.StripForDiscovery(baseURL)

	var candidates []scored
	seen := map[string]struct{}{}
	for _, link := range links {
		key := urlutil.StripForDiscovery(link)
		if key == seedKey || key == baseKey {
			continue
		}
		if !urlutil.SameDomain(baseURL, link) {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if s := scoreLink(key); s > 0 {
			candidates = append(candidates, scored{url: key, score: s})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score == candidates[j].score {
			return candidates[i].url < candidates[j].url
		}
		return candidates[i].score > candidates[j].score
	})
	out := make([]string, len(candidates))
	for i, s := range candidates {
		out[i] = s.url
	}
	return out
}

// mergeRanked folds newly discovered links into the frontier, dropping
// already-visited URLs and restoring score order.
func mergeRanked(frontier, discovered []string, visited map[string]struct{}) []string {
	seen := map[string]struct{}{}
	var merged []string
	for _, link := range append(frontier, discovered...) {
		if _, done := visited[link]; done {
			continue
		}
		if _, dup := seen[link]; dup {
			continue
		}
		seen[link] = struct{}{}
		merged = append(merged, link)
	}
	sort.Slice(merged, func(i, j int) bool {
		si, sj := scoreLink(merged[i]), scoreLink(merged[j])
		if si == sj {
			return merged[i] < merged[j]
		}
		return si > sj
	})
	return merged
}

func scoreLink(link string) float64 {
	lower := strings.ToLower(link)
	var score float64
	for _, kw := range highPriorityKeywords {
		if strings.Contains(lower, kw) {
			score += 100
		}
	}
	for _, kw := range mediumPriorityKeywords {
		if strings.Contains(lower, kw) {
			score += 10
		}
	}
	score -= 0.01 * float64(len(link))
	return score
}

func isPriorityURL(link string) bool {
	lower := strings.ToLower(link)
	for _, kw := range highPriorityKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func fallbackLinks(baseURL string) []string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}
	root := base.Scheme + "://" + base.Host
	out := make([]string, 0, len(fallbackPaths))
	for _, p := range fallbackPaths {
		out = append(out, root+p)
	}
	return out
}

// combinePages flattens the crawl into one annotated text blob and one HTML
// blob for downstream extraction. Structured markup rides along as a JSON
// appendix per page.
func combinePages(pages []models.PageContent) (string, string) {
	var text, rawHTML []string
	for _, page := range pages {
		section := fmt.Sprintf("\n\n=== %s (%s) ===\n%s", page.Title, page.URL, page.Text)
		if page.Structured != nil {
			if data, err := json.Marshal(page.Structured); err == nil {
				section += "\nStructured Data: " + string(data)
			}
		}
		text = append(text, section)
		if page.HTML != "" {
			rawHTML = append(rawHTML, page.HTML)
		}
	}
	return strings.Join(text, ""), strings.Join(rawHTML, "\n\n")
}
