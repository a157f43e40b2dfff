package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"website-intel/internal/fetcher"
)

func testCrawler(cfg Config) *Crawler {
	client := fetcher.NewHTTPClient(5*time.Second, 2*time.Second, 1<<20)
	f := fetcher.New(client, log.New(io.Discard))
	return New(f, cfg, log.New(io.Discard))
}

func htmlPage(title, body string) string {
	return fmt.Sprintf("<html><head><title>%s</title></head><body>%s</body></html>", title, body)
}

func TestCrawlVisitsRankedLinks(t *testing.T) {
	var mux http.ServeMux
	srv := httptest.NewServer(&mux)
	defer srv.Close()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, htmlPage("Home", `
			<a href="/contact">Contact</a>
			<a href="/about">About</a>
			<a href="/blog/some-post-with-a-long-url">Post</a>
			<p>Welcome to a reasonably wordy homepage with enough content to avoid any dynamic rendering fallback behavior.</p>`))
	})
	mux.HandleFunc("/contact", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, htmlPage("Contact", "<p>Email info@acme.com with enough filler text that the page does not look like an empty JavaScript shell at all.</p>"))
	})
	mux.HandleFunc("/about", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, htmlPage("About", "<p>We are Acme and this paragraph also pads the page comfortably past the dynamic rendering threshold for static text.</p>"))
	})

	result := testCrawler(Config{MaxPages: 3}).Crawl(context.Background(), srv.URL)
	if result.Failed() {
		t.Fatalf("crawl failed: %s", result.Error)
	}
	if result.PagesScraped != 3 {
		t.Fatalf("scraped %d pages, want 3", result.PagesScraped)
	}
	// contact outranks about, which outranks the unscored blog post
	if result.Pages[1].Title != "Contact" || result.Pages[2].Title != "About" {
		t.Errorf("visit order = %q, %q", result.Pages[1].Title, result.Pages[2].Title)
	}
	if !strings.Contains(result.CombinedText, "=== Contact (") {
		t.Error("combined text missing page header")
	}
	if !strings.Contains(result.CombinedText, "info@acme.com") {
		t.Error("combined text missing contact page body")
	}
}

func TestCrawlSeedFailureIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	result := testCrawler(Config{MaxPages: 3}).Crawl(context.Background(), srv.URL)
	if !result.Failed() {
		t.Fatal("expected failed result")
	}
	if result.PagesScraped != 0 {
		t.Errorf("scraped %d pages on fatal seed", result.PagesScraped)
	}
}

func TestCrawlSkipsBrokenLinks(t *testing.T) {
	var mux http.ServeMux
	srv := httptest.NewServer(&mux)
	defer srv.Close()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, htmlPage("Home", `
			<a href="/contact">Contact</a>
			<a href="/about">About</a>
			<p>Homepage with plenty of words so that the static fetch is considered substantial enough on its own.</p>`))
	})
	mux.HandleFunc("/about", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, htmlPage("About", "<p>Still here, with sufficient prose to stay above the threshold that would trigger a browser render.</p>"))
	})

	result := testCrawler(Config{MaxPages: 3}).Crawl(context.Background(), srv.URL)
	if result.Failed() {
		t.Fatalf("crawl failed: %s", result.Error)
	}
	if result.PagesScraped != 2 {
		t.Fatalf("scraped %d pages, want 2 (broken /contact skipped)", result.PagesScraped)
	}
}

func TestCrawlFallbackPaths(t *testing.T) {
	var mux http.ServeMux
	srv := httptest.NewServer(&mux)
	defer srv.Close()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, htmlPage("Home", "<p>No links here at all, just a block of text long enough to keep the static fetch from looking empty.</p>"))
	})
	mux.HandleFunc("/contact", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, htmlPage("Contact", "<p>Reach us at hello@acme.com. More filler prose follows to keep this page over the render threshold too.</p>"))
	})

	result := testCrawler(Config{MaxPages: 2}).Crawl(context.Background(), srv.URL)
	if result.Failed() {
		t.Fatalf("crawl failed: %s", result.Error)
	}
	if result.PagesScraped != 2 {
		t.Fatalf("scraped %d pages, want 2 via fallback paths", result.PagesScraped)
	}
	if !strings.Contains(result.CombinedText, "hello@acme.com") {
		t.Error("fallback contact page not crawled")
	}
}

func TestCrawlCollectsContactForms(t *testing.T) {
	var mux http.ServeMux
	srv := httptest.NewServer(&mux)
	defer srv.Close()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, htmlPage("Contact", `
			<p>Get in touch using the form below, or keep reading this generously padded introduction paragraph.</p>
			<form action="/send" method="post">
				<input type="text" name="name" placeholder="Name">
				<input type="email" name="email">
				<textarea name="message"></textarea>
			</form>`))
	})

	result := testCrawler(Config{MaxPages: 1}).Crawl(context.Background(), srv.URL)
	if len(result.ContactForms) != 1 {
		t.Fatalf("got %d contact forms, want 1", len(result.ContactForms))
	}
	if result.ContactForms[0].Action != "/send" {
		t.Errorf("form action = %q", result.ContactForms[0].Action)
	}
}

type stubRenderer struct {
	html    string
	renders int
	urls    []string
	closed  bool
}

func (s *stubRenderer) Render(ctx context.Context, url string) (string, error) {
	s.renders++
	s.urls = append(s.urls, url)
	return s.html, nil
}

func (s *stubRenderer) Close() { s.closed = true }

func TestCrawlRendersSeedPage(t *testing.T) {
	var mux http.ServeMux
	srv := httptest.NewServer(&mux)
	defer srv.Close()

	staticBody := `
		<a href="/contact">Contact</a>
		<a href="/about">About</a>
		<p>A homepage with several long paragraphs of marketing prose, repeated a few times so the static
		fetch comfortably clears the thin-page threshold. More words, more sentences, more filler, all of
		it describing widgets at considerable length without ever mentioning how to actually reach anyone.</p>`
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, htmlPage("Home", staticBody))
	})
	mux.HandleFunc("/contact", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, htmlPage("Contact", "<p>Visit our office, where this padded paragraph keeps the page above the render threshold.</p>"))
	})
	mux.HandleFunc("/about", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, htmlPage("About", "<p>About Acme, again with enough prose that the static fetch alone is considered substantial.</p>"))
	})

	stub := &stubRenderer{html: htmlPage("Home", staticBody+`
		<p>Script-injected footer with the real contact address seed-rendered@acme.com and some extra
		sentences so the hydrated variant is measurably longer than the server-rendered markup.</p>`)}

	c := testCrawler(Config{
		MaxPages:    3,
		Dynamic:     true,
		NewRenderer: func() fetcher.Renderer { return stub },
	})
	result := c.Crawl(context.Background(), srv.URL)
	if result.Failed() {
		t.Fatalf("crawl failed: %s", result.Error)
	}
	if result.PagesScraped != 3 {
		t.Fatalf("scraped %d pages, want 3", result.PagesScraped)
	}
	// The homepage is rendered even though its static text is substantial.
	seedRendered := false
	for _, u := range stub.urls {
		if u == srv.URL || u == srv.URL+"/" {
			seedRendered = true
		}
	}
	if !seedRendered {
		t.Fatalf("seed page never rendered, renders = %v", stub.urls)
	}
	if !strings.Contains(result.CombinedText, "seed-rendered@acme.com") {
		t.Error("script-injected seed contact missing from combined text")
	}
}

func TestCrawlDynamicRescue(t *testing.T) {
	var mux http.ServeMux
	srv := httptest.NewServer(&mux)
	defer srv.Close()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, htmlPage("Shell", `<div id="app"></div>`))
	})

	stub := &stubRenderer{html: htmlPage("Rendered", `
		<p>Hydrated content with the real navigation and a contact address, rendered@acme.com, plus enough
		words that the dynamic variant is clearly longer than the static shell it replaces.</p>`)}

	c := testCrawler(Config{
		MaxPages:    3,
		Dynamic:     true,
		NewRenderer: func() fetcher.Renderer { return stub },
	})
	result := c.Crawl(context.Background(), srv.URL)
	if result.Failed() {
		t.Fatalf("crawl failed: %s", result.Error)
	}
	if stub.renders == 0 {
		t.Fatal("renderer never used")
	}
	if !stub.closed {
		t.Error("renderer not closed after crawl")
	}
	if !strings.Contains(result.CombinedText, "rendered@acme.com") {
		t.Error("rescued dynamic content missing from combined text")
	}
}
