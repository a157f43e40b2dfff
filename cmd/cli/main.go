package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"website-intel/internal/config"
	"website-intel/internal/crawler"
	"website-intel/internal/extractor"
	"website-intel/internal/fetcher"
	"website-intel/internal/ioformats"
	"website-intel/internal/models"
	"website-intel/internal/scan"
	"website-intel/internal/summarizer"
	"website-intel/pkg/logger"

	charmlog "github.com/charmbracelet/log"
)

func main() {
	target := flag.String("url", "", "single website to scan")
	in := flag.String("input", "", "batch input file (csv with 'url' column, ndjson, or txt)")
	out := flag.String("output", "", "output file (default stdout)")
	concurrency := flag.Int("concurrency", 3, "batch worker concurrency")
	maxPages := flag.Int("max-pages", 0, "override MAX_PAGES for this run")
	noDynamic := flag.Bool("no-dynamic", false, "disable browser rendering")
	flag.Parse()

	if (*target == "") == (*in == "") {
		fmt.Fprintln(os.Stderr, "exactly one of --url or --input is required")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if *maxPages > 0 {
		cfg.MaxPages = *maxPages
	}
	if *noDynamic {
		cfg.Dynamic = false
	}

	l := logger.New(cfg.LogLevel)
	svc, err := buildService(cfg, l)
	if err != nil {
		l.Fatal("setup failed", "err", err)
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			l.Fatal("create output", "err", err)
		}
		defer f.Close()
		w = f
	}

	if *target != "" {
		rec, err := svc.Scan(context.Background(), *target)
		if err != nil {
			l.Fatal("scan failed", "url", *target, "err", err)
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rec); err != nil {
			l.Fatal("encode result", "err", err)
		}
		return
	}

	urls, err := ioformats.ReadURLs(*in)
	if err != nil {
		l.Fatal("read input", "err", err)
	}

	type outRec struct {
		URL    string                   `json:"url"`
		Record *models.StructuredRecord `json:"record,omitempty"`
		Error  string                   `json:"error,omitempty"`
	}
	results := make([]outRec, len(urls))

	sem := make(chan struct{}, *concurrency)
	done := make(chan int, len(urls))
	for i, u := range urls {
		i, u := i, u
		sem <- struct{}{} // acquire
		go func() {
			defer func() { <-sem; done <- i }()
			rec, err := svc.Scan(context.Background(), u)
			if err != nil {
				results[i] = outRec{URL: u, Error: err.Error()}
				return
			}
			results[i] = outRec{URL: u, Record: rec}
		}()
	}
	for range urls {
		<-done
	}

	items := make([]any, len(results))
	for i, r := range results {
		items[i] = r
	}
	if err := ioformats.WriteNDJSON(w, items); err != nil {
		l.Fatal("write output", "err", err)
	}
}

func buildService(cfg *config.Config, l *charmlog.Logger) (*scan.Service, error) {
	client := fetcher.NewHTTPClient(cfg.HTTPTimeout, 5*time.Second, 5*1024*1024) // 5MB cap
	f := fetcher.New(client, l)

	crawlCfg := crawler.Config{
		MaxPages: cfg.MaxPages,
		Delay:    cfg.CrawlDelay,
		Dynamic:  cfg.Dynamic,
	}
	if cfg.Dynamic {
		timeout := cfg.RenderTimeout
		crawlCfg.NewRenderer = func() fetcher.Renderer { return fetcher.NewChromeRenderer(timeout) }
	}
	c := crawler.New(f, crawlCfg, l)

	var exOpts []extractor.Option
	if cfg.MXCheck {
		exOpts = append(exOpts, extractor.WithMXCheck())
	}
	if !cfg.Deobfuscate {
		exOpts = append(exOpts, extractor.WithoutDeobfuscation())
	}
	e := extractor.New(l, exOpts...)

	s, err := summarizer.New(cfg.LLMProvider, cfg.APIKey(), cfg.LLMModel, l)
	if err != nil {
		return nil, err
	}
	return scan.NewService(c, e, s, l), nil
}
