package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	charmlog "github.com/charmbracelet/log"

	"website-intel/internal/config"
	"website-intel/internal/crawler"
	"website-intel/internal/extractor"
	"website-intel/internal/fetcher"
	"website-intel/internal/scan"
	"website-intel/internal/summarizer"
	"website-intel/pkg/logger"
)

type scanReq struct {
	URL string `json:"url"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		charmlog.Fatal("config", "err", err)
	}
	l := logger.New(cfg.LogLevel)

	svc, err := buildService(cfg, l)
	if err != nil {
		l.Fatal("setup failed", "err", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// POST /scan  { "url": "https://..." }
	mux.HandleFunc("/scan", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
			return
		}
		var req scanReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Minute)
		defer cancel()

		rec, err := svc.Scan(ctx, req.URL)
		switch {
		case errors.Is(err, scan.ErrInvalidURL):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		case err != nil:
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		default:
			writeJSON(w, http.StatusOK, rec)
		}
	})

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      logRequest(l, mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 4 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		l.Info("server listening", "addr", cfg.ServerAddr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			l.Error("server error", "err", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	l.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func logRequest(l *charmlog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		l.Info("request", "method", r.Method, "path", r.URL.Path, "elapsed", time.Since(start))
	})
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
