package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	"website-intel/internal/models"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com"

// Models tried in order after the configured one. Gemini retires model IDs
// frequently; 404 on one candidate just moves to the next.
var geminiFallbackModels = []string{
	"models/gemini-2.5-flash",
	"models/gemini-2.5-flash-lite",
	"models/gemini-2.0-flash",
	"models/gemini-2.0-flash-001",
}

var errTryNextModel = errors.New("model unavailable")

type Gemini struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	log     *log.Logger
}

func NewGemini(apiKey, model string, logger *log.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	return &Gemini{
		apiKey:  apiKey,
		model:   model,
		baseURL: geminiBaseURL,
		client:  newHTTPClient(),
		log:     logger,
	}, nil
}

func (g *Gemini) Propose(ctx context.Context, url, text string, signals models.ContactSignals) (*models.StructuredRecord, error) {
	prompt := buildPrompt(url, text, signals)
	for _, model := range g.candidateModels() {
		raw, err := g.generate(ctx, model, prompt)
		if errors.Is(err, errTryNextModel) {
			g.log.Warn("gemini model unavailable, trying next", "model", model)
			continue
		}
		if err != nil {
			return nil, err
		}
		return parseProposal(raw)
	}
	return nil, ErrExhausted
}

func (g *Gemini) candidateModels() []string {
	var out []string
	seen := map[string]struct{}{}
	add := func(m string) {
		if m == "" {
			return
		}
		if !strings.HasPrefix(m, "models/") {
			m = "models/" + m
		}
		if _, dup := seen[m]; dup {
			return
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	add(g.model)
	for _, m := range geminiFallbackModels {
		add(m)
	}
	return out
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMimeType string  `json:"responseMimeType"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig geminiGenConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (g *Gemini) generate(ctx context.Context, model, prompt string) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenConfig{
			Temperature:      0.1,
			ResponseMimeType: "application/json",
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}
	endpoint := fmt.Sprintf("%s/v1beta/%s:generateContent?key=%s", g.baseURL, model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusTooManyRequests {
		io.Copy(io.Discard, resp.Body)
		return "", errTryNextModel
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("gemini %s: status %d: %s", model, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadProposal, err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty candidates", ErrBadProposal)
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}
