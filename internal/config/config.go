package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const maxPagesCeiling = 25

// Config carries every runtime knob, filled from the environment with an
// optional .env file. Zero-config runs work: defaults give a static-only
// crawl with no summarizer.
type Config struct {
	LLMProvider  string
	GeminiAPIKey string
	OpenAIAPIKey string
	LLMModel     string

	MaxPages      int
	CrawlDelay    time.Duration
	HTTPTimeout   time.Duration
	Dynamic       bool
	RenderTimeout time.Duration

	MXCheck     bool
	Deobfuscate bool

	ServerAddr string
	LogLevel   string
}

func Load() (*Config, error) {
	// .env is a convenience for local runs, absence is not an error
	_ = godotenv.Load()

	cfg := &Config{
		LLMProvider:   os.Getenv("LLM_PROVIDER"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		LLMModel:      os.Getenv("LLM_MODEL"),
		MaxPages:      envInt("MAX_PAGES", 5),
		CrawlDelay:    envDuration("CRAWL_DELAY", time.Second),
		HTTPTimeout:   envDuration("HTTP_TIMEOUT", 15*time.Second),
		Dynamic:       envBool("DYNAMIC_RENDERING", true),
		RenderTimeout: envDuration("RENDER_TIMEOUT", 30*time.Second),
		MXCheck:       envBool("EMAIL_MX_CHECK", false),
		Deobfuscate:   envBool("EMAIL_DEOBFUSCATION", true),
		ServerAddr:    envStr("SERVER_ADDR", ":8080"),
		LogLevel:      envStr("LOG_LEVEL", "info"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.MaxPages < 1 || c.MaxPages > maxPagesCeiling {
		return fmt.Errorf("config: MAX_PAGES must be in [1,%d], got %d", maxPagesCeiling, c.MaxPages)
	}
	switch c.LLMProvider {
	case "", "none":
	case "gemini":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("config: LLM_PROVIDER=gemini requires GEMINI_API_KEY")
		}
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("config: LLM_PROVIDER=openai requires OPENAI_API_KEY")
		}
	default:
		return fmt.Errorf("config: unknown LLM_PROVIDER %q", c.LLMProvider)
	}
	if c.CrawlDelay < 0 {
		return fmt.Errorf("config: CRAWL_DELAY must not be negative")
	}
	return nil
}

// APIKey returns the key for the configured provider.
func (c *Config) APIKey() string {
	switch c.LLMProvider {
	case "gemini":
		return c.GeminiAPIKey
	case "openai":
		return c.OpenAIAPIKey
	}
	return ""
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
