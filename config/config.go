package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Browser BrowserConfig
	Session SessionConfig
	Fetch   FetchConfig
	Site    SiteConfig
	Output  OutputConfig
	Webhook WebhookConfig
	Log     LogConfig
}

// BrowserConfig controls how browsing sessions are created.
type BrowserConfig struct {
	// Driver selects the session factory: "chromium" launches a local
	// browser per task, "remote" attaches to CDPURL.
	Driver string // default: "chromium"

	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// Proxy is the proxy URL handed to the browser.
	Proxy string

	// CDPURL is the DevTools endpoint used by the "remote" driver.
	CDPURL string

	// Stealth masks navigator.webdriver and friends on every page.
	Stealth bool // default: true

	// AcceptLanguage is sent as an extra header on every browser request.
	AcceptLanguage string // default: "en-US,en;q=0.9"

	// BlockedResourceTypes lists resource types the browser never loads.
	// default: ["Image", "Font", "Media"]
	BlockedResourceTypes []string
}

// SessionConfig bounds every blocking step of a task.
type SessionConfig struct {
	// WaitTimeout is the ceiling for each wait-for-element step.
	WaitTimeout time.Duration // default: 10s

	// NavigationTimeout is the ceiling for a navigate step.
	NavigationTimeout time.Duration // default: 30s

	// ContextTimeout is how long to poll for a newly opened tab.
	ContextTimeout time.Duration // default: 10s

	// SettleInterval is the DOM-stable window used by settle steps.
	SettleInterval time.Duration // default: 300ms
}

// FetchConfig controls plain HTTP requests.
type FetchConfig struct {
	// Timeout is the per-document deadline.
	Timeout time.Duration // default: 10s

	// LinkTimeout is the shorter deadline for link reachability checks.
	LinkTimeout time.Duration // default: 5s

	// RequestsPerSecond throttles outgoing requests. 0 disables throttling.
	RequestsPerSecond float64 // default: 0

	// Burst is the limiter burst size.
	Burst int // default: 1

	// UserAgent is sent with every request.
	UserAgent string
}

// SiteConfig points at an optional YAML file overriding the built-in
// URLs and selectors.
type SiteConfig struct {
	File string
}

// OutputConfig controls where the record is written.
type OutputConfig struct {
	Path string // default: "spicychat_dot_ai_data.json"
}

// WebhookConfig controls optional delivery of the finished record.
type WebhookConfig struct {
	// URL receives a POST with the record. Empty disables delivery.
	URL string

	// Secret signs the body with HMAC-SHA256 when non-empty.
	Secret string
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "text"
}

// DefaultUserAgent is a desktop Chrome user agent.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Browser: BrowserConfig{
			Driver:         envOr("SPICYSCRAPE_BROWSER", "chromium"),
			Headless:       envBoolOr("SPICYSCRAPE_HEADLESS", true),
			NoSandbox:      envBoolOr("SPICYSCRAPE_NO_SANDBOX", false),
			BrowserBin:     os.Getenv("SPICYSCRAPE_BROWSER_BIN"),
			Proxy:          os.Getenv("SPICYSCRAPE_PROXY"),
			CDPURL:         os.Getenv("SPICYSCRAPE_CDP_URL"),
			Stealth:        envBoolOr("SPICYSCRAPE_STEALTH", true),
			AcceptLanguage: envOr("SPICYSCRAPE_ACCEPT_LANGUAGE", "en-US,en;q=0.9"),
			BlockedResourceTypes: envSliceOr("SPICYSCRAPE_BLOCKED_RESOURCES", []string{
				"Image", "Font", "Media",
			}),
		},
		Session: SessionConfig{
			WaitTimeout:       envDurationOr("SPICYSCRAPE_WAIT_TIMEOUT", 10*time.Second),
			NavigationTimeout: envDurationOr("SPICYSCRAPE_NAV_TIMEOUT", 30*time.Second),
			ContextTimeout:    envDurationOr("SPICYSCRAPE_CONTEXT_TIMEOUT", 10*time.Second),
			SettleInterval:    envDurationOr("SPICYSCRAPE_SETTLE_INTERVAL", 300*time.Millisecond),
		},
		Fetch: FetchConfig{
			Timeout:           envDurationOr("SPICYSCRAPE_FETCH_TIMEOUT", 10*time.Second),
			LinkTimeout:       envDurationOr("SPICYSCRAPE_LINK_TIMEOUT", 5*time.Second),
			RequestsPerSecond: envFloatOr("SPICYSCRAPE_FETCH_RPS", 0),
			Burst:             envIntOr("SPICYSCRAPE_FETCH_BURST", 1),
			UserAgent:         envOr("SPICYSCRAPE_USER_AGENT", DefaultUserAgent),
		},
		Site: SiteConfig{
			File: os.Getenv("SPICYSCRAPE_SITE_FILE"),
		},
		Output: OutputConfig{
			Path: envOr("SPICYSCRAPE_OUTPUT", "spicychat_dot_ai_data.json"),
		},
		Webhook: WebhookConfig{
			URL:    os.Getenv("SPICYSCRAPE_WEBHOOK_URL"),
			Secret: os.Getenv("SPICYSCRAPE_WEBHOOK_SECRET"),
		},
		Log: LogConfig{
			Level:  envOr("SPICYSCRAPE_LOG_LEVEL", "info"),
			Format: envOr("SPICYSCRAPE_LOG_FORMAT", "text"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if l := EnvList(key); l != nil {
		return l
	}
	return fallback
}

// EnvList splits a comma-separated environment variable, dropping blanks.
func EnvList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
