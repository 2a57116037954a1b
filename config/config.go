package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Browser BrowserConfig
	Scraper ScraperConfig
	Engine  EngineConfig
	Extract ExtractConfig
	LLM     LLMConfig
	CORS    CORSConfig
	Log     LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 5001 (or $PORT)
	Mode string // "debug", "release", "test"; default: "release"

	// Metrics mounts Prometheus instrumentation and GET /metrics.
	Metrics bool // default: true
}

// BrowserConfig controls the per-request headless browser.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// DefaultProxy is the proxy URL the browser routes through.
	DefaultProxy string

	// Stealth injects go-rod/stealth evasions before navigation.
	Stealth bool // default: false
}

// ScraperConfig controls rendering behaviour.
type ScraperConfig struct {
	// NavigationTimeout bounds browser launch, navigation and the idle wait.
	NavigationTimeout time.Duration // default: 60s

	// IdleWindow is how long the network must stay quiet before the page
	// counts as settled.
	IdleWindow time.Duration // default: 500ms

	// UserAgent is sent by both tiers.
	UserAgent string

	// BlockedResourceTypes lists resource types the renderer refuses to load
	// ("Image", "Stylesheet", "Font", "Media", "Script"). Blocking mounts a
	// request hijacker, which replaces the network-idle wait with a
	// DOM-stability wait.
	BlockedResourceTypes []string // default: none

	// BlockAds drops requests to well-known ad and tracking hosts.
	BlockAds bool // default: false

	// ScrollViewports scrolls the settled page down this many viewports so
	// lazy-loaded images get a real src before extraction.
	ScrollViewports int // default: 0
}

// EngineConfig controls the tier dispatcher.
type EngineConfig struct {
	// HTTPTimeout is the deadline for the static fetch.
	HTTPTimeout time.Duration // default: 15s

	// MinStaticImages is the number of filtered images the static tier must
	// produce to be accepted without rendering.
	MinStaticImages int // default: 1
}

// ExtractConfig controls the image filter.
type ExtractConfig struct {
	// NoiseKeywords replaces the canonical noise keyword list when set.
	NoiseKeywords []string
}

// LLMConfig controls the ad copy generator.
type LLMConfig struct {
	APIKey     string
	BaseURL    string        // default: "https://api.openai.com/v1"
	Model      string        // default: "gpt-4"
	MaxTokens  int           // default: 150
	MaxRetries int           // default: 2
	Timeout    time.Duration // default: 60s
}

// CORSConfig controls the cross-origin allow-list.
type CORSConfig struct {
	AllowOrigins []string // default: ["http://localhost:3000"]
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// DefaultUserAgent is a desktop Chrome identification string.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    envOr("ADSCOUT_HOST", "0.0.0.0"),
			Port:    envIntOr("ADSCOUT_PORT", envIntOr("PORT", 5001)),
			Mode:    envOr("ADSCOUT_MODE", "release"),
			Metrics: envBoolOr("ADSCOUT_METRICS", true),
		},
		Browser: BrowserConfig{
			Headless:     envBoolOr("ADSCOUT_HEADLESS", true),
			NoSandbox:    envBoolOr("ADSCOUT_NO_SANDBOX", false),
			BrowserBin:   os.Getenv("ADSCOUT_BROWSER_BIN"),
			DefaultProxy: os.Getenv("ADSCOUT_PROXY"),
			Stealth:      envBoolOr("ADSCOUT_STEALTH", false),
		},
		Scraper: ScraperConfig{
			NavigationTimeout:    envDurationOr("ADSCOUT_NAV_TIMEOUT", 60*time.Second),
			IdleWindow:           envDurationOr("ADSCOUT_IDLE_WINDOW", 500*time.Millisecond),
			UserAgent:            envOr("ADSCOUT_USER_AGENT", DefaultUserAgent),
			BlockedResourceTypes: envSliceOr("ADSCOUT_BLOCKED_RESOURCES", nil),
			BlockAds:             envBoolOr("ADSCOUT_BLOCK_ADS", false),
			ScrollViewports:      envIntOr("ADSCOUT_SCROLL_VIEWPORTS", 0),
		},
		Engine: EngineConfig{
			HTTPTimeout:     envDurationOr("ADSCOUT_HTTP_TIMEOUT", 15*time.Second),
			MinStaticImages: envIntOr("ADSCOUT_MIN_STATIC_IMAGES", 1),
		},
		Extract: ExtractConfig{
			NoiseKeywords: envSliceOr("ADSCOUT_NOISE_KEYWORDS", nil),
		},
		LLM: LLMConfig{
			APIKey:     os.Getenv("OPENAI_API_KEY"),
			BaseURL:    envOr("ADSCOUT_LLM_BASE_URL", "https://api.openai.com/v1"),
			Model:      envOr("ADSCOUT_LLM_MODEL", "gpt-4"),
			MaxTokens:  envIntOr("ADSCOUT_LLM_MAX_TOKENS", 150),
			MaxRetries: envIntOr("ADSCOUT_LLM_MAX_RETRIES", 2),
			Timeout:    envDurationOr("ADSCOUT_LLM_TIMEOUT", 60*time.Second),
		},
		CORS: CORSConfig{
			AllowOrigins: envSliceOr("ADSCOUT_CORS_ORIGINS", []string{"http://localhost:3000"}),
		},
		Log: LogConfig{
			Level:  envOr("ADSCOUT_LOG_LEVEL", "info"),
			Format: envOr("ADSCOUT_LOG_FORMAT", "json"),
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

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
