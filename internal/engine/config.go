package engine

import (
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/llm"
	"golang.org/x/time/rate"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	ConnectTimeout       time.Duration
	ReadTimeout          time.Duration
	YouTubeRate          float64 // requests per second towards youtube.com; <= 0 = unlimited
	YouTubeBurst         int
	AndroidClientVersion string // pinned ANDROID Innertube clientVersion
	YouTubeAPIKey        string // Data API v3 key for video_search; empty = scrape results page
	LLMAPIKey            string
	LLMAPIKeyFallbacks   []string
	LLMAPIBase           string
	LLMModel             string
	LLMTemperature       float64
	LLMMaxTokens         int
	ReadingDBPath        string
	HTTPClient           *http.Client
	BrowserClient        *BrowserClient // nil = watch page fetched with HTTPClient
	LLMClient            *llm.Client    // nil = segment_explain disabled
	Limiter              *rate.Limiter
}

// Defaults used when a Config field is left zero.
const (
	DefaultConnectTimeout       = 15 * time.Second
	DefaultReadTimeout          = 30 * time.Second
	DefaultAndroidClientVersion = "20.10.38"
)

var cfg Config

// Cfg exposes the engine configuration for sub-packages (sources, player, reading).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
// Zero timeouts, a nil HTTP client and a nil limiter are replaced by defaults.
func Init(c Config) {
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.AndroidClientVersion == "" {
		c.AndroidClientVersion = DefaultAndroidClientVersion
	}
	if c.HTTPClient == nil {
		c.HTTPClient = NewHTTPClient(c.ConnectTimeout, c.ReadTimeout)
	}
	if c.Limiter == nil {
		c.Limiter = NewLimiter(c.YouTubeRate, c.YouTubeBurst)
	}
	cfg = c
	Cfg = &cfg
}
