// go_listen: YouTube listening-practice MCP server.
//
// Fetches English caption transcripts, keeps player sessions that highlight
// the active segment and loop around it, explains sentences with an LLM, and
// stores a local reading list. Runs as HTTP MCP server or stdio transport.
package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-kit/llm"
	"github.com/anatolykoptev/go-mcpserver"
	stealth "github.com/anatolykoptev/go-stealth"
	"github.com/anatolykoptev/go-stealth/proxypool"
	"github.com/anatolykoptev/go_listen/internal/engine"
	"github.com/anatolykoptev/go_listen/internal/engine/player"
	"github.com/anatolykoptev/go_listen/internal/engine/sources"
	"github.com/anatolykoptev/go_listen/internal/listenserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	version = "dev"
	mcpPort = env.Str("MCP_PORT", "8893")
)

func main() {
	initEngine()

	slog.Info("starting go_listen",
		slog.String("port", mcpPort),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_listen",
		Version: version,
	}, nil)

	yt := sources.NewClient()
	manager := player.NewManager(yt)
	defer manager.Close()

	n := listenserver.RegisterTools(server, listenserver.Deps{
		Manager:     manager,
		Transcripts: yt,
		Search:      yt,
	})
	slog.Info("tools registered", slog.Int("count", n))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_listen",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 120 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func initEngine() {
	c := engine.Config{
		ConnectTimeout:       env.Duration("CONNECT_TIMEOUT", engine.DefaultConnectTimeout),
		ReadTimeout:          env.Duration("READ_TIMEOUT", engine.DefaultReadTimeout),
		YouTubeRate:          env.Float("YT_RATE", 2),
		YouTubeBurst:         env.Int("YT_BURST", 4),
		AndroidClientVersion: env.Str("YT_ANDROID_VERSION", engine.DefaultAndroidClientVersion),
		YouTubeAPIKey:        env.Str("YOUTUBE_API_KEY", ""),
		LLMAPIKey:            env.Str("LLM_API_KEY", ""),
		LLMAPIKeyFallbacks:   env.List("LLM_API_KEY_FALLBACKS", ""),
		LLMAPIBase:           env.Str("LLM_API_BASE", "https://generativelanguage.googleapis.com/v1beta/openai"),
		LLMModel:             env.Str("LLM_MODEL", "gemini-2.5-flash"),
		LLMTemperature:       env.Float("LLM_TEMPERATURE", 0.3),
		LLMMaxTokens:         env.Int("LLM_MAX_TOKENS", 2048),
		ReadingDBPath:        env.Str("READING_DB", ""),
	}
	c.HTTPClient = engine.NewHTTPClient(c.ConnectTimeout, c.ReadTimeout)

	// Watch page through go-stealth (optional). Innertube and timedtext always use HTTPClient.
	if env.Str("BOOTSTRAP_STEALTH", "false") == "true" {
		var opts []stealth.ClientOption
		opts = append(opts, stealth.WithTimeout(15))

		if apiKey := env.Str("WEBSHARE_API_KEY", ""); apiKey != "" {
			pool, err := proxypool.NewWebshare(apiKey)
			if err != nil {
				slog.Warn("proxy pool init failed, running without proxy", slog.Any("error", err))
			} else {
				opts = append(opts, stealth.WithProxyPool(pool))
				slog.Info("proxy pool initialized", slog.Int("proxies", pool.Len()))
			}
		}

		bc, err := stealth.NewClient(opts...)
		if err != nil {
			slog.Error("stealth client init failed", slog.Any("error", err))
		} else {
			c.BrowserClient = bc
			slog.Info("stealth browser client initialized")
		}
	}

	// segment_explain stays disabled without a key.
	if c.LLMAPIKey != "" {
		c.LLMClient = llm.NewClient(c.LLMAPIBase, c.LLMAPIKey, c.LLMModel,
			llm.WithFallbackKeys(c.LLMAPIKeyFallbacks),
			llm.WithMaxTokens(c.LLMMaxTokens),
			llm.WithTemperature(c.LLMTemperature),
			llm.WithHTTPClient(&http.Client{Timeout: 60 * time.Second}),
		)
	}

	engine.Init(c)

	engine.InitCache(env.Str("REDIS_URL", ""),
		env.Duration("EXPLAIN_CACHE_TTL", 24*time.Hour),
		env.Int("CACHE_MAX_ENTRIES", 1000),
		env.Duration("CACHE_CLEANUP_INTERVAL", 300*time.Second))
}
