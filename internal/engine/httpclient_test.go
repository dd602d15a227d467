package engine

import (
	"net/http"
	"testing"
	"time"
)

func TestNewHTTPClient(t *testing.T) {
	c := NewHTTPClient(2*time.Second, 5*time.Second)
	if c.Timeout != 7*time.Second {
		t.Errorf("Timeout = %v, want 7s", c.Timeout)
	}
	tr, ok := c.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("Transport is %T, want *http.Transport", c.Transport)
	}
	if tr.TLSHandshakeTimeout != 2*time.Second {
		t.Errorf("TLSHandshakeTimeout = %v, want 2s", tr.TLSHandshakeTimeout)
	}
	if tr.ResponseHeaderTimeout != 5*time.Second {
		t.Errorf("ResponseHeaderTimeout = %v, want 5s", tr.ResponseHeaderTimeout)
	}
}

func TestNewHTTPClientDefaults(t *testing.T) {
	c := NewHTTPClient(0, -1)
	if c.Timeout != DefaultConnectTimeout+DefaultReadTimeout {
		t.Errorf("Timeout = %v, want %v", c.Timeout, DefaultConnectTimeout+DefaultReadTimeout)
	}
}

func TestChromeHeaders(t *testing.T) {
	h := ChromeHeaders()

	required := []string{"accept", "accept-language", "user-agent"}
	for _, key := range required {
		if _, ok := h[key]; !ok {
			t.Errorf("ChromeHeaders() missing key %q", key)
		}
	}
	if ua := h["user-agent"]; len(ua) < 20 {
		t.Errorf("user-agent too short: %q", ua)
	}
}

func TestInitDefaults(t *testing.T) {
	Init(Config{})
	t.Cleanup(func() { Init(Config{}) })

	if Cfg.HTTPClient == nil {
		t.Fatal("Init left HTTPClient nil")
	}
	if Cfg.Limiter == nil {
		t.Fatal("Init left Limiter nil")
	}
	if Cfg.AndroidClientVersion != DefaultAndroidClientVersion {
		t.Errorf("AndroidClientVersion = %q, want %q", Cfg.AndroidClientVersion, DefaultAndroidClientVersion)
	}
}
