package sources

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractAPIKey(t *testing.T) {
	tests := []struct {
		name   string
		page   string
		want   string
		wantOK bool
	}{
		{"camel case", `ytcfg.set({"innertubeApiKey":"AIzaCamel"});`, "AIzaCamel", true},
		{"upper case", `ytcfg.set({"INNERTUBE_API_KEY": "AIzaUpper"});`, "AIzaUpper", true},
		{"escaped quote prefix", `{\"innertubeApiKey":"AIzaEscaped"}`, "AIzaEscaped", true},
		{"upper without leading quote", `'INNERTUBE_API_KEY":"AIzaLoose"`, "AIzaLoose", true},
		{"camel case wins over upper", `"INNERTUBE_API_KEY":"second" "innertubeApiKey":"first"`, "first", true},
		{"blank value skipped", `"innertubeApiKey":" " "INNERTUBE_API_KEY":"AIzaNext"`, "AIzaNext", true},
		{"absent", `<html><body>nothing here</body></html>`, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractAPIKey([]byte(tt.page))
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDiagnosePage(t *testing.T) {
	tests := []struct {
		name string
		page string
		want string
	}{
		{"consent wall", `<html><body><form action="https://consent.youtube.com/save" method="POST"><button>Accept all</button></form></body></html>`, pageConsent},
		{"captcha", `<html><body><div class="g-recaptcha" data-sitekey="x"></div></body></html>`, pageCaptcha},
		{"unknown", `<html><body><p>changed layout</p></body></html>`, pageUnknown},
		{"not html", `{"json":true}`, pageUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, diagnosePage([]byte(tt.page)))
		})
	}
}

func TestFetchAPIKey_Headers(t *testing.T) {
	var got http.Header
	var gotVideo string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		gotVideo = r.URL.Query().Get("v")
		_, _ = w.Write([]byte(`<script>ytcfg.set({"INNERTUBE_API_KEY":"AIzaTest"})</script>`))
	}))
	defer srv.Close()

	c := &Client{HTTP: srv.Client(), WatchURL: srv.URL + "/watch", UserAgent: func() string { return "test-agent" }}
	key, err := c.FetchAPIKey(context.Background(), "8YkkvVe_Z8w")
	require.NoError(t, err)
	assert.Equal(t, "AIzaTest", key)
	assert.Equal(t, "8YkkvVe_Z8w", gotVideo)
	assert.Equal(t, "test-agent", got.Get("User-Agent"))
	assert.Equal(t, acceptHTML, got.Get("Accept"))
	assert.Equal(t, acceptLanguage, got.Get("Accept-Language"))
}

func TestFetchAPIKey_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind error
		wantMsg  string
	}{
		{"server error", http.StatusInternalServerError, "boom", ErrNetwork, "HTTP 500"},
		{"too many requests", http.StatusTooManyRequests, "", ErrNetwork, "HTTP 429"},
		{"consent page", http.StatusOK, `<form action="https://consent.youtube.com/s"></form>`, ErrMissingAPIKey, `"consent"`},
		{"unknown page", http.StatusOK, `<html></html>`, ErrMissingAPIKey, `"unknown"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := &Client{HTTP: srv.Client(), WatchURL: srv.URL + "/watch"}
			_, err := c.FetchAPIKey(context.Background(), "abc")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantKind), "got %v", err)
			assert.Contains(t, err.Error(), tt.wantMsg)

			var ae *AcquisitionError
			require.True(t, errors.As(err, &ae))
			assert.Equal(t, stageBootstrap, ae.Stage)
		})
	}
}
