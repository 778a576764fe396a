package rest

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/labelkit/internal/core/domain"
)

// Config contains everything needed to reach the annotation server.
type Config struct {
	// BaseURL is the API root, e.g. "https://annotate.example.com/v1".
	BaseURL string

	// Token is the API key.
	Token string

	// TokenType prefixes the token in the Authorization header.
	// Default: "Token".
	TokenType string

	// Timeout bounds every request. Default: 30 seconds.
	Timeout time.Duration

	// RateLimit is the sustained request rate per second.
	// Zero disables proactive limiting.
	RateLimit float64

	// Burst is the number of requests allowed at once. Default: 5.
	Burst int

	// Transport is the base round tripper. Nil means http.DefaultTransport.
	Transport http.RoundTripper
}

// ConfigFromSettings maps validated settings onto a client Config.
func ConfigFromSettings(st domain.Settings) Config {
	return Config{
		BaseURL:   st.ServerURL,
		Token:     st.Token,
		TokenType: st.TokenType,
		Timeout:   st.Timeout,
		RateLimit: st.RateLimit,
	}
}

func (c Config) withDefaults() Config {
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.TokenType == "" {
		c.TokenType = domain.DefaultTokenType
	}
	if c.Timeout <= 0 {
		c.Timeout = domain.DefaultTimeout
	}
	if c.Burst <= 0 {
		c.Burst = 5
	}
	if c.Transport == nil {
		c.Transport = http.DefaultTransport
	}
	return c
}

// newHTTPClient returns an http.Client that authenticates every request.
// oauth2.Token.Type passes unknown token types through unchanged, so a
// "Token" type yields the header "Authorization: Token <key>".
func (c Config) newHTTPClient() *http.Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: c.Token,
		TokenType:   c.TokenType,
	})
	return &http.Client{
		Timeout: c.Timeout,
		Transport: &oauth2.Transport{
			Source: src,
			Base:   c.Transport,
		},
	}
}
