package crashlens

import (
	"net/http"
	"time"
)

// Option configures a Client.
type Option interface {
	apply(c *Client)
}

type optionFunc func(c *Client)

func (f optionFunc) apply(c *Client) { f(c) }

// WithAPIKey sets the bearer token sent with every request.
func WithAPIKey(key string) Option {
	return optionFunc(func(c *Client) {
		c.apiKey = key
	})
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	})
}

// WithTimeout sets the per-request timeout. Upload and query requests
// block on provider calls, so the default is generous.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	})
}
