package apiclient

import (
	"net/http"
	"time"
)

// Option is a functional option for configuring a Client.
type Option func(*Client)

// WithHTTPClient sets a custom http.Client for making requests. Useful for
// testing, proxying, or custom transport configurations.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the request timeout used when no custom http.Client is
// provided. Defaults to 30 seconds.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// RequestOption customizes a single call.
type RequestOption func(*requestOptions)

type requestOptions struct {
	headers http.Header
}

// WithHeader adds a header to the request. Authorization and Content-Type
// are always controlled by the client and cannot be overridden.
func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		if o.headers == nil {
			o.headers = http.Header{}
		}
		o.headers.Add(key, value)
	}
}
