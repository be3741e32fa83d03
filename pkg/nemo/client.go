// Package nemo provides a client for the NEMO survey OData API.
package nemo

import (
	"context"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rotisserie/eris"
)

// DefaultTimeout bounds a single Responses call unless overridden.
const DefaultTimeout = 30 * time.Second

// Client defines the NEMO API operations.
type Client interface {
	// Responses fetches every response record submitted to the form named by
	// spec. Records keep the order of the upstream body.
	Responses(ctx context.Context, spec ConnectionSpec) ([]Record, error)
}

// Option configures the NEMO client.
type Option func(*httpClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithTimeout bounds each request. Zero disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		c.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent upstream.
func WithUserAgent(ua string) Option {
	return func(c *httpClient) {
		c.userAgent = ua
	}
}

type httpClient struct {
	http      *http.Client
	timeout   time.Duration
	userAgent string
}

// NewClient creates a new NEMO client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		http: &http.Client{
			Transport: &http.Transport{
				Proxy:           http.ProxyFromEnvironment,
				IdleConnTimeout: 90 * time.Second,
			},
		},
		timeout:   DefaultTimeout,
		userAgent: "nemo-provider/1.0",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Responses issues a single GET with no retry. Any transport failure, non-2xx
// status or undecodable body is returned as a *FetchError.
func (c *httpClient) Responses(ctx context.Context, spec ConnectionSpec) ([]Record, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	fo := spec.FetchOptions()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fo.URL, nil)
	if err != nil {
		return nil, &FetchError{Host: spec.Host, Err: eris.Wrap(err, "nemo: create request")}
	}
	req.Header = fo.Header
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{Host: spec.Host, Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Host: spec.Host, Responded: true, StatusCode: resp.StatusCode,
			Err: eris.Wrap(err, "nemo: read response body")}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Host: spec.Host, Responded: true, StatusCode: resp.StatusCode}
	}

	records, err := decodeResponses(body)
	if err != nil {
		return nil, &FetchError{Host: spec.Host, Responded: true, StatusCode: resp.StatusCode, Err: err}
	}
	return records, nil
}

func decodeResponses(body []byte) ([]Record, error) {
	var env responsesBody
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, eris.Wrap(err, "nemo: unmarshal response")
	}
	if env.Value == nil {
		return nil, eris.New("nemo: response has no value array")
	}
	records := *env.Value
	for i, r := range records {
		if r == nil {
			return nil, eris.Errorf("nemo: record %d is not an object", i)
		}
	}
	return records, nil
}
