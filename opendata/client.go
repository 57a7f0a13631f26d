// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package opendata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/poiesic/eventide/core"
)

const (
	// DefaultBaseURL is the OpenDataSoft explore API root.
	DefaultBaseURL = "https://public.opendatasoft.com/api/explore/v2.1"

	// DefaultEndpoint exports the public OpenAgenda events dataset as JSON.
	DefaultEndpoint = "/catalog/datasets/evenements-publics-openagenda/exports/json"

	defaultTimeout = 10 * time.Second

	// whereTimeFormat is the second-precision timestamp format the API's
	// where grammar expects.
	whereTimeFormat = "2006-01-02T15:04:05"
)

// Config holds the connection parameters for the open-data API.
type Config struct {
	// BaseURL is the API root. Default: DefaultBaseURL.
	BaseURL string

	// Endpoint is the dataset export path appended to BaseURL.
	// Default: DefaultEndpoint.
	Endpoint string

	// Timeout bounds each fetch request. Default: 10s.
	Timeout time.Duration
}

// DefaultConfig returns a Config pointing at the public OpenAgenda dataset.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:  DefaultBaseURL,
		Endpoint: DefaultEndpoint,
		Timeout:  defaultTimeout,
	}
}

// Validate checks that the configuration is complete, applying defaults
// for unset optional values.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrBaseURLRequired
	}
	if c.Endpoint == "" {
		return ErrEndpointRequired
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	return nil
}

// Query filters a fetch by region and date window and caps the result size.
type Query struct {
	Region string
	Since  time.Time
	Until  time.Time
	Limit  int
}

// whereClause renders the query as the API's filter grammar.
func (q Query) whereClause() string {
	return fmt.Sprintf(`location_region="%s" AND firstdate_begin >= "%s" AND lastdate_begin <= "%s"`,
		q.Region,
		q.Since.Format(whereTimeFormat),
		q.Until.Format(whereTimeFormat))
}

// Client fetches raw event records from the open-data API. Requests are
// bounded by the configured timeout and never retried.
type Client struct {
	baseURL    string
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
	}
}

// WithHTTPClient replaces the underlying HTTP client. The configured
// timeout is left to the caller in that case.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// NewClient creates a client for the given configuration.
func NewClient(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		baseURL:    cfg.BaseURL,
		endpoint:   cfg.Endpoint,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     slog.Default().With("component", "opendata-client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FetchEvents issues a single filtered export request and returns the raw
// records. A single-object response is wrapped into a one-element slice.
// Transport failures and non-2xx statuses are returned as wrapped errors.
func (c *Client) FetchEvents(ctx context.Context, q Query) ([]core.RawRecord, error) {
	params := url.Values{}
	params.Set("where", q.whereClause())
	params.Set("limit", strconv.Itoa(q.Limit))

	requestURL := c.baseURL + c.endpoint + "?" + params.Encode()
	c.logger.Debug("fetching events", "url", c.baseURL+c.endpoint, "where", q.whereClause(), "limit", q.Limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("request failed: unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	return decodeRecords(body)
}

// decodeRecords parses a JSON response into raw records, accepting either
// an array of objects or a lone object.
func decodeRecords(body []byte) ([]core.RawRecord, error) {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	switch value := decoded.(type) {
	case []any:
		records := make([]core.RawRecord, 0, len(value))
		for _, item := range value {
			obj, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("decoding response: element %v is not an object", item)
			}
			records = append(records, core.RawRecord(obj))
		}
		return records, nil
	case map[string]any:
		return []core.RawRecord{core.RawRecord(value)}, nil
	default:
		return nil, fmt.Errorf("decoding response: unexpected payload of type %T", decoded)
	}
}
