package ekispert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/reroute-fukuoka/reroute/pkg/realtime"
	"github.com/rs/zerolog/log"
)

const (
	DefaultBaseURL        = "https://mixway.ekispert.jp"
	TripEndpoint          = "/v1/json/realtime/trip"
	DefaultTimeout        = 6 * time.Second
	DefaultMaxRetries     = 2
	DefaultInitialBackoff = 600 * time.Millisecond
)

var ErrNoAPIKey = errors.New("ekispert api key not configured")

// Client fetches realtime bus trip data from the Ekispert mixway API.
// One request is made per distinct line in the queries.
type Client struct {
	APIKey         string
	BaseURL        string
	HTTPClient     *http.Client
	MaxRetries     uint64
	InitialBackoff time.Duration
}

func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:         apiKey,
		BaseURL:        DefaultBaseURL,
		HTTPClient:     &http.Client{Timeout: DefaultTimeout},
		MaxRetries:     DefaultMaxRetries,
		InitialBackoff: DefaultInitialBackoff,
	}
}

func (c *Client) Name() string {
	return "ekispert"
}

func (c *Client) Fetch(ctx context.Context, queries []realtime.TripQuery) ([]realtime.Patch, error) {
	if c.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	var patches []realtime.Patch
	seenLines := map[string]bool{}

	for _, query := range queries {
		if seenLines[query.LineID] {
			continue
		}
		seenLines[query.LineID] = true

		body, err := c.request(ctx, query)
		if err != nil {
			return patches, err
		}

		linePatches, err := ParsePayload(body)
		if err != nil {
			return patches, err
		}
		patches = append(patches, linePatches...)
	}

	return patches, nil
}

type statusError struct {
	StatusCode int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("ekispert returned status %d", e.StatusCode)
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func (c *Client) endpoint(query realtime.TripQuery) string {
	params := url.Values{}
	params.Set("key", c.APIKey)
	if query.LineID != "" {
		params.Set("line_id", query.LineID)
		params.Set("operationLineCode", query.LineID)
	}
	if query.TripID != "" {
		params.Set("trip_id", query.TripID)
	}
	if query.Direction != "" {
		params.Set("direction", query.Direction)
	}

	return c.BaseURL + TripEndpoint + "?" + params.Encode()
}

func (c *Client) request(ctx context.Context, query realtime.TripQuery) ([]byte, error) {
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(query), nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			err := &statusError{StatusCode: resp.StatusCode}
			if retryableStatus(resp.StatusCode) {
				return err
			}
			return backoff.Permanent(err)
		}

		body, err = io.ReadAll(resp.Body)
		return err
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.InitialBackoff
	policy.Multiplier = 2
	policy.RandomizationFactor = 0

	notify := func(err error, wait time.Duration) {
		log.Debug().Err(err).Str("line", query.LineID).Dur("wait", wait).Msg("Retrying ekispert request")
	}

	err := backoff.RetryNotify(operation, backoff.WithContext(backoff.WithMaxRetries(policy, c.MaxRetries), ctx), notify)
	return body, err
}
