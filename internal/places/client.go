// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package places

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/spott/internal/config"
	"github.com/tomtom215/spott/internal/fault"
	"github.com/tomtom215/spott/internal/metrics"
	"github.com/tomtom215/spott/internal/models"
)

// ErrNoAPIKey is returned by every call when no API key is configured.
var ErrNoAPIKey = errors.New("google places api key not configured")

// maxErrorBody caps how much of a failed response is kept in the error.
const maxErrorBody = 512

// Client talks to the Google Places web service. It is safe for concurrent use.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[[]byte]
}

// Option customizes a Client.
type Option func(*clientOptions)

type clientOptions struct {
	httpClient         *http.Client
	breakerMinRequests uint32
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = c }
}

// WithBreakerMinRequests sets how many requests the breaker needs to see
// before it may open.
func WithBreakerMinRequests(n uint32) Option {
	return func(o *clientOptions) { o.breakerMinRequests = n }
}

// NewClient builds a client from cfg. A non-positive RequestsPerSec disables pacing.
func NewClient(cfg *config.PlacesConfig, opts ...Option) *Client {
	o := clientOptions{breakerMinRequests: 10}
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		o.httpClient = &http.Client{Timeout: timeout}
	}

	limit := rate.Inf
	if cfg.RequestsPerSec > 0 {
		limit = rate.Limit(cfg.RequestsPerSec)
	}

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    o.httpClient,
		limiter: rate.NewLimiter(limit, 1),
		breaker: gobreaker.NewCircuitBreaker[[]byte](breakerSettings(o.breakerMinRequests)),
	}
}

// Configured reports whether the client has an API key.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// FindPlace resolves free text (typically "name, address") to the best
// matching place. bias, when set, prefers candidates near that point.
// A query with no match returns KindNotFound.
func (c *Client) FindPlace(ctx context.Context, query string, bias *models.Coordinates) (*Candidate, error) {
	const op = "places.FindPlace"

	q := url.Values{}
	q.Set("input", query)
	q.Set("inputtype", "textquery")
	q.Set("fields", "place_id,name,formatted_address,geometry")
	if bias != nil {
		q.Set("locationbias", fmt.Sprintf("point:%.6f,%.6f", bias.Lat, bias.Lon))
	}

	var resp findPlaceResponse
	if err := c.get(ctx, op, SKUFindPlace, "/findplacefromtext/json", q, &resp); err != nil {
		return nil, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].PlaceID == "" {
		return nil, fault.E(op, fault.KindNotFound, fmt.Errorf("no candidates for %q", query))
	}

	p := &resp.Candidates[0]
	return &Candidate{
		PlaceID:          p.PlaceID,
		Name:             p.Name,
		FormattedAddress: p.FormattedAddress,
		Location:         p.coordinates(),
	}, nil
}

// Details fetches a place by id. Unknown ids return KindNotFound.
func (c *Client) Details(ctx context.Context, placeID string, opts DetailsOptions) (*Details, error) {
	const op = "places.Details"

	fields := []string{"place_id", "name", "formatted_address", "geometry", "types"}
	if opts.Hours {
		fields = append(fields, "opening_hours")
	}
	if opts.Photos {
		fields = append(fields, "photos")
	}
	q := url.Values{}
	q.Set("place_id", placeID)
	q.Set("fields", strings.Join(fields, ","))

	var resp detailsResponse
	if err := c.get(ctx, op, SKUPlaceDetails, "/details/json", q, &resp); err != nil {
		return nil, err
	}
	if resp.Result == nil {
		return nil, fault.E(op, fault.KindNotFound, fmt.Errorf("empty result for %s", placeID))
	}

	p := resp.Result
	d := &Details{
		PlaceID:          p.PlaceID,
		Name:             p.Name,
		FormattedAddress: p.FormattedAddress,
		Location:         p.coordinates(),
		Types:            p.Types,
	}
	if d.PlaceID == "" {
		d.PlaceID = placeID
	}
	if p.OpeningHours != nil {
		d.OpeningHours = p.OpeningHours.WeekdayText
	}
	for _, ph := range p.Photos {
		if ph.PhotoReference != "" {
			d.PhotoReferences = append(d.PhotoReferences, ph.PhotoReference)
		}
	}
	return d, nil
}

// PhotoURL builds a Place Photo URL. Fetching it is billed as SKUPlacePhoto.
func (c *Client) PhotoURL(reference string, maxWidth int) string {
	if maxWidth <= 0 {
		maxWidth = 1600
	}
	q := url.Values{}
	q.Set("maxwidth", strconv.Itoa(maxWidth))
	q.Set("photo_reference", reference)
	q.Set("key", c.apiKey)
	return c.baseURL + "/photo?" + q.Encode()
}

// get performs one paced, breaker-protected GET, checks the service status
// and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, op string, sku SKU, path string, q url.Values, out interface{}) error {
	if c.apiKey == "" {
		return fault.E(op, fault.KindInvalid, ErrNoAPIKey)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		kind := fault.KindUnavailable
		if ctx.Err() != nil {
			kind = fault.KindOf(ctx.Err())
		}
		return fault.E(op, kind, fmt.Errorf("rate limiter: %w", err))
	}

	start := time.Now()
	body, err := execute(c.breaker, op, func() ([]byte, error) {
		body, err := c.fetch(ctx, op, path, q)
		if err != nil {
			return nil, err
		}
		var st struct {
			Status       string `json:"status"`
			ErrorMessage string `json:"error_message"`
		}
		if err := json.Unmarshal(body, &st); err != nil {
			return nil, fault.E(op, fault.KindInvalid, fmt.Errorf("decode status: %w", err))
		}
		if err := statusError(op, st.Status, st.ErrorMessage); err != nil {
			return nil, err
		}
		return body, nil
	})
	metrics.RecordPlacesRequest(string(sku), time.Since(start), err)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fault.E(op, fault.KindInvalid, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, op, path string, q url.Values) ([]byte, error) {
	q.Set("key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return nil, fault.E(op, fault.KindInvalid, fmt.Errorf("create request: %w", err))
	}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// *url.Error embeds the request URL, which carries the API key.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		kind := fault.KindUnavailable
		if ctx.Err() != nil {
			kind = fault.KindOf(ctx.Err())
		}
		return nil, fault.E(op, kind, fmt.Errorf("request %s: %w", path, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)) //nolint:errcheck // best-effort detail
		kind := fault.KindInvalid
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			kind = fault.KindUnavailable
		}
		return nil, fault.E(op, kind, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fault.E(op, fault.KindUnavailable, fmt.Errorf("read response: %w", err))
	}
	return body, nil
}

// statusError maps the service's status field to a fault kind.
func statusError(op, status, message string) error {
	var kind fault.Kind
	switch status {
	case "OK":
		return nil
	case "ZERO_RESULTS", "NOT_FOUND":
		kind = fault.KindNotFound
	case "OVER_QUERY_LIMIT", "UNKNOWN_ERROR":
		kind = fault.KindUnavailable
	case "REQUEST_DENIED", "INVALID_REQUEST":
		kind = fault.KindInvalid
	default:
		kind = fault.KindUnknown
	}
	if message != "" {
		return fault.E(op, kind, fmt.Errorf("status %s: %s", status, message))
	}
	return fault.E(op, kind, fmt.Errorf("status %s", status))
}
