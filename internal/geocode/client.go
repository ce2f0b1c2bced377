// Package geocode resolves free-text addresses to coordinates through a
// Nominatim-compatible search API.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"

	"women-safety/internal/logger"
)

var (
	// ErrEmptyQuery is returned before any request for a blank query.
	ErrEmptyQuery = errors.New("empty geocode query")
	// ErrNotFound means the service answered but matched nothing.
	ErrNotFound = errors.New("address not found")
	// ErrUnavailable covers transport failures, timeouts and non-2xx replies.
	ErrUnavailable = errors.New("geocoding service unavailable")
	// ErrMalformed means the reply could not be decoded.
	ErrMalformed = errors.New("malformed geocoding response")
)

// Result is the best match for a query.
type Result struct {
	Query       string
	DisplayName string
	Point       orb.Point
}

func (r Result) Latitude() float64 { return r.Point.Lat() }
func (r Result) Longitude() float64 { return r.Point.Lon() }

// String returns the resolved address, or the coordinates when the service
// gave no display name.
func (r Result) String() string {
	if r.DisplayName != "" {
		return r.DisplayName
	}
	return fmt.Sprintf("%.6f, %.6f", r.Latitude(), r.Longitude())
}

// Geocoder resolves a free-text query to a single result.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (Result, error)
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	RetryCount int
}

type Client struct {
	http   *resty.Client
	logger logger.Logger
}

type place struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func NewClient(opts Options, log logger.Logger) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetTimeout(opts.Timeout).
		SetRetryCount(opts.RetryCount).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("User-Agent", opts.UserAgent).
		SetHeader("Accept", "application/json")

	return &Client{
		http:   client,
		logger: log,
	}
}

// Geocode returns the first match for query.
func (c *Client) Geocode(ctx context.Context, query string) (Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Result{}, ErrEmptyQuery
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":      query,
			"format": "jsonv2",
			"limit":  "1",
		}).
		Get("/search")
	if err != nil {
		c.logger.Warning("Geocoder", "request failed", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
		return Result{}, errors.Wrapf(ErrUnavailable, "search %q: %v", query, err)
	}
	if resp.IsError() {
		c.logger.Warning("Geocoder", "service returned error status", map[string]interface{}{
			"query":       query,
			"status_code": resp.StatusCode(),
		})
		return Result{}, errors.Wrapf(ErrUnavailable, "search %q: HTTP %d", query, resp.StatusCode())
	}
	if resp.StatusCode() == http.StatusNoContent {
		return Result{}, errors.Wrapf(ErrNotFound, "%q", query)
	}

	var places []place
	if err := json.Unmarshal(resp.Body(), &places); err != nil {
		return Result{}, errors.Wrapf(ErrMalformed, "decode reply for %q: %v", query, err)
	}
	if len(places) == 0 {
		return Result{}, errors.Wrapf(ErrNotFound, "%q", query)
	}

	result, err := places[0].toResult(query)
	if err != nil {
		return Result{}, err
	}

	c.logger.Debug("Geocoder", "query resolved", map[string]interface{}{
		"query":     query,
		"latitude":  result.Latitude(),
		"longitude": result.Longitude(),
	})
	return result, nil
}

func (p place) toResult(query string) (Result, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return Result{}, errors.Wrapf(ErrMalformed, "latitude %q", p.Lat)
	}
	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return Result{}, errors.Wrapf(ErrMalformed, "longitude %q", p.Lon)
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return Result{}, errors.Wrapf(ErrMalformed, "coordinates out of range (%f, %f)", lat, lon)
	}
	return Result{
		Query:       query,
		DisplayName: p.DisplayName,
		Point:       orb.Point{lon, lat},
	}, nil
}
