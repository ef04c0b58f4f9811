package finance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

const (
	// LocalBaseURL is used when the dashboard runs on a developer machine.
	LocalBaseURL = "http://localhost:4003/api"
	// ServiceBaseURL is the docker-compose service name of the data backend.
	ServiceBaseURL = "http://backend:7003/api"
)

// ErrTransport wraps every network, status and payload failure of the upstream source.
var ErrTransport = errors.New("upstream transport failure")

// ResolveBaseURL picks the upstream base: explicit override, then the local
// development endpoint for loopback hosts, then the service default.
func ResolveBaseURL(override, host string) string {
	if o := strings.TrimSpace(override); o != "" {
		return strings.TrimRight(o, "/")
	}
	h := strings.TrimSpace(host)
	if hh, _, err := net.SplitHostPort(h); err == nil {
		h = hh
	}
	switch strings.ToLower(h) {
	case "localhost", "127.0.0.1":
		return LocalBaseURL
	}
	return ServiceBaseURL
}

// Fetched is a value obtained from the upstream source or, on failure, from the fallback.
type Fetched[T any] struct {
	Value    T
	Fallback bool
	Err      error
}

// Client reads the benchmark matrix and detail rows from the data backend.
// Failures never reach the caller of FetchMatrix / FetchDetailRows; the fallback is returned instead.
type Client struct {
	baseURL  string
	http     *http.Client
	fallback Fallback
	log      zerolog.Logger
}

func NewClient(baseURL string, fallback Fallback, log zerolog.Logger) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     http.DefaultClient,
		fallback: fallback,
		log:      log.With().Str("client", "spiva").Logger(),
	}
}

// BaseURL returns the resolved upstream base.
func (c *Client) BaseURL() string { return c.baseURL }

// FetchMatrix returns the live matrix or the fallback matrix.
func (c *Client) FetchMatrix(ctx context.Context) Matrix {
	return c.LoadMatrix(ctx).Value
}

// FetchDetailRows returns the live detail rows or the fallback rows.
func (c *Client) FetchDetailRows(ctx context.Context) []RawRow {
	return c.LoadDetailRows(ctx).Value
}

// LoadMatrix is FetchMatrix that also reports whether the fallback was used.
func (c *Client) LoadMatrix(ctx context.Context) Fetched[Matrix] {
	m, err := c.FetchMatrixResult(ctx)
	return withFallback(c, "chart-data", m, err, c.fallback.Matrix)
}

// LoadDetailRows is FetchDetailRows that also reports whether the fallback was used.
func (c *Client) LoadDetailRows(ctx context.Context) Fetched[[]RawRow] {
	rows, err := c.FetchDetailRowsResult(ctx)
	return withFallback(c, "spiva-table", rows, err, c.fallback.DetailRows)
}

// FetchMatrixResult performs a single GET of /chart-data.
func (c *Client) FetchMatrixResult(ctx context.Context) (Matrix, error) {
	var m Matrix
	if err := c.getJSON(ctx, "/chart-data", &m); err != nil {
		return Matrix{}, err
	}
	if len(m.Categories) == 0 {
		return Matrix{}, fmt.Errorf("%w: chart-data has no categories", ErrTransport)
	}
	if err := m.Validate(); err != nil {
		return Matrix{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return m, nil
}

// FetchDetailRowsResult performs a single GET of /spiva-table.
func (c *Client) FetchDetailRowsResult(ctx context.Context) ([]RawRow, error) {
	var rows []RawRow
	if err := c.getJSON(ctx, "/spiva-table", &rows); err != nil {
		return nil, err
	}
	if rows == nil {
		return nil, fmt.Errorf("%w: spiva-table returned null", ErrTransport)
	}
	return rows, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	body, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return fmt.Errorf("%w: failed to read %s: %v", ErrTransport, path, readErr)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s returned %d: %s", ErrTransport, path, resp.StatusCode, preview(body))
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%w: failed to parse %s json: %v; body: %s", ErrTransport, path, err, preview(body))
	}
	return nil
}

func withFallback[T any](c *Client, what string, v T, err error, fb func() T) Fetched[T] {
	if err == nil {
		return Fetched[T]{Value: v}
	}
	c.log.Warn().Err(err).Str("resource", what).Str("base_url", c.baseURL).Msg("Upstream unavailable, using fallback data")
	return Fetched[T]{Value: fb(), Fallback: true, Err: err}
}

func preview(body []byte) string {
	s := string(body)
	if len(s) > 120 {
		s = s[:120]
	}
	return s
}
