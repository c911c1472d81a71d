package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/model"
)

// Endpoints relative to a portfolio's source URL.
const (
	HoldingsEndpoint     = "/holdings"
	CapitalGainsEndpoint = "/capital-gains"
)

// maxBodySize caps how much of a source response is read.
const maxBodySize = 10 << 20

// Fetcher retrieves holdings and the capital gains baseline from a data source.
// The service layer depends on this interface so tests can substitute a fake.
type Fetcher interface {
	FetchHoldings(ctx context.Context, baseURL string) ([]model.Holding, error)
	FetchCapitalGains(ctx context.Context, baseURL string) (*model.CapitalGainsSummary, error)
}

// Options configures a Client.
type Options struct {
	Timeout      time.Duration
	HoldingsPath string // JSONPath of the holdings list in the holdings response
	GainsPath    string // JSONPath of the summary in the capital gains response
}

// Client fetches portfolio data over HTTP from the service that exposes a
// portfolio's holdings and realised gains.
type Client struct {
	httpClient   *http.Client
	holdingsPath string
	gainsPath    string
}

// NewClient creates a Client with the given timeout and payload locations.
func NewClient(opts Options) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: opts.Timeout},
		holdingsPath: opts.HoldingsPath,
		gainsPath:    opts.GainsPath,
	}
}

// FetchHoldings retrieves and decodes the holdings list from baseURL.
func (c *Client) FetchHoldings(ctx context.Context, baseURL string) ([]model.Holding, error) {
	data, err := c.get(ctx, endpoint(baseURL, HoldingsEndpoint))
	if err != nil {
		return nil, err
	}
	return DecodeHoldings(data, c.holdingsPath)
}

// FetchCapitalGains retrieves and decodes the capital gains baseline from baseURL.
func (c *Client) FetchCapitalGains(ctx context.Context, baseURL string) (*model.CapitalGainsSummary, error) {
	data, err := c.get(ctx, endpoint(baseURL, CapitalGainsEndpoint))
	if err != nil {
		return nil, err
	}
	return DecodeCapitalGains(data, c.gainsPath)
}

func endpoint(baseURL, path string) string {
	return strings.TrimRight(baseURL, "/") + path
}

// get executes a GET request and returns the response body.
// Any status other than 200 is reported as an error.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request %s: unexpected status %s", url, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	return data, nil
}
