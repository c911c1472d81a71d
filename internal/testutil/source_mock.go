package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/model"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/source"
)

// MockSourceClient is a mock implementation of source.Fetcher for testing.
// It returns predefined data instead of making HTTP calls.
type MockSourceClient struct {
	// MockHoldings is returned from FetchHoldings
	MockHoldings []model.Holding
	// MockCapitalGains is returned from FetchCapitalGains
	MockCapitalGains *model.CapitalGainsSummary
	// MockError is returned from both fetch methods when set
	MockError error
	// FetchCount tracks how many fetches were made; fetches run concurrently
	FetchCount atomic.Int32
}

// NewMockSourceClient creates a mock source with three holdings and a baseline.
func NewMockSourceClient() *MockSourceClient {
	cg := MakeCapitalGains("70200.88", "1548.53", "5020", "3050")
	return &MockSourceClient{
		MockHoldings: []model.Holding{
			NewHolding("BTC").WithSTCG("-1200", "0.5").WithLTCG("300", "1").Value(),
			NewHolding("ETH").WithSTCG("500", "2").Value(),
			NewHolding("USDC").WithLTCG("-50", "100").Value(),
		},
		MockCapitalGains: &cg,
	}
}

// FetchHoldings returns the configured MockHoldings and MockError.
func (m *MockSourceClient) FetchHoldings(_ context.Context, _ string) ([]model.Holding, error) {
	m.FetchCount.Add(1)
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockHoldings, nil
}

// FetchCapitalGains returns the configured MockCapitalGains and MockError.
func (m *MockSourceClient) FetchCapitalGains(_ context.Context, _ string) (*model.CapitalGainsSummary, error) {
	m.FetchCount.Add(1)
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockCapitalGains, nil
}

// WithError configures the mock to return the specified error.
func (m *MockSourceClient) WithError(err error) *MockSourceClient {
	m.MockError = err
	return m
}

// NewSourceServer starts an HTTP server that serves holdings and capital gains
// in the data source's wire format, with the summary nested under "capitalGains".
// The server is closed when the test completes.
func NewSourceServer(t *testing.T, holdings []model.Holding, cg model.CapitalGainsSummary) *httptest.Server {
	t.Helper()

	wire := make([]source.Holding, len(holdings))
	for i, h := range holdings {
		wire[i] = source.FromModel(h)
	}

	mux := http.NewServeMux()
	mux.HandleFunc(source.HoldingsEndpoint, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(wire)
	})
	mux.HandleFunc(source.CapitalGainsEndpoint, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"capitalGains": cg})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}
