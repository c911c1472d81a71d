package testutil

import (
	"database/sql"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/logging"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/repository"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/selectiontoken"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/service"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/source"
)

// DefaultSelectionTTL is the session TTL used by NewTestSelectionService.
const DefaultSelectionTTL = 30 * time.Minute

func NewTestPortfolioService(t *testing.T, db *sql.DB) *service.PortfolioService {
	t.Helper()

	return service.NewPortfolioService(repository.NewPortfolioRepository(db), "INR")
}

func NewTestHarvestService(t *testing.T, db *sql.DB) *service.HarvestService {
	t.Helper()

	return service.NewHarvestService(
		db,
		repository.NewPortfolioRepository(db),
		repository.NewHoldingRepository(db),
		repository.NewCapitalGainsRepository(db),
	)
}

func NewTestSelectionService(t *testing.T, db *sql.DB) *service.SelectionService {
	t.Helper()

	return service.NewSelectionService(NewTestHarvestService(t, db), DefaultSelectionTTL, logging.Discard())
}

// NewTestSyncService wires a SyncService to the given fetcher. Pass a
// *MockSourceClient, or a real *source.Client pointed at NewSourceServer.
func NewTestSyncService(t *testing.T, db *sql.DB, fetcher source.Fetcher) *service.SyncService {
	t.Helper()

	return service.NewSyncService(
		repository.NewPortfolioRepository(db),
		NewTestHarvestService(t, db),
		fetcher,
		logging.Discard(),
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db, map[string]bool{"selection_tokens": true})
}

// NewTestSourceClient returns a source client configured the way the server is by default.
func NewTestSourceClient() *source.Client {
	return source.NewClient(source.Options{
		Timeout:      5 * time.Second,
		HoldingsPath: "$",
		GainsPath:    "$.capitalGains",
	})
}

// NewTestCodec returns a selection token codec with a fresh random key.
func NewTestCodec(t *testing.T) *selectiontoken.Codec {
	t.Helper()

	codec, err := selectiontoken.NewCodec("", time.Hour)
	if err != nil {
		t.Fatalf("Failed to create selection token codec: %v", err)
	}
	return codec
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakePortfolioName generates a unique portfolio name for testing.
//
// Example usage:
//
//	name := testutil.MakePortfolioName("MyPortfolio")
//	// Returns: "MyPortfolio ABC123"
func MakePortfolioName(base string) string {
	if base == "" {
		base = "Portfolio"
	}
	return base + " " + randomAlphanumeric(6)
}

// MakeSymbol generates an asset symbol for testing.
//
// Example usage:
//
//	symbol := testutil.MakeSymbol("BTC")
//	// Returns: "BTC1A2B"
func MakeSymbol(base string) string {
	if base == "" {
		base = "TEST"
	}
	return base + randomAlphanumeric(4)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
