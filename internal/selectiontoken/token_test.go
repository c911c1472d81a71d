package selectiontoken

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/apperrors"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/harvest"
)

func TestCodec(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey() returned unexpected error: %v", err)
	}
	codec, err := NewCodec(key, time.Hour)
	if err != nil {
		t.Fatalf("NewCodec() returned unexpected error: %v", err)
	}

	t.Run("round trips portfolio and selection", func(t *testing.T) {
		tok, err := codec.Encode("portfolio-1", harvest.NewSelection("ETH", "BTC"))
		if err != nil {
			t.Fatalf("Encode() returned unexpected error: %v", err)
		}

		portfolioID, sel, err := codec.Decode(tok)
		if err != nil {
			t.Fatalf("Decode() returned unexpected error: %v", err)
		}
		if portfolioID != "portfolio-1" {
			t.Errorf("Expected portfolio-1, got %s", portfolioID)
		}
		if want := []string{"BTC", "ETH"}; !slices.Equal(sel.IDs(), want) {
			t.Errorf("Expected %v, got %v", want, sel.IDs())
		}
	})

	t.Run("empty selection survives", func(t *testing.T) {
		tok, err := codec.Encode("p", nil)
		if err != nil {
			t.Fatalf("Encode() returned unexpected error: %v", err)
		}
		_, sel, err := codec.Decode(tok)
		if err != nil {
			t.Fatalf("Decode() returned unexpected error: %v", err)
		}
		if sel.Len() != 0 {
			t.Errorf("Expected empty selection, got %v", sel.IDs())
		}
	})

	t.Run("rejects tampered tokens", func(t *testing.T) {
		tok, err := codec.Encode("p", harvest.NewSelection("BTC"))
		if err != nil {
			t.Fatalf("Encode() returned unexpected error: %v", err)
		}
		tampered := []byte(tok)
		tampered[len(tampered)/2] ^= 1

		if _, _, err := codec.Decode(string(tampered)); !errors.Is(err, apperrors.ErrInvalidSelectionToken) {
			t.Errorf("Expected ErrInvalidSelectionToken, got %v", err)
		}
		if _, _, err := codec.Decode("not-a-token"); !errors.Is(err, apperrors.ErrInvalidSelectionToken) {
			t.Errorf("Expected ErrInvalidSelectionToken, got %v", err)
		}
	})

	t.Run("rejects tokens signed with another key", func(t *testing.T) {
		other, err := NewCodec("", time.Hour)
		if err != nil {
			t.Fatalf("NewCodec() returned unexpected error: %v", err)
		}
		tok, err := other.Encode("p", harvest.NewSelection("BTC"))
		if err != nil {
			t.Fatalf("Encode() returned unexpected error: %v", err)
		}

		if _, _, err := codec.Decode(tok); !errors.Is(err, apperrors.ErrInvalidSelectionToken) {
			t.Errorf("Expected ErrInvalidSelectionToken, got %v", err)
		}
	})

	t.Run("rejects invalid keys", func(t *testing.T) {
		if _, err := NewCodec("short", time.Hour); err == nil {
			t.Error("Expected error for invalid key")
		}
	})
}
