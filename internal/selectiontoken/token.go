// Package selectiontoken issues shareable, tamper-proof snapshots of a
// harvest selection. Tokens are fernet-encrypted so that holding ids are not
// readable by clients and expire after a configurable age.
package selectiontoken

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fernet/fernet-go"

	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/apperrors"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/harvest"
)

// payload is the plaintext sealed in a token.
type payload struct {
	PortfolioID string   `json:"p"`
	Selected    []string `json:"s"`
}

// Codec encodes and decodes selection tokens.
type Codec struct {
	key *fernet.Key
	ttl time.Duration
}

// NewCodec creates a Codec from a base64 fernet key. An empty key generates a
// random one, so tokens only stay valid for the lifetime of the process.
func NewCodec(key string, ttl time.Duration) (*Codec, error) {
	var k *fernet.Key
	if key == "" {
		k = new(fernet.Key)
		if err := k.Generate(); err != nil {
			return nil, fmt.Errorf("failed to generate selection token key: %w", err)
		}
	} else {
		var err error
		k, err = fernet.DecodeKey(key)
		if err != nil {
			return nil, fmt.Errorf("invalid selection token key: %w", err)
		}
	}
	return &Codec{key: k, ttl: ttl}, nil
}

// GenerateKey returns a new random key in the encoding NewCodec accepts.
func GenerateKey() (string, error) {
	var k fernet.Key
	if err := k.Generate(); err != nil {
		return "", err
	}
	return k.Encode(), nil
}

// Encode seals the selection of a portfolio into a token.
func (c *Codec) Encode(portfolioID string, selection *harvest.Selection) (string, error) {
	msg, err := json.Marshal(payload{PortfolioID: portfolioID, Selected: selection.IDs()})
	if err != nil {
		return "", err
	}

	tok, err := fernet.EncryptAndSign(msg, c.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign selection token: %w", err)
	}
	return string(tok), nil
}

// Decode opens a token and returns the portfolio id and selection it carries.
// Tampered, foreign or expired tokens yield apperrors.ErrInvalidSelectionToken.
func (c *Codec) Decode(token string) (string, *harvest.Selection, error) {
	msg := fernet.VerifyAndDecrypt([]byte(token), c.ttl, []*fernet.Key{c.key})
	if msg == nil {
		return "", nil, apperrors.ErrInvalidSelectionToken
	}

	var p payload
	if err := json.Unmarshal(msg, &p); err != nil {
		return "", nil, apperrors.ErrInvalidSelectionToken
	}
	return p.PortfolioID, harvest.NewSelection(p.Selected...), nil
}
