package source

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/PaesslerAG/jsonpath"

	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/apperrors"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/model"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/validation"
)

// DecodeHoldings extracts the holdings list found at path in data and validates it.
// Malformed JSON or a path that does not resolve yields apperrors.ErrMalformedPayload;
// well-formed but invalid holdings yield a *validation.Error.
func DecodeHoldings(data []byte, path string) ([]model.Holding, error) {
	var wire []Holding
	if err := extract(data, path, false, &wire); err != nil {
		return nil, err
	}

	holdings := make([]model.Holding, len(wire))
	for i, w := range wire {
		holdings[i] = w.ToModel()
	}

	if err := validation.ValidateHoldings(holdings); err != nil {
		return nil, err
	}
	return holdings, nil
}

// DecodeCapitalGains extracts the capital gains summary found at path in data and validates it.
func DecodeCapitalGains(data []byte, path string) (*model.CapitalGainsSummary, error) {
	var wire CapitalGains
	if err := extract(data, path, true, &wire); err != nil {
		return nil, err
	}

	summary := wire.ToModel()
	if err := validation.ValidateCapitalGains(summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// extract evaluates path against data and decodes the match into out.
// Numbers are kept as json.Number so decimals survive the round trip exactly.
func extract(data []byte, path string, single bool, out any) error {
	if path == "" {
		path = "$"
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var jobj any
	if err := dec.Decode(&jobj); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrMalformedPayload, err)
	}

	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return fmt.Errorf("%w: path %q: %v", apperrors.ErrMalformedPayload, path, err)
	}
	// Filter expressions return a list even for a single match.
	if jlist, ok := jval.([]any); single && ok && len(jlist) == 1 {
		jval = jlist[0]
	}
	if jval == nil {
		return fmt.Errorf("%w: nothing found at %q", apperrors.ErrMalformedPayload, path)
	}

	raw, err := json.Marshal(jval)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrMalformedPayload, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrMalformedPayload, err)
	}
	return nil
}
