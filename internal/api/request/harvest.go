package request

import (
	"encoding/json"
	"strings"
)

// HarvestRequest is the body of a stateless harvest simulation. Either
// Selected lists the holding ids to harvest or Token carries a previously
// issued selection token; Token wins when both are set.
type HarvestRequest struct {
	Selected []string `json:"selected"`
	Token    string   `json:"token,omitempty"`
}

// ToggleRequest names the holding to toggle in a selection session.
type ToggleRequest struct {
	ID string `json:"id"`
}

// ImportRequest carries holdings and capital gains in the data source's wire
// format. Both payloads are decoded by the source package.
type ImportRequest struct {
	Holdings     json.RawMessage `json:"holdings"`
	CapitalGains json.RawMessage `json:"capitalGains"`
}

// ParseIDList splits a comma-separated id list, dropping blanks.
func ParseIDList(param string) []string {
	if strings.TrimSpace(param) == "" {
		return []string{}
	}
	var ids []string
	for _, id := range strings.Split(param, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// CreateSelectionRequest starts a selection session. The body is optional;
// Token restores a shared selection and wins over Selected.
type CreateSelectionRequest struct {
	Selected []string `json:"selected"`
	Token    string   `json:"token,omitempty"`
}
