package model

import "github.com/shopspring/decimal"

// HorizonGains holds the realised profits and losses of one tax horizon.
// Losses is stored as a non-negative magnitude.
type HorizonGains struct {
	Profits decimal.Decimal `json:"profits"`
	Losses  decimal.Decimal `json:"losses"`
}

// Net returns profits minus losses.
func (g HorizonGains) Net() decimal.Decimal {
	return g.Profits.Sub(g.Losses)
}

// CapitalGainsSummary is the capital gains position of a portfolio split into
// short-term (STCG) and long-term (LTCG) horizons.
type CapitalGainsSummary struct {
	STCG HorizonGains `json:"stcg"`
	LTCG HorizonGains `json:"ltcg"`
}
