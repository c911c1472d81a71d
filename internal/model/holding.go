package model

import "github.com/shopspring/decimal"

// TaxLotGain is the realised gain or loss of one holding for one tax horizon.
// Balance is the unsold quantity that contributes to Gain and is never negative.
type TaxLotGain struct {
	Gain    decimal.Decimal `json:"gain"`
	Balance decimal.Decimal `json:"balance"`
}

// Holding is a single asset position with its gains already split into a
// short-term and a long-term figure. ID is the asset symbol and is unique
// within a portfolio.
type Holding struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Logo          string          `json:"logo,omitempty"`
	TotalQuantity decimal.Decimal `json:"totalQuantity"`
	AverageCost   decimal.Decimal `json:"averageCost"`
	CurrentPrice  decimal.Decimal `json:"currentPrice"`
	STCG          TaxLotGain      `json:"stcg"`
	LTCG          TaxLotGain      `json:"ltcg"`
}

// TotalGain is the combined short-term and long-term gain of the holding.
func (h Holding) TotalGain() decimal.Decimal {
	return h.STCG.Gain.Add(h.LTCG.Gain)
}
