package harvest

import (
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/model"
)

// Outcome is the full set of figures shown for a selection.
// Before and After are nil while the baseline is unavailable.
type Outcome struct {
	Before         *model.CapitalGainsSummary `json:"before"`
	After          *model.CapitalGainsSummary `json:"after"`
	RealisedBefore decimal.Decimal            `json:"realisedBefore"`
	RealisedAfter  decimal.Decimal            `json:"realisedAfter"`
	Savings        decimal.Decimal            `json:"savings"`
}

// Simulate returns the capital gains summary that results from harvesting the
// selected holdings. The baseline is never modified.
//
// For every selected holding, each horizon is adjusted independently: a
// positive gain is removed from that horizon's profits and a negative gain is
// removed (as a magnitude) from its losses. Selected ids with no matching
// holding are ignored. Every field of the result is clamped at zero.
//
// A nil baseline yields a nil result.
func Simulate(baseline *model.CapitalGainsSummary, holdings []model.Holding, selection *Selection) *model.CapitalGainsSummary {
	if baseline == nil {
		return nil
	}

	result := *baseline
	if selection.Len() > 0 {
		byID := indexHoldings(holdings)
		for _, id := range selection.IDs() {
			h, ok := byID[id]
			if !ok {
				continue
			}
			result.STCG = applyGain(result.STCG, h.STCG.Gain)
			result.LTCG = applyGain(result.LTCG, h.LTCG.Gain)
		}
	}

	result.STCG = clamp(result.STCG)
	result.LTCG = clamp(result.LTCG)
	return &result
}

// Savings is the reduction in realised gains produced by the selection,
// floored at zero. It is zero when the baseline is nil.
func Savings(baseline *model.CapitalGainsSummary, holdings []model.Holding, selection *Selection) decimal.Decimal {
	if baseline == nil {
		return decimal.Zero
	}
	after := Simulate(baseline, holdings, selection)
	return decimal.Max(decimal.Zero, RealisedGains(baseline).Sub(RealisedGains(after)))
}

// Evaluate computes every derived figure for the selection in one pass.
func Evaluate(baseline *model.CapitalGainsSummary, holdings []model.Holding, selection *Selection) Outcome {
	if baseline == nil {
		return Outcome{
			RealisedBefore: decimal.Zero,
			RealisedAfter:  decimal.Zero,
			Savings:        decimal.Zero,
		}
	}

	before := *baseline
	after := Simulate(baseline, holdings, selection)
	realisedBefore := RealisedGains(&before)
	realisedAfter := RealisedGains(after)

	return Outcome{
		Before:         &before,
		After:          after,
		RealisedBefore: realisedBefore,
		RealisedAfter:  realisedAfter,
		Savings:        decimal.Max(decimal.Zero, realisedBefore.Sub(realisedAfter)),
	}
}

// AmountToSell is the quantity that harvesting the holding would sell: its
// whole position when selected, zero otherwise.
func AmountToSell(h model.Holding, selection *Selection) decimal.Decimal {
	if selection.Contains(h.ID) {
		return h.TotalQuantity
	}
	return decimal.Zero
}

func applyGain(g model.HorizonGains, gain decimal.Decimal) model.HorizonGains {
	switch gain.Sign() {
	case 1:
		g.Profits = g.Profits.Sub(gain)
	case -1:
		g.Losses = g.Losses.Sub(gain.Abs())
	}
	return g
}

func clamp(g model.HorizonGains) model.HorizonGains {
	return model.HorizonGains{
		Profits: decimal.Max(decimal.Zero, g.Profits),
		Losses:  decimal.Max(decimal.Zero, g.Losses),
	}
}

// indexHoldings maps ids to holdings. The first holding wins when ids repeat.
func indexHoldings(holdings []model.Holding) map[string]model.Holding {
	byID := make(map[string]model.Holding, len(holdings))
	for _, h := range holdings {
		if _, seen := byID[h.ID]; !seen {
			byID[h.ID] = h
		}
	}
	return byID
}
