package harvest

import (
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/model"
)

// RealisedGains returns the net realised capital gain of a summary:
// (stcg.profits - stcg.losses) + (ltcg.profits - ltcg.losses).
// A nil summary means the baseline has not been loaded yet and yields zero.
func RealisedGains(summary *model.CapitalGainsSummary) decimal.Decimal {
	if summary == nil {
		return decimal.Zero
	}
	return summary.STCG.Net().Add(summary.LTCG.Net())
}
