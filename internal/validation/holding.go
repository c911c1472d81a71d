package validation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/model"
)

// ValidateHoldings checks a holdings list before it is stored:
// ids must be present and unique, and quantities, prices and lot balances
// must not be negative. Gains may take any sign.
func ValidateHoldings(holdings []model.Holding) error {
	verr := &Error{}
	seen := make(map[string]int, len(holdings))

	for i, h := range holdings {
		prefix := fmt.Sprintf("holdings[%d]", i)

		id := strings.TrimSpace(h.ID)
		if id == "" {
			verr.add(prefix+".id", "is required")
		} else if first, dup := seen[id]; dup {
			verr.add(prefix+".id", fmt.Sprintf("duplicates holdings[%d]", first))
		} else {
			seen[id] = i
		}

		nonNegative(verr, prefix+".totalQuantity", h.TotalQuantity)
		nonNegative(verr, prefix+".averageCost", h.AverageCost)
		nonNegative(verr, prefix+".currentPrice", h.CurrentPrice)
		nonNegative(verr, prefix+".stcg.balance", h.STCG.Balance)
		nonNegative(verr, prefix+".ltcg.balance", h.LTCG.Balance)
	}

	return verr.orNil()
}

// ValidateCapitalGains checks that every profit and loss magnitude is non-negative.
func ValidateCapitalGains(summary model.CapitalGainsSummary) error {
	verr := &Error{}
	nonNegative(verr, "stcg.profits", summary.STCG.Profits)
	nonNegative(verr, "stcg.losses", summary.STCG.Losses)
	nonNegative(verr, "ltcg.profits", summary.LTCG.Profits)
	nonNegative(verr, "ltcg.losses", summary.LTCG.Losses)
	return verr.orNil()
}

func nonNegative(verr *Error, field string, v decimal.Decimal) {
	if v.IsNegative() {
		verr.add(field, "must not be negative")
	}
}
