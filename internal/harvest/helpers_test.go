package harvest

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func summary(stcgProfits, stcgLosses, ltcgProfits, ltcgLosses string) *model.CapitalGainsSummary {
	return &model.CapitalGainsSummary{
		STCG: model.HorizonGains{Profits: dec(stcgProfits), Losses: dec(stcgLosses)},
		LTCG: model.HorizonGains{Profits: dec(ltcgProfits), Losses: dec(ltcgLosses)},
	}
}

func holding(id, stcgGain, ltcgGain string) model.Holding {
	return model.Holding{
		ID:            id,
		TotalQuantity: dec("1"),
		AverageCost:   dec("1"),
		CurrentPrice:  dec("1"),
		STCG:          model.TaxLotGain{Gain: dec(stcgGain), Balance: decimal.Zero},
		LTCG:          model.TaxLotGain{Gain: dec(ltcgGain), Balance: decimal.Zero},
	}
}

func assertSummary(t *testing.T, want, got *model.CapitalGainsSummary) {
	t.Helper()
	if got == nil {
		t.Fatal("Expected a summary, got nil")
	}
	checks := []struct {
		field     string
		want, got decimal.Decimal
	}{
		{"stcg.profits", want.STCG.Profits, got.STCG.Profits},
		{"stcg.losses", want.STCG.Losses, got.STCG.Losses},
		{"ltcg.profits", want.LTCG.Profits, got.LTCG.Profits},
		{"ltcg.losses", want.LTCG.Losses, got.LTCG.Losses},
	}
	for _, c := range checks {
		if !c.want.Equal(c.got) {
			t.Errorf("%s: expected %s, got %s", c.field, c.want, c.got)
		}
	}
}
