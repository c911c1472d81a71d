package source

import (
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/model"
)

// Holding is one asset in the data source's wire format.
// Numbers may be sent as JSON numbers or numeric strings.
type Holding struct {
	Coin            string          `json:"coin"`
	CoinName        string          `json:"coinName"`
	Logo            string          `json:"logo"`
	CurrentPrice    decimal.Decimal `json:"currentPrice"`
	TotalHolding    decimal.Decimal `json:"totalHolding"`
	AverageBuyPrice decimal.Decimal `json:"averageBuyPrice"`
	STCG            Lot             `json:"stcg"`
	LTCG            Lot             `json:"ltcg"`
}

// Lot is the per-horizon gain of a Holding.
type Lot struct {
	Balance decimal.Decimal `json:"balance"`
	Gain    decimal.Decimal `json:"gain"`
}

// CapitalGains is the realised gains payload in the data source's wire format.
type CapitalGains struct {
	STCG Horizon `json:"stcg"`
	LTCG Horizon `json:"ltcg"`
}

// Horizon holds the profits and losses of one tax horizon.
type Horizon struct {
	Profits decimal.Decimal `json:"profits"`
	Losses  decimal.Decimal `json:"losses"`
}

// ToModel converts the wire holding into the domain type.
func (h Holding) ToModel() model.Holding {
	return model.Holding{
		ID:            h.Coin,
		Name:          h.CoinName,
		Logo:          h.Logo,
		TotalQuantity: h.TotalHolding,
		AverageCost:   h.AverageBuyPrice,
		CurrentPrice:  h.CurrentPrice,
		STCG:          model.TaxLotGain{Gain: h.STCG.Gain, Balance: h.STCG.Balance},
		LTCG:          model.TaxLotGain{Gain: h.LTCG.Gain, Balance: h.LTCG.Balance},
	}
}

// FromModel converts a domain holding back into the wire format.
func FromModel(h model.Holding) Holding {
	return Holding{
		Coin:            h.ID,
		CoinName:        h.Name,
		Logo:            h.Logo,
		CurrentPrice:    h.CurrentPrice,
		TotalHolding:    h.TotalQuantity,
		AverageBuyPrice: h.AverageCost,
		STCG:            Lot{Balance: h.STCG.Balance, Gain: h.STCG.Gain},
		LTCG:            Lot{Balance: h.LTCG.Balance, Gain: h.LTCG.Gain},
	}
}

// ToModel converts the wire summary into the domain type.
func (c CapitalGains) ToModel() model.CapitalGainsSummary {
	return model.CapitalGainsSummary{
		STCG: model.HorizonGains{Profits: c.STCG.Profits, Losses: c.STCG.Losses},
		LTCG: model.HorizonGains{Profits: c.LTCG.Profits, Losses: c.LTCG.Losses},
	}
}
