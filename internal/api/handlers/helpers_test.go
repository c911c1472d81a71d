package handlers_test

import (
	"database/sql"
	"testing"

	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/model"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/testutil"
)

// seedPortfolio stores a portfolio with three holdings and a baseline whose
// realised gains are 1200:
//
//	BTC  stcg -300  ltcg  200
//	ETH  stcg  400
//	USDC             ltcg -50
//
// Harvesting ETH alone saves 400.
func seedPortfolio(t *testing.T, db *sql.DB) model.Portfolio {
	t.Helper()

	p := testutil.NewPortfolio().WithName("Crypto").WithCurrency("USD").Build(t, db)
	testutil.CreateHoldings(t, db, p.ID,
		testutil.NewHolding("BTC").WithQuantity("0.5").WithPrice("60000").WithSTCG("-300", "0.2").WithLTCG("200", "0.3").Value(),
		testutil.NewHolding("ETH").WithQuantity("3").WithPrice("2500").WithSTCG("400", "3").Value(),
		testutil.NewHolding("USDC").WithQuantity("100").WithPrice("1").WithLTCG("-50", "100").Value(),
	)
	testutil.CreateCapitalGains(t, db, p.ID, testutil.MakeCapitalGains("1000", "200", "500", "100"))
	return p
}

func uuidParams(portfolioID string) map[string]string {
	return map[string]string{"uuid": portfolioID}
}
