package report

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/harvest"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/model"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount   string
		currency string
		want     string
	}{
		{"1234.56", "USD", "$1,234.56"},
		{"-1234.56", "USD", "-$1,234.56"},
		{"0.005", "USD", "$0.01"},
		{"0", "USD", "$0.00"},
		{"12.5", "XXZ", "12.50 XXZ"},
	}

	for _, tt := range tests {
		t.Run(tt.amount+" "+tt.currency, func(t *testing.T) {
			if got := FormatMoney(d(tt.amount), tt.currency); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func sampleReport() Report {
	holdings := []model.Holding{
		{ID: "BTC", Name: "Bitcoin", TotalQuantity: d("0.5"), AverageCost: d("100"), CurrentPrice: d("80"),
			STCG: model.TaxLotGain{Gain: d("-1000"), Balance: d("0.5")}},
		{ID: "ETH", Name: "Ethereum", TotalQuantity: d("2"), AverageCost: d("10"), CurrentPrice: d("12"),
			LTCG: model.TaxLotGain{Gain: d("4"), Balance: d("2")}},
	}
	baseline := &model.CapitalGainsSummary{
		STCG: model.HorizonGains{Profits: d("5000"), Losses: d("1000")},
		LTCG: model.HorizonGains{Profits: d("300"), Losses: d("0")},
	}
	sel := harvest.NewSelection("BTC")
	return Report{
		Title:     "Crypto | Main",
		Currency:  "USD",
		Holdings:  holdings,
		Selection: sel,
		Outcome:   harvest.Evaluate(baseline, holdings, sel),
	}
}

func TestMarkdown(t *testing.T) {
	t.Run("renders cards, savings and selected holdings", func(t *testing.T) {
		md := Markdown(sampleReport())

		for _, want := range []string{
			`# Tax Loss Harvesting: Crypto \| Main`,
			"## Before Harvesting",
			"| Profits | $5,000.00 | $300.00 |",
			"| Net Capital Gains | $4,000.00 | $300.00 |",
			"**Realised Capital Gains:** $4,300.00",
			"## After Harvesting",
			"| Losses | $0.00 | $0.00 |",
			"**Realised Capital Gains:** $5,300.00",
			"| **BTC** Bitcoin | 0.5 | $100.00 | $80.00 | -$1,000.00 | $0.00 | 0.5 |",
		} {
			if !strings.Contains(md, want) {
				t.Errorf("Expected markdown to contain %q\n%s", want, md)
			}
		}
		if strings.Contains(md, "ETH") {
			t.Errorf("Expected unselected ETH to be left out\n%s", md)
		}
		// Harvesting a loss raises realised gains here, so there is nothing to save.
		if strings.Contains(md, "going to save") {
			t.Errorf("Expected no savings message\n%s", md)
		}
	})

	t.Run("shows savings when positive", func(t *testing.T) {
		r := sampleReport()
		r.Selection = harvest.NewSelection("ETH")
		r.Outcome = harvest.Evaluate(r.Outcome.Before, r.Holdings, r.Selection)

		md := Markdown(r)
		if !strings.Contains(md, "> You're going to save **$4.00**") {
			t.Errorf("Expected savings message\n%s", md)
		}
	})

	t.Run("missing baseline and empty selection", func(t *testing.T) {
		md := Markdown(Report{Currency: "USD"})

		if strings.Count(md, "_No data available_") != 2 {
			t.Errorf("Expected both cards to report no data\n%s", md)
		}
		if !strings.Contains(md, "_No holdings selected_") {
			t.Errorf("Expected empty selection notice\n%s", md)
		}
	})
}

func TestHTML(t *testing.T) {
	html, err := HTML(Markdown(sampleReport()))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	for _, want := range []string{"<h1>", "<table>", "<h2>After Harvesting</h2>"} {
		if !strings.Contains(html, want) {
			t.Errorf("Expected html to contain %q\n%s", want, html)
		}
	}

	doc, err := HTMLDocument("<Report>", "# Hi")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(doc, "<title>&lt;Report&gt;</title>") || !strings.Contains(doc, "<h1>Hi</h1>") {
		t.Errorf("Unexpected document\n%s", doc)
	}
}
