// Package report renders a harvest outcome as Markdown or HTML.
package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/harvest"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/model"
)

// Report holds everything rendered for one selection of one portfolio.
type Report struct {
	Title     string
	Currency  string
	Holdings  []model.Holding
	Selection *harvest.Selection
	Outcome   harvest.Outcome
}

// Markdown renders the before and after capital gains, the realised gains,
// the savings when there are any, and the selected holdings.
func Markdown(r Report) string {
	var b strings.Builder

	title := "Tax Loss Harvesting"
	if r.Title != "" {
		title += ": " + escape(r.Title)
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	writeGains(&b, "Before Harvesting", r.Outcome.Before, r.Outcome.RealisedBefore, r.Currency)
	writeGains(&b, "After Harvesting", r.Outcome.After, r.Outcome.RealisedAfter, r.Currency)
	if r.Outcome.Savings.IsPositive() {
		fmt.Fprintf(&b, "> You're going to save **%s**\n\n", FormatMoney(r.Outcome.Savings, r.Currency))
	}

	writeSelected(&b, r)
	return b.String()
}

func writeGains(b *strings.Builder, heading string, gains *model.CapitalGainsSummary, realised decimal.Decimal, currency string) {
	fmt.Fprintf(b, "## %s\n\n", heading)
	if gains == nil {
		fmt.Fprint(b, "_No data available_\n\n")
		return
	}

	fmt.Fprintln(b, "| | Short-term | Long-term |")
	fmt.Fprintln(b, "|:---|---:|---:|")
	fmt.Fprintf(b, "| Profits | %s | %s |\n",
		FormatMoney(gains.STCG.Profits, currency), FormatMoney(gains.LTCG.Profits, currency))
	fmt.Fprintf(b, "| Losses | %s | %s |\n",
		FormatMoney(gains.STCG.Losses, currency), FormatMoney(gains.LTCG.Losses, currency))
	fmt.Fprintf(b, "| Net Capital Gains | %s | %s |\n\n",
		FormatMoney(gains.STCG.Net(), currency), FormatMoney(gains.LTCG.Net(), currency))
	fmt.Fprintf(b, "**Realised Capital Gains:** %s\n\n", FormatMoney(realised, currency))
}

func writeSelected(b *strings.Builder, r Report) {
	fmt.Fprint(b, "## Selected Holdings\n\n")

	var rows []model.Holding
	for _, h := range r.Holdings {
		if r.Selection.Contains(h.ID) {
			rows = append(rows, h)
		}
	}
	if len(rows) == 0 {
		fmt.Fprint(b, "_No holdings selected_\n")
		return
	}

	fmt.Fprintln(b, "| Asset | Holdings | Avg Buy Price | Current Price | Short-Term Gain | Long-Term Gain | Amount to Sell |")
	fmt.Fprintln(b, "|:---|---:|---:|---:|---:|---:|---:|")
	for _, h := range rows {
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			assetLabel(h),
			FormatQuantity(h.TotalQuantity),
			FormatMoney(h.AverageCost, r.Currency),
			FormatMoney(h.CurrentPrice, r.Currency),
			FormatMoney(h.STCG.Gain, r.Currency),
			FormatMoney(h.LTCG.Gain, r.Currency),
			FormatQuantity(harvest.AmountToSell(h, r.Selection)),
		)
	}
}

func assetLabel(h model.Holding) string {
	if h.Name == "" || h.Name == h.ID {
		return "**" + escape(h.ID) + "**"
	}
	return "**" + escape(h.ID) + "** " + escape(h.Name)
}

// escape keeps user text from breaking table cells or starting markup.
func escape(s string) string {
	r := strings.NewReplacer("|", `\|`, "*", `\*`, "_", `\_`, "\n", " ")
	return r.Replace(s)
}
