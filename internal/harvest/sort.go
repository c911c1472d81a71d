package harvest

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/model"
)

// DefaultDisplayCount is the number of holdings listed until the caller asks
// for the full list.
const DefaultDisplayCount = 10

// SortKey names a holdings column that can be sorted on.
type SortKey string

const (
	SortNone     SortKey = ""
	SortAsset    SortKey = "asset"
	SortQuantity SortKey = "quantity"
	SortPrice    SortKey = "price"
	SortSTCG     SortKey = "stcg"
	SortLTCG     SortKey = "ltcg"
)

// SortDirection is ascending or descending.
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// ParseSortKey validates a sort key. The empty string keeps the source order.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortNone, SortAsset, SortQuantity, SortPrice, SortSTCG, SortLTCG:
		return k, nil
	default:
		return SortNone, fmt.Errorf("invalid sort key: %s", s)
	}
}

// ParseSortDirection validates a sort direction, defaulting to ascending.
func ParseSortDirection(s string) (SortDirection, error) {
	switch d := SortDirection(strings.ToLower(strings.TrimSpace(s))); d {
	case "", Ascending:
		return Ascending, nil
	case Descending:
		return Descending, nil
	default:
		return Ascending, fmt.Errorf("invalid sort direction: %s", s)
	}
}

// SortHoldings returns a sorted copy of holdings. The sort is stable, so equal
// keys keep their source order. SortNone returns the copy unsorted.
func SortHoldings(holdings []model.Holding, key SortKey, direction SortDirection) []model.Holding {
	sorted := slices.Clone(holdings)
	if key == SortNone {
		return sorted
	}

	slices.SortStableFunc(sorted, func(a, b model.Holding) int {
		c := compareBy(a, b, key)
		if direction == Descending {
			return -c
		}
		return c
	})
	return sorted
}

// Page returns the holdings to display: all of them when viewAll is set,
// otherwise at most DefaultDisplayCount.
func Page(holdings []model.Holding, viewAll bool) []model.Holding {
	if viewAll || len(holdings) <= DefaultDisplayCount {
		return holdings
	}
	return holdings[:DefaultDisplayCount]
}

func compareBy(a, b model.Holding, key SortKey) int {
	switch key {
	case SortAsset:
		return strings.Compare(a.ID, b.ID)
	case SortQuantity:
		return a.TotalQuantity.Cmp(b.TotalQuantity)
	case SortPrice:
		return a.CurrentPrice.Cmp(b.CurrentPrice)
	case SortSTCG:
		return a.STCG.Gain.Cmp(b.STCG.Gain)
	case SortLTCG:
		return a.LTCG.Gain.Cmp(b.LTCG.Gain)
	}
	return 0
}
