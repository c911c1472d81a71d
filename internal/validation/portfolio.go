package validation

import (
	"net/url"
	"strings"

	"github.com/Rhymond/go-money"

	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/api/request"
)

func ValidateCreatePortfolio(req request.CreatePortfolioRequest) error {
	verr := &Error{}

	// Required field
	if strings.TrimSpace(req.Name) == "" {
		verr.add("name", "name is required")
	} else if len(req.Name) > 100 {
		verr.add("name", "name must be 100 characters or less")
	}

	// Optional but has constraints
	if len(req.Description) > 500 {
		verr.add("description", "description must be 500 characters or less")
	}

	if req.Currency != "" && money.GetCurrency(strings.ToUpper(req.Currency)) == nil {
		verr.add("currency", "unknown currency code")
	}

	if req.SourceURL != "" {
		u, err := url.Parse(req.SourceURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			verr.add("sourceUrl", "must be an absolute http(s) URL")
		}
	}

	return verr.orNil()
}
