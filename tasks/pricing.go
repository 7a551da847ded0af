package tasks

import (
	"context"
	"log/slog"

	"github.com/imaadfakier/spicychatdotai-scraper/pricing"
	"github.com/imaadfakier/spicychatdotai-scraper/session"
)

// Pricing is the value of the pricing job.
type Pricing struct {
	Monthly map[string]pricing.Tier `json:"monthly subscription info"`
	Annual  map[string]pricing.Tier `json:"annual subscription info"`
}

// PricingTask reads the plan container, switches the page to annual
// billing and reads the container again.
func PricingTask(site Site) session.Task {
	return session.Task{
		Name: NamePricing,
		URL:  site.SubscribeURL,
		Steps: []session.Step{
			session.Navigate(site.SubscribeURL),
			session.Await("plans", site.PricingContainer, session.Present),
			session.ExtractFrom("monthly", "plans", session.Single),
			session.Await("annual_toggle", site.AnnualToggle, session.Clickable),
			session.Click("annual_toggle"),
			session.Settle(),
			session.Await("plans", site.PricingContainer, session.Present),
			session.ExtractFrom("annual", "plans", session.Single),
		},
	}
}

func pricingInfo(deps Deps) func(context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		doc, err := deps.Orchestrator.Run(ctx, PricingTask(deps.Site))
		if err != nil {
			return nil, err
		}
		return Pricing{
			Monthly: parseTiers(deps.Pricing, doc.Field("monthly"), pricing.Monthly),
			Annual:  parseTiers(deps.Pricing, doc.Field("annual"), pricing.Annual),
		}, nil
	}
}

func parseTiers(c *pricing.Catalog, raw string, period pricing.Period) map[string]pricing.Tier {
	tiers, diag := c.ParseTiers(raw, period)
	if diag.Unmatched > 0 {
		slog.Debug("pricing sections without a known tier were dropped",
			"period", period,
			"sections", diag.Sections,
			"unmatched", diag.Unmatched,
		)
	}
	return tiers
}
