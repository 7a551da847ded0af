package pricing

import "strings"

// Tier is one parsed subscription plan. The tier name is its map key.
type Tier struct {
	Price    string   `json:"price"`
	Features []string `json:"features"`
}

// Diagnostics reports what ParseTiers skipped.
type Diagnostics struct {
	// Sections is the number of non-empty sections examined.
	Sections int
	// Unmatched is the number of non-empty sections naming no catalog tier.
	Unmatched int
}

// ParseTiers splits raw on the catalog delimiter and builds one Tier per
// section that names a catalog tier. Prices always come from the catalog.
// When two sections name the same tier, the later one wins.
func (c *Catalog) ParseTiers(raw string, period Period) (map[string]Tier, Diagnostics) {
	tiers := make(map[string]Tier)
	var diag Diagnostics

	for _, section := range strings.Split(raw, c.delimiter) {
		section = strings.TrimSpace(section)
		if section == "" {
			continue
		}
		diag.Sections++

		name, ok := c.match(section)
		if !ok {
			diag.Unmatched++
			continue
		}
		tiers[name] = Tier{
			Price:    c.Price(name, period),
			Features: c.features.Extract(section),
		}
	}
	return tiers, diag
}
