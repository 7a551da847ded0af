// Package pricing turns the raw text of a subscription page into per-tier
// records. Tier names and prices come from a fixed catalog; only feature
// labels are read from the page.
package pricing

import (
	"fmt"
	"regexp"
)

// Period is the billing period a tier price applies to.
type Period string

const (
	Monthly Period = "month"
	Annual  Period = "year"
)

// UnknownPrice is used when the catalog has no price for a tier/period pair.
const UnknownPrice = "Unknown"

// TierSpec is one catalog entry.
type TierSpec struct {
	Name   string
	Prices map[Period]string
}

// Catalog is an immutable tier catalog. Order matters: when a section
// mentions several tier names, the first catalog entry wins.
type Catalog struct {
	tiers     []TierSpec
	matchers  []*regexp.Regexp
	delimiter string
	features  *FeatureCatalog
}

// NewCatalog builds a Catalog. Sections of page text are separated by
// delimiter; features are read with features.
func NewCatalog(tiers []TierSpec, delimiter string, features *FeatureCatalog) *Catalog {
	c := &Catalog{
		tiers:     make([]TierSpec, len(tiers)),
		matchers:  make([]*regexp.Regexp, len(tiers)),
		delimiter: delimiter,
		features:  features,
	}
	for i, t := range tiers {
		prices := make(map[Period]string, len(t.Prices))
		for p, v := range t.Prices {
			prices[p] = v
		}
		c.tiers[i] = TierSpec{Name: t.Name, Prices: prices}
		c.matchers[i] = wholeWord(t.Name)
	}
	return c
}

// wholeWord matches name bounded by start/end of text, whitespace or
// punctuation.
func wholeWord(name string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`(?:^|[\s\p{P}])%s(?:[\s\p{P}]|$)`, regexp.QuoteMeta(name)))
}

// Tiers returns the catalog entries in catalog order.
func (c *Catalog) Tiers() []TierSpec {
	out := make([]TierSpec, len(c.tiers))
	copy(out, c.tiers)
	return out
}

// Price returns the catalog price of tier for period.
func (c *Catalog) Price(tier string, period Period) string {
	for _, t := range c.tiers {
		if t.Name != tier {
			continue
		}
		if p, ok := t.Prices[period]; ok {
			return p
		}
		break
	}
	return UnknownPrice
}

// match returns the first catalog tier named in section.
func (c *Catalog) match(section string) (string, bool) {
	for i, re := range c.matchers {
		if re.MatchString(section) {
			return c.tiers[i].Name, true
		}
	}
	return "", false
}

// DefaultCatalog returns the SpicyChat subscription catalog.
func DefaultCatalog() *Catalog {
	return NewCatalog([]TierSpec{
		{Name: "Free", Prices: map[Period]string{Monthly: "$ 0.00/ month", Annual: "$ 0.00/ year"}},
		{Name: "Get a Taste", Prices: map[Period]string{Monthly: "$ 5.00/ month", Annual: "$ 39.95/ year"}},
		{Name: "True Supporter", Prices: map[Period]string{Monthly: "$ 14.95/ month", Annual: "$ 115.00/ year"}},
		{Name: "I'm All In", Prices: map[Period]string{Monthly: "$ 24.95/ month", Annual: "$ 175.00/ year"}},
	}, "Subscribe", DefaultFeatures())
}
