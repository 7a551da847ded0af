package pricing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTiers_FreeAndGetATaste(t *testing.T) {
	raw := "... Free ... Unlimited Messages ...Subscribe Get a Taste ... NSFW Content ...Subscribe"

	tiers, diag := DefaultCatalog().ParseTiers(raw, Monthly)

	assert.Equal(t, map[string]Tier{
		"Free":        {Price: "$ 0.00/ month", Features: []string{"Unlimited Messages"}},
		"Get a Taste": {Price: "$ 5.00/ month", Features: []string{"NSFW Content"}},
	}, tiers)
	assert.Equal(t, Diagnostics{Sections: 2, Unmatched: 0}, diag)
}

func TestParseTiers_AnnualPrices(t *testing.T) {
	raw := "True Supporter\nNo Ads\nSubscribe\nI'm All In\nPriority Generation Queue\nSubscribe"

	tiers, _ := DefaultCatalog().ParseTiers(raw, Annual)

	require.Len(t, tiers, 2)
	assert.Equal(t, "$ 115.00/ year", tiers["True Supporter"].Price)
	assert.Equal(t, "$ 175.00/ year", tiers["I'm All In"].Price)
	assert.Equal(t, []string{"No Ads"}, tiers["True Supporter"].Features)
	assert.Equal(t, []string{"Priority Generation Queue"}, tiers["I'm All In"].Features)
}

func TestParseTiers_OnlyCatalogNames(t *testing.T) {
	raw := "Premium Plus $ 99.99/ month Unlimited Messages Subscribe Free Subscribe Enterprise Subscribe"

	tiers, diag := DefaultCatalog().ParseTiers(raw, Monthly)

	require.Len(t, tiers, 1)
	assert.Contains(t, tiers, "Free")
	assert.Equal(t, 2, diag.Unmatched)
	assert.Equal(t, 3, diag.Sections)
}

func TestParseTiers_WholeWord(t *testing.T) {
	tests := []struct {
		name    string
		section string
		want    string
		matched bool
	}{
		{"start of section", "Get a Taste $5", "Get a Taste", true},
		{"end of section", "plan: Free", "Free", true},
		{"punctuation bounded", "(Free)", "Free", true},
		{"embedded word", "Freedom of speech", "", false},
		{"suffix of word", "CarefreeTrue", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DefaultCatalog().match(tt.section)
			assert.Equal(t, tt.matched, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTiers_CatalogOrderWins(t *testing.T) {
	tiers, _ := DefaultCatalog().ParseTiers("Get a Taste or stay Free Subscribe", Monthly)

	require.Len(t, tiers, 1)
	assert.Contains(t, tiers, "Free")
}

func TestParseTiers_LaterDuplicateOverwrites(t *testing.T) {
	raw := "Free No Ads Subscribe Free Memory Manager Subscribe"

	tiers, _ := DefaultCatalog().ParseTiers(raw, Monthly)

	assert.Equal(t, []string{"Memory Manager"}, tiers["Free"].Features)
}

func TestParseTiers_Idempotent(t *testing.T) {
	raw := "Free Unlimited Messages Subscribe Get a Taste NSFW Content No Ads Subscribe"
	c := DefaultCatalog()

	first, _ := c.ParseTiers(raw, Monthly)
	second, _ := c.ParseTiers(raw, Monthly)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestParseTiers_EmptyInput(t *testing.T) {
	tiers, diag := DefaultCatalog().ParseTiers("", Monthly)

	assert.Empty(t, tiers)
	assert.Equal(t, Diagnostics{}, diag)
}

func TestParseTiers_MissingPrice(t *testing.T) {
	c := NewCatalog([]TierSpec{
		{Name: "Basic", Prices: map[Period]string{Monthly: "$1"}},
	}, "|", DefaultFeatures())

	tiers, _ := c.ParseTiers("Basic | ", Annual)

	assert.Equal(t, UnknownPrice, tiers["Basic"].Price)
	assert.NotNil(t, tiers["Basic"].Features)
}

func TestExtract_CatalogOrder(t *testing.T) {
	text := "No Ads\nMemory Manager\nUnlimited Messages\nNSFW Content"

	got := DefaultFeatures().Extract(text)

	assert.Equal(t, []string{"Unlimited Messages", "NSFW Content", "No Ads", "Memory Manager"}, got)
}

func TestExtract_Interpolation(t *testing.T) {
	got := DefaultFeatures().Extract("User Personas - upto 10\nSemantic Memory 2.0\n4K Context (Memory)")

	assert.Equal(t, []string{
		"User Personas - up to 10",
		"4K Context (Memory)",
		"Semantic Memory 2.0",
	}, got)
}

func TestExtract_FirstMatchOnly(t *testing.T) {
	fc := MustFeatureCatalog([]FeaturePattern{{`(\d+) bots`, "$1 bots"}})

	assert.Equal(t, []string{"3 bots"}, fc.Extract("3 bots and 7 bots"))
}

func TestExtract_NoMatchesIsEmptyNotNil(t *testing.T) {
	got := DefaultFeatures().Extract("nothing here")

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestNewFeatureCatalog_BadPattern(t *testing.T) {
	_, err := NewFeatureCatalog([]FeaturePattern{{`(`, "x"}})
	assert.Error(t, err)
}

func TestTier_JSON(t *testing.T) {
	b, err := json.Marshal(Tier{Price: "$ 0.00/ month", Features: []string{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":"$ 0.00/ month","features":[]}`, string(b))
}
