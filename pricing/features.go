package pricing

import "regexp"

// FeaturePattern pairs a pattern with the label emitted when it matches.
// Label may reference capture groups as $1, ${1}, etc.
type FeaturePattern struct {
	Pattern string
	Label   string
}

type compiledFeature struct {
	re    *regexp.Regexp
	label string
}

// FeatureCatalog is an ordered, immutable list of feature patterns.
type FeatureCatalog struct {
	patterns []compiledFeature
}

// NewFeatureCatalog compiles patterns. It returns an error for the first
// pattern that does not compile.
func NewFeatureCatalog(patterns []FeaturePattern) (*FeatureCatalog, error) {
	fc := &FeatureCatalog{patterns: make([]compiledFeature, 0, len(patterns))}
	for _, p := range patterns {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			return nil, err
		}
		fc.patterns = append(fc.patterns, compiledFeature{re: re, label: p.Label})
	}
	return fc, nil
}

// MustFeatureCatalog is like NewFeatureCatalog but panics on a bad pattern.
func MustFeatureCatalog(patterns []FeaturePattern) *FeatureCatalog {
	fc, err := NewFeatureCatalog(patterns)
	if err != nil {
		panic(err)
	}
	return fc
}

// Extract returns the label of every pattern found in text, in catalog
// order. Each pattern contributes at most once, using its first match.
// The result is never nil.
func (fc *FeatureCatalog) Extract(text string) []string {
	out := make([]string, 0)
	if fc == nil {
		return out
	}
	for _, f := range fc.patterns {
		m := f.re.FindStringSubmatchIndex(text)
		if m == nil {
			continue
		}
		out = append(out, string(f.re.ExpandString(nil, f.label, text, m)))
	}
	return out
}

// DefaultFeatures returns the SpicyChat feature catalog.
func DefaultFeatures() *FeatureCatalog {
	return MustFeatureCatalog([]FeaturePattern{
		{`Unlimited Messages`, "Unlimited Messages"},
		{`Full Library Of Chatbots`, "Full Library Of Chatbots"},
		{`NSFW Content`, "NSFW Content"},
		{`Create Your Own Character`, "Create Your Own Character"},
		{`Save Chats, Favourite Chatbots`, "Save Chats, Favourite Chatbots"},
		{`No Ads`, "No Ads"},
		{`Skip the Waiting Lines`, "Skip the Waiting Lines"},
		{`Memory Manager`, "Memory Manager"},
		{`User Personas - upto (\d+)`, "User Personas - up to $1"},
		{`4K Context \(Memory\)`, "4K Context (Memory)"},
		{`Semantic Memory 2\.0`, "Semantic Memory 2.0"},
		{`Longer Responses`, "Longer Responses"},
		{`Conversation Images`, "Conversation Images"},
		{`Access to additional Models`, "Access to additional Models"},
		{`Priority Generation Queue`, "Priority Generation Queue"},
		{`Access to advanced models`, "Access to advanced models"},
		{`Conversation Images on private Chatbots`, "Conversation Images on private Chatbots"},
		{`Up to 16K Context \(Memory\)`, "Up to 16K Context (Memory)"},
	})
}
