// Package classify assigns a document to the first category of an ordered
// keyword catalog.
package classify

import "strings"

// Labels used when no catalog category applies.
const (
	Unknown = "Unknown"
	Error   = "Error"
)

// Category is a named keyword set. Keywords are matched as lower-case
// substrings.
type Category struct {
	Name     string
	Keywords []string
}

// Catalog is an ordered list of categories. Earlier categories take
// priority when a text matches several.
type Catalog []Category

// NewCatalog copies categories and lower-cases their keywords.
func NewCatalog(categories ...Category) Catalog {
	c := make(Catalog, len(categories))
	for i, cat := range categories {
		kws := make([]string, len(cat.Keywords))
		for j, kw := range cat.Keywords {
			kws[j] = strings.ToLower(kw)
		}
		c[i] = Category{Name: cat.Name, Keywords: kws}
	}
	return c
}

// Match returns the first category (in catalog order) with a keyword
// contained in text, and the keyword that matched.
func (c Catalog) Match(text string) (category, keyword string, ok bool) {
	lower := strings.ToLower(text)
	for _, cat := range c {
		for _, kw := range cat.Keywords {
			if kw != "" && strings.Contains(lower, kw) {
				return cat.Name, kw, true
			}
		}
	}
	return "", "", false
}

// Classify returns the first matching category name, or Unknown.
func (c Catalog) Classify(text string) string {
	if name, _, ok := c.Match(text); ok {
		return name
	}
	return Unknown
}

// DefaultCatalog returns the NSFW-policy catalog.
func DefaultCatalog() Catalog {
	return NewCatalog(
		Category{Name: "Advertised", Keywords: []string{
			"explicit content", "nsfw content", "adult content", "nudity",
		}},
		Category{Name: "Allowed but not advertised", Keywords: []string{
			"content moderation", "user responsibility", "user-generated content",
		}},
		Category{Name: "Prohibited", Keywords: []string{
			"prohibited content", "restricted content", "no adult content", "banned",
		}},
	)
}
