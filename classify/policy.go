package classify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/imaadfakier/spicychatdotai-scraper/fetch"
	"github.com/imaadfakier/spicychatdotai-scraper/htmldoc"
)

// Fetcher retrieves a document over HTTP. *fetch.Client implements it.
type Fetcher interface {
	Get(ctx context.Context, url string) (*fetch.Response, error)
}

// Document is a named policy page.
type Document struct {
	Name string
	URL  string
}

// Classification is the result for one policy document. The document
// name is its map key.
type Classification struct {
	URL      string `json:"url"`
	Category string `json:"nsfw_policy_category"`
	Summary  string `json:"summary"`
}

// PolicyClassifier fetches policy documents and classifies their visible
// text.
type PolicyClassifier struct {
	fetcher Fetcher
	catalog Catalog
}

// NewPolicyClassifier creates a PolicyClassifier.
func NewPolicyClassifier(fetcher Fetcher, catalog Catalog) *PolicyClassifier {
	return &PolicyClassifier{fetcher: fetcher, catalog: catalog}
}

// ClassifyAll classifies every document in order. A document that cannot
// be fetched gets the Error category and does not affect the others.
func (pc *PolicyClassifier) ClassifyAll(ctx context.Context, docs []Document) map[string]Classification {
	out := make(map[string]Classification, len(docs))
	for _, d := range docs {
		out[d.Name] = pc.classifyOne(ctx, d)
	}
	return out
}

func (pc *PolicyClassifier) classifyOne(ctx context.Context, d Document) Classification {
	resp, err := pc.fetcher.Get(ctx, d.URL)
	if err != nil {
		slog.Warn("policy document fetch failed", "document", d.Name, "url", d.URL, "error", err)
		return Classification{
			URL:      d.URL,
			Category: Error,
			Summary:  fmt.Sprintf("Failed to fetch policy document: %v", err),
		}
	}

	text := htmldoc.VisibleText(string(resp.Body))
	name, keyword, ok := pc.catalog.Match(text)
	if !ok {
		slog.Debug("policy document unclassified", "document", d.Name)
		return Classification{
			URL:      d.URL,
			Category: Unknown,
			Summary:  "NSFW policy not explicitly mentioned.",
		}
	}

	slog.Debug("policy document classified", "document", d.Name, "category", name, "keyword", keyword)
	return Classification{
		URL:      d.URL,
		Category: name,
		Summary:  fmt.Sprintf("NSFW policy classified as '%s' based on detected keywords.", name),
	}
}
