package tasks

import (
	"context"

	"github.com/imaadfakier/spicychatdotai-scraper/classify"
	"github.com/imaadfakier/spicychatdotai-scraper/models"
	"github.com/imaadfakier/spicychatdotai-scraper/record"
)

func usefulLinks(deps Deps) func(context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		out := record.New()
		for _, l := range deps.Site.Links {
			out.Set(l.Name, checkLink(ctx, deps.LinkFetcher, l.URL))
		}
		return out, nil
	}
}

// checkLink reports url as valid when it answers with a 2xx status after
// redirects.
func checkLink(ctx context.Context, f classify.Fetcher, url string) models.LinkStatus {
	resp, err := f.Get(ctx, url)
	if err != nil {
		return models.LinkStatus{
			URL:          url,
			Status:       models.LinkInvalid,
			ErrorMessage: err.Error(),
		}
	}
	return models.LinkStatus{
		URL:        url,
		Status:     models.LinkValid,
		StatusCode: resp.StatusCode,
	}
}
