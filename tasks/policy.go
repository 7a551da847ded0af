package tasks

import (
	"context"

	"github.com/imaadfakier/spicychatdotai-scraper/classify"
)

func policy(deps Deps) func(context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		pc := classify.NewPolicyClassifier(deps.Fetcher, deps.Policy)
		return pc.ClassifyAll(ctx, deps.Site.Policies), nil
	}
}
