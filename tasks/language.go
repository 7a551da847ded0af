package tasks

import (
	"context"

	"github.com/imaadfakier/spicychatdotai-scraper/htmldoc"
	"github.com/imaadfakier/spicychatdotai-scraper/models"
	"github.com/imaadfakier/spicychatdotai-scraper/session"
)

// LanguageNotFound is the value stored when the page loads but the FAQ
// answer is missing from the captured HTML.
const LanguageNotFound = "Language support details not found in the specified element."

// LanguageTask waits for the FAQ answer on the review page and captures
// the rendered HTML.
func LanguageTask(site Site) session.Task {
	return session.Task{
		Name: NameLanguages,
		URL:  site.LanguageURL,
		Steps: []session.Step{
			session.Navigate(site.LanguageURL),
			session.Await("answer", site.LanguageAnswer, session.Present),
			session.CaptureHTML("html"),
		},
	}
}

func languages(deps Deps) func(context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		doc, err := deps.Orchestrator.Run(ctx, LanguageTask(deps.Site))
		if err != nil {
			return nil, err
		}

		text, found, err := htmldoc.Select(doc.Field("html"), deps.Site.LanguageAnswer.Expr)
		if err != nil {
			return nil, models.NewScrapeError(models.ErrCodeUnexpected, "reading language answer", err)
		}
		if !found {
			return LanguageNotFound, nil
		}
		return text, nil
	}
}
