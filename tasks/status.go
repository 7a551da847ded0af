package tasks

import (
	"context"
	"math"
	"strings"

	"github.com/imaadfakier/spicychatdotai-scraper/models"
	"github.com/imaadfakier/spicychatdotai-scraper/session"
)

// StatusTask asks a down-detector about the site and waits for its
// verdict widget.
func StatusTask(site Site) session.Task {
	return session.Task{
		Name: NameStatus,
		URL:  site.StatusURL,
		Steps: []session.Step{
			session.Navigate(site.StatusURL),
			session.Await("url_input", site.StatusInput, session.Present),
			session.Type("url_input", site.CheckedDomain),
			session.Submit("submit", "url_input"),
			session.AwaitAny("verdict", site.StatusUp, site.StatusDown),
			session.ExtractFrom("verdict", "verdict", session.Single),
		},
	}
}

func serverStatus(deps Deps) func(context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		firstChecked := deps.now()

		doc, err := deps.Orchestrator.Run(ctx, StatusTask(deps.Site))
		if err != nil {
			return nil, err
		}

		verdict := doc.Field("verdict")
		return models.ServerStatus{
			URL:          deps.Site.CheckedURL,
			FirstChecked: firstChecked.Format(timestampLayout),
			Status:       verdict,
			Up:           doc.Matched["verdict"] == 0,
			ResponseTime: responseTime(doc),
			LastChecked:  deps.now().Format(timestampLayout),
			Error:        verdictError(verdict),
		}, nil
	}
}

// verdictError returns the verdict when the widget itself reports an error.
func verdictError(verdict string) *string {
	if !strings.Contains(strings.ToLower(verdict), "error") {
		return nil
	}
	return &verdict
}

// responseTime is the seconds from the start of the submit step to the
// end of the verdict wait, rounded to milliseconds.
func responseTime(doc *session.Document) float64 {
	submit, ok := doc.Timing("submit")
	if !ok {
		return 0
	}
	verdict, ok := doc.Timing("verdict")
	if !ok {
		return 0
	}
	return math.Round(verdict.End.Sub(submit.Start).Seconds()*1000) / 1000
}
