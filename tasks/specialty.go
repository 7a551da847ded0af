package tasks

import (
	"context"

	"github.com/imaadfakier/spicychatdotai-scraper/models"
	"github.com/imaadfakier/spicychatdotai-scraper/session"
)

// SpecialtyTask reads the home page description, then follows the help
// link (which opens a new tab) and reads the overview section there.
func SpecialtyTask(site Site) session.Task {
	return session.Task{
		Name: NameSpecialty,
		URL:  site.HomeURL,
		Steps: []session.Step{
			session.Navigate(site.HomeURL),
			session.Await("description", site.Description, session.Present),
			session.ExtractFrom("description", "description", session.Single),
			session.Await("help_link", site.HelpLink, session.Clickable),
			session.Click("help_link"),
			session.SwitchToNewContext(),
			session.AwaitAll("overview", site.Overview),
			session.ExtractFrom("help_overview", "overview", session.All),
		},
	}
}

func specialty(deps Deps) func(context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		doc, err := deps.Orchestrator.Run(ctx, SpecialtyTask(deps.Site))
		if err != nil {
			return nil, err
		}
		return models.Specialty{
			Description:  doc.Field("description"),
			HelpOverview: doc.Field("help_overview"),
		}, nil
	}
}
