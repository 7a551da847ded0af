// Package tasks defines the extraction jobs of a run: which pages are
// visited, which steps are taken, and how the captured text becomes a
// record value.
package tasks

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/imaadfakier/spicychatdotai-scraper/classify"
	"github.com/imaadfakier/spicychatdotai-scraper/models"
	"github.com/imaadfakier/spicychatdotai-scraper/pricing"
	"github.com/imaadfakier/spicychatdotai-scraper/record"
	"github.com/imaadfakier/spicychatdotai-scraper/session"
)

// Job names, which are also the record keys.
const (
	NameSpecialty = "specialty"
	NamePolicy    = "nsfw_policy"
	NamePricing   = "pricing"
	NameLinks     = "useful_links"
	NameStatus    = "server_status"
	NameLanguages = "languages_supported"
)

// timestampLayout formats status check times.
const timestampLayout = "2006-01-02 15:04:05"

// Names lists every job in run order.
func Names() []string {
	return []string{NameSpecialty, NamePolicy, NamePricing, NameLinks, NameStatus, NameLanguages}
}

// Deps are the collaborators the jobs share.
type Deps struct {
	Orchestrator *session.Orchestrator

	// Fetcher downloads policy documents.
	Fetcher classify.Fetcher
	// LinkFetcher checks link reachability, usually with a shorter timeout.
	LinkFetcher classify.Fetcher

	Pricing *pricing.Catalog
	Policy  classify.Catalog
	Site    Site

	// Now is the clock used for status timestamps. Defaults to time.Now.
	Now func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Jobs returns every job in run order.
func Jobs(deps Deps) []record.Job {
	return []record.Job{
		{Name: NameSpecialty, Run: specialty(deps)},
		{Name: NamePolicy, Run: policy(deps)},
		{Name: NamePricing, Run: pricingInfo(deps)},
		{Name: NameLinks, Run: usefulLinks(deps)},
		{Name: NameStatus, Run: serverStatus(deps)},
		{Name: NameLanguages, Run: languages(deps)},
	}
}

// Select keeps the jobs named in only, in run order. An empty only keeps
// every job.
func Select(jobs []record.Job, only []string) ([]record.Job, error) {
	want := make(map[string]bool, len(only))
	for _, name := range only {
		if name = strings.TrimSpace(name); name != "" {
			want[name] = true
		}
	}
	if len(want) == 0 {
		return jobs, nil
	}

	out := make([]record.Job, 0, len(only))
	for _, j := range jobs {
		if want[j.Name] {
			out = append(out, j)
			delete(want, j.Name)
		}
	}
	if len(want) > 0 {
		unknown := make([]string, 0, len(want))
		for name := range want {
			unknown = append(unknown, name)
		}
		sort.Strings(unknown)
		return nil, models.NewScrapeError(
			models.ErrCodeInvalidInput,
			fmt.Sprintf("unknown task(s): %s (valid: %s)", strings.Join(unknown, ", "), strings.Join(Names(), ", ")),
			nil,
		)
	}
	return out, nil
}
