package tasks

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/imaadfakier/spicychatdotai-scraper/classify"
	"github.com/imaadfakier/spicychatdotai-scraper/config"
	"github.com/imaadfakier/spicychatdotai-scraper/fetch"
	"github.com/imaadfakier/spicychatdotai-scraper/models"
	"github.com/imaadfakier/spicychatdotai-scraper/pricing"
	"github.com/imaadfakier/spicychatdotai-scraper/record"
	"github.com/imaadfakier/spicychatdotai-scraper/session"
	"github.com/imaadfakier/spicychatdotai-scraper/session/sessiontest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type el = sessiontest.Element

func newDeps(fake *sessiontest.Session) Deps {
	clock := time.Date(2024, 9, 30, 14, 5, 0, 0, time.UTC)
	client := fetch.New(config.FetchConfig{Timeout: time.Second})
	return Deps{
		Orchestrator: session.NewOrchestrator(fake.Launcher(), session.Timeouts{
			Wait:       50 * time.Millisecond,
			Navigation: 50 * time.Millisecond,
			Context:    50 * time.Millisecond,
		}),
		Fetcher:     client,
		LinkFetcher: client.WithTimeout(500 * time.Millisecond),
		Pricing:     pricing.DefaultCatalog(),
		Policy:      classify.DefaultCatalog(),
		Site:        DefaultSite(),
		Now: func() time.Time {
			clock = clock.Add(2 * time.Second)
			return clock
		},
	}
}

func TestSpecialty(t *testing.T) {
	site := DefaultSite()
	fake := sessiontest.New(map[string]*sessiontest.Page{
		site.HomeURL: {Elements: map[string][]*el{
			site.Description.Expr: {{Text: " Uncensored AI character chat. "}},
			site.HelpLink.Expr: {{
				Text:    "Help",
				OnClick: func(s *sessiontest.Session) { s.OpenPage("https://docs.spicychat.ai") },
			}},
		}},
		"https://docs.spicychat.ai": {Elements: map[string][]*el{
			site.Overview.Expr: {{Text: "Welcome to the docs."}, {Text: "Start here."}},
		}},
	})

	v, err := specialty(newDeps(fake))(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.Specialty{
		Description:  "Uncensored AI character chat.",
		HelpOverview: "Welcome to the docs.\nStart here.",
	}, v)
	assert.Equal(t, 1, fake.Closed)
}

func TestSpecialty_HelpLinkOpensNoTab(t *testing.T) {
	site := DefaultSite()
	fake := sessiontest.New(map[string]*sessiontest.Page{
		site.HomeURL: {Elements: map[string][]*el{
			site.Description.Expr: {{Text: "desc"}},
			site.HelpLink.Expr:    {{Text: "Help"}},
		}},
	})

	_, err := specialty(newDeps(fake))(context.Background())

	assert.Equal(t, models.MsgElementNotFound, models.Describe(err))
	assert.Equal(t, 1, fake.Closed)
}

func TestPricing(t *testing.T) {
	site := DefaultSite()
	monthly := "Free\nUnlimited Messages\nSubscribe\nGet a Taste\nNSFW Content\nNo Ads\nSubscribe"
	annual := "True Supporter\nMemory Manager\nSubscribe\nUnknown Plan\nSubscribe"
	fake := sessiontest.New(map[string]*sessiontest.Page{
		site.SubscribeURL: {Elements: map[string][]*el{
			site.PricingContainer.Expr: {{Text: monthly}},
			site.AnnualToggle.Expr: {{
				OnClick: func(s *sessiontest.Session) {
					s.Show(site.PricingContainer.Expr, &el{Text: annual})
				},
			}},
		}},
	})

	v, err := pricingInfo(newDeps(fake))(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Pricing{
		Monthly: map[string]pricing.Tier{
			"Free":        {Price: "$ 0.00/ month", Features: []string{"Unlimited Messages"}},
			"Get a Taste": {Price: "$ 5.00/ month", Features: []string{"NSFW Content", "No Ads"}},
		},
		Annual: map[string]pricing.Tier{
			"True Supporter": {Price: "$ 115.00/ year", Features: []string{"Memory Manager"}},
		},
	}, v)
}

func TestPricing_ToggleMissing(t *testing.T) {
	site := DefaultSite()
	fake := sessiontest.New(map[string]*sessiontest.Page{
		site.SubscribeURL: {Elements: map[string][]*el{
			site.PricingContainer.Expr: {{Text: "Free Subscribe"}},
		}},
	})

	_, err := pricingInfo(newDeps(fake))(context.Background())

	assert.Equal(t, models.MsgTimeout, models.Describe(err))
	assert.Equal(t, 1, fake.Closed)
}

func TestServerStatus(t *testing.T) {
	site := DefaultSite()
	input := &el{}
	input.OnSubmit = func(s *sessiontest.Session) {
		s.Show(site.StatusUp.Expr, &el{Text: " SPICYCHAT.AI is UP and reachable "})
	}
	fake := sessiontest.New(map[string]*sessiontest.Page{
		site.StatusURL: {Elements: map[string][]*el{site.StatusInput.Expr: {input}}},
	})

	v, err := serverStatus(newDeps(fake))(context.Background())
	require.NoError(t, err)

	st, ok := v.(models.ServerStatus)
	require.True(t, ok)
	assert.Equal(t, "spicychat.ai", input.Value)
	assert.Equal(t, "https://www.spicychat.ai", st.URL)
	assert.Equal(t, "SPICYCHAT.AI is UP and reachable", st.Status)
	assert.True(t, st.Up)
	assert.Equal(t, "2024-09-30 14:05:02", st.FirstChecked)
	assert.Equal(t, "2024-09-30 14:05:04", st.LastChecked)
	assert.GreaterOrEqual(t, st.ResponseTime, 0.0)
	assert.Less(t, st.ResponseTime, 1.0)
	assert.Nil(t, st.Error)

	raw, err := json.Marshal(st)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"error":null`)
}

func TestServerStatus_WidgetError(t *testing.T) {
	site := DefaultSite()
	input := &el{}
	input.OnSubmit = func(s *sessiontest.Session) {
		s.Show(site.StatusDown.Expr, &el{Text: "Error: could not resolve host"})
	}
	fake := sessiontest.New(map[string]*sessiontest.Page{
		site.StatusURL: {Elements: map[string][]*el{site.StatusInput.Expr: {input}}},
	})

	v, err := serverStatus(newDeps(fake))(context.Background())
	require.NoError(t, err)

	st := v.(models.ServerStatus)
	assert.False(t, st.Up)
	require.NotNil(t, st.Error)
	assert.Equal(t, "Error: could not resolve host", *st.Error)
}

func TestServerStatus_Down(t *testing.T) {
	site := DefaultSite()
	input := &el{}
	input.OnSubmit = func(s *sessiontest.Session) {
		s.Show(site.StatusDown.Expr, &el{Text: "DOWN"})
	}
	fake := sessiontest.New(map[string]*sessiontest.Page{
		site.StatusURL: {Elements: map[string][]*el{site.StatusInput.Expr: {input}}},
	})

	v, err := serverStatus(newDeps(fake))(context.Background())
	require.NoError(t, err)

	st := v.(models.ServerStatus)
	assert.False(t, st.Up)
	assert.Equal(t, "DOWN", st.Status)
}

func TestServerStatus_NoVerdict(t *testing.T) {
	site := DefaultSite()
	fake := sessiontest.New(map[string]*sessiontest.Page{
		site.StatusURL: {Elements: map[string][]*el{site.StatusInput.Expr: {{}}}},
	})

	_, err := serverStatus(newDeps(fake))(context.Background())

	assert.Equal(t, models.MsgTimeout, models.Describe(err))
	assert.Equal(t, 1, fake.Closed)
}

func TestLanguages(t *testing.T) {
	site := DefaultSite()
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "answer present",
			html: `<html><body><div id="faq-question-1726732104611"><p> English and 20+ other languages. </p></div></body></html>`,
			want: "English and 20+ other languages.",
		},
		{
			name: "answer missing from html",
			html: `<html><body><div id="faq"><p>Other</p></div></body></html>`,
			want: LanguageNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := sessiontest.New(map[string]*sessiontest.Page{
				site.LanguageURL: {
					HTML:     tt.html,
					Elements: map[string][]*el{site.LanguageAnswer.Expr: {{}}},
				},
			})

			v, err := languages(newDeps(fake))(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestUsefulLinks(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/docs", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("/refund", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	deps := newDeps(sessiontest.New(nil))
	deps.Site.Links = []Link{
		{Name: "docs", URL: srv.URL + "/docs"},
		{Name: "refund_policy", URL: srv.URL + "/refund"},
	}

	v, err := usefulLinks(deps)(context.Background())
	require.NoError(t, err)

	out, ok := v.(*record.Record)
	require.True(t, ok)
	assert.Equal(t, []string{"docs", "refund_policy"}, out.Keys())

	docs, _ := out.Get("docs")
	assert.Equal(t, models.LinkStatus{URL: srv.URL + "/docs", Status: models.LinkValid, StatusCode: 200}, docs)

	refund, _ := out.Get("refund_policy")
	ls := refund.(models.LinkStatus)
	assert.Equal(t, models.LinkInvalid, ls.Status)
	assert.Zero(t, ls.StatusCode)
	assert.Contains(t, ls.ErrorMessage, "404")
}

func TestPolicy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>Nudity is allowed behind the NSFW toggle.</body></html>`))
	}))
	defer srv.Close()

	deps := newDeps(sessiontest.New(nil))
	deps.Site.Policies = []classify.Document{{Name: "faqs", URL: srv.URL}}

	v, err := policy(deps)(context.Background())
	require.NoError(t, err)

	got := v.(map[string]classify.Classification)
	assert.Equal(t, "Advertised", got["faqs"].Category)
}

func TestSelect(t *testing.T) {
	jobs := Jobs(newDeps(sessiontest.New(nil)))

	all, err := Select(jobs, nil)
	require.NoError(t, err)
	assert.Len(t, all, 6)

	some, err := Select(jobs, []string{"languages_supported", " pricing "})
	require.NoError(t, err)
	require.Len(t, some, 2)
	assert.Equal(t, NamePricing, some[0].Name)
	assert.Equal(t, NameLanguages, some[1].Name)

	_, err = Select(jobs, []string{"pricing", "weather"})
	var se *models.ScrapeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, models.ErrCodeInvalidInput, se.Code)
	assert.Contains(t, se.Message, "weather")
}

func TestJobs_RunOrder(t *testing.T) {
	jobs := Jobs(newDeps(sessiontest.New(nil)))

	names := make([]string, 0, len(jobs))
	for _, j := range jobs {
		names = append(names, j.Name)
	}
	assert.Equal(t, Names(), names)
}
