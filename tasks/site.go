package tasks

import (
	"github.com/imaadfakier/spicychatdotai-scraper/classify"
	"github.com/imaadfakier/spicychatdotai-scraper/session"
)

// Link is a named URL whose reachability is checked.
type Link struct {
	Name string
	URL  string
}

// Site holds every URL and selector the jobs use.
type Site struct {
	HomeURL     string
	Description session.Selector
	HelpLink    session.Selector
	Overview    session.Selector

	SubscribeURL     string
	PricingContainer session.Selector
	AnnualToggle     session.Selector

	StatusURL   string
	StatusInput session.Selector
	StatusUp    session.Selector
	StatusDown  session.Selector
	// CheckedDomain is typed into the status form; CheckedURL is reported.
	CheckedDomain string
	CheckedURL    string

	LanguageURL string
	// LanguageAnswer is used both to wait in the browser and to read the
	// captured HTML.
	LanguageAnswer session.Selector

	Policies []classify.Document
	Links    []Link
}

// DefaultSite returns the SpicyChat site definition.
func DefaultSite() Site {
	return Site{
		HomeURL:     "https://spicychat.ai",
		Description: session.CSS(".flex.flex-col.justify-undefined.items-undefined.w-full"),
		HelpLink:    session.XPath("//*[@id='root']/div[2]/span/span/span/div[1]/nav/header/ul[1]/a[4]"),
		Overview:    session.XPath("//*[@id='overview']/following-sibling::*[position()<=2]"),

		SubscribeURL:     "https://spicychat.ai/subscribe",
		PricingContainer: session.CSS(".flex.justify-undefined.items-undefined.flex-wrap.justify-center.items-end"),
		AnnualToggle:     session.XPath("//button[@data-key='annual_plans']"),

		StatusURL:     "https://www.isitdownrightnow.com/downorjustme.php",
		StatusInput:   session.CSS(`[name="url"]`),
		StatusUp:      session.CSS(".statusup"),
		StatusDown:    session.CSS(".statusdown"),
		CheckedDomain: "spicychat.ai",
		CheckedURL:    "https://www.spicychat.ai",

		LanguageURL:    "https://aimojo.io/tools/spicychat-ai/",
		LanguageAnswer: session.CSS("div#faq-question-1726732104611 p"),

		Policies: []classify.Document{
			{Name: "community_guidelines", URL: "https://docs.spicychat.ai/community-guidelines"},
			{Name: "faqs", URL: "https://docs.spicychat.ai/faqs"},
			{Name: "terms_of_service", URL: "https://spicychat.ai/terms"},
			{Name: "privacy_policy", URL: "https://spicychat.ai/privacy"},
			{Name: "2257_compliance_statement", URL: "https://spicychat.ai/2257"},
		},

		Links: []Link{
			{Name: "docs", URL: "https://docs.spicychat.ai"},
			{Name: "community_guidelines", URL: "https://docs.spicychat.ai/community-guidelines"},
			{Name: "faqs", URL: "https://docs.spicychat.ai/faqs"},
			{Name: "terms_of_service", URL: "https://spicychat.ai/terms"},
			{Name: "privacy_policy", URL: "https://spicychat.ai/privacy"},
			{Name: "refund_policy", URL: "https://spicychat.ai/refund"},
			{Name: "report_content", URL: "https://spicychat.ai/report"},
			{Name: "2257_Record_Keeping_Requirements_Compliance_Statement", URL: "https://spicychat.ai/2257"},
			{Name: "discord", URL: "https://discord.com/invite/spicychatai"},
			{Name: "x_twitter", URL: "https://x.com/SpicyChatAI"},
			{Name: "reddit", URL: "https://www.reddit.com/r/SpicyChatAI/"},
			{Name: "affiliate_program", URL: "https://promote.spicychat.ai"},
			{Name: "external_links", URL: "https://docs.spicychat.ai/external-links"},
		},
	}
}
