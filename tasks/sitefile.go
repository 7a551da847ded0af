package tasks

import (
	"errors"
	"fmt"
	"os"

	"github.com/imaadfakier/spicychatdotai-scraper/classify"
	"github.com/imaadfakier/spicychatdotai-scraper/htmldoc"
	"github.com/imaadfakier/spicychatdotai-scraper/session"
	"gopkg.in/yaml.v3"
)

// Site file validation errors.
var (
	ErrEntryMissingName = errors.New("every policy and link entry needs a name")
	ErrEntryMissingURL  = errors.New("every policy and link entry needs a url")
)

// siteFile is the YAML form of Site. Empty fields keep the default.
// Selectors starting with "/" or "(" are XPath, anything else is CSS.
type siteFile struct {
	HomeURL     string `yaml:"home_url"`
	Description string `yaml:"description"`
	HelpLink    string `yaml:"help_link"`
	Overview    string `yaml:"overview"`

	SubscribeURL     string `yaml:"subscribe_url"`
	PricingContainer string `yaml:"pricing_container"`
	AnnualToggle     string `yaml:"annual_toggle"`

	StatusURL     string `yaml:"status_url"`
	StatusInput   string `yaml:"status_input"`
	StatusUp      string `yaml:"status_up"`
	StatusDown    string `yaml:"status_down"`
	CheckedDomain string `yaml:"checked_domain"`
	CheckedURL    string `yaml:"checked_url"`

	LanguageURL    string `yaml:"language_url"`
	LanguageAnswer string `yaml:"language_answer"`

	Policies []namedURL `yaml:"policies"`
	Links    []namedURL `yaml:"links"`
}

type namedURL struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// LoadSite reads a YAML site file and applies it on top of DefaultSite.
// A non-empty policies or links list replaces the default list entirely.
func LoadSite(path string) (Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Site{}, fmt.Errorf("failed to read site file: %w", err)
	}
	return ParseSite(data)
}

// ParseSite is LoadSite on already-read YAML.
func ParseSite(data []byte) (Site, error) {
	var f siteFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Site{}, fmt.Errorf("failed to parse site file: %w", err)
	}
	if err := f.validate(); err != nil {
		return Site{}, err
	}
	return f.apply(DefaultSite()), nil
}

func (f *siteFile) validate() error {
	for _, lists := range [][]namedURL{f.Policies, f.Links} {
		for _, e := range lists {
			if e.Name == "" {
				return ErrEntryMissingName
			}
			if e.URL == "" {
				return fmt.Errorf("%w: %s", ErrEntryMissingURL, e.Name)
			}
		}
	}
	return nil
}

func (f *siteFile) apply(s Site) Site {
	setString(&s.HomeURL, f.HomeURL)
	setSelector(&s.Description, f.Description)
	setSelector(&s.HelpLink, f.HelpLink)
	setSelector(&s.Overview, f.Overview)

	setString(&s.SubscribeURL, f.SubscribeURL)
	setSelector(&s.PricingContainer, f.PricingContainer)
	setSelector(&s.AnnualToggle, f.AnnualToggle)

	setString(&s.StatusURL, f.StatusURL)
	setSelector(&s.StatusInput, f.StatusInput)
	setSelector(&s.StatusUp, f.StatusUp)
	setSelector(&s.StatusDown, f.StatusDown)
	setString(&s.CheckedDomain, f.CheckedDomain)
	setString(&s.CheckedURL, f.CheckedURL)

	setString(&s.LanguageURL, f.LanguageURL)
	setSelector(&s.LanguageAnswer, f.LanguageAnswer)

	if len(f.Policies) > 0 {
		s.Policies = make([]classify.Document, 0, len(f.Policies))
		for _, p := range f.Policies {
			s.Policies = append(s.Policies, classify.Document{Name: p.Name, URL: p.URL})
		}
	}
	if len(f.Links) > 0 {
		s.Links = make([]Link, 0, len(f.Links))
		for _, l := range f.Links {
			s.Links = append(s.Links, Link{Name: l.Name, URL: l.URL})
		}
	}
	return s
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setSelector(dst *session.Selector, expr string) {
	if expr == "" {
		return
	}
	if htmldoc.IsXPath(expr) {
		*dst = session.XPath(expr)
		return
	}
	*dst = session.CSS(expr)
}
