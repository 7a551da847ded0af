package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "chromium", cfg.Browser.Driver)
	assert.True(t, cfg.Browser.Headless)
	assert.True(t, cfg.Browser.Stealth)
	assert.Equal(t, 10*time.Second, cfg.Session.WaitTimeout)
	assert.Equal(t, 30*time.Second, cfg.Session.NavigationTimeout)
	assert.Equal(t, 10*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, 5*time.Second, cfg.Fetch.LinkTimeout)
	assert.Equal(t, "spicychat_dot_ai_data.json", cfg.Output.Path)
	assert.Equal(t, DefaultUserAgent, cfg.Fetch.UserAgent)
	assert.Equal(t, []string{"Image", "Font", "Media"}, cfg.Browser.BlockedResourceTypes)
	assert.Empty(t, cfg.Site.File)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SPICYSCRAPE_BROWSER", "remote")
	t.Setenv("SPICYSCRAPE_HEADLESS", "false")
	t.Setenv("SPICYSCRAPE_WAIT_TIMEOUT", "2s")
	t.Setenv("SPICYSCRAPE_FETCH_RPS", "1.5")
	t.Setenv("SPICYSCRAPE_FETCH_BURST", "3")
	t.Setenv("SPICYSCRAPE_OUTPUT", "/tmp/out.json")
	t.Setenv("SPICYSCRAPE_BLOCKED_RESOURCES", "Image,Stylesheet")
	t.Setenv("SPICYSCRAPE_SITE_FILE", "site.yaml")

	cfg := Load()

	assert.Equal(t, "remote", cfg.Browser.Driver)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, 2*time.Second, cfg.Session.WaitTimeout)
	assert.Equal(t, 1.5, cfg.Fetch.RequestsPerSecond)
	assert.Equal(t, 3, cfg.Fetch.Burst)
	assert.Equal(t, "/tmp/out.json", cfg.Output.Path)
	assert.Equal(t, []string{"Image", "Stylesheet"}, cfg.Browser.BlockedResourceTypes)
	assert.Equal(t, "site.yaml", cfg.Site.File)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("SPICYSCRAPE_HEADLESS", "maybe")
	t.Setenv("SPICYSCRAPE_WAIT_TIMEOUT", "ten seconds")
	t.Setenv("SPICYSCRAPE_FETCH_BURST", "x")

	cfg := Load()

	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 10*time.Second, cfg.Session.WaitTimeout)
	assert.Equal(t, 1, cfg.Fetch.Burst)
}

func TestEnvList(t *testing.T) {
	t.Setenv("SPICYSCRAPE_ONLY", " pricing, ,server_status ")
	assert.Equal(t, []string{"pricing", "server_status"}, EnvList("SPICYSCRAPE_ONLY"))
	assert.Nil(t, EnvList("SPICYSCRAPE_UNSET_FOR_TEST"))
}
