package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/imaadfakier/spicychatdotai-scraper/config"
	"github.com/imaadfakier/spicychatdotai-scraper/models"
	"github.com/ysmood/gson"
)

// NewLauncher returns the session factory selected by cfg.Driver.
func NewLauncher(cfg config.BrowserConfig) (Launcher, error) {
	switch cfg.Driver {
	case "", "chromium", "chrome":
		return func(ctx context.Context) (Session, error) {
			return launchLocal(ctx, cfg)
		}, nil
	case "remote":
		if cfg.CDPURL == "" {
			return nil, models.NewScrapeError(
				models.ErrCodeInvalidInput,
				"remote browser requires SPICYSCRAPE_CDP_URL",
				nil,
			)
		}
		return func(ctx context.Context) (Session, error) {
			return connectRemote(ctx, cfg)
		}, nil
	default:
		return nil, models.NewScrapeError(
			models.ErrCodeInvalidInput,
			fmt.Sprintf("unsupported browser: %s", cfg.Driver),
			nil,
		)
	}
}

// launchLocal starts a dedicated browser process for one session. The
// process is killed and its profile directory removed on Close.
func launchLocal(ctx context.Context, cfg config.BrowserConfig) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox)

	if cfg.BrowserBin != "" {
		l = l.Bin(cfg.BrowserBin)
	}
	if cfg.Proxy != "" {
		l = l.Proxy(cfg.Proxy)
	}

	// ── Stealth flags ────────────────────────────────────────────────
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-features"), "TranslateUI")
	// New tabs opened by target=_blank links must not be swallowed.
	l.Set(flags.Flag("disable-popup-blocking"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("no-first-run"))
	l.Set(flags.Flag("window-size"), "1920,1080")

	controlURL, err := l.Launch()
	if err != nil {
		l.Kill()
		l.Cleanup()
		return nil, models.NewScrapeError(models.ErrCodeTransport, "failed to launch browser", err)
	}
	slog.Debug("browser launched", "controlURL", controlURL)

	// The browser connection must outlive the launch ctx; steps bind their
	// own deadlines.
	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, models.NewScrapeError(models.ErrCodeTransport, "failed to connect to browser", err)
	}

	closeFn := func() error {
		err := browser.Close()
		l.Kill()
		l.Cleanup()
		return err
	}

	sess, err := newRodSession(browser, cfg, closeFn)
	if err != nil {
		_ = closeFn()
		return nil, err
	}
	return sess, nil
}

// connectRemote attaches to an already running browser. Close only
// closes the tabs this session opened and drops the connection; the
// browser itself keeps running.
func connectRemote(ctx context.Context, cfg config.BrowserConfig) (Session, error) {
	connCtx, disconnect := context.WithCancel(context.Background())

	browser := rod.New().Context(connCtx).ControlURL(cfg.CDPURL)
	if err := browser.Connect(); err != nil {
		disconnect()
		return nil, models.NewScrapeError(models.ErrCodeTransport, "failed to connect to CDP URL", err)
	}

	existing := make(map[proto.TargetTargetID]struct{})
	if pages, err := browser.Context(ctx).Pages(); err == nil {
		for _, p := range pages {
			existing[p.TargetID] = struct{}{}
		}
	}

	closeFn := func() error {
		defer disconnect()
		pages, err := browser.Pages()
		if err != nil {
			return err
		}
		var errs []error
		for _, p := range pages {
			if _, keep := existing[p.TargetID]; keep {
				continue
			}
			if err := p.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}

	sess, err := newRodSession(browser, cfg, closeFn)
	if err != nil {
		_ = closeFn()
		return nil, err
	}
	return sess, nil
}

// newRodSession opens the first tab and applies the per-page setup:
// stealth script, extra headers and resource blocking.
func newRodSession(browser *rod.Browser, cfg config.BrowserConfig, closeFn func() error) (*rodSession, error) {
	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeTransport, "failed to create page", err)
	}

	if cfg.Stealth {
		if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
			slog.Warn("stealth injection failed, proceeding without stealth",
				"error", evalErr,
			)
		}
	}

	if cfg.AcceptLanguage != "" {
		_ = proto.NetworkSetExtraHTTPHeaders{
			Headers: toHeadersMap(map[string]string{"Accept-Language": cfg.AcceptLanguage}),
		}.Call(page)
	}

	return &rodSession{
		browser: browser,
		page:    page,
		router:  setupHijack(page, cfg.BlockedResourceTypes),
		closeFn: closeFn,
	}, nil
}

func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}
