// Package browser opens URLs requested by the browser tool.
package browser

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/PabloGalante/ruhaan-agent/internal/observability"
)

type Config struct {
	Headless bool
	Bin      string // empty lets rod find or download a browser
}

// RodLauncher opens each URL in a new tab of a browser it starts on first use.
type RodLauncher struct {
	cfg Config

	mu      sync.Mutex
	browser *rod.Browser
}

func NewRodLauncher(cfg Config) *RodLauncher {
	return &RodLauncher{cfg: cfg}
}

func (l *RodLauncher) Open(ctx context.Context, url string) error {
	b, err := l.ensureBrowser()
	if err != nil {
		return err
	}

	page, err := b.Context(ctx).Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return fmt.Errorf("open tab: %w", err)
	}

	observability.LoggerFromContext(ctx).Info("browser tab opened", "url", url, "target_id", page.TargetID)
	return nil
}

// ensureBrowser starts or reconnects the browser. Its lifetime is not tied to a request.
func (l *RodLauncher) ensureBrowser() (*rod.Browser, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.browser != nil {
		if _, err := l.browser.Version(); err == nil {
			return l.browser, nil
		}
		observability.Logger().Warn("stale browser connection, relaunching")
		_ = l.browser.Close()
		l.browser = nil
	}

	launch := launcher.New().Headless(l.cfg.Headless)
	if l.cfg.Bin != "" {
		launch = launch.Bin(l.cfg.Bin)
	}
	controlURL, err := launch.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("connect to browser: %w", err)
	}
	l.browser = b
	return b, nil
}

// Close shuts the browser down if it was started.
func (l *RodLauncher) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.browser == nil {
		return nil
	}
	err := l.browser.Close()
	l.browser = nil
	return err
}

// LogLauncher only logs the URL; used on servers without a display.
type LogLauncher struct{}

func (LogLauncher) Open(ctx context.Context, url string) error {
	observability.LoggerFromContext(ctx).Info("browser open requested", "url", url)
	return nil
}
