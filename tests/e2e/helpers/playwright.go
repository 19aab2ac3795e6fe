package helpers

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/require"
)

// BrowserTest provides a playwright browser and page for console testing
type BrowserTest struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	Page    playwright.Page
	t       *testing.T
}

// NewBrowserTest launches Chromium and opens a page.
func NewBrowserTest(t *testing.T, headless bool) (*BrowserTest, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("could not launch browser: %w", err)
	}

	page, err := browser.NewPage(playwright.BrowserNewPageOptions{
		Viewport: &playwright.Size{Width: 1600, Height: 1000},
	})
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("could not create page: %w", err)
	}

	return &BrowserTest{
		pw:      pw,
		browser: browser,
		Page:    page,
		t:       t,
	}, nil
}

// Close cleans up browser resources
func (bt *BrowserTest) Close() error {
	var errs []error
	if bt.Page != nil {
		if err := bt.Page.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close page: %w", err))
		}
	}
	if bt.browser != nil {
		if err := bt.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close browser: %w", err))
		}
	}
	if bt.pw != nil {
		if err := bt.pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
		}
	}
	return errors.Join(errs...)
}

// CaptureDebugInfo stores a full-page screenshot and the page HTML under
// .tests/console-debug, named after the test and reason.
func (bt *BrowserTest) CaptureDebugInfo(reason string) {
	debugDir := filepath.Join(".tests", "console-debug")
	if err := os.MkdirAll(debugDir, 0o755); err != nil {
		bt.t.Logf("Failed to create debug directory: %v", err)
		return
	}

	base := fmt.Sprintf("%s-%s-%s",
		strings.ReplaceAll(bt.t.Name(), "/", "_"), reason, time.Now().Format("20060102-150405"))

	screenshotPath := filepath.Join(debugDir, base+".png")
	if _, err := bt.Page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(screenshotPath),
		FullPage: playwright.Bool(true),
	}); err != nil {
		bt.t.Logf("Failed to capture screenshot: %v", err)
	} else {
		bt.t.Logf("Screenshot saved: %s", screenshotPath)
	}

	htmlPath := filepath.Join(debugDir, base+".html")
	content, err := bt.Page.Content()
	if err != nil {
		bt.t.Logf("Failed to capture HTML: %v", err)
		return
	}
	if err := os.WriteFile(htmlPath, []byte(content), 0o644); err != nil {
		bt.t.Logf("Failed to write HTML file: %v", err)
		return
	}
	bt.t.Logf("HTML saved: %s (%d bytes)", htmlPath, len(content))
}

// EnsurePlaywrightInstalled checks if the playwright driver and browsers are
// installed and installs them otherwise.
func EnsurePlaywrightInstalled(t *testing.T) {
	pw, err := playwright.Run()
	if err != nil {
		t.Logf("Playwright not available, attempting to install...")
		if installErr := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); installErr != nil {
			require.NoError(t, installErr, "Failed to install Playwright. Run: go run github.com/playwright-community/playwright-go/cmd/playwright@latest install --with-deps chromium")
		}
		pw, err = playwright.Run()
		require.NoError(t, err, "Failed to start Playwright after installation")
	}
	if pw != nil {
		_ = pw.Stop()
	}
}
