package console

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/moolen/halsuite/internal/logging"
	"github.com/playwright-community/playwright-go"
)

// PlaywrightConfig configures a PlaywrightDriver.
type PlaywrightConfig struct {
	// Timeout bounds every wait and action.
	Timeout time.Duration
	// LoadSignal is a URL glob of a request the page issues once it has
	// booted. Navigate waits for its response. Empty waits for the load
	// event only.
	LoadSignal string
}

// PlaywrightDriver implements Driver on a playwright page.
type PlaywrightDriver struct {
	page   playwright.Page
	expect playwright.PlaywrightAssertions
	config PlaywrightConfig
	logger *logging.Logger
}

var _ Driver = (*PlaywrightDriver)(nil)

// NewPlaywrightDriver wraps page.
func NewPlaywrightDriver(page playwright.Page, cfg PlaywrightConfig) *PlaywrightDriver {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &PlaywrightDriver{
		page:   page,
		expect: playwright.NewPlaywrightAssertions(float64(cfg.Timeout.Milliseconds())),
		config: cfg,
		logger: logging.GetLogger("console"),
	}
}

func (d *PlaywrightDriver) timeoutMS() *float64 {
	return playwright.Float(float64(d.config.Timeout.Milliseconds()))
}

func (d *PlaywrightDriver) locator(sel Selector) playwright.Locator {
	return d.page.Locator(string(sel)).First()
}

func wrapWait(err error, sel Selector, state string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%w: %s to be %s: %v", ErrTimeout, sel, state, err)
	}
	return fmt.Errorf("waiting for %s to be %s: %w", sel, state, err)
}

// wrapAssertion maps a failed retrying assertion to ErrTimeout: the
// assertion only gives up once the timeout has passed.
func wrapAssertion(err error, sel Selector, state string) error {
	if err == nil || errors.Is(err, playwright.ErrTimeout) {
		return wrapWait(err, sel, state)
	}
	return fmt.Errorf("%w: %s to be %s: %v", ErrTimeout, sel, state, err)
}

func checkLoadSignal(url string, status int) error {
	if status != http.StatusOK {
		return fmt.Errorf("page load signal %s answered with status %d", url, status)
	}
	return nil
}

// Navigate implements Driver.
func (d *PlaywrightDriver) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.logger.DebugWithFields("navigating", logging.Field("url", url))

	gotoOpts := playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   d.timeoutMS(),
	}
	if d.config.LoadSignal == "" {
		if _, err := d.page.Goto(url, gotoOpts); err != nil {
			return wrapWait(err, Selector(url), "loaded")
		}
		return nil
	}

	resp, err := d.page.ExpectResponse(d.config.LoadSignal, func() error {
		_, err := d.page.Goto(url, gotoOpts)
		return err
	}, playwright.PageExpectResponseOptions{Timeout: d.timeoutMS()})
	if err != nil {
		return wrapWait(err, Selector(d.config.LoadSignal), "answered")
	}
	return checkLoadSignal(resp.URL(), resp.Status())
}

// Click implements Driver.
func (d *PlaywrightDriver) Click(ctx context.Context, sel Selector, opts ClickOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := d.locator(sel).Click(playwright.LocatorClickOptions{
		Force:   playwright.Bool(opts.Force),
		Timeout: d.timeoutMS(),
	})
	return wrapWait(err, sel, "clickable")
}

// Type implements Driver.
func (d *PlaywrightDriver) Type(ctx context.Context, sel Selector, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := d.locator(sel).PressSequentially(text, playwright.LocatorPressSequentiallyOptions{
		Timeout: d.timeoutMS(),
	})
	return wrapWait(err, sel, "editable")
}

// Clear implements Driver.
func (d *PlaywrightDriver) Clear(ctx context.Context, sel Selector) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := d.locator(sel).Clear(playwright.LocatorClearOptions{Timeout: d.timeoutMS()})
	return wrapWait(err, sel, "editable")
}

// Value implements Driver.
func (d *PlaywrightDriver) Value(ctx context.Context, sel Selector) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	v, err := d.locator(sel).InputValue(playwright.LocatorInputValueOptions{Timeout: d.timeoutMS()})
	return v, wrapWait(err, sel, "attached")
}

// WaitChecked implements Driver.
func (d *PlaywrightDriver) WaitChecked(ctx context.Context, sel Selector, want bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := d.expect.Locator(d.locator(sel)).ToBeChecked(playwright.LocatorAssertionsToBeCheckedOptions{
		Checked: playwright.Bool(want),
	})
	return wrapAssertion(err, sel, fmt.Sprintf("checked=%t", want))
}

// WaitValue implements Driver.
func (d *PlaywrightDriver) WaitValue(ctx context.Context, sel Selector, want string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := d.expect.Locator(d.locator(sel)).ToHaveValue(want)
	return wrapAssertion(err, sel, fmt.Sprintf("value %q", want))
}

// ScrollIntoView implements Driver.
func (d *PlaywrightDriver) ScrollIntoView(ctx context.Context, sel Selector) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := d.locator(sel).ScrollIntoViewIfNeeded(playwright.LocatorScrollIntoViewIfNeededOptions{
		Timeout: d.timeoutMS(),
	})
	return wrapWait(err, sel, "visible")
}

// Trigger implements Driver.
func (d *PlaywrightDriver) Trigger(ctx context.Context, sel Selector, event string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := d.locator(sel).DispatchEvent(event, nil, playwright.LocatorDispatchEventOptions{
		Timeout: d.timeoutMS(),
	})
	return wrapWait(err, sel, "attached")
}

func (d *PlaywrightDriver) waitFor(ctx context.Context, sel Selector, state *playwright.WaitForSelectorState, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := d.locator(sel).WaitFor(playwright.LocatorWaitForOptions{
		State:   state,
		Timeout: d.timeoutMS(),
	})
	return wrapWait(err, sel, name)
}

// WaitVisible implements Driver.
func (d *PlaywrightDriver) WaitVisible(ctx context.Context, sel Selector) error {
	return d.waitFor(ctx, sel, playwright.WaitForSelectorStateVisible, "visible")
}

// WaitHidden implements Driver. A missing element is not hidden: it has to
// be attached first.
func (d *PlaywrightDriver) WaitHidden(ctx context.Context, sel Selector) error {
	if err := d.waitFor(ctx, sel, playwright.WaitForSelectorStateAttached, "attached"); err != nil {
		return err
	}
	return d.waitFor(ctx, sel, playwright.WaitForSelectorStateHidden, "hidden")
}

// WaitAbsent implements Driver.
func (d *PlaywrightDriver) WaitAbsent(ctx context.Context, sel Selector) error {
	return d.waitFor(ctx, sel, playwright.WaitForSelectorStateDetached, "absent")
}

// Pause implements Driver.
func (d *PlaywrightDriver) Pause(ctx context.Context, dur time.Duration) error {
	return Sleep(ctx, dur)
}
