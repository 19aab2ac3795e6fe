package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/moolen/halsuite/internal/console"
	"github.com/moolen/halsuite/internal/containers"
	"github.com/moolen/halsuite/internal/management"
)

type element struct {
	visible bool
	value   string
	checked bool
}

// fakeDriver is an in-memory page: a set of elements keyed by selector.
type fakeDriver struct {
	mu        sync.Mutex
	elements  map[console.Selector]*element
	onClick   map[console.Selector]func(d *fakeDriver)
	navigated []string
	events    []string
	pauses    []time.Duration
	navErr    error
	// timeout bounds the retrying waits
	timeout time.Duration
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		elements: make(map[console.Selector]*element),
		onClick:  make(map[console.Selector]func(d *fakeDriver)),
		timeout:  time.Second,
	}
}

// set changes an element under the lock, for state changes that happen
// after the action returned.
func (d *fakeDriver) set(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn()
}

// poll retries cond until it holds or the driver timeout passes.
func (d *fakeDriver) poll(ctx context.Context, sel console.Selector, state string, cond func(el *element) bool) error {
	deadline := time.Now().Add(d.timeout)
	for {
		el, err := d.get(sel)
		if err != nil {
			return err
		}
		d.mu.Lock()
		ok := cond(el)
		d.mu.Unlock()
		if ok {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("%w: %s never reached %s", console.ErrTimeout, sel, state)
		}
		if err := console.Sleep(ctx, 10*time.Millisecond); err != nil {
			return err
		}
	}
}

func (d *fakeDriver) add(sel console.Selector, el *element) *fakeDriver {
	d.elements[sel] = el
	return d
}

func (d *fakeDriver) get(sel console.Selector) (*element, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	el, ok := d.elements[sel]
	if !ok {
		return nil, fmt.Errorf("%w: %s not found", console.ErrTimeout, sel)
	}
	return el, nil
}

func (d *fakeDriver) Navigate(_ context.Context, url string) error {
	d.navigated = append(d.navigated, url)
	return d.navErr
}

func (d *fakeDriver) Click(_ context.Context, sel console.Selector, _ console.ClickOptions) error {
	if _, err := d.get(sel); err != nil {
		return err
	}
	if hook := d.onClick[sel]; hook != nil {
		hook(d)
	}
	return nil
}

func (d *fakeDriver) Type(_ context.Context, sel console.Selector, text string) error {
	el, err := d.get(sel)
	if err != nil {
		return err
	}
	el.value += text
	return nil
}

func (d *fakeDriver) Clear(_ context.Context, sel console.Selector) error {
	el, err := d.get(sel)
	if err != nil {
		return err
	}
	el.value = ""
	return nil
}

func (d *fakeDriver) Value(_ context.Context, sel console.Selector) (string, error) {
	el, err := d.get(sel)
	if err != nil {
		return "", err
	}
	return el.value, nil
}

func (d *fakeDriver) WaitChecked(ctx context.Context, sel console.Selector, want bool) error {
	return d.poll(ctx, sel, fmt.Sprintf("checked=%t", want), func(el *element) bool {
		return el.checked == want
	})
}

func (d *fakeDriver) WaitValue(ctx context.Context, sel console.Selector, want string) error {
	return d.poll(ctx, sel, fmt.Sprintf("value %q", want), func(el *element) bool {
		return el.value == want
	})
}

func (d *fakeDriver) ScrollIntoView(_ context.Context, sel console.Selector) error {
	_, err := d.get(sel)
	return err
}

func (d *fakeDriver) Trigger(_ context.Context, sel console.Selector, event string) error {
	if _, err := d.get(sel); err != nil {
		return err
	}
	d.events = append(d.events, event+"@"+string(sel))
	return nil
}

func (d *fakeDriver) WaitVisible(_ context.Context, sel console.Selector) error {
	el, err := d.get(sel)
	if err != nil {
		return err
	}
	if !el.visible {
		return fmt.Errorf("%w: %s not visible", console.ErrTimeout, sel)
	}
	return nil
}

func (d *fakeDriver) WaitHidden(_ context.Context, sel console.Selector) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	el, ok := d.elements[sel]
	if !ok {
		return fmt.Errorf("%w: %s not found", console.ErrTimeout, sel)
	}
	if el.visible {
		return fmt.Errorf("%w: %s still visible", console.ErrTimeout, sel)
	}
	return nil
}

func (d *fakeDriver) WaitAbsent(_ context.Context, sel console.Selector) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.elements[sel]; ok {
		return fmt.Errorf("%w: %s still attached", console.ErrTimeout, sel)
	}
	return nil
}

func (d *fakeDriver) Pause(_ context.Context, dur time.Duration) error {
	d.pauses = append(d.pauses, dur)
	return nil
}

// fakeExecutor answers operations through handler and records them.
type fakeExecutor struct {
	mu       sync.Mutex
	requests []management.Request
	handler  func(req management.Request) (*management.Response, error)
}

func (e *fakeExecutor) Execute(_ context.Context, req management.Request) (*management.Response, error) {
	e.mu.Lock()
	e.requests = append(e.requests, req)
	e.mu.Unlock()
	resp, err := e.handler(req)
	if resp != nil {
		resp.Operation = req.Operation
	}
	return resp, err
}

func (e *fakeExecutor) count(op management.Operation) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, r := range e.requests {
		if r.Operation == op {
			n++
		}
	}
	return n
}

func success(result string) *management.Response {
	return &management.Response{Outcome: management.OutcomeSuccess, Result: json.RawMessage(result)}
}

func failed(description string) *management.Response {
	data, _ := json.Marshal(description)
	return &management.Response{Outcome: "failed", FailureDescription: data}
}

// fakeProvisioner records starts and execs.
type fakeProvisioner struct {
	started []string
	execs   []string
}

func (p *fakeProvisioner) Start(_ context.Context, name string) (containers.Instance, error) {
	p.started = append(p.started, name)
	return containers.Instance{Name: name, ManagementEndpoint: "http://localhost:9990"}, nil
}

func (p *fakeProvisioner) Exec(_ context.Context, name, command string) (containers.ExecResult, error) {
	p.execs = append(p.execs, name+": "+command)
	return containers.ExecResult{Output: "ok"}, nil
}

func newTestSuite(d *fakeDriver, e *fakeExecutor) *Suite {
	cfg := DefaultConfig()
	cfg.ConsoleURL = "http://console/"
	return NewSuite(d, e, &fakeProvisioner{}, cfg)
}
