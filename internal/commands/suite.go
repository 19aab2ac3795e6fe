// Package commands implements the console test actions: navigation, form
// editing, and verification either in the UI or against the management API.
//
// Actions are methods on a Suite that holds the three capabilities they use:
// a browser Driver, a management Executor and a container Provisioner. Each
// action is a short linear script; a failed step returns an error and the
// remaining steps do not run. Nothing is cached between actions.
package commands

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/moolen/halsuite/internal/console"
	"github.com/moolen/halsuite/internal/containers"
	"github.com/moolen/halsuite/internal/logging"
	"github.com/moolen/halsuite/internal/management"
)

// Config tunes a Suite.
type Config struct {
	// ConsoleURL is the base URL the console is served from.
	ConsoleURL string
	// Settle is how long Flip waits for the switch animation.
	Settle time.Duration
	// ResetConcurrency bounds the per-attribute checks of ResetForm.
	ResetConcurrency int
}

// DefaultConfig returns the timings the console needs.
func DefaultConfig() Config {
	return Config{
		ConsoleURL:       "http://localhost:9090/",
		Settle:           time.Second,
		ResetConcurrency: 1,
	}
}

// Suite bundles the capabilities test actions run against.
type Suite struct {
	driver      console.Driver
	exec        management.Executor
	provisioner containers.Provisioner
	config      Config
	logger      *logging.Logger
}

// NewSuite creates a Suite. provisioner may be nil for scenarios that run
// against an already started server.
func NewSuite(driver console.Driver, exec management.Executor, provisioner containers.Provisioner, cfg Config) *Suite {
	if cfg.ResetConcurrency < 1 {
		cfg.ResetConcurrency = 1
	}
	return &Suite{
		driver:      driver,
		exec:        exec,
		provisioner: provisioner,
		config:      cfg,
		logger:      logging.GetLogger("commands"),
	}
}

// UniqueName returns prefix followed by a short random suffix, for
// resources a scenario creates.
func UniqueName(prefix string) string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	if prefix == "" {
		return id
	}
	return prefix + "-" + id
}
