package helpers

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/moolen/halsuite/internal/commands"
	"github.com/moolen/halsuite/internal/config"
	"github.com/moolen/halsuite/internal/console"
	"github.com/moolen/halsuite/internal/containers"
	"github.com/moolen/halsuite/internal/logging"
	"github.com/moolen/halsuite/internal/management"
	"github.com/moolen/halsuite/internal/tracing"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
)

// ConfigEnv names the environment variable holding the path of the
// halsuite config used by the scenarios.
const ConfigEnv = "HALSUITE_CONFIG"

// TestContext bundles what a scenario needs: a browser on the console, a
// server container of its own and the suite driving both.
type TestContext struct {
	Config   *config.Config
	Browser  *BrowserTest
	Suite    *commands.Suite
	Instance containers.Instance

	// Endpoint is the management endpoint of the scenario's server.
	Endpoint string
}

// SetupE2ETest starts the scenario infrastructure and registers its
// cleanup. The test is skipped in -short mode, without a container
// runtime, or when the console is not reachable.
func SetupE2ETest(t *testing.T) *TestContext {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping e2e test in short mode")
	}

	cfg, err := config.Load(os.Getenv(ConfigEnv))
	require.NoError(t, err, "failed to load halsuite config")
	require.NoError(t, logging.Initialize(cfg.LogLevel))

	testcontainers.SkipIfProviderIsNotHealthy(t)
	skipIfConsoleUnreachable(t, cfg.Console.URL)
	EnsurePlaywrightInstalled(t)

	ctx, cancel := NewContextHelper(t).WithLongTimeout()
	defer cancel()

	tp, err := tracing.NewProvider(ctx, cfg.Tracer())
	require.NoError(t, err, "failed to set up tracing")
	t.Cleanup(func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = tp.Shutdown(shutdownCtx)
	})

	bt, err := NewBrowserTest(t, cfg.Console.Headless)
	require.NoError(t, err, "failed to create browser test")
	t.Cleanup(func() {
		if t.Failed() {
			bt.CaptureDebugInfo("test_failed")
		}
		if err := bt.Close(); err != nil {
			t.Logf("Warning: failed to close browser: %v", err)
		}
	})

	provisioner := containers.NewTestcontainersProvisioner(cfg.Containers())
	t.Cleanup(func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := provisioner.Close(closeCtx); err != nil {
			t.Logf("Warning: failed to remove containers: %v", err)
		}
	})

	suite := commands.NewSuite(
		console.NewPlaywrightDriver(bt.Page, cfg.Driver()),
		management.NewClient(cfg.Client()),
		provisioner,
		cfg.Suite(),
	)

	instance, err := suite.StartWildflyContainer(ctx, t.Name())
	require.NoError(t, err, "failed to start server container")
	t.Logf("Server %s listening on %s", instance.Name, instance.ManagementEndpoint)

	return &TestContext{
		Config:   cfg,
		Browser:  bt,
		Suite:    suite,
		Instance: instance,
		Endpoint: instance.ManagementEndpoint,
	}
}

func skipIfConsoleUnreachable(t *testing.T, consoleURL string) {
	t.Helper()
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(consoleURL)
	if err != nil {
		t.Skipf("console not reachable at %s: %v", consoleURL, err)
	}
	_ = resp.Body.Close()
}
