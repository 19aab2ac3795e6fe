package containers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/moolen/halsuite/internal/logging"
	"github.com/testcontainers/testcontainers-go"
	tcexec "github.com/testcontainers/testcontainers-go/exec"
	"github.com/testcontainers/testcontainers-go/wait"
)

// ErrUnknownContainer is returned by Exec for a name that was never started.
var ErrUnknownContainer = errors.New("container not started")

// Instance is a started server.
type Instance struct {
	Name string
	// ManagementEndpoint is the base URL of the management interface,
	// e.g. http://localhost:49153.
	ManagementEndpoint string
}

// ExecResult is the outcome of a command run inside a container.
type ExecResult struct {
	ExitCode int
	Output   string
}

// Provisioner starts named server instances and runs commands in them.
type Provisioner interface {
	Start(ctx context.Context, name string) (Instance, error)
	Exec(ctx context.Context, name, command string) (ExecResult, error)
}

// Config configures the testcontainers provisioner.
type Config struct {
	Image          string
	ManagementPort string
	Command        []string
	Env            map[string]string
	// ReadyLog is a log line the server prints once it accepts requests.
	ReadyLog       string
	StartupTimeout time.Duration
}

// DefaultConfig returns a config for the console's development image.
func DefaultConfig() Config {
	return Config{
		Image:          "quay.io/halconsole/wildfly:latest",
		ManagementPort: "9990/tcp",
		ReadyLog:       "WFLYSRV0025",
		StartupTimeout: 2 * time.Minute,
	}
}

type started struct {
	container testcontainers.Container
	instance  Instance
}

// TestcontainersProvisioner implements Provisioner with Docker containers.
// Starting a name twice returns the running instance.
type TestcontainersProvisioner struct {
	config Config
	logger *logging.Logger

	mu         sync.Mutex
	containers map[string]*started
}

// NewTestcontainersProvisioner creates a provisioner.
func NewTestcontainersProvisioner(cfg Config) *TestcontainersProvisioner {
	return &TestcontainersProvisioner{
		config:     cfg,
		logger:     logging.GetLogger("containers"),
		containers: make(map[string]*started),
	}
}

// Start implements Provisioner.
func (p *TestcontainersProvisioner) Start(ctx context.Context, name string) (Instance, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if s, ok := p.containers[name]; ok {
		return s.instance, nil
	}

	p.logger.InfoWithFields("starting server container",
		logging.Field("name", name),
		logging.Field("image", p.config.Image),
	)

	req := testcontainers.ContainerRequest{
		Image:        p.config.Image,
		Name:         name,
		ExposedPorts: []string{p.config.ManagementPort},
		Cmd:          p.config.Command,
		Env:          p.config.Env,
		WaitingFor:   wait.ForLog(p.config.ReadyLog).WithStartupTimeout(p.config.StartupTimeout),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return Instance{}, fmt.Errorf("failed to start container %s: %w", name, err)
	}

	// Only the management port is exposed, so the default endpoint is it.
	endpoint, err := container.Endpoint(ctx, "http")
	if err != nil {
		_ = container.Terminate(ctx)
		return Instance{}, fmt.Errorf("failed to get management endpoint of %s: %w", name, err)
	}

	inst := Instance{Name: name, ManagementEndpoint: endpoint}
	p.containers[name] = &started{container: container, instance: inst}
	p.logger.InfoWithFields("server container ready",
		logging.Field("name", name),
		logging.Field("endpoint", endpoint),
	)
	return inst, nil
}

// Exec implements Provisioner. The command runs through /bin/sh -c.
func (p *TestcontainersProvisioner) Exec(ctx context.Context, name, command string) (ExecResult, error) {
	p.mu.Lock()
	s, ok := p.containers[name]
	p.mu.Unlock()
	if !ok {
		return ExecResult{}, fmt.Errorf("%w: %s", ErrUnknownContainer, name)
	}

	code, reader, err := s.container.Exec(ctx, []string{"/bin/sh", "-c", command}, tcexec.Multiplexed())
	if err != nil {
		return ExecResult{}, fmt.Errorf("failed to exec in %s: %w", name, err)
	}
	out, err := io.ReadAll(reader)
	if err != nil {
		return ExecResult{}, fmt.Errorf("failed to read exec output of %s: %w", name, err)
	}

	p.logger.DebugWithFields("executed in container",
		logging.Field("name", name),
		logging.Field("exit_code", code),
	)
	return ExecResult{ExitCode: code, Output: string(out)}, nil
}

// Close terminates every started container.
func (p *TestcontainersProvisioner) Close(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	for name, s := range p.containers {
		if err := s.container.Terminate(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to terminate %s: %w", name, err))
		}
		delete(p.containers, name)
	}
	return errors.Join(errs...)
}
