package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/moolen/halsuite/internal/commands"
	"github.com/moolen/halsuite/internal/console"
	"github.com/moolen/halsuite/internal/logging"
	"github.com/moolen/halsuite/internal/containers"
	"github.com/moolen/halsuite/internal/management"
	"github.com/moolen/halsuite/internal/tracing"
	yamlv3 "gopkg.in/yaml.v3"
)

// Config holds all configuration of a test run
type Config struct {
	// LogLevel is the default logging level (debug, info, warn, error)
	LogLevel string `koanf:"log_level" yaml:"log_level"`

	Console    ConsoleConfig    `koanf:"console" yaml:"console"`
	Management ManagementConfig `koanf:"management" yaml:"management"`
	Container  ContainerConfig  `koanf:"container" yaml:"container"`
	Reset      ResetConfig      `koanf:"reset" yaml:"reset"`
	Tracing    TracingConfig    `koanf:"tracing" yaml:"tracing"`
}

// ConsoleConfig configures the browser side.
type ConsoleConfig struct {
	// URL is where the console is served
	URL string `koanf:"url" yaml:"url"`
	// LoadSignal is the URL glob of the request that marks a booted page
	LoadSignal string `koanf:"load_signal" yaml:"load_signal"`
	// Timeout bounds every UI wait
	Timeout time.Duration `koanf:"timeout" yaml:"timeout"`
	// Settle is the pause around switch toggles
	Settle   time.Duration `koanf:"settle" yaml:"settle"`
	Headless bool          `koanf:"headless" yaml:"headless"`
}

// ManagementConfig configures the management API client.
type ManagementConfig struct {
	Username string        `koanf:"username" yaml:"username"`
	Password string        `koanf:"password" yaml:"password"`
	Timeout  time.Duration `koanf:"timeout" yaml:"timeout"`
}

// ContainerConfig configures the server containers.
type ContainerConfig struct {
	Image          string        `koanf:"image" yaml:"image"`
	ManagementPort string        `koanf:"management_port" yaml:"management_port"`
	Command        []string      `koanf:"command" yaml:"command,omitempty"`
	ReadyLog       string        `koanf:"ready_log" yaml:"ready_log"`
	StartupTimeout time.Duration `koanf:"startup_timeout" yaml:"startup_timeout"`
}

// ResetConfig tunes the reset verification.
type ResetConfig struct {
	Concurrency int `koanf:"concurrency" yaml:"concurrency"`
}

// TracingConfig configures span export.
type TracingConfig struct {
	Enabled     bool   `koanf:"enabled" yaml:"enabled"`
	Endpoint    string `koanf:"endpoint" yaml:"endpoint"`
	TLSCAPath   string `koanf:"tls_ca_path" yaml:"tls_ca_path"`
	TLSInsecure bool   `koanf:"tls_insecure" yaml:"tls_insecure"`
}

func defaults() map[string]any {
	suite := commands.DefaultConfig()
	client := management.DefaultClientConfig()
	ctr := containers.DefaultConfig()
	return map[string]any{
		"log_level":                 "info",
		"console.url":               suite.ConsoleURL,
		"console.load_signal":       "https://www.google-analytics.com/j/collect*",
		"console.timeout":           10 * time.Second,
		"console.settle":            suite.Settle,
		"console.headless":          true,
		"management.username":       "",
		"management.password":       "",
		"management.timeout":        client.Timeout,
		"container.image":           ctr.Image,
		"container.management_port": ctr.ManagementPort,
		"container.ready_log":       ctr.ReadyLog,
		"container.startup_timeout": ctr.StartupTimeout,
		"reset.concurrency":         suite.ResetConcurrency,
		"tracing.enabled":           false,
		"tracing.endpoint":          "",
		"tracing.tls_ca_path":       "",
		"tracing.tls_insecure":      false,
	}
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		// defaults are static and always decode
		panic(err)
	}
	return cfg
}

// Load builds the configuration from the defaults and, when path is not
// empty, the YAML file at path.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	for key, value := range defaults() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("failed to set default %s: %w", key, err)
		}
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config from %q: %w", path, err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to parse config from %q: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed for %q: %w", path, err)
	}

	return &cfg, nil
}

// Write stores the configuration as YAML at path. The file is written to a
// temp file in the same directory and renamed, so readers never see a
// partial file.
func (c *Config) Write(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".halsuite.*.yaml.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		// still present only on the error path
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("failed to set permissions on temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %q: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if _, ok := logging.LevelFromString(c.LogLevel); !ok {
		return NewConfigError(fmt.Sprintf("log_level %q is not one of debug, info, warn, error, fatal", c.LogLevel))
	}

	if c.Console.URL == "" {
		return NewConfigError("console.url must not be empty")
	}

	if c.Console.Timeout <= 0 {
		return NewConfigError("console.timeout must be positive")
	}

	if c.Console.Settle < 0 {
		return NewConfigError("console.settle must not be negative")
	}

	if c.Management.Timeout <= 0 {
		return NewConfigError("management.timeout must be positive")
	}

	if c.Container.Image == "" {
		return NewConfigError("container.image must not be empty")
	}

	if !strings.Contains(c.Container.ManagementPort, "/") {
		return NewConfigError("container.management_port must look like 9990/tcp")
	}

	if c.Reset.Concurrency < 1 {
		return NewConfigError("reset.concurrency must be at least 1")
	}

	if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
		return NewConfigError("tracing.endpoint must be set when tracing is enabled")
	}

	return nil
}

// Suite returns the settings of the action suite.
func (c *Config) Suite() commands.Config {
	return commands.Config{
		ConsoleURL:       c.Console.URL,
		Settle:           c.Console.Settle,
		ResetConcurrency: c.Reset.Concurrency,
	}
}

// Driver returns the settings of the browser driver.
func (c *Config) Driver() console.PlaywrightConfig {
	return console.PlaywrightConfig{
		Timeout:    c.Console.Timeout,
		LoadSignal: c.Console.LoadSignal,
	}
}

// Client returns the settings of the management client.
func (c *Config) Client() management.ClientConfig {
	return management.ClientConfig{
		Username: c.Management.Username,
		Password: c.Management.Password,
		Timeout:  c.Management.Timeout,
	}
}

// Containers returns the settings of the container provisioner.
func (c *Config) Containers() containers.Config {
	return containers.Config{
		Image:          c.Container.Image,
		ManagementPort: c.Container.ManagementPort,
		Command:        c.Container.Command,
		ReadyLog:       c.Container.ReadyLog,
		StartupTimeout: c.Container.StartupTimeout,
	}
}

// Tracer returns the settings of the tracing provider.
func (c *Config) Tracer() tracing.Config {
	return tracing.Config{
		Enabled:     c.Tracing.Enabled,
		Endpoint:    c.Tracing.Endpoint,
		TLSCAPath:   c.Tracing.TLSCAPath,
		TLSInsecure: c.Tracing.TLSInsecure,
	}
}

// ConfigError represents a configuration error
type ConfigError struct {
	message string
}

// NewConfigError creates a new configuration error
func NewConfigError(message string) *ConfigError {
	return &ConfigError{message: message}
}

// Error returns the error message
func (e *ConfigError) Error() string {
	return e.message
}
