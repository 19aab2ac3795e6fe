package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/moolen/halsuite/internal/config"
	"github.com/moolen/halsuite/internal/logging"
	"github.com/moolen/halsuite/internal/tracing"
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "0.1.0"

// options are the persistent flags shared by all subcommands.
type options struct {
	logLevelFlags []string // supports multiple --log-level flags
	configPath    string
	cfg           *config.Config
}

// Execute runs the halsuite CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "halsuite",
		Short: "halsuite - helpers for HAL console end-to-end tests",
		Long: `halsuite drives the WildFly management API and the test containers used by
the HAL console end-to-end scenarios. It is handy for preparing or inspecting
server state by hand while writing a scenario.`,
		Version:       Version,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
	}

	// Supports per-package log levels: --log-level debug --log-level management=debug
	rootCmd.PersistentFlags().StringSliceVar(&opts.logLevelFlags, "log-level",
		[]string{"info"},
		"Log level for packages. Use 'default=level' for default, or 'package.name=level' for per-package.\n"+
			"Examples: --log-level debug (all), --log-level management=debug --log-level console.*=warn")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "",
		"Path to a halsuite YAML config file (defaults are used when empty)")

	rootCmd.AddCommand(newExecCmd(opts))
	rootCmd.AddCommand(newContainerNameCmd())
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// setup loads the config and initializes logging. An explicit --log-level
// wins over the config file.
func (o *options) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	o.cfg = cfg

	flags := o.logLevelFlags
	if !cmd.Flags().Changed("log-level") {
		flags = []string{cfg.LogLevel}
	}
	if err := setupLog(flags); err != nil {
		return err
	}

	tracing.ServiceVersion = Version
	return nil
}

// setupLog initializes the logging system with parsed log level flags.
// Priority: CLI flags > environment variables.
func setupLog(flags []string) error {
	defaultLevel, packageLevels, err := parseLogLevelFlags(flags)
	if err != nil {
		return err
	}
	return logging.Initialize(defaultLevel, packageLevels)
}

// parseLogLevelFlags parses CLI flags and LOG_LEVEL_* environment variables.
//
// CLI format: ["debug"], ["default=info", "management=debug"]
// Env vars: LOG_LEVEL_CONSOLE_PLAYWRIGHT=debug (package name uppercased, dots to underscores)
//
// Returns: (defaultLevel, packageLevels map, error)
func parseLogLevelFlags(flags []string) (string, map[string]string, error) {
	result := make(map[string]string)

	for _, envPair := range os.Environ() {
		key, level, ok := strings.Cut(envPair, "=")
		if !ok || !strings.HasPrefix(key, "LOG_LEVEL_") {
			continue
		}
		result[convertEnvKeyToPackageName(key)] = level
	}

	for _, flag := range flags {
		if pkg, level, ok := strings.Cut(flag, "="); ok {
			result[pkg] = level
		} else {
			result["default"] = flag
		}
	}

	defaultLevel := "info"
	if level, exists := result["default"]; exists {
		defaultLevel = level
		delete(result, "default")
	}

	if err := validateLogLevel(defaultLevel); err != nil {
		return "", nil, err
	}
	for pkg, level := range result {
		if err := validateLogLevel(level); err != nil {
			return "", nil, fmt.Errorf("invalid log level for package %q: %w", pkg, err)
		}
	}

	return defaultLevel, result, nil
}

// convertEnvKeyToPackageName converts LOG_LEVEL_CONSOLE_PLAYWRIGHT -> console.playwright
func convertEnvKeyToPackageName(envKey string) string {
	name := strings.TrimPrefix(envKey, "LOG_LEVEL_")
	return strings.ToLower(strings.ReplaceAll(name, "_", "."))
}

func validateLogLevel(level string) error {
	if _, ok := logging.LevelFromString(level); !ok {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error, fatal)", level)
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the halsuite version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "halsuite v%s\n", Version)
		},
	}
}
