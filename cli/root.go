// Package cli implements the simple-user-server command line.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stevemurr/simple-user-server/config"
)

// Version is injected during build.
var Version = "dev"

// serveFlags holds the values bound to the root command's flags.
type serveFlags struct {
	configPath string
	host       string
	port       int
	backend    string
	dataDir    string
	origins    string
	logLevel   string
	logFormat  string
}

// NewRootCmd builds the command tree. Running the root command starts the server.
func NewRootCmd() *cobra.Command {
	return newRootCmd(serve)
}

// newRootCmd builds the command tree with run invoked on the resolved config.
func newRootCmd(run func(context.Context, config.Config) error) *cobra.Command {
	var f serveFlags
	cmd := &cobra.Command{
		Use:   "simple-user-server",
		Short: "Serve the user management REST API",
		Long: `simple-user-server exposes CRUD endpoints for user records under /api/users.

Configuration is read from built-in defaults, then an optional YAML file
(--config), then environment variables (HOST, PORT, STORE_BACKEND, DATA_DIR,
ALLOWED_ORIGINS, LOG_LEVEL, LOG_FORMAT), then any flags given explicitly.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	defaults := config.Default()
	fl := cmd.Flags()
	fl.StringVarP(&f.configPath, "config", "c", "", "path to a YAML config file")
	fl.StringVar(&f.host, "host", defaults.Host, "listen host")
	fl.IntVarP(&f.port, "port", "p", defaults.Port, "listen port")
	fl.StringVar(&f.backend, "backend", defaults.Backend, "store backend: json, sqlite or memory")
	fl.StringVar(&f.dataDir, "data-dir", defaults.DataDir, "directory for users.json / users.db")
	fl.StringVar(&f.origins, "allowed-origins", "*", "comma separated CORS origins")
	fl.StringVar(&f.logLevel, "log-level", defaults.Log.Level, "debug, info, warn or error")
	fl.StringVar(&f.logFormat, "log-format", defaults.Log.Format, "text or json")

	cmd.AddCommand(newVersionCmd())
	return cmd
}

// loadConfig layers explicitly set flags over config.Load.
func loadConfig(cmd *cobra.Command, f serveFlags) (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return config.Config{}, err
	}
	fl := cmd.Flags()
	if fl.Changed("host") {
		cfg.Host = f.host
	}
	if fl.Changed("port") {
		cfg.Port = f.port
	}
	if fl.Changed("backend") {
		cfg.Backend = f.backend
	}
	if fl.Changed("data-dir") {
		cfg.DataDir = f.dataDir
	}
	if fl.Changed("allowed-origins") {
		cfg.AllowedOrigins = config.SplitList(f.origins)
	}
	if fl.Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if fl.Changed("log-format") {
		cfg.Log.Format = f.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "simple-user-server", Version)
		},
	}
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
