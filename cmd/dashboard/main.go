package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/preston-bernstein/nhl-dashboard/internal/config"
	"github.com/preston-bernstein/nhl-dashboard/internal/logging"
)

const (
	appName    = "nhl-dashboard"
	appVersion = "dev"

	envSkipRun = "SKIP_SERVER_RUN"
)

func main() {
	if os.Getenv(envSkipRun) == "1" {
		return
	}
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	envFiles   []string
	dataPath   string
	logLevel   string
}

func rootCmd() *cobra.Command {
	g := &globalFlags{}
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "NHL season statistics dashboard",
		Long: `Dashboard serves interactive charts over a table of NHL team seasons.

Without a subcommand it starts the web server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, g, opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "YAML config file")
	cmd.PersistentFlags().StringSliceVar(&g.envFiles, "env-file", []string{".env"}, "dotenv files to load before reading the environment")
	cmd.PersistentFlags().StringVar(&g.dataPath, "data", "", "CSV file with the season table (overrides DATA_PATH)")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	opts.bind(cmd)

	cmd.AddCommand(serveCmd(g, opts), renderCmd(g), importCmd(g), versionCmd())
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, appVersion)
		},
	}
}

// loadConfig layers dotenv files, the optional YAML file, and flags over the defaults.
func (g *globalFlags) loadConfig() (config.Config, error) {
	if err := config.LoadDotEnv(g.envFiles...); err != nil {
		return config.Config{}, err
	}
	cfg, err := config.LoadFile(g.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if g.dataPath != "" {
		cfg.Source.Kind = config.SourceCSV
		cfg.Source.Path = g.dataPath
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	return cfg, nil
}

func newLogger(cfg config.Config, out io.Writer) *slog.Logger {
	return logging.NewLogger(logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: appName,
		Version: appVersion,
		Output:  out,
	})
}
