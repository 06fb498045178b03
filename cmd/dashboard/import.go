package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/preston-bernstein/nhl-dashboard/internal/config"
	"github.com/preston-bernstein/nhl-dashboard/internal/logging"
	"github.com/preston-bernstein/nhl-dashboard/internal/source"
)

type importOptions struct {
	driver  string
	dsn     string
	replace bool
}

func importCmd(g *globalFlags) *cobra.Command {
	opts := &importOptions{}
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy the CSV season table into a SQL database",
		Long: `Import reads the CSV named by --data (or DATA_PATH), creates the season_records
table if needed, and writes every row in one transaction.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			return runImport(cmd.Context(), cfg, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.driver, "driver", "", "sqlite or postgres (overrides SQL_DRIVER)")
	f.StringVar(&opts.dsn, "dsn", "", "database DSN (overrides SQL_DSN)")
	f.BoolVar(&opts.replace, "replace", true, "delete existing rows before importing")
	return cmd
}

func runImport(ctx context.Context, cfg config.Config, opts *importOptions, stdout, stderr io.Writer) error {
	if opts.driver != "" {
		cfg.Source.Driver = opts.driver
	}
	if opts.dsn != "" {
		cfg.Source.DSN = opts.dsn
	}
	if cfg.Source.DSN == "" {
		return fmt.Errorf("a database DSN is required (--dsn or SQL_DSN)")
	}
	logger := newLogger(cfg, stderr)

	table, err := source.NewCSVLoader(cfg.Source.Path).Load(ctx)
	if err != nil {
		return err
	}

	db, err := source.OpenSQL(ctx, source.SQLOptions{
		Driver:  cfg.Source.Driver,
		DSN:     cfg.Source.DSN,
		Retries: cfg.Source.ConnectRetries,
		Timeout: cfg.Source.ConnectTimeout,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	if err := source.EnsureSchema(ctx, db, cfg.Source.Driver); err != nil {
		return err
	}
	n, err := source.Import(ctx, db, table, opts.replace)
	if err != nil {
		return err
	}
	logging.Info(logger, "season table imported",
		"driver", cfg.Source.Driver,
		logging.FieldRows, n,
	)
	fmt.Fprintf(stdout, "imported %d rows from %s\n", n, cfg.Source.Path)
	return nil
}
