package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/preston-bernstein/nhl-dashboard/internal/server"
)

type serveOptions struct {
	port string
}

func (o *serveOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.port, "port", "", "HTTP port (overrides PORT)")
}

func serveCmd(g *globalFlags, opts *serveOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, g, opts)
		},
	}
	opts.bind(cmd)
	return cmd
}

func runServe(cmd *cobra.Command, g *globalFlags, opts *serveOptions) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if opts.port != "" {
		cfg.Port = opts.port
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := newLogger(cfg, os.Stdout)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, logger)
	srv.Run(ctx, stop)
	return nil
}
