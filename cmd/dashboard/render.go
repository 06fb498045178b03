package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/preston-bernstein/nhl-dashboard/internal/app/dashboard"
	"github.com/preston-bernstein/nhl-dashboard/internal/chart"
	"github.com/preston-bernstein/nhl-dashboard/internal/config"
	"github.com/preston-bernstein/nhl-dashboard/internal/server"
	"github.com/preston-bernstein/nhl-dashboard/internal/source"
	"github.com/preston-bernstein/nhl-dashboard/internal/store"
)

type renderOptions struct {
	section string
	season  int
	team    string
	teams   []string
	metric  string
	chart   string
	index   int
	format  string
	out     string
}

func renderCmd(g *globalFlags) *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one chart of a dashboard section to a file",
		Example: `  dashboard render --section overview --season 2010 --metric wins --out top.svg
  dashboard render --section team-comparison --teams "Boston Bruins" --teams "Buffalo Sabres" --out cmp.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			return runRender(cmd.Context(), cfg, opts, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.section, "section", string(dashboard.SectionOverview), "dashboard section")
	f.IntVar(&opts.season, "season", 0, "season year (defaults to the latest)")
	f.StringVar(&opts.team, "team", "", "team for team-analysis")
	f.StringSliceVar(&opts.teams, "teams", nil, "teams for team-comparison")
	f.StringVar(&opts.metric, "metric", "", "metric key or column name")
	f.StringVar(&opts.chart, "chart", "", "chart type")
	f.IntVar(&opts.index, "index", 0, "which chart of the section to render")
	f.StringVar(&opts.format, "format", "", "svg or png (defaults to the --out extension)")
	f.StringVarP(&opts.out, "out", "o", "-", "output file, - for stdout")
	return cmd
}

func (o *renderOptions) values() url.Values {
	q := url.Values{}
	q.Set(dashboard.ParamSection, o.section)
	if o.season != 0 {
		q.Set(dashboard.ParamSeason, strconv.Itoa(o.season))
	}
	q.Set(dashboard.ParamTeam, o.team)
	for _, t := range o.teams {
		q.Add(dashboard.ParamTeams, t)
	}
	q.Set(dashboard.ParamMetric, o.metric)
	q.Set(dashboard.ParamChart, o.chart)
	return q
}

func (o *renderOptions) resolveFormat() (chart.Format, error) {
	raw := o.format
	if raw == "" {
		raw = strings.TrimPrefix(filepath.Ext(o.out), ".")
	}
	if raw == "" {
		return chart.FormatSVG, nil
	}
	return chart.ParseFormat(raw)
}

func runRender(ctx context.Context, cfg config.Config, opts *renderOptions, stdout io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	format, err := opts.resolveFormat()
	if err != nil {
		return err
	}
	sel, err := dashboard.ParseSelection(opts.values())
	if err != nil {
		return err
	}

	loader := server.SelectLoader(cfg, nil)
	if c, ok := loader.(io.Closer); ok {
		defer c.Close()
	}
	tables := store.NewTableCache()
	if res := tables.Load(ctx, loader); res.Err != nil {
		if loadErr, ok := source.AsLoadError(res.Err); ok {
			return errors.New(loadErr.UserMessage())
		}
		return res.Err
	}

	spec, err := dashboard.NewService(tables).Chart(sel, opts.index)
	if err != nil {
		return err
	}

	renderer := chart.NewRenderer(chart.Size{Width: cfg.Render.Width, Height: cfg.Render.Height})
	if opts.out == "-" || opts.out == "" {
		return renderer.Render(stdout, spec, format)
	}
	f, err := os.Create(opts.out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := renderer.Render(f, spec, format); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	fmt.Fprintf(stdout, "wrote %q (%s) to %s\n", spec.Title, format, opts.out)
	return nil
}
