package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/runnerr0/milestones/internal/app"
	"github.com/runnerr0/milestones/internal/chart"
	"github.com/runnerr0/milestones/internal/config"
)

// Execute implements the go-flags Commander interface for ChartCommand.
func (c *ChartCommand) Execute(args []string) error {
	ctx := context.Background()

	e, err := openEnv(ctx, c.globals)
	if err != nil {
		return err
	}
	defer e.Close()

	return c.executeWithSession(e.session, svgOptions(e.cfg.Chart))
}

// svgOptions applies the configured chart size to the default layout.
func svgOptions(cfg config.ChartConfig) chart.SVGOptions {
	opts := chart.DefaultSVGOptions()
	if cfg.Width > 0 {
		opts.Width = cfg.Width
	}
	if cfg.RowHeight > 0 {
		opts.RowHeight = cfg.RowHeight
	}
	return opts
}

func (c *ChartCommand) executeWithSession(s *app.Session, svgOpts chart.SVGOptions) error {
	if c.Format != "json" && c.Format != "svg" {
		return fmt.Errorf("unknown format %q (use json or svg)", c.Format)
	}

	s.Hide(c.Hide...)
	snap, err := s.Snapshot()
	if err != nil {
		return describeError(err)
	}

	var w io.Writer = os.Stdout
	if c.Out != "" {
		f, err := os.Create(c.Out)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if c.Format == "svg" {
		if err := chart.Render(w, snap.Data, svgOpts); err != nil {
			return err
		}
	} else {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			return err
		}
	}

	if c.Out != "" {
		fmt.Printf("Wrote %s chart (%d timelines) to %s\n", c.Format, len(snap.Data.Categories), c.Out)
	}
	return nil
}
