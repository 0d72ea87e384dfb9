package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/granthours/config"
	coremetrics "github.com/kilianp07/granthours/core/metrics"
	"github.com/kilianp07/granthours/core/planner"
	"github.com/kilianp07/granthours/core/runlog"
	"github.com/kilianp07/granthours/infra/logger"
	_ "github.com/kilianp07/granthours/infra/metrics"
	"github.com/kilianp07/granthours/pkg/export"
	"github.com/kilianp07/granthours/pkg/grantfile"
)

type allocateOptions struct {
	file      string
	seed      uint64
	scaleTo80 bool
	format    string
	table     string
	output    string
}

func newAllocateCmd() *cobra.Command {
	var o allocateOptions
	cmd := &cobra.Command{
		Use:   "allocate",
		Short: "Allocate the grants of a YAML, JSON or CSV file",
		Example: `  granthours allocate -f grants.yaml
  granthours allocate -f grants.csv --seed 42 --format xlsx -o plan.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAllocate(cmd, o)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&o.file, "file", "f", "", "grant file (.yaml, .yml, .json or .csv)")
	f.Uint64Var(&o.seed, "seed", 0, "random seed for a reproducible schedule")
	f.BoolVar(&o.scaleTo80, "scale-to-80", false, "rescale the grants to 80 hours first")
	f.StringVar(&o.format, "format", "table", "output format: table, csv, json, xlsx or html")
	f.StringVar(&o.table, "table", "details", "table to write: details or summary")
	f.StringVarP(&o.output, "output", "o", "", "output file (default stdout)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func init() {
	rootCmd.AddCommand(newAllocateCmd())
}

func runAllocate(cmd *cobra.Command, o allocateOptions) error {
	ex, err := export.New(o.format)
	if err != nil {
		return err
	}
	table, err := export.ParseTable(o.table)
	if err != nil {
		return err
	}
	reqs, err := grantfile.Load(o.file)
	if err != nil {
		return err
	}
	cfg, err := config.LoadOptional(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		return err
	}
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return fmt.Errorf("metrics sink: %w", err)
	}
	store, err := runlog.NewLogStore(cfg.RunLog)
	if err != nil {
		return fmt.Errorf("run log: %w", err)
	}
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	p := planner.New(cfg.Allocation,
		planner.WithSink(sink),
		planner.WithRunLog(store),
		planner.WithLogger(logger.New("allocate")),
	)
	req := planner.Request{Grants: reqs, ScaleTo80: o.scaleTo80}
	if cmd.Flags().Changed("seed") {
		req.Seed = &o.seed
	}
	resp, err := p.Plan(cmd.Context(), req)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if o.output != "" {
		f, err := os.Create(o.output)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		w = f
	}
	if err := ex.Write(w, resp.Report, table); err != nil {
		return fmt.Errorf("write %s: %w", o.format, err)
	}
	if o.output != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "run %s (seed %d) written to %s\n", resp.RunID, resp.Seed, o.output)
	}
	return nil
}
