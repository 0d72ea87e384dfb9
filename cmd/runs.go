package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/granthours/config"
	"github.com/kilianp07/granthours/core/runlog"
)

func newRunsCmd() *cobra.Command {
	var start, end, mode, grant string
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List allocation runs recorded in the run log",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := runlog.LogQuery{Mode: mode, Grant: grant}
			var err error
			if start != "" {
				if q.Start, err = time.Parse(time.RFC3339, start); err != nil {
					return fmt.Errorf("--start: %w", err)
				}
			}
			if end != "" {
				if q.End, err = time.Parse(time.RFC3339, end); err != nil {
					return fmt.Errorf("--end: %w", err)
				}
			}
			cfg, err := config.LoadOptional(cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			store, err := runlog.NewLogStore(cfg.RunLog)
			if err != nil {
				return fmt.Errorf("run log: %w", err)
			}
			if store == nil {
				return fmt.Errorf("no run log configured (set runlog.type)")
			}
			defer func() { _ = store.Close() }()
			records, err := store.Query(cmd.Context(), q)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTIME\tMODE\tSEED\tALLOCATED\tMAXIMUM\tGRANTS\tWARNINGS")
			for _, r := range records {
				names := make([]string, len(r.Summary))
				for i, g := range r.Summary {
					names[i] = g.Grant
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.2f\t%.2f\t%s\t%d\n",
					r.ID, r.Timestamp.Format(time.RFC3339), r.Mode, r.Seed,
					r.Allocated, r.Maximum, strings.Join(names, ", "), len(r.Warnings))
			}
			return tw.Flush()
		},
	}
	f := cmd.Flags()
	f.StringVar(&start, "start", "", "only runs at or after this RFC3339 time")
	f.StringVar(&end, "end", "", "only runs at or before this RFC3339 time")
	f.StringVar(&mode, "mode", "", "filter by mode: exact or flexible")
	f.StringVar(&grant, "grant", "", "only runs including this grant")
	return cmd
}

func init() {
	rootCmd.AddCommand(newRunsCmd())
}
