package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/osdp-go/osdp-go/cmd/osdpctl/trace"
)

func newTraceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Inspect CBOR protocol trace files",
	}
	cmd.AddCommand(newTraceViewCmd(), newTraceExportCmd(), newTraceFilterCmd(), newTraceStatsCmd())
	return cmd
}

func addFilterFlags(fs *pflag.FlagSet, opts *trace.FilterOptions) {
	fs.StringVar(&opts.SessionID, "session", "", "filter by session ID")
	fs.IntVar(&opts.Address, "address", trace.NoAddressFilter, "filter by device address (-1 selects session events)")
	fs.StringVar(&opts.TimeStart, "time-start", "", "filter by start time (RFC3339)")
	fs.StringVar(&opts.TimeEnd, "time-end", "", "filter by end time (RFC3339)")
	fs.StringVar(&opts.Role, "role", "", "filter by role (cp, pd)")
	fs.StringVar(&opts.Direction, "direction", "", "filter by direction (in, out, local)")
	fs.StringVar(&opts.Category, "category", "", "filter by category (command, event, state, error)")
}

func newTraceViewCmd() *cobra.Command {
	var opts trace.FilterOptions
	cmd := &cobra.Command{
		Use:   "view <trace>",
		Short: "View a trace in human-readable form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := opts.Build()
			if err != nil {
				return err
			}
			return trace.RunView(args[0], filter, cmd.OutOrStdout())
		},
	}
	addFilterFlags(cmd.Flags(), &opts)
	return cmd
}

func newTraceExportCmd() *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export <trace>",
		Short: "Export a trace to JSON lines or CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return trace.RunExport(args[0], format, output)
		},
	}
	cmd.Flags().StringVar(&format, "format", "jsonl", "output format (jsonl, csv)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func newTraceFilterCmd() *cobra.Command {
	var (
		opts   trace.FilterOptions
		output string
	)
	cmd := &cobra.Command{
		Use:   "filter -o <out> <trace>",
		Short: "Write the matching events to a new trace file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := trace.RunFilter(args[0], output, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Filtered %d events to %s\n", n, output)
			return nil
		},
	}
	addFilterFlags(cmd.Flags(), &opts)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output trace file")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func newTraceStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <trace>",
		Short: "Summarize a trace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return trace.RunStats(args[0], cmd.OutOrStdout())
		},
	}
}
