package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/osdp-go/osdp-go/pkg/config"
)

func newStartCmd(root *rootOptions) *cobra.Command {
	var (
		noShell     bool
		onlineAfter int
	)

	cmd := &cobra.Command{
		Use:   "start <config.yaml>...",
		Short: "Start sessions on a simulated bus",
		Long: `Start one session per configuration file. All sessions share one
in-process simulated bus; controller devices without a peripheral
configuration are answered by virtual peripherals.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgs := make([]*config.Config, 0, len(args))
			for _, path := range args {
				cfg, err := config.Load(path)
				if err != nil {
					return err
				}
				cfgs = append(cfgs, cfg)
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if noShell {
				rt, err := newRuntime(cfgs, runtimeOptions{Logger: root.logger, OnlineAfter: onlineAfter})
				if err != nil {
					return err
				}
				defer rt.Close()
				if err := rt.Start(); err != nil {
					return err
				}
				root.logger.Info("sessions running", "count", len(cfgs))
				<-ctx.Done()
				root.logger.Info("shutting down")
				return nil
			}

			// Logs go through the shell so they do not garble the prompt.
			sh, err := newShell(nil)
			if err != nil {
				return err
			}
			logger, err := newLogger(root.logLevel, sh.Stdout())
			if err != nil {
				sh.rl.Close()
				return err
			}
			rt, err := newRuntime(cfgs, runtimeOptions{Logger: logger, OnlineAfter: onlineAfter})
			if err != nil {
				sh.rl.Close()
				return err
			}
			defer rt.Close()
			if err := rt.Start(); err != nil {
				sh.rl.Close()
				return err
			}
			sh.rt = rt
			sh.Run(ctx, cancel)
			fmt.Fprintln(cmd.OutOrStdout(), "Goodbye!")
			return nil
		},
	}
	cmd.Flags().BoolVar(&noShell, "no-shell", false, "run until interrupted without the interactive shell")
	cmd.Flags().IntVar(&onlineAfter, "online-after", 0, "controller polls before a simulated device is online (0 selects the default)")
	return cmd
}
