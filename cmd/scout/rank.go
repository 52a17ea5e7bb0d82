package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newRankCmd() *cobra.Command {
	var (
		top     int
		workers int
		offline bool
		notify  bool
	)
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Run one ranking pass and print the top candidates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("top") {
				cfg.Ranking.TopN = top
			}
			if cmd.Flags().Changed("workers") {
				cfg.Ranking.Workers = workers
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cfg, offline)
			if err != nil {
				return err
			}
			defer a.Close()

			if !notify {
				a.sched.Notifier = nil
			}
			a.sched.Out = os.Stdout
			_, err = a.sched.RunOnce()
			return err
		},
	}
	cmd.Flags().IntVar(&top, "top", 5, "Number of top candidates to report")
	cmd.Flags().IntVar(&workers, "workers", 1, "Assets evaluated concurrently (1 = sequential)")
	cmd.Flags().BoolVar(&offline, "offline", false, "Use generated data instead of a live provider")
	cmd.Flags().BoolVar(&notify, "notify", false, "Also send the report to Telegram")
	return cmd
}
