package main

import (
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var offline bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run ranking on the configured schedule with Telegram commands and metrics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log.Info().Msg(appName + " starting...")

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cfg, offline)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.sched.Register(cfg.Schedule.RankCron); err != nil {
				return err
			}
			a.sched.Start()
			defer a.sched.Stop()

			if addr := cfg.Metrics.ListenAddr; addr != "" {
				go func() {
					if err := a.metrics.Serve(ctx, addr); err != nil {
						log.Error().Err(err).Msg("metrics server")
					}
				}()
			}

			if a.notifier != nil {
				go a.notifier.StartPolling(ctx, a.sched.HandleCommand)
				log.Info().Msg("telegram polling started")
			} else {
				log.Warn().Msg("telegram not configured, reports go to the log only")
			}

			if cfg.Schedule.RunOnStart {
				log.Info().Msg("run_on_start enabled, executing ranking now")
				go a.sched.RunOnce()
			}

			log.Info().Str("cron", cfg.Schedule.RankCron).Msg(appName + " is running. Press Ctrl+C to stop.")
			<-ctx.Done()
			log.Info().Msg("shutdown signal received, stopping...")
			return nil
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "Use generated data instead of a live provider")
	return cmd
}
