package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"MomentumScout/internal/model"
	"MomentumScout/internal/watchlist"
)

func newWatchlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watchlist",
		Short: "Show the saved watchlist",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			wl, err := watchlist.Open(cfg.Watchlist.Path)
			if err != nil {
				return err
			}
			assets := wl.Assets()
			if len(assets) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Watchlist %s is empty.\n", wl.Path())
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSYMBOL\tNAME")
			for _, a := range assets {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", a.ID, a.Symbol, a.Name)
			}
			return tw.Flush()
		},
	}

	addCmd := &cobra.Command{
		Use:   "add <id> <symbol> <name>",
		Short: "Add an asset to the watchlist",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			wl, err := watchlist.Open(cfg.Watchlist.Path)
			if err != nil {
				return err
			}
			if wl.Merge([]model.Asset{{ID: args[0], Symbol: args[1], Name: args[2]}}) == 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s is already watched\n", args[0])
				return nil
			}
			return wl.Save()
		},
	}
	cmd.AddCommand(addCmd)
	return cmd
}
