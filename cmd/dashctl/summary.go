package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"AdPulse/internal/services/render"
	"AdPulse/internal/usecase"
)

var summaryPeriod string

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the summary cards of a period",
	Example: `  dashctl summary --period month
  dashctl summary --source live -c config/config.yaml`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		snap, err := env.dashboard().Refresh(ctx, usecase.NewSession(), summaryPeriod)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if snap.Error != "" {
			fmt.Fprintln(out, color.YellowString("refresh failed: %s", snap.Error))
			return nil
		}
		fmt.Fprintf(out, "%s (%d buckets, %s data)\n", snap.Period, len(snap.Dates), snap.Source)
		return render.CardTable{Out: out}.Render(snap.Cards)
	},
}

func init() {
	summaryCmd.Flags().StringVarP(&summaryPeriod, "period", "p", "week", "today, week, month, quarter or year")
	rootCmd.AddCommand(summaryCmd)
}
