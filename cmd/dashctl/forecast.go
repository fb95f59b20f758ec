package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"AdPulse/internal/services/render"
	"AdPulse/internal/usecase"
)

var (
	forecastDays int
	forecastOut  string
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Ask the prediction service for a forecast",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		res, err := env.forecast().Forecast(ctx, usecase.NewSession(), forecastDays)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for name, msg := range res.Errors {
			fmt.Fprintln(out, color.RedString("%s: %s", name, msg))
		}
		for _, r := range res.Recommendations {
			fmt.Fprintf(out, "[%s] %s\n", priorityColor(r.Priority), r.Message)
		}
		for _, fw := range res.FeatureImportance {
			fmt.Fprintf(out, "%-24s %.4f\n", fw.Feature, fw.Weight)
		}

		if forecastOut == "" {
			return nil
		}
		if err := os.MkdirAll(forecastOut, 0o755); err != nil {
			return err
		}
		for _, cd := range res.Charts {
			path := filepath.Join(forecastOut, cd.Slot+".png")
			err := writePNG(path, cd, 960, 480)
			if errors.Is(err, render.ErrNoTraces) {
				fmt.Fprintln(out, color.YellowString("%s: no data", cd.Slot))
				continue
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(out, path)
		}
		return nil
	},
}

func priorityColor(p string) string {
	switch p {
	case "high":
		return color.RedString(p)
	case "medium":
		return color.YellowString(p)
	default:
		return color.CyanString(p)
	}
}

func init() {
	forecastCmd.Flags().IntVarP(&forecastDays, "days", "d", 14, "days ahead, 1 to 90")
	forecastCmd.Flags().StringVarP(&forecastOut, "out", "o", "", "write forecast charts to this directory")
	rootCmd.AddCommand(forecastCmd)
}
