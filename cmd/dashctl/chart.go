package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"AdPulse/internal/domain/models"
	"AdPulse/internal/services/chart"
	"AdPulse/internal/services/render"
	"AdPulse/internal/usecase"
)

var (
	chartPeriod string
	chartOut    string
	chartWidth  int
	chartHeight int
)

var chartCmd = &cobra.Command{
	Use:   "chart <slot>...",
	Short: "Render dashboard charts to PNG files",
	Long: fmt.Sprintf(`Render one or more dashboard charts of a period as PNG.

Slots: %s, or "all".`, strings.Join(chart.DashboardSlots(), ", ")),
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		snap, err := env.dashboard().Refresh(ctx, usecase.NewSession(), chartPeriod)
		if err != nil {
			return err
		}
		if snap.Error != "" {
			return fmt.Errorf("refresh failed: %s", snap.Error)
		}

		bySlot := make(map[string]models.ChartData, len(snap.Charts))
		for _, cd := range snap.Charts {
			bySlot[cd.Slot] = cd
		}
		slots := args
		if len(args) == 1 && args[0] == "all" {
			slots = chart.DashboardSlots()
		}

		if err := os.MkdirAll(chartOut, 0o755); err != nil {
			return err
		}
		for _, slot := range slots {
			cd, ok := bySlot[slot]
			if !ok {
				return fmt.Errorf("unknown chart slot %q", slot)
			}
			path := filepath.Join(chartOut, fmt.Sprintf("%s-%s.png", snap.Period, slot))
			if err := writePNG(path, cd, chartWidth, chartHeight); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
		}
		return nil
	},
}

func writePNG(path string, cd models.ChartData, width, height int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = render.PNGRenderer{}.Render(f, cd.Traces, models.RenderOptions{Title: cd.Title, Width: width, Height: height})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("render %s: %w", cd.Slot, err)
	}
	return nil
}

func init() {
	chartCmd.Flags().StringVarP(&chartPeriod, "period", "p", "week", "today, week, month, quarter or year")
	chartCmd.Flags().StringVarP(&chartOut, "out", "o", ".", "output directory")
	chartCmd.Flags().IntVar(&chartWidth, "width", 960, "image width in pixels")
	chartCmd.Flags().IntVar(&chartHeight, "height", 480, "image height in pixels")
	rootCmd.AddCommand(chartCmd)
}
