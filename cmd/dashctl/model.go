package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"AdPulse/internal/services/chart"
	"AdPulse/internal/usecase"
)

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Inspect or retrain the prediction model",
}

var modelStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print model accuracy and feature importance",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		st, err := env.predictor.Stats(ctx)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if !st.ModelTrained {
			fmt.Fprintln(out, color.YellowString("model not trained"))
			return nil
		}
		fmt.Fprintf(out, "last trained: %s\n", st.LastTrained)

		table := tablewriter.NewWriter(out)
		table.Header([]string{"Feature", "Weight"})
		var data [][]string
		for _, fw := range chart.SortedImportance(st.FeatureImportance) {
			data = append(data, []string{fw.Feature, fmt.Sprintf("%.4f", fw.Weight)})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		return table.Render()
	},
}

var modelTrainCmd = &cobra.Command{
	Use:   "train",
	Short: "Retrain the model on the configured history",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		fc := env.forecast()
		training := usecase.NewTrainingUseCase(env.predictor, fc, nil, nil, nil, nil, env.log)
		res, err := training.Train(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("%s: %s (%d data points)", res.Status, res.Message, res.DataPoints))
		return nil
	},
}

func init() {
	modelCmd.AddCommand(modelStatsCmd, modelTrainCmd)
	rootCmd.AddCommand(modelCmd)
}
