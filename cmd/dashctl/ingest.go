package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"AdPulse/internal/di"
	internalrepo "AdPulse/internal/repository"
	"AdPulse/internal/services/series"
	"AdPulse/pkg/util"
)

var (
	ingestDays int
	ingestSeed uint64
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Publish synthetic daily records to the ingest topic",
	Long: `Generate daily records for every channel over the last --days days and
publish them to kafka.ingest_topic, keyed by channel. The server's consumer
stores them in ClickHouse.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		if ingestDays <= 0 {
			return fmt.Errorf("--days must be positive")
		}
		if !env.cfg.Kafka.Enabled {
			return fmt.Errorf("kafka.enabled is false")
		}
		producer, err := di.ProvideKafkaProducer(env.cfg)
		if err != nil {
			return err
		}
		pub := internalrepo.NewKafkaRecordPublisher(producer, env.cfg.Kafka.IngestTopic)
		defer pub.Close()

		to := util.StartOfDay(time.Now(), env.cfg.Location()).AddDate(0, 0, 1)
		from := to.AddDate(0, 0, -ingestDays)
		gen := series.NewSeededGenerator(ingestSeed)
		if ingestSeed == 0 {
			gen = series.NewGenerator(nil)
		}
		records, err := series.NewSyntheticProvider(gen).Records(ctx, from, to)
		if err != nil {
			return err
		}
		if err := pub.PublishBatch(ctx, records); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "published %d records to %s\n", len(records), env.cfg.Kafka.IngestTopic)
		return nil
	},
}

func init() {
	ingestCmd.Flags().IntVar(&ingestDays, "days", 30, "days of history to publish")
	ingestCmd.Flags().Uint64Var(&ingestSeed, "seed", 0, "generator seed, random when 0")
	rootCmd.AddCommand(ingestCmd)
}
