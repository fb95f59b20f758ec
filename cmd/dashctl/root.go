package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"AdPulse/internal/di"
	domsvc "AdPulse/internal/domain/service"
	internalrepo "AdPulse/internal/repository"
	"AdPulse/internal/services/period"
	"AdPulse/internal/usecase"
	"AdPulse/pkg/config"
	"AdPulse/pkg/logger"
)

var (
	configPath string
	logLevel   string
	source     string
)

// cli holds what every subcommand needs, built once per invocation.
type cli struct {
	cfg       *config.Config
	log       *logger.Logger
	data      *di.DataSource
	predictor domsvc.Predictor
	clock     period.Clock
}

var env *cli

var rootCmd = &cobra.Command{
	Use:           "dashctl",
	Short:         "Inspect the marketing dashboard from the terminal.",
	Long:          `dashctl computes summary cards, renders charts and talks to the prediction service without running the HTTP server.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if source != "" {
			cfg.Dashboard.Source = source
			if err := cfg.Validate(); err != nil {
				return err
			}
		}
		var store *internalrepo.CHHistoryStore
		if cfg.Dashboard.Source == config.SourceLive && cfg.History.Backend == "clickhouse" {
			ch, err := di.ProvideClickHouseClient(cfg)
			if err != nil {
				return err
			}
			store = di.ProvideHistoryStore(ch, cfg, logger.NewWriter(cmd.ErrOrStderr(), logLevel))
		}
		data, err := di.ProvideDataSource(cfg, store)
		if err != nil {
			return err
		}
		env = &cli{
			cfg:       cfg,
			log:       logger.NewWriter(cmd.ErrOrStderr(), logLevel),
			data:      data,
			predictor: di.ProvidePredictor(cfg),
			clock:     di.ProvideClock(),
		}
		return nil
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (defaults and environment when empty)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level written to stderr")
	rootCmd.PersistentFlags().StringVar(&source, "source", "", "override dashboard.source: synthetic or live")
}

func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.DefaultWithEnv()
	}
	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", configPath, err)
	}
	return cfg, nil
}

// commandContext is cancelled on interrupt.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt)
}

func (c *cli) dashboard() *usecase.DashboardUseCase {
	resolver := period.NewResolver(c.clock, c.cfg.Location())
	return usecase.NewDashboardUseCase(resolver, c.data.Series, c.cfg.Dashboard.Source, nil, c.log)
}

func (c *cli) forecast() *usecase.ForecastUseCase {
	stats := usecase.NewStatsCache(c.predictor, nil, 0, c.log)
	return usecase.NewForecastUseCase(c.predictor, stats, c.data.History, c.cfg.ML.HistoryDays, c.clock, c.cfg.Location(), nil, c.log)
}
