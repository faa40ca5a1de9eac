package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"MarketMonitor/internal/config"
	"MarketMonitor/internal/logging"
)

func main() {
	// A missing .env file is fine; real environment variables still apply.
	_ = godotenv.Load()

	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Msg("monitor failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgPath string
		a       *app
	)

	root := &cobra.Command{
		Use:           "monitor",
		Short:         "Intraday signal scoring for a watchlist of equities",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cfgPath == "" {
				cfgPath = os.Getenv("CONFIG_PATH")
			}
			if cfgPath == "" {
				cfgPath = config.DefaultPath
			}
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logging.Setup(cfg.Log.Level, cfg.Log.Pretty)
			log.Debug().Str("config", cfgPath).Msg("config loaded")

			a, err = newApp(cfg)
			return err
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (default $CONFIG_PATH or "+config.DefaultPath+")")

	get := func() *app { return a }
	root.AddCommand(
		scoreCmd(get),
		indicesCmd(get),
		newsCmd(get),
		chartCmd(get),
		watchCmd(get),
	)
	return root
}
