package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"MarketMonitor/internal/notifier"
	"MarketMonitor/internal/scheduler"
	"MarketMonitor/internal/server"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func scoreCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "score SYMBOL...",
		Short: "Score one or more symbols and print the reports",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			failed := 0
			for _, arg := range args {
				symbol := strings.ToUpper(arg)
				report, err := a.evaluator.Evaluate(cmd.Context(), symbol)
				if err != nil {
					log.Error().Err(err).Str("symbol", symbol).Msg("evaluation failed")
					failed++
					continue
				}
				if err := printJSON(cmd.OutOrStdout(), report); err != nil {
					return err
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d evaluations failed", failed, len(args))
			}
			return nil
		},
	}
}

func indicesCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "indices",
		Short: "Print the reference index snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printJSON(cmd.OutOrStdout(), get().market.Snapshot(cmd.Context()))
		},
	}
}

func newsCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "news [QUERY]",
		Short: "Print recent headlines for a query (default: the market query)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			if a.news == nil {
				return errors.New("news is disabled")
			}
			query := strings.Join(args, " ")
			if query == "" {
				query = a.cfg.News.MarketQuery
			}
			return printJSON(cmd.OutOrStdout(), a.news.Search(cmd.Context(), query))
		},
	}
}

func chartCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chart SYMBOL",
		Short: "Print chart candles for a symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			points, err := get().collector.Chart(cmd.Context(), strings.ToUpper(args[0]))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), points)
		},
	}
}

func watchCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Poll the watchlist on schedule and serve the dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return watch(ctx, get())
		},
	}
}

func watch(ctx context.Context, a *app) error {
	cfg := a.cfg

	var ns scheduler.NewsSearcher
	if a.news != nil {
		ns = a.news
	}
	sched := scheduler.NewScheduler(ctx, a.evaluator, a.market, ns, scheduler.Options{
		Watchlist:      cfg.Watchlist,
		MaxConcurrency: cfg.Schedule.MaxConcurrency,
		MarketQuery:    cfg.News.MarketQuery,
	})
	if err := sched.Register(cfg.Schedule.PollCron); err != nil {
		return err
	}

	if cfg.TelegramEnabled() {
		tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		sched.Publishers = append(sched.Publishers, notifier.NewAlertPublisher(tn))
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("telegram polling started")
	}

	var srv *server.Server
	if cfg.Server.Addr != "" {
		deps := server.Deps{
			Evaluator:  a.evaluator,
			Market:     a.market,
			Charts:     a.collector,
			Dashboards: sched,
			Metrics:    a.metrics,
		}
		if a.news != nil {
			deps.News = a.news
		}
		srv = server.New(cfg.Server.Addr, deps)
		sched.Publishers = append(sched.Publishers, srv.Hub())
		go func() {
			if err := srv.Start(); err != nil {
				log.Error().Err(err).Msg("http server stopped")
			}
		}()
	}

	sched.Poll(ctx)
	sched.Start()
	log.Info().Msg("monitor is running, press Ctrl+C to stop")

	<-ctx.Done()
	log.Info().Msg("shutdown signal received, stopping")
	sched.Stop()
	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http server shutdown")
		}
	}
	return nil
}

var (
	_ scheduler.Publisher    = (*server.Hub)(nil)
	_ scheduler.Publisher    = (*notifier.AlertPublisher)(nil)
	_ server.DashboardSource = (*scheduler.Scheduler)(nil)
)
