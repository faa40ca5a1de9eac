package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"MarketMonitor/internal/model"
	"MarketMonitor/internal/news"
	"MarketMonitor/internal/notifier"
)

// Evaluator scores one instrument.
type Evaluator interface {
	Evaluate(ctx context.Context, symbol string) (*model.ScoreReport, error)
}

// MarketSnapshot quotes the reference indices.
type MarketSnapshot interface {
	Snapshot(ctx context.Context) []model.IndexQuote
}

// NewsSearcher fetches headlines for a query.
type NewsSearcher interface {
	Search(ctx context.Context, query string) []model.NewsItem
}

// Options configures the poll.
type Options struct {
	Watchlist      []string
	MaxConcurrency int
	MarketQuery    string
}

// Scheduler runs the watchlist poll on a cron schedule.
type Scheduler struct {
	Cron       *cron.Cron
	Evaluator  Evaluator
	Market     MarketSnapshot
	News       NewsSearcher // nil disables headlines
	Publishers []Publisher
	Ctx        context.Context

	opts   Options
	latest atomic.Pointer[model.Dashboard]
	now    func() time.Time
}

// NewScheduler creates a new Scheduler. Overlapping polls are skipped.
func NewScheduler(ctx context.Context, ev Evaluator, mkt MarketSnapshot, ns NewsSearcher, opts Options, pubs ...Publisher) *Scheduler {
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = 4
	}
	logger := cron.PrintfLogger(&log.Logger)
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		Evaluator:  ev,
		Market:     mkt,
		News:       ns,
		Publishers: pubs,
		Ctx:        ctx,
		opts:       opts,
		now:        time.Now,
	}
}

// Register schedules the poll with a six-field cron expression.
func (s *Scheduler) Register(pollCron string) error {
	if _, err := s.Cron.AddFunc(pollCron, s.pollTask); err != nil {
		return fmt.Errorf("register poll task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Strs("watchlist", s.opts.Watchlist).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running poll to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// Latest returns the most recent dashboard, or nil before the first poll.
func (s *Scheduler) Latest() *model.Dashboard {
	return s.latest.Load()
}

func (s *Scheduler) pollTask() {
	s.Poll(s.Ctx)
}

// Poll evaluates the watchlist, builds a new dashboard, stores it as the
// latest and hands it to every publisher.
func (s *Scheduler) Poll(ctx context.Context) *model.Dashboard {
	start := s.now()
	d := &model.Dashboard{
		GeneratedAt: start,
		Symbols:     make([]model.SymbolView, len(s.opts.Watchlist)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.MaxConcurrency)

	g.Go(func() error {
		d.Indices = s.Market.Snapshot(gctx)
		return nil
	})
	if s.News != nil && s.opts.MarketQuery != "" {
		g.Go(func() error {
			d.MarketNews = s.News.Search(gctx, s.opts.MarketQuery)
			return nil
		})
	}
	for i, symbol := range s.opts.Watchlist {
		g.Go(func() error {
			d.Symbols[i] = s.view(gctx, symbol)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, v := range d.Symbols {
		if v.Report == nil {
			failed++
		}
	}
	log.Info().Int("symbols", len(d.Symbols)).Int("failed", failed).Int("indices", len(d.Indices)).
		Dur("took", s.now().Sub(start)).Msg("poll complete")

	s.latest.Store(d)
	for _, p := range s.Publishers {
		if err := p.Publish(ctx, d); err != nil {
			log.Error().Err(err).Msg("publish dashboard")
		}
	}
	return d
}

func (s *Scheduler) view(ctx context.Context, symbol string) model.SymbolView {
	v := model.SymbolView{Symbol: symbol}
	report, err := s.Evaluator.Evaluate(ctx, symbol)
	if err != nil {
		log.Error().Err(err).Str("symbol", symbol).Msg("evaluation failed")
		v.Error = err.Error()
	} else {
		v.Report = report
	}
	if s.News != nil {
		v.News = s.News.Search(ctx, news.SymbolQuery(symbol))
	}
	return v
}

const helpText = "Commands:\n• /score SYMBOL\n• /indices\n• /news QUERY"

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	arg := strings.TrimSpace(strings.TrimPrefix(command, fields[0]))

	switch strings.ToLower(fields[0]) {
	case "/score":
		if arg == "" {
			return "Usage: /score SYMBOL"
		}
		symbol := strings.ToUpper(arg)
		report, err := s.Evaluator.Evaluate(ctx, symbol)
		if err != nil {
			return notifier.FormatEvaluationError(symbol, err)
		}
		return notifier.FormatReport(report)
	case "/indices":
		return notifier.FormatIndices(s.Market.Snapshot(ctx))
	case "/news":
		if s.News == nil {
			return "News is disabled"
		}
		if arg == "" {
			arg = s.opts.MarketQuery
		}
		return notifier.FormatNews(arg, s.News.Search(ctx, arg))
	default:
		return helpText
	}
}
