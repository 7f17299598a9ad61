package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"AssetTracker/internal/cache"
	"AssetTracker/internal/calculator"
	"AssetTracker/internal/model"
	"AssetTracker/internal/notifier"
	"AssetTracker/internal/recorder"

	"github.com/robfig/cron/v3"
)

// MetricsSource resolves the summary tiles of every registered asset.
type MetricsSource interface {
	AllMetrics(ctx context.Context) []model.Metrics
}

// Sender delivers a message to the operator. A nil Sender disables
// notifications.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron     *cron.Cron
	Tables   cache.Joiner
	Metrics  MetricsSource
	Registry *model.Registry
	Notifier Sender
	Recorder recorder.Recorder
	Period   model.Period
	Ctx      context.Context
	Now      func() time.Time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, tables cache.Joiner, metrics MetricsSource, reg *model.Registry, sender Sender, rec recorder.Recorder, period model.Period) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Tables:   tables,
		Metrics:  metrics,
		Registry: reg,
		Notifier: sender,
		Recorder: rec,
		Period:   period,
		Ctx:      ctx,
		Now:      time.Now,
	}
}

// RegisterAll registers the refresh task and, when a notifier is present,
// the metrics digest.
func (s *Scheduler) RegisterAll(refreshCron, digestCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	if s.Notifier != nil && digestCron != "" {
		if _, err := s.Cron.AddFunc(digestCron, s.digestTask); err != nil {
			return fmt.Errorf("register digest task: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

func (s *Scheduler) refreshTask() {
	if _, err := s.RefreshNow(s.Ctx); err != nil {
		log.Printf("[ERROR] refresh: %v", err)
	}
}

// RefreshNow joins every registered asset for the default period through
// the cache and records the run.
func (s *Scheduler) RefreshNow(ctx context.Context) (*recorder.RefreshEvent, error) {
	names := s.Registry.Names()
	started := s.Now()
	log.Printf("[INFO] refreshing %d assets for %s", len(names), s.Period)

	table, err := s.Tables.JoinAssets(ctx, names, s.Period)
	evt := &recorder.RefreshEvent{
		StartedAt: started,
		Duration:  s.Now().Sub(started),
		Period:    string(s.Period),
		Requested: names,
	}
	if err != nil {
		evt.Err = err.Error()
		s.trySend(ctx, notifier.FormatRefreshFailure(s.Period, started, err))
	} else {
		evt.Returned = table.Columns
		evt.Rows = len(table.Rows)
		log.Printf("[INFO] refresh done: %d columns, %d rows in %v", len(table.Columns), len(table.Rows), evt.Duration)
	}

	if rerr := s.Recorder.RecordRefresh(evt); rerr != nil {
		log.Printf("[ERROR] record refresh: %v", rerr)
	}
	return evt, err
}

func (s *Scheduler) digestTask() {
	log.Println("[INFO] sending metrics digest")
	s.trySend(s.Ctx, s.pricesReply(s.Ctx))
}

func (s *Scheduler) pricesReply(ctx context.Context) string {
	return notifier.FormatMetricsDigest(s.Metrics.AllMetrics(ctx), s.Now())
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.FormatHelp()
	}
	switch fields[0] {
	case "/prices":
		return s.pricesReply(ctx)
	case "/ratio":
		return s.ratioReply(ctx, fields[1:])
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) ratioReply(ctx context.Context, args []string) string {
	if len(args) < 2 || len(args) > 3 {
		return "Usage: /ratio &lt;num&gt; &lt;den&gt; [period]"
	}
	num, ok := s.resolve(args[0])
	if !ok {
		return fmt.Sprintf("Unknown asset %q. Known: %s", args[0], strings.Join(s.Registry.Names(), ", "))
	}
	den, ok := s.resolve(args[1])
	if !ok {
		return fmt.Sprintf("Unknown asset %q. Known: %s", args[1], strings.Join(s.Registry.Names(), ", "))
	}
	period := s.Period
	if len(args) == 3 {
		p, err := model.ParsePeriod(args[2])
		if err != nil {
			return err.Error()
		}
		period = p
	}
	if num == den {
		return calculator.ErrSameAsset.Error()
	}

	table, err := s.Tables.JoinAssets(ctx, []string{num, den}, period)
	if err != nil {
		log.Printf("[ERROR] ratio %s/%s: %v", num, den, err)
		return "❌ Failed to fetch prices, try again later."
	}
	series, summary, err := calculator.Analyze(table, num, den)
	if errors.Is(err, calculator.ErrSameAsset) {
		return err.Error()
	}
	if err != nil {
		return "❌ " + err.Error()
	}
	return notifier.FormatRatio(series, summary, period)
}

// resolve matches an asset name case-insensitively.
func (s *Scheduler) resolve(name string) (string, bool) {
	if _, ok := s.Registry.Lookup(name); ok {
		return name, true
	}
	for _, n := range s.Registry.Names() {
		if strings.EqualFold(n, name) {
			return n, true
		}
	}
	return "", false
}

func (s *Scheduler) trySend(ctx context.Context, text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
