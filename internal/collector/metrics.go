package collector

import (
	"context"
	"fmt"
	"log"

	"AssetTracker/internal/calculator"
	"AssetTracker/internal/model"

	"golang.org/x/sync/errgroup"
)

// ShortHistory is the lookback used when the fast quote is unusable.
const ShortHistory model.Period = "5d"

type tier func(ctx context.Context, asset model.Asset) model.TierOutcome

// ResolveMetrics returns price, change and percent change for one asset.
// It tries the fast quote, then the last two closes of a short history, and
// finally settles on a zero tile. It never fails.
func (c *Collector) ResolveMetrics(ctx context.Context, name string) model.Metrics {
	asset, ok := c.Registry.Lookup(name)
	if !ok {
		return model.Metrics{Asset: name, Tier: model.TierDefault}
	}
	for _, run := range []tier{c.fastQuoteTier, c.historyTier} {
		out := runTier(ctx, run, asset)
		if out.OK {
			out.Metrics.Asset = name
			return out.Metrics
		}
		log.Printf("[WARN] metrics %s: %s", name, out.Reason)
	}
	return model.Metrics{Asset: name, Tier: model.TierDefault}
}

// runTier converts a panicking source into a failed tier.
func runTier(ctx context.Context, run tier, asset model.Asset) (out model.TierOutcome) {
	defer func() {
		if rec := recover(); rec != nil {
			out = model.Failed(fmt.Sprintf("panic: %v", rec))
		}
	}()
	return run(ctx, asset)
}

func (c *Collector) fastQuoteTier(ctx context.Context, asset model.Asset) model.TierOutcome {
	q, err := c.Source.FastQuote(ctx, asset.Ticker)
	if err != nil {
		return model.Failed(fmt.Sprintf("fast quote: %v", err))
	}
	if !q.HasLastPrice || !q.HasPreviousClose {
		return model.Failed("fast quote: missing last price or previous close")
	}
	// A zero last price is treated as unusable, like a missing one.
	if q.LastPrice == 0 || q.PreviousClose == 0 {
		return model.Failed("fast quote: zero last price or previous close")
	}
	change, pct := calculator.Change(q.LastPrice, q.PreviousClose)
	return model.Ok(model.Metrics{Price: q.LastPrice, Change: change, PercentChange: pct, Tier: model.TierFastQuote})
}

func (c *Collector) historyTier(ctx context.Context, asset model.Asset) model.TierOutcome {
	bars, err := c.Source.History(ctx, asset.Ticker, ShortHistory)
	if err != nil {
		return model.Failed(fmt.Sprintf("short history: %v", err))
	}
	// An intraday tail row shares today's date with the daily bar.
	points := toPoints(bars)
	switch n := len(points); {
	case n == 0:
		return model.Failed("short history: no rows")
	case n == 1:
		return model.Ok(model.Metrics{Price: points[0].Price, Tier: model.TierHistory})
	default:
		current, previous := points[n-1].Price, points[n-2].Price
		change, pct := calculator.Change(current, previous)
		return model.Ok(model.Metrics{Price: current, Change: change, PercentChange: pct, Tier: model.TierHistory})
	}
}

// MetricsFor resolves several assets in parallel, keeping input order.
func (c *Collector) MetricsFor(ctx context.Context, names []string) []model.Metrics {
	out := make([]model.Metrics, len(names))
	// Tiers never fail; the group only caps concurrency.
	var g errgroup.Group
	if c.Concurrency > 0 {
		g.SetLimit(c.Concurrency)
	}
	for i, name := range names {
		g.Go(func() error {
			out[i] = c.ResolveMetrics(ctx, name)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// AllMetrics resolves every registered asset in display order.
func (c *Collector) AllMetrics(ctx context.Context) []model.Metrics {
	return c.MetricsFor(ctx, c.Registry.Names())
}
