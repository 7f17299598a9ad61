package collector

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"AssetTracker/internal/model"
)

// Collector turns raw quote-source data into per-asset series, joined
// tables and metrics tiles.
type Collector struct {
	Source   QuoteSource
	Registry *model.Registry
	// Concurrency caps parallel per-asset calls; zero means unlimited.
	Concurrency int
	Now         func() time.Time
}

// NewCollector creates a new Collector.
func NewCollector(source QuoteSource, registry *model.Registry) *Collector {
	return &Collector{Source: source, Registry: registry, Now: time.Now}
}

func (c *Collector) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// FetchSeries returns the closing-price history of one asset for period.
// Unknown assets and periods without data give an empty series, not an
// error. Transport failures are returned.
func (c *Collector) FetchSeries(ctx context.Context, name string, period model.Period) (model.Series, error) {
	s := model.Series{Asset: name}
	asset, ok := c.Registry.Lookup(name)
	if !ok {
		return s, nil
	}
	bars, err := c.Source.History(ctx, asset.Ticker, period)
	if err != nil {
		return s, fmt.Errorf("fetch %s history: %w", name, err)
	}
	s.Points = toPoints(bars)
	return s, nil
}

// toPoints strips the zone from every bar, orders by day and keeps the last
// close seen for a day.
func toPoints(bars []model.Bar) []model.PricePoint {
	if len(bars) == 0 {
		return nil
	}
	points := make([]model.PricePoint, 0, len(bars))
	for _, b := range bars {
		if math.IsNaN(b.Close) || math.IsInf(b.Close, 0) {
			continue
		}
		points = append(points, model.PricePoint{Time: model.NaiveDate(b.Time), Price: b.Close})
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Time.Before(points[j].Time) })

	out := points[:0]
	for _, p := range points {
		if n := len(out); n > 0 && out[n-1].Time.Equal(p.Time) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return out
}
